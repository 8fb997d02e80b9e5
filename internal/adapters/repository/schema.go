package repository

import (
	"database/sql"
	"fmt"
)

// InitSchema creates the catalog and enrollment tables. The uniqueness
// constraints here are what keep concurrent check-then-act sequences
// correct; everything above them is just a friendlier error path.
func InitSchema(db *sql.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS courses (
			course_id   VARCHAR(255) PRIMARY KEY,
			course_name VARCHAR(100) NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS enrollments (
			student_id VARCHAR(255) NOT NULL,
			course_id  VARCHAR(255) NOT NULL REFERENCES courses(course_id),
			created_at TIMESTAMP WITH TIME ZONE DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (student_id, course_id)
		);`,
		`CREATE INDEX IF NOT EXISTS idx_enrollments_course_id ON enrollments(course_id);`,
	}

	for _, stmt := range statements {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to initialize schema: %w", err)
		}
	}
	return nil
}
