package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
	"github.com/whiteboard/enrollment-service/internal/core/ports"
)

// pq error code for a violated unique constraint.
const uniqueViolation = "23505"

type SQLEnrollmentRepository struct {
	db *sql.DB
}

var _ ports.EnrollmentRepository = (*SQLEnrollmentRepository)(nil)

func NewSQLEnrollmentRepository(db *sql.DB) *SQLEnrollmentRepository {
	return &SQLEnrollmentRepository{db: db}
}

// CreateCourse inserts a catalog entry. The primary key on course_id is
// the authoritative duplicate guard; a constraint hit comes back as
// ErrDuplicateCourse regardless of which caller lost the race.
func (r *SQLEnrollmentRepository) CreateCourse(ctx context.Context, course domain.Course) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO courses (course_id, course_name) VALUES ($1, $2)",
		course.ID,
		course.Name,
	)
	if isUniqueViolation(err) {
		return domain.ErrDuplicateCourse
	}
	return err
}

func (r *SQLEnrollmentRepository) FindCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	var course domain.Course
	err := r.db.QueryRowContext(ctx,
		"SELECT course_id, course_name FROM courses WHERE course_id = $1",
		courseID,
	).Scan(&course.ID, &course.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &course, nil
}

// CreateEnrollment inserts the (student, course) fact. The unique
// constraint on the pair decides concurrent registrations: exactly one
// insert wins, the rest surface ErrAlreadyRegistered.
func (r *SQLEnrollmentRepository) CreateEnrollment(ctx context.Context, enrollment domain.Enrollment) error {
	_, err := r.db.ExecContext(ctx,
		"INSERT INTO enrollments (student_id, course_id, created_at) VALUES ($1, $2, $3)",
		enrollment.StudentID,
		enrollment.CourseID,
		enrollment.CreatedAt,
	)
	if isUniqueViolation(err) {
		return domain.ErrAlreadyRegistered
	}
	return err
}

func (r *SQLEnrollmentRepository) EnrollmentExists(ctx context.Context, studentID, courseID string) (bool, error) {
	var exists bool
	err := r.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM enrollments WHERE student_id = $1 AND course_id = $2)",
		studentID,
		courseID,
	).Scan(&exists)
	if err != nil {
		return false, err
	}
	return exists, nil
}

func (r *SQLEnrollmentRepository) CoursesForStudent(ctx context.Context, studentID string) ([]domain.Course, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT c.course_id, c.course_name
         FROM enrollments e
         JOIN courses c ON c.course_id = e.course_id
         WHERE e.student_id = $1
         ORDER BY c.course_id`,
		studentID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	courses := make([]domain.Course, 0)
	for rows.Next() {
		var course domain.Course
		if err := rows.Scan(&course.ID, &course.Name); err != nil {
			return nil, err
		}
		courses = append(courses, course)
	}
	return courses, rows.Err()
}

func (r *SQLEnrollmentRepository) StudentIDsForCourse(ctx context.Context, courseID string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT student_id FROM enrollments WHERE course_id = $1 ORDER BY created_at",
		courseID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}
