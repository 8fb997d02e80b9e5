package domain

import "time"

// Course is a catalog entry. The ID is caller-supplied and immutable;
// courses are never updated or deleted.
type Course struct {
	ID   string `json:"course_id"`
	Name string `json:"course_name"`
}

// Enrollment links one student identity to one course. The
// (StudentID, CourseID) pair is unique; an enrollment is never mutated
// or deleted once created.
type Enrollment struct {
	StudentID string    `json:"student_id"`
	CourseID  string    `json:"course_id"`
	CreatedAt time.Time `json:"created_at"`
}

// StudentRow is the projection handed to listings and the roster exporter.
type StudentRow struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// ProfessorRow additionally carries the professor's assigned course.
type ProfessorRow struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Course   string `json:"course"`
}
