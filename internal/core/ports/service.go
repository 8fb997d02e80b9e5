package ports

import (
	"context"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
)

// EnrollmentService is the course-catalog and registration surface.
type EnrollmentService interface {
	AddCourse(ctx context.Context, courseID, courseName string) error
	RegisterStudent(ctx context.Context, studentEmail, courseID string) error
	ListCoursesForStudent(ctx context.Context, studentID string) ([]domain.Course, error)
	ListStudentsForCourse(ctx context.Context, courseID string) ([]domain.StudentRow, error)
}

// DirectoryService exposes the identity-provider listings and the
// admin-only student deletion.
type DirectoryService interface {
	RegisterUser(ctx context.Context, user NewUser) (*domain.Identity, error)
	ListStudents(ctx context.Context) ([]domain.StudentRow, error)
	ListProfessors(ctx context.Context) ([]domain.ProfessorRow, error)
	DeleteStudent(ctx context.Context, email string) error
}
