package ports

import (
	"context"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
)

// EnrollmentRepository owns the course catalog and the enrollment facts.
// Implementations must back CreateCourse and CreateEnrollment with a
// uniqueness constraint and report violations as ErrDuplicateCourse and
// ErrAlreadyRegistered, so two callers racing on the same key cannot
// both insert.
type EnrollmentRepository interface {
	CreateCourse(ctx context.Context, course domain.Course) error
	FindCourse(ctx context.Context, courseID string) (*domain.Course, error)

	CreateEnrollment(ctx context.Context, enrollment domain.Enrollment) error
	EnrollmentExists(ctx context.Context, studentID, courseID string) (bool, error)
	CoursesForStudent(ctx context.Context, studentID string) ([]domain.Course, error)
	StudentIDsForCourse(ctx context.Context, courseID string) ([]string, error)
}
