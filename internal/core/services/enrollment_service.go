package services

import (
	"context"
	"time"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
	"github.com/whiteboard/enrollment-service/internal/core/ports"
)

// EnrollmentService owns the course catalog and the enrollment facts.
// It is the sole mutator of both; identity records are only read through
// the injected provider.
type EnrollmentService struct {
	repo     ports.EnrollmentRepository
	identity ports.IdentityProvider
}

var _ ports.EnrollmentService = (*EnrollmentService)(nil)

func NewEnrollmentService(repo ports.EnrollmentRepository, identity ports.IdentityProvider) *EnrollmentService {
	return &EnrollmentService{repo: repo, identity: identity}
}

// AddCourse inserts a catalog entry. The existence pre-check gives a
// friendlier error; the repository's uniqueness constraint is the
// authoritative guard under concurrent callers.
func (s *EnrollmentService) AddCourse(ctx context.Context, courseID, courseName string) error {
	existing, err := s.repo.FindCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if existing != nil {
		return domain.ErrDuplicateCourse
	}
	return s.repo.CreateCourse(ctx, domain.Course{ID: courseID, Name: courseName})
}

// RegisterStudent enrolls the student with the given email into a course.
// The duplicate pre-check is an optimization; the unique
// (student_id, course_id) constraint decides races.
func (s *EnrollmentService) RegisterStudent(ctx context.Context, studentEmail, courseID string) error {
	student, err := s.identity.FindByEmail(ctx, studentEmail)
	if err != nil {
		return domain.UpstreamError("identity lookup failed", err)
	}
	if student == nil {
		return domain.ErrStudentNotFound
	}
	if student.Role != domain.RoleStudent {
		return domain.ErrNotAStudent
	}

	course, err := s.repo.FindCourse(ctx, courseID)
	if err != nil {
		return err
	}
	if course == nil {
		return domain.ErrInvalidCourse
	}

	exists, err := s.repo.EnrollmentExists(ctx, student.ID, courseID)
	if err != nil {
		return err
	}
	if exists {
		return domain.ErrAlreadyRegistered
	}

	return s.repo.CreateEnrollment(ctx, domain.Enrollment{
		StudentID: student.ID,
		CourseID:  courseID,
		CreatedAt: time.Now(),
	})
}

// ListCoursesForStudent projects the student's enrollments onto the
// catalog. An unenrolled student gets an empty slice, never an error.
func (s *EnrollmentService) ListCoursesForStudent(ctx context.Context, studentID string) ([]domain.Course, error) {
	return s.repo.CoursesForStudent(ctx, studentID)
}

// ListStudentsForCourse resolves the course's enrollments against the
// identity provider's student listing.
func (s *EnrollmentService) ListStudentsForCourse(ctx context.Context, courseID string) ([]domain.StudentRow, error) {
	ids, err := s.repo.StudentIDsForCourse(ctx, courseID)
	if err != nil {
		return nil, err
	}

	enrolled := make(map[string]bool, len(ids))
	for _, id := range ids {
		enrolled[id] = true
	}

	students, err := s.identity.UsersInRole(ctx, domain.RoleStudent)
	if err != nil {
		return nil, domain.UpstreamError("identity listing failed", err)
	}

	rows := make([]domain.StudentRow, 0, len(ids))
	for _, student := range students {
		if enrolled[student.ID] {
			rows = append(rows, domain.StudentRow{Email: student.Email, FullName: student.FullName})
		}
	}
	return rows, nil
}
