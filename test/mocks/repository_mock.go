package mocks

import (
	"context"
	"sync"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
	"github.com/whiteboard/enrollment-service/internal/core/ports"
)

// MockEnrollmentRepository implements ports.EnrollmentRepository in
// memory. Like the real store, inserts are guarded by uniqueness under a
// single lock, so concurrent registrations race exactly the way they do
// against the database constraint.
type MockEnrollmentRepository struct {
	mu sync.Mutex

	courses     map[string]domain.Course
	enrollments map[string]domain.Enrollment // keyed studentID + "|" + courseID

	CreateCourseError     error
	FindCourseError       error
	CreateEnrollmentError error
}

var _ ports.EnrollmentRepository = (*MockEnrollmentRepository)(nil)

func NewMockEnrollmentRepository() *MockEnrollmentRepository {
	return &MockEnrollmentRepository{
		courses:     make(map[string]domain.Course),
		enrollments: make(map[string]domain.Enrollment),
	}
}

func enrollmentKey(studentID, courseID string) string {
	return studentID + "|" + courseID
}

func (m *MockEnrollmentRepository) CreateCourse(ctx context.Context, course domain.Course) error {
	if m.CreateCourseError != nil {
		return m.CreateCourseError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.courses[course.ID]; ok {
		return domain.ErrDuplicateCourse
	}
	m.courses[course.ID] = course
	return nil
}

func (m *MockEnrollmentRepository) FindCourse(ctx context.Context, courseID string) (*domain.Course, error) {
	if m.FindCourseError != nil {
		return nil, m.FindCourseError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	course, ok := m.courses[courseID]
	if !ok {
		return nil, nil
	}
	return &course, nil
}

func (m *MockEnrollmentRepository) CreateEnrollment(ctx context.Context, enrollment domain.Enrollment) error {
	if m.CreateEnrollmentError != nil {
		return m.CreateEnrollmentError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	key := enrollmentKey(enrollment.StudentID, enrollment.CourseID)
	if _, ok := m.enrollments[key]; ok {
		return domain.ErrAlreadyRegistered
	}
	m.enrollments[key] = enrollment
	return nil
}

func (m *MockEnrollmentRepository) EnrollmentExists(ctx context.Context, studentID, courseID string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	_, ok := m.enrollments[enrollmentKey(studentID, courseID)]
	return ok, nil
}

func (m *MockEnrollmentRepository) CoursesForStudent(ctx context.Context, studentID string) ([]domain.Course, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	courses := make([]domain.Course, 0)
	for _, enrollment := range m.enrollments {
		if enrollment.StudentID == studentID {
			courses = append(courses, m.courses[enrollment.CourseID])
		}
	}
	return courses, nil
}

func (m *MockEnrollmentRepository) StudentIDsForCourse(ctx context.Context, courseID string) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ids := make([]string, 0)
	for _, enrollment := range m.enrollments {
		if enrollment.CourseID == courseID {
			ids = append(ids, enrollment.StudentID)
		}
	}
	return ids, nil
}

// EnrollmentCount reports how many enrollment facts exist, for
// concurrency assertions.
func (m *MockEnrollmentRepository) EnrollmentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.enrollments)
}
