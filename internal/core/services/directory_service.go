package services

import (
	"context"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
	"github.com/whiteboard/enrollment-service/internal/core/ports"
)

// DirectoryService passes role listings, user registration and student
// deletion through to the identity provider. The only invariant it adds
// is that nothing but a Student may be deleted through this path.
type DirectoryService struct {
	identity ports.IdentityProvider
}

var _ ports.DirectoryService = (*DirectoryService)(nil)

func NewDirectoryService(identity ports.IdentityProvider) *DirectoryService {
	return &DirectoryService{identity: identity}
}

func (s *DirectoryService) RegisterUser(ctx context.Context, user ports.NewUser) (*domain.Identity, error) {
	created, err := s.identity.CreateUser(ctx, user)
	if err != nil {
		return nil, domain.UpstreamError("user creation failed", err)
	}
	return created, nil
}

func (s *DirectoryService) ListStudents(ctx context.Context) ([]domain.StudentRow, error) {
	students, err := s.identity.UsersInRole(ctx, domain.RoleStudent)
	if err != nil {
		return nil, domain.UpstreamError("identity listing failed", err)
	}

	rows := make([]domain.StudentRow, 0, len(students))
	for _, student := range students {
		rows = append(rows, domain.StudentRow{Email: student.Email, FullName: student.FullName})
	}
	return rows, nil
}

func (s *DirectoryService) ListProfessors(ctx context.Context) ([]domain.ProfessorRow, error) {
	professors, err := s.identity.UsersInRole(ctx, domain.RoleProfessor)
	if err != nil {
		return nil, domain.UpstreamError("identity listing failed", err)
	}

	rows := make([]domain.ProfessorRow, 0, len(professors))
	for _, professor := range professors {
		course := professor.Course
		if course == "" {
			// Older identity records keep the assignment in a claim
			// instead of the profile attribute.
			claims, err := s.identity.Claims(ctx, professor.ID)
			if err == nil {
				course = claims["course"]
			}
		}
		rows = append(rows, domain.ProfessorRow{
			Email:    professor.Email,
			FullName: professor.FullName,
			Course:   course,
		})
	}
	return rows, nil
}

// DeleteStudent removes a Student identity through the provider. A
// Professor or Admin email is rejected before any mutation; a provider
// rejection is propagated with its own detail attached.
func (s *DirectoryService) DeleteStudent(ctx context.Context, email string) error {
	student, err := s.identity.FindByEmail(ctx, email)
	if err != nil {
		return domain.UpstreamError("identity lookup failed", err)
	}
	if student == nil {
		return domain.ErrStudentNotFound
	}
	if student.Role != domain.RoleStudent {
		return domain.ErrNotAStudent
	}

	if err := s.identity.Delete(ctx, email); err != nil {
		return domain.UpstreamError("deletion failed", err)
	}
	return nil
}
