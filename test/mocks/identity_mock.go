// Package mocks provides in-memory implementations of the port
// interfaces so the core services can be tested without a database or a
// running identity service.
package mocks

import (
	"context"
	"sync"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
	"github.com/whiteboard/enrollment-service/internal/core/ports"
)

// MockIdentityProvider implements ports.IdentityProvider over a map of
// seeded identities. Error fields inject failures per method.
type MockIdentityProvider struct {
	mu sync.RWMutex

	users  map[string]*domain.Identity // keyed by email
	claims map[string]map[string]string

	FindByEmailCalls []string
	DeleteCalls      []string
	CreatedUsers     []ports.NewUser

	FindByEmailError error
	CreateUserError  error
	UsersInRoleError error
	ClaimsError      error
	DeleteError      error
}

var _ ports.IdentityProvider = (*MockIdentityProvider)(nil)

func NewMockIdentityProvider() *MockIdentityProvider {
	return &MockIdentityProvider{
		users:  make(map[string]*domain.Identity),
		claims: make(map[string]map[string]string),
	}
}

// SeedUser adds an identity for test setup.
func (m *MockIdentityProvider) SeedUser(ident domain.Identity) {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := ident
	m.users[ident.Email] = &copied
}

// SeedClaims attaches claims to a user id.
func (m *MockIdentityProvider) SeedClaims(userID string, claims map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.claims[userID] = claims
}

func (m *MockIdentityProvider) FindByEmail(ctx context.Context, email string) (*domain.Identity, error) {
	m.mu.Lock()
	m.FindByEmailCalls = append(m.FindByEmailCalls, email)
	m.mu.Unlock()

	if m.FindByEmailError != nil {
		return nil, m.FindByEmailError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	ident, ok := m.users[email]
	if !ok {
		return nil, nil
	}
	copied := *ident
	return &copied, nil
}

func (m *MockIdentityProvider) CreateUser(ctx context.Context, user ports.NewUser) (*domain.Identity, error) {
	if m.CreateUserError != nil {
		return nil, m.CreateUserError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.CreatedUsers = append(m.CreatedUsers, user)
	ident := &domain.Identity{
		ID:       "user-" + user.Email,
		Email:    user.Email,
		FullName: user.FullName,
		Role:     domain.Role(user.Role),
		Course:   user.Course,
	}
	m.users[user.Email] = ident
	copied := *ident
	return &copied, nil
}

func (m *MockIdentityProvider) UsersInRole(ctx context.Context, role domain.Role) ([]domain.Identity, error) {
	if m.UsersInRoleError != nil {
		return nil, m.UsersInRoleError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	idents := make([]domain.Identity, 0)
	for _, ident := range m.users {
		if ident.Role == role {
			idents = append(idents, *ident)
		}
	}
	return idents, nil
}

func (m *MockIdentityProvider) Claims(ctx context.Context, userID string) (map[string]string, error) {
	if m.ClaimsError != nil {
		return nil, m.ClaimsError
	}

	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.claims[userID], nil
}

func (m *MockIdentityProvider) Delete(ctx context.Context, email string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.DeleteCalls = append(m.DeleteCalls, email)
	if m.DeleteError != nil {
		return m.DeleteError
	}
	delete(m.users, email)
	return nil
}
