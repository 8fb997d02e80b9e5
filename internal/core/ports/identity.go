package ports

import (
	"context"

	"github.com/whiteboard/enrollment-service/internal/core/domain"
)

// NewUser is the payload handed to the identity provider on registration.
// Credential handling stays inside the provider.
type NewUser struct {
	Email    string `json:"email"`
	FullName string `json:"full_name"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Course   string `json:"course,omitempty"`
}

// IdentityProvider is the read-mostly contract against the external
// credential store. The enrollment service never touches identity
// records directly.
type IdentityProvider interface {
	// FindByEmail returns (nil, nil) when no identity matches.
	FindByEmail(ctx context.Context, email string) (*domain.Identity, error)
	CreateUser(ctx context.Context, user NewUser) (*domain.Identity, error)
	UsersInRole(ctx context.Context, role domain.Role) ([]domain.Identity, error)
	Claims(ctx context.Context, userID string) (map[string]string, error)
	Delete(ctx context.Context, email string) error
}
