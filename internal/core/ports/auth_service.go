package ports

import (
	"context"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// AuthResult is returned by a successful login or registration.
type AuthResult struct {
	Token string
	User  *domain.User
}

type AuthService interface {
	Register(ctx context.Context, name, email, password string) (*AuthResult, error)
	Login(ctx context.Context, email, password string) (*AuthResult, error)
	Profile(ctx context.Context, userID string) (*domain.User, error)
}
