package ports

import (
	"context"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// AuthRepository is the credential store.
// Create must fail with domain.ErrUserExists when the email is already taken.
type AuthRepository interface {
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
	FindByID(ctx context.Context, id string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) (*domain.User, error)
}
