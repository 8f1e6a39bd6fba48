package memory

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/moderncrm/crm-api/internal/core/domain"
)

// AuthRepository is the in-memory credential store. Emails are matched
// exactly as stored.
type AuthRepository struct {
	mu      sync.RWMutex
	byID    map[string]*domain.User
	byEmail map[string]*domain.User
}

func NewAuthRepository() *AuthRepository {
	return &AuthRepository{
		byID:    make(map[string]*domain.User),
		byEmail: make(map[string]*domain.User),
	}
}

func cloneUser(u *domain.User) *domain.User {
	clone := *u
	return &clone
}

// Create stores user, assigning an id when it has none. The uniqueness check
// and the insert are a single critical section.
func (r *AuthRepository) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byEmail[user.Email]; exists {
		return nil, domain.ErrUserExists
	}

	stored := cloneUser(user)
	if stored.ID == "" {
		id, err := uuid.NewV7()
		if err != nil {
			return nil, err
		}
		stored.ID = id.String()
	}
	if _, exists := r.byID[stored.ID]; exists {
		return nil, domain.ErrUserExists
	}

	r.byID[stored.ID] = stored
	r.byEmail[stored.Email] = stored
	return cloneUser(stored), nil
}

func (r *AuthRepository) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byEmail[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *AuthRepository) FindByID(_ context.Context, id string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}
