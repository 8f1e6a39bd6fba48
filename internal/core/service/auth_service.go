package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/core/ports"
	"github.com/moderncrm/crm-api/internal/pkg/metrics"
	"github.com/moderncrm/crm-api/internal/pkg/security"
)

// AuthService implements registration, login and profile lookup.
type AuthService struct {
	repo     ports.AuthRepository
	tokens   ports.TokenIssuer
	activity ports.ActivityRecorder
	logger   zerolog.Logger
	now      func() time.Time
	compare  func(hash, plain string) (bool, error)
}

func NewAuthService(repo ports.AuthRepository, tokens ports.TokenIssuer, activity ports.ActivityRecorder, logger zerolog.Logger) *AuthService {
	return &AuthService{
		repo:     repo,
		tokens:   tokens,
		activity: activity,
		logger:   logger,
		now:      time.Now,
		compare:  security.CheckPassword,
	}
}

// Register creates a User-role account and signs it in.
func (s *AuthService) Register(ctx context.Context, name, email, password string) (*ports.AuthResult, error) {
	name = strings.TrimSpace(name)
	var missing []string
	if name == "" {
		missing = append(missing, "name is required")
	}
	if email == "" {
		missing = append(missing, "email is required")
	}
	if password == "" {
		missing = append(missing, "password is required")
	}
	if len(password) > security.MaxPasswordBytes {
		missing = append(missing, "password must be at most 72 bytes")
	}
	if len(missing) > 0 {
		return nil, domain.NewValidationError(missing...)
	}

	// cheap pre-check so a taken email does not pay for a bcrypt hash;
	// the repository re-checks atomically on insert
	if _, err := s.repo.FindByEmail(ctx, email); err == nil {
		metrics.AuthAttemptsTotal.WithLabelValues("register", "duplicate").Inc()
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: %w", err)
	}

	hash, err := security.HashPassword(password)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, domain.NewValidationError("password must be at most 72 bytes")
	}
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		Role:         domain.RoleUser,
		Avatar:       domain.AvatarFor(name),
		CreatedAt:    s.now().UTC(),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			metrics.AuthAttemptsTotal.WithLabelValues("register", "duplicate").Inc()
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	token, err := s.tokens.Issue(created)
	if err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("register", "success").Inc()
	s.logger.Info().Str("user_id", created.ID).Msg("user registered")
	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityUserRegistered,
		EntityID: created.ID,
		ActorID:  created.ID,
		Summary:  created.Name,
		At:       s.now().UTC(),
	})

	return &ports.AuthResult{Token: token, User: created}, nil
}

// Login checks credentials. Unknown email and wrong password are
// indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*ports.AuthResult, error) {
	if email == "" || password == "" {
		return nil, domain.NewValidationError("email and password are required")
	}

	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			// match the cost of a known-email comparison
			_, _ = s.compare(security.DummyHash(), password)
			metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
			return nil, domain.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("login: %w", err)
	}

	ok, err := s.compare(user.PasswordHash, password)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}
	if !ok {
		metrics.AuthAttemptsTotal.WithLabelValues("login", "failure").Inc()
		return nil, domain.ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(user)
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	metrics.AuthAttemptsTotal.WithLabelValues("login", "success").Inc()
	s.activity.Record(domain.ActivityEvent{
		Kind:     domain.ActivityUserLoggedIn,
		EntityID: user.ID,
		ActorID:  user.ID,
		At:       s.now().UTC(),
	})

	return &ports.AuthResult{Token: token, User: user}, nil
}

// Profile returns the stored record of the token's user.
func (s *AuthService) Profile(ctx context.Context, userID string) (*domain.User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("profile: %w", err)
	}
	return user, nil
}
