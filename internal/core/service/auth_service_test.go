package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/pkg/security"
)

type stubAuthRepo struct {
	users map[string]*domain.User
}

func newStubAuthRepo() *stubAuthRepo {
	return &stubAuthRepo{users: make(map[string]*domain.User)}
}

func cloneUser(u *domain.User) *domain.User {
	if u == nil {
		return nil
	}
	clone := *u
	return &clone
}

func (r *stubAuthRepo) Create(_ context.Context, user *domain.User) (*domain.User, error) {
	if _, exists := r.users[user.Email]; exists {
		return nil, domain.ErrUserExists
	}
	copy := cloneUser(user)
	if copy.ID == "" {
		copy.ID = "u-" + user.Email
	}
	r.users[copy.Email] = cloneUser(copy)
	return cloneUser(copy), nil
}

func (r *stubAuthRepo) FindByEmail(_ context.Context, email string) (*domain.User, error) {
	u, ok := r.users[email]
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	return cloneUser(u), nil
}

func (r *stubAuthRepo) FindByID(_ context.Context, id string) (*domain.User, error) {
	for _, u := range r.users {
		if u.ID == id {
			return cloneUser(u), nil
		}
	}
	return nil, domain.ErrUserNotFound
}

type stubTokens struct {
	err error
}

func (s *stubTokens) Issue(user *domain.User) (string, error) {
	if s.err != nil {
		return "", s.err
	}
	return "token-for-" + user.ID, nil
}

type stubActivity struct {
	mu     sync.Mutex
	events []domain.ActivityEvent
}

func (s *stubActivity) Record(e domain.ActivityEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, e)
}

func (s *stubActivity) kinds() []domain.ActivityKind {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.ActivityKind, len(s.events))
	for i, e := range s.events {
		out[i] = e.Kind
	}
	return out
}

func newAuthSvc(repo *stubAuthRepo) (*AuthService, *stubActivity) {
	act := &stubActivity{}
	return NewAuthService(repo, &stubTokens{}, act, zerolog.Nop()), act
}

func TestAuthService_Register_Success(t *testing.T) {
	svc, act := newAuthSvc(newStubAuthRepo())

	res, err := svc.Register(context.Background(), "alice", "alice@example.com", "pass123")
	if err != nil {
		t.Fatalf("Register returned error: %v", err)
	}
	if res.Token == "" {
		t.Fatalf("expected token on registration")
	}
	user := res.User
	if user.PasswordHash == "pass123" {
		t.Fatalf("expected password to be hashed")
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("pass123")); err != nil {
		t.Fatalf("stored hash does not match password: %v", err)
	}
	if user.Role != domain.RoleUser {
		t.Fatalf("unexpected role: %s", user.Role)
	}
	if user.Avatar != "A" {
		t.Fatalf("expected avatar A, got %q", user.Avatar)
	}
	if user.CreatedAt.IsZero() {
		t.Fatalf("expected createdAt to be set")
	}
	if kinds := act.kinds(); len(kinds) != 1 || kinds[0] != domain.ActivityUserRegistered {
		t.Fatalf("unexpected activity: %v", kinds)
	}
}

func TestAuthService_Register_Validation(t *testing.T) {
	svc, _ := newAuthSvc(newStubAuthRepo())

	cases := []struct{ name, email, password string }{
		{"", "a@example.com", "pass"},
		{"   ", "a@example.com", "pass"},
		{"bob", "", "pass"},
		{"bob", "bob@example.com", ""},
	}
	for _, tc := range cases {
		_, err := svc.Register(context.Background(), tc.name, tc.email, tc.password)
		if !errors.Is(err, domain.ErrValidation) {
			t.Fatalf("%+v: expected ErrValidation, got %v", tc, err)
		}
	}
}

func TestAuthService_Register_PasswordLength(t *testing.T) {
	svc, _ := newAuthSvc(newStubAuthRepo())

	tooLong := strings.Repeat("p", security.MaxPasswordBytes+1)
	if _, err := svc.Register(context.Background(), "erin", "erin@example.com", tooLong); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation for %d bytes, got %v", len(tooLong), err)
	}

	longest := strings.Repeat("p", security.MaxPasswordBytes)
	if _, err := svc.Register(context.Background(), "erin", "erin@example.com", longest); err != nil {
		t.Fatalf("register with %d bytes: %v", len(longest), err)
	}
	if _, err := svc.Login(context.Background(), "erin@example.com", longest); err != nil {
		t.Fatalf("login with %d bytes: %v", len(longest), err)
	}
}

func TestAuthService_Register_Duplicate(t *testing.T) {
	svc, _ := newAuthSvc(newStubAuthRepo())

	_, _ = svc.Register(context.Background(), "bob", "bob@example.com", "pass")
	if _, err := svc.Register(context.Background(), "bob", "bob@example.com", "pass2"); !errors.Is(err, domain.ErrUserExists) {
		t.Fatalf("expected ErrUserExists, got %v", err)
	}
}

func TestAuthService_Register_TokenFailure(t *testing.T) {
	svc := NewAuthService(newStubAuthRepo(), &stubTokens{err: errors.New("boom")}, &stubActivity{}, zerolog.Nop())

	_, err := svc.Register(context.Background(), "bob", "bob@example.com", "pass")
	if err == nil || errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

func TestAuthService_Login_Success(t *testing.T) {
	repo := newStubAuthRepo()
	svc, act := newAuthSvc(repo)

	if _, err := svc.Register(context.Background(), "carol", "carol@example.com", "s3cret"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := svc.Login(context.Background(), "carol@example.com", "s3cret")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if res.Token != "token-for-u-carol@example.com" {
		t.Fatalf("unexpected token: %q", res.Token)
	}
	if res.User == nil || res.User.Name != "carol" {
		t.Fatalf("unexpected user: %+v", res.User)
	}
	kinds := act.kinds()
	if len(kinds) != 2 || kinds[1] != domain.ActivityUserLoggedIn {
		t.Fatalf("unexpected activity: %v", kinds)
	}
}

func TestAuthService_Login_InvalidPassword(t *testing.T) {
	svc, _ := newAuthSvc(newStubAuthRepo())

	_, _ = svc.Register(context.Background(), "dave", "dave@example.com", "goodpass")
	if _, err := svc.Login(context.Background(), "dave@example.com", "badpass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailLooksLikeBadPassword(t *testing.T) {
	svc, _ := newAuthSvc(newStubAuthRepo())

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestAuthService_Login_UnknownEmailStillComparesHash(t *testing.T) {
	repo := newStubAuthRepo()
	svc, _ := newAuthSvc(repo)
	if _, err := svc.Register(context.Background(), "frank", "frank@example.com", "pass"); err != nil {
		t.Fatalf("register failed: %v", err)
	}

	var hashes []string
	svc.compare = func(hash, plain string) (bool, error) {
		hashes = append(hashes, hash)
		return security.CheckPassword(hash, plain)
	}

	if _, err := svc.Login(context.Background(), "ghost@example.com", "pass"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(hashes) != 1 || hashes[0] != security.DummyHash() {
		t.Fatalf("unknown email must be compared against the dummy hash, got %v", hashes)
	}

	hashes = nil
	if _, err := svc.Login(context.Background(), "frank@example.com", "wrong"); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if len(hashes) != 1 || hashes[0] == security.DummyHash() {
		t.Fatalf("known email must be compared against its own hash, got %v", hashes)
	}
}

func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _ := newAuthSvc(newStubAuthRepo())

	if _, err := svc.Login(context.Background(), "", "pass"); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestAuthService_Profile(t *testing.T) {
	repo := newStubAuthRepo()
	svc, _ := newAuthSvc(repo)

	res, _ := svc.Register(context.Background(), "erin", "erin@example.com", "pw")
	user, err := svc.Profile(context.Background(), res.User.ID)
	if err != nil {
		t.Fatalf("profile: %v", err)
	}
	if user.Email != "erin@example.com" {
		t.Fatalf("unexpected user: %+v", user)
	}

	if _, err := svc.Profile(context.Background(), "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}
