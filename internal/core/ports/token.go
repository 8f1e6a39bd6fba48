package ports

import "github.com/moderncrm/crm-api/internal/core/domain"

// TokenIssuer signs session tokens for authenticated users.
type TokenIssuer interface {
	Issue(user *domain.User) (string, error)
}

// TokenVerifier checks a session token and returns its identity.
// Failures match domain.ErrInvalidToken; expiry additionally matches
// domain.ErrTokenExpired.
type TokenVerifier interface {
	Verify(token string) (domain.Principal, error)
}
