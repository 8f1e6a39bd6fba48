package middleware

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/moderncrm/crm-api/internal/core/domain"
	"github.com/moderncrm/crm-api/internal/core/ports"
)

const principalKey = "principal"

// Auth verifies the bearer token and injects the principal into both the
// Echo context and the request context.
//
//   - no header, or no token after the scheme: 401
//   - token present but rejected by the verifier: 403
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthorized
			}

			token := bearerToken(authHeader)
			if token == "" {
				return domain.ErrUnauthorized
			}

			principal, err := verifier.Verify(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusForbidden, domain.ErrForbidden.Error()).SetInternal(err)
			}

			c.Set(principalKey, principal)
			req := c.Request()
			c.SetRequest(req.WithContext(domain.WithPrincipal(req.Context(), principal)))

			return next(c)
		}
	}
}

// bearerToken returns the credential after a case-insensitive "Bearer"
// scheme, or "" if the header has another shape.
func bearerToken(header string) string {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// PrincipalFrom returns the principal set by Auth.
func PrincipalFrom(c echo.Context) (domain.Principal, bool) {
	p, ok := c.Get(principalKey).(domain.Principal)
	return p, ok
}
