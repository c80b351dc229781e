package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/tasklane/todo-service/internal/core/domain"
	"github.com/tasklane/todo-service/internal/core/ports"
)

// Auth extracts the bearer token, verifies it with the guard and stores the
// resulting session in the request context.
func Auth(guard ports.TokenGuard) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			raw, err := bearerToken(c.Request().Header.Get(echo.HeaderAuthorization))
			if err != nil {
				return err
			}

			ctx := c.Request().Context()
			session, err := guard.Authenticate(ctx, raw)
			if err != nil {
				return err
			}

			c.SetRequest(c.Request().WithContext(domain.WithSession(ctx, session)))
			return next(c)
		}
	}
}

// bearerToken returns the token of a "Bearer <token>" header value.
func bearerToken(header string) (string, error) {
	scheme, token, ok := strings.Cut(strings.TrimSpace(header), " ")
	if !ok || !strings.EqualFold(scheme, "bearer") {
		return "", domain.ErrUnauthenticated
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", domain.ErrUnauthenticated
	}
	return token, nil
}
