package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/tasklane/todo-service/internal/core/domain"
)

type stubGuard struct {
	authenticateFn func(ctx context.Context, raw string) (*domain.Session, error)
}

func (g *stubGuard) Authenticate(ctx context.Context, raw string) (*domain.Session, error) {
	return g.authenticateFn(ctx, raw)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	e := echo.New()
	guard := &stubGuard{
		authenticateFn: func(ctx context.Context, raw string) (*domain.Session, error) {
			if raw != "good-token" {
				t.Fatalf("unexpected token %q", raw)
			}
			return &domain.Session{TokenID: "jti", UserID: 7, Username: "alice"}, nil
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	called := false
	handler := Auth(guard)(func(c echo.Context) error {
		called = true
		s, ok := domain.SessionFrom(c.Request().Context())
		if !ok {
			t.Fatalf("session not set")
		}
		if s.UserID != 7 || s.Username != "alice" {
			t.Fatalf("unexpected session: %+v", s)
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called {
		t.Fatalf("next not called")
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestAuthMiddleware_MissingOrMalformedHeader(t *testing.T) {
	headers := []string{"", "Bearer", "Bearer   ", "Basic dXNlcjpwdw==", "good-token"}

	for _, h := range headers {
		e := echo.New()
		guard := &stubGuard{
			authenticateFn: func(ctx context.Context, raw string) (*domain.Session, error) {
				t.Fatalf("guard should not be called for header %q", h)
				return nil, nil
			},
		}
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if h != "" {
			req.Header.Set("Authorization", h)
		}
		c := e.NewContext(req, httptest.NewRecorder())

		err := Auth(guard)(func(c echo.Context) error {
			t.Fatalf("next should not be called")
			return nil
		})(c)

		if !errors.Is(err, domain.ErrUnauthenticated) {
			t.Fatalf("header %q: expected ErrUnauthenticated, got %v", h, err)
		}
	}
}

func TestAuthMiddleware_InvalidToken(t *testing.T) {
	e := echo.New()
	guard := &stubGuard{
		authenticateFn: func(ctx context.Context, raw string) (*domain.Session, error) {
			return nil, domain.ErrInvalidToken
		},
	}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "bearer tampered")
	c := e.NewContext(req, httptest.NewRecorder())

	err := Auth(guard)(func(c echo.Context) error {
		t.Fatalf("next should not be called")
		return nil
	})(c)

	if !errors.Is(err, domain.ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken, got %v", err)
	}
}
