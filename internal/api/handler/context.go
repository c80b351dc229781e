package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/tasklane/todo-service/internal/core/domain"
)

// currentSession returns the session injected by the Auth middleware. A
// missing session means the route was mounted without the guard.
func currentSession(c echo.Context) (*domain.Session, error) {
	s, ok := domain.SessionFrom(c.Request().Context())
	if !ok {
		return nil, domain.ErrUnauthenticated
	}
	return s, nil
}
