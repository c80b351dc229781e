package ports

import (
	"context"

	"github.com/tasklane/todo-service/internal/core/domain"
)

type AuthService interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context, session *domain.Session) error
}
