package ports

import (
	"context"

	"github.com/tasklane/todo-service/internal/core/domain"
)

// TodoService defines the note use cases. userID always comes from the
// authenticated session, never from the request body.
type TodoService interface {
	List(ctx context.Context, userID int64) ([]domain.Todo, error)
	Create(ctx context.Context, userID int64, content string) (*domain.Todo, error)
	Delete(ctx context.Context, userID, todoID int64) (*domain.Todo, error)
}
