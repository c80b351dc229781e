package ports

import (
	"context"

	"github.com/tasklane/todo-service/internal/core/domain"
)

// TodoRepository defines owner-scoped persistence for notes. Every method
// filters by userID; implementations must never touch another user's rows.
type TodoRepository interface {
	// ListByOwner returns the user's todos ordered newest first.
	ListByOwner(ctx context.Context, userID int64) ([]domain.Todo, error)
	// Create inserts the todo, assigning ID and CreatedAt.
	Create(ctx context.Context, userID int64, content string) (*domain.Todo, error)
	// DeleteOwned removes the todo only when both id and owner match and
	// returns the removed row. Returns domain.ErrTodoNotFound otherwise.
	DeleteOwned(ctx context.Context, userID, todoID int64) (*domain.Todo, error)
}
