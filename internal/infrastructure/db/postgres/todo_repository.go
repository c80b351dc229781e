package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/tasklane/todo-service/internal/core/domain"
)

const todoColumns = `id, user_id, content, created_at`

type TodoRepository struct {
	db Querier
}

func NewTodoRepository(db Querier) *TodoRepository {
	return &TodoRepository{db: db}
}

func (r *TodoRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`SELECT `+todoColumns+` FROM todos WHERE user_id = $1 ORDER BY created_at DESC, id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos, err := pgx.CollectRows(rows, scanTodo)
	if err != nil {
		return nil, fmt.Errorf("list todos: scan: %w", err)
	}
	return todos, nil
}

func (r *TodoRepository) Create(ctx context.Context, userID int64, content string) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`INSERT INTO todos (user_id, content) VALUES ($1, $2) RETURNING `+todoColumns,
		userID, content,
	)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}

	todo, err := pgx.CollectExactlyOneRow(rows, scanTodo)
	if err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	return &todo, nil
}

// DeleteOwned is a single statement, so two concurrent deletes of the same
// row resolve inside Postgres: one gets the row, the other gets no rows.
func (r *TodoRepository) DeleteOwned(ctx context.Context, userID, todoID int64) (*domain.Todo, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	rows, err := r.db.Query(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2 RETURNING `+todoColumns,
		todoID, userID,
	)
	if err != nil {
		return nil, fmt.Errorf("delete todo: %w", err)
	}

	todo, err := pgx.CollectExactlyOneRow(rows, scanTodo)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("delete todo: %w", err)
	}
	return &todo, nil
}

func scanTodo(row pgx.CollectableRow) (domain.Todo, error) {
	var t domain.Todo
	err := row.Scan(&t.ID, &t.UserID, &t.Content, &t.CreatedAt)
	t.CreatedAt = t.CreatedAt.UTC()
	return t, err
}
