package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/tasklane/todo-service/internal/core/domain"
	"github.com/tasklane/todo-service/internal/core/ports"
)

type TodoService struct {
	repo   ports.TodoRepository
	logger zerolog.Logger
}

func NewTodoService(repo ports.TodoRepository, logger zerolog.Logger) *TodoService {
	return &TodoService{repo: repo, logger: logger}
}

// List returns the caller's todos, newest first. The result is never nil so
// it always encodes as a JSON array.
func (s *TodoService) List(ctx context.Context, userID int64) ([]domain.Todo, error) {
	todos, err := s.repo.ListByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	if todos == nil {
		todos = []domain.Todo{}
	}
	return todos, nil
}

func (s *TodoService) Create(ctx context.Context, userID int64, content string) (*domain.Todo, error) {
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("%w: content is required", domain.ErrValidation)
	}

	todo, err := s.repo.Create(ctx, userID, content)
	if err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.logger.Info().Int64("user_id", userID).Int64("todo_id", todo.ID).Msg("todo created")
	return todo, nil
}

// Delete removes the todo only if userID owns it. A todo that exists but
// belongs to someone else is reported exactly like a missing one.
func (s *TodoService) Delete(ctx context.Context, userID, todoID int64) (*domain.Todo, error) {
	if todoID <= 0 {
		return nil, domain.ErrTodoNotFound
	}

	todo, err := s.repo.DeleteOwned(ctx, userID, todoID)
	if err != nil {
		if errors.Is(err, domain.ErrTodoNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("delete todo: %w", err)
	}

	s.logger.Info().Int64("user_id", userID).Int64("todo_id", todo.ID).Msg("todo deleted")
	return todo, nil
}
