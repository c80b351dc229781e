package sqlite

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/tasklane/todo-service/internal/core/domain"
)

type TodoRepository struct {
	db  *gorm.DB
	now func() time.Time
}

func NewTodoRepository(db *gorm.DB) *TodoRepository {
	return &TodoRepository{db: db, now: time.Now}
}

func (r *TodoRepository) ListByOwner(ctx context.Context, userID int64) ([]domain.Todo, error) {
	var rows []todoModel
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}

	todos := make([]domain.Todo, 0, len(rows))
	for _, m := range rows {
		todos = append(todos, m.toDomain())
	}
	return todos, nil
}

func (r *TodoRepository) Create(ctx context.Context, userID int64, content string) (*domain.Todo, error) {
	m := todoModel{UserID: userID, Content: content, CreatedAt: r.now().UTC()}
	if err := r.db.WithContext(ctx).Omit("User").Create(&m).Error; err != nil {
		return nil, fmt.Errorf("insert todo: %w", err)
	}
	todo := m.toDomain()
	return &todo, nil
}

func (r *TodoRepository) DeleteOwned(ctx context.Context, userID, todoID int64) (*domain.Todo, error) {
	var m todoModel
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", todoID, userID).First(&m).Error; err != nil {
			return err
		}
		return tx.Delete(&todoModel{}, m.ID).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrTodoNotFound
		}
		return nil, fmt.Errorf("delete todo: %w", err)
	}
	todo := m.toDomain()
	return &todo, nil
}
