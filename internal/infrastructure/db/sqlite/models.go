package sqlite

import (
	"time"

	"github.com/tasklane/todo-service/internal/core/domain"
)

type userModel struct {
	ID           int64  `gorm:"primaryKey;autoIncrement"`
	Username     string `gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string `gorm:"size:255;not null"`
}

func (userModel) TableName() string {
	return "users"
}

func (m userModel) toDomain() *domain.User {
	return &domain.User{ID: m.ID, Username: m.Username, PasswordHash: m.PasswordHash}
}

type todoModel struct {
	ID        int64     `gorm:"primaryKey;autoIncrement"`
	UserID    int64     `gorm:"not null;index:idx_todos_owner_created,priority:1"`
	User      userModel `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Content   string    `gorm:"not null"`
	CreatedAt time.Time `gorm:"not null;index:idx_todos_owner_created,priority:2,sort:desc"`
}

func (todoModel) TableName() string {
	return "todos"
}

func (m todoModel) toDomain() domain.Todo {
	return domain.Todo{ID: m.ID, UserID: m.UserID, Content: m.Content, CreatedAt: m.CreatedAt.UTC()}
}
