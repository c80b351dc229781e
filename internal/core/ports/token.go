package ports

import (
	"context"
	"time"

	"github.com/tasklane/todo-service/internal/core/domain"
)

// TokenManager signs and verifies session tokens.
type TokenManager interface {
	Issue(user *domain.User) (string, *domain.Session, error)
	// Parse returns domain.ErrInvalidToken for any signature, algorithm,
	// expiry or claim problem.
	Parse(token string) (*domain.Session, error)
}

// RevocationStore remembers token IDs that were logged out before expiry.
type RevocationStore interface {
	Revoke(ctx context.Context, tokenID string, until time.Time) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// TokenGuard is the capability check placed in front of protected operations.
type TokenGuard interface {
	Authenticate(ctx context.Context, rawToken string) (*domain.Session, error)
}
