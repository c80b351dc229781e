package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/tasklane/todo-service/internal/core/domain"
	"github.com/tasklane/todo-service/internal/core/ports"
)

// TokenGuard verifies session tokens independently of any HTTP framework.
type TokenGuard struct {
	tokens  ports.TokenManager
	revoked ports.RevocationStore // optional
}

func NewTokenGuard(tokens ports.TokenManager, revoked ports.RevocationStore) *TokenGuard {
	return &TokenGuard{tokens: tokens, revoked: revoked}
}

// Authenticate returns domain.ErrUnauthenticated when no token is given and
// domain.ErrInvalidToken when it cannot be trusted.
func (g *TokenGuard) Authenticate(ctx context.Context, rawToken string) (*domain.Session, error) {
	rawToken = strings.TrimSpace(rawToken)
	if rawToken == "" {
		return nil, domain.ErrUnauthenticated
	}

	session, err := g.tokens.Parse(rawToken)
	if err != nil {
		return nil, domain.ErrInvalidToken
	}

	if g.revoked != nil {
		revoked, err := g.revoked.IsRevoked(ctx, session.TokenID)
		if err != nil {
			return nil, fmt.Errorf("authenticate: revocation check: %w", err)
		}
		if revoked {
			return nil, domain.ErrInvalidToken
		}
	}

	return session, nil
}
