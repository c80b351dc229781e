package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tasklane/todo-service/internal/core/domain"
	"github.com/tasklane/todo-service/internal/core/ports"
)

// AuthService implements registration, login and logout.
type AuthService struct {
	repo     ports.UserRepository
	tokens   ports.TokenManager
	revoked  ports.RevocationStore // nil disables logout revocation
	hashCost int
	log      zerolog.Logger
}

// AuthOption tunes an AuthService at construction time.
type AuthOption func(*AuthService)

// WithRevocationStore enables server-side logout.
func WithRevocationStore(store ports.RevocationStore) AuthOption {
	return func(s *AuthService) { s.revoked = store }
}

// WithHashCost overrides the bcrypt cost. Values below bcrypt.DefaultCost are
// only meant for tests.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

func NewAuthService(repo ports.UserRepository, tokens ports.TokenManager, log zerolog.Logger, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo:     repo,
		tokens:   tokens,
		hashCost: bcrypt.DefaultCost,
		log:      log,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	// A failed lookup here is only an early exit; the unique index is what
	// actually guarantees uniqueness under concurrent registrations.
	if _, err := s.repo.FindByUsername(ctx, username); err == nil {
		return nil, domain.ErrUserExists
	} else if !errors.Is(err, domain.ErrUserNotFound) {
		return nil, fmt.Errorf("register: lookup user: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.hashCost)
	if err != nil {
		return nil, fmt.Errorf("register: hash password: %w", err)
	}

	created, err := s.repo.Create(ctx, &domain.User{
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, domain.ErrUserExists) {
			return nil, err
		}
		return nil, fmt.Errorf("register: %w", err)
	}

	s.log.Info().Int64("user_id", created.ID).Str("username", created.Username).Msg("user registered")
	return &domain.User{ID: created.ID, Username: created.Username}, nil
}

// Login never tells the caller whether the username exists.
func (s *AuthService) Login(ctx context.Context, username, password string) (string, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return "", fmt.Errorf("%w: username and password are required", domain.ErrValidation)
	}

	user, err := s.repo.FindByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return "", domain.ErrInvalidCredentials
		}
		return "", fmt.Errorf("login: lookup user: %w", err)
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", domain.ErrInvalidCredentials
	}

	token, session, err := s.tokens.Issue(user)
	if err != nil {
		return "", fmt.Errorf("login: issue token: %w", err)
	}

	s.log.Info().Int64("user_id", user.ID).Str("token_id", session.TokenID).Msg("user logged in")
	return token, nil
}

func (s *AuthService) Logout(ctx context.Context, session *domain.Session) error {
	if session == nil {
		return domain.ErrUnauthenticated
	}
	if s.revoked == nil {
		return nil
	}
	if err := s.revoked.Revoke(ctx, session.TokenID, session.ExpiresAt); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info().Int64("user_id", session.UserID).Str("token_id", session.TokenID).Msg("token revoked")
	return nil
}
