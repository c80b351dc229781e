// Package tokenstore persists the client's session token in
// ~/.todo/credentials.json. TODO_TOKEN overrides the file.
package tokenstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const (
	credFileName = "credentials.json"
	// EnvToken names the variable that overrides the stored token.
	EnvToken = "TODO_TOKEN"
)

type TokenInfo struct {
	Token     string     `json:"token"`
	Source    string     `json:"source"`     // "env" | "file"
	CreatedAt time.Time  `json:"created_at"` // when we saved to file
	ExpiresAt *time.Time `json:"expires_at"` // read from the JWT exp claim
}

// Expired reports whether the token is known to be past its expiry.
func (t *TokenInfo) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

type Store struct {
	dir    string
	getenv func(string) string
	now    func() time.Time
}

// New returns a store rooted at ~/.todo.
func New() (*Store, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("home: %w", err)
	}
	return NewAt(filepath.Join(home, ".todo")), nil
}

// NewAt returns a store rooted at dir.
func NewAt(dir string) *Store {
	return &Store{dir: dir, getenv: os.Getenv, now: time.Now}
}

func (s *Store) path() string {
	return filepath.Join(s.dir, credFileName)
}

// Get returns the current token, or nil when not logged in.
func (s *Store) Get() (*TokenInfo, error) {
	// 1) env override
	if env := strings.TrimSpace(s.getenv(EnvToken)); env != "" {
		tok := stripBearer(env)
		return &TokenInfo{Token: tok, Source: "env", ExpiresAt: expiry(tok)}, nil
	}

	// 2) file
	b, err := os.ReadFile(s.path())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials: %w", err)
	}
	var ti TokenInfo
	if err := json.Unmarshal(b, &ti); err != nil {
		return nil, fmt.Errorf("parse credentials: %w", err)
	}
	ti.Token = stripBearer(ti.Token)
	if ti.Token == "" {
		return nil, nil
	}
	return &ti, nil
}

// Valid returns the stored token when present and unexpired.
func (s *Store) Valid() (string, bool) {
	ti, err := s.Get()
	if err != nil || ti == nil || ti.Expired(s.now()) {
		return "", false
	}
	return ti.Token, true
}

// Set writes the token with owner-only permissions.
func (s *Store) Set(token string) error {
	token = stripBearer(strings.TrimSpace(token))
	if token == "" {
		return fmt.Errorf("empty token")
	}
	// ensure the directory exists with 0700
	if err := os.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("mkdir: %w", err)
	}
	ti := TokenInfo{
		Token:     token,
		Source:    "file",
		CreatedAt: s.now().UTC(),
		ExpiresAt: expiry(token),
	}
	b, err := json.MarshalIndent(ti, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal: %w", err)
	}
	if err := os.WriteFile(s.path(), b, 0o600); err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}

// Delete removes the token file. Missing files are not an error.
func (s *Store) Delete() error {
	if err := os.Remove(s.path()); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("remove: %w", err)
	}
	return nil
}

// expiry reads the exp claim without verifying the signature; the server
// remains the authority on validity.
func expiry(token string) *time.Time {
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return nil
	}
	if claims.ExpiresAt == nil {
		return nil
	}
	exp := claims.ExpiresAt.UTC()
	return &exp
}

func stripBearer(s string) string {
	if strings.HasPrefix(strings.ToLower(s), "bearer ") {
		return strings.TrimSpace(s[7:])
	}
	return s
}
