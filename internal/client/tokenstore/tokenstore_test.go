package tokenstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, env map[string]string) *Store {
	t.Helper()
	s := NewAt(filepath.Join(t.TempDir(), ".todo"))
	s.getenv = func(k string) string { return env[k] }
	return s
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("any"))
	require.NoError(t, err)
	return tok
}

func TestStore_NotLoggedIn(t *testing.T) {
	s := newTestStore(t, nil)

	ti, err := s.Get()
	require.NoError(t, err)
	assert.Nil(t, ti)

	_, ok := s.Valid()
	assert.False(t, ok)
}

func TestStore_SetGetDelete(t *testing.T) {
	s := newTestStore(t, nil)
	exp := time.Now().Add(24 * time.Hour).Truncate(time.Second)
	tok := signedToken(t, exp)

	require.NoError(t, s.Set("Bearer "+tok))

	info, err := os.Stat(s.path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	ti, err := s.Get()
	require.NoError(t, err)
	require.NotNil(t, ti)
	assert.Equal(t, tok, ti.Token)
	assert.Equal(t, "file", ti.Source)
	require.NotNil(t, ti.ExpiresAt)
	assert.True(t, exp.Equal(*ti.ExpiresAt))

	got, ok := s.Valid()
	assert.True(t, ok)
	assert.Equal(t, tok, got)

	require.NoError(t, s.Delete())
	require.NoError(t, s.Delete(), "deleting twice is fine")

	ti, err = s.Get()
	require.NoError(t, err)
	assert.Nil(t, ti)
}

func TestStore_EnvOverride(t *testing.T) {
	s := newTestStore(t, map[string]string{EnvToken: "bearer from-env"})
	require.NoError(t, s.Set(signedToken(t, time.Now().Add(time.Hour))))

	ti, err := s.Get()
	require.NoError(t, err)
	assert.Equal(t, "from-env", ti.Token)
	assert.Equal(t, "env", ti.Source)
	assert.Nil(t, ti.ExpiresAt, "opaque tokens carry no expiry")
}

func TestStore_ExpiredTokenIsNotValid(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, s.Set(signedToken(t, time.Now().Add(-time.Minute))))

	_, ok := s.Valid()
	assert.False(t, ok)
}

func TestStore_RejectsEmptyToken(t *testing.T) {
	s := newTestStore(t, nil)
	assert.Error(t, s.Set("   "))
}

func TestStore_CorruptFile(t *testing.T) {
	s := newTestStore(t, nil)
	require.NoError(t, os.MkdirAll(s.dir, 0o700))
	require.NoError(t, os.WriteFile(s.path(), []byte("{"), 0o600))

	_, err := s.Get()
	assert.Error(t, err)
}
