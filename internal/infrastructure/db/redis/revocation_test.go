package redis

import (
	"context"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRevocationStore_Key(t *testing.T) {
	s := NewRevocationStore(nil)
	assert.Equal(t, "revoked:abc-123", s.key("abc-123"))
}

func TestRevocationStore_ExpiredTokenIsNoop(t *testing.T) {
	// A nil client would panic if Revoke reached redis.
	s := NewRevocationStore(nil)
	s.now = func() time.Time { return time.Date(2026, 1, 2, 0, 0, 0, 0, time.UTC) }

	err := s.Revoke(context.Background(), "jti", time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
}

func TestRevocationStore_UnreachableServer(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	t.Cleanup(func() { _ = client.Close() })

	s := NewRevocationStore(client)

	err := s.Revoke(context.Background(), "jti", time.Now().Add(time.Hour))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "revoke token")

	revoked, err := s.IsRevoked(context.Background(), "jti")
	require.Error(t, err)
	assert.False(t, revoked)
}

func TestConnect_Failures(t *testing.T) {
	_, err := Connect(context.Background(), Config{})
	require.Error(t, err)

	_, err = Connect(context.Background(), Config{Addr: "127.0.0.1:1", Timeout: 100 * time.Millisecond})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis ping")
}
