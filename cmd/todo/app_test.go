package main

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tasklane/todo-service/internal/client/tokenstore"
)

// fakeServer answers the client routes with canned JSON.
func fakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/login", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	})
	mux.HandleFunc("POST /api/register", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{"message": "registration successful", "user": map[string]any{"id": 1, "username": "alice"}})
	})
	mux.HandleFunc("GET /api/todos", func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer tok-123" {
			w.WriteHeader(http.StatusForbidden)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "invalid or expired token"})
			return
		}
		_ = json.NewEncoder(w).Encode([]map[string]any{{"id": 3, "user_id": 1, "content": "ship it", "created_at": "2026-01-01T00:00:00Z"}})
	})
	mux.HandleFunc("POST /api/logout", func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"message": "logged out"})
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out
	app.ErrWriter = &out
	err := app.Run(append([]string{"todo"}, args...))
	return out.String(), err
}

func TestCLI_LoginListLogout(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	t.Setenv(tokenstore.EnvToken, "")
	base := []string{"--api-url", srv.URL, "--config-dir", dir}

	out, err := run(t, append(base, "login", "alice", "pw")...)
	require.NoError(t, err)
	assert.Contains(t, out, "logged in as alice")

	tok, ok := tokenstore.NewAt(dir).Valid()
	require.True(t, ok)
	assert.Equal(t, "tok-123", tok)

	out, err = run(t, append(base, "ls")...)
	require.NoError(t, err)
	assert.Contains(t, out, "ship it")

	out, err = run(t, append(base, "logout")...)
	require.NoError(t, err)
	assert.Contains(t, out, "logged out")

	_, ok = tokenstore.NewAt(dir).Valid()
	assert.False(t, ok)
}

func TestCLI_ListRequiresLogin(t *testing.T) {
	srv := fakeServer(t)
	t.Setenv(tokenstore.EnvToken, "")

	_, err := run(t, "--api-url", srv.URL, "--config-dir", t.TempDir(), "ls")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not logged in")
}

func TestCLI_RejectedTokenIsCleared(t *testing.T) {
	srv := fakeServer(t)
	dir := t.TempDir()
	t.Setenv(tokenstore.EnvToken, "")
	require.NoError(t, tokenstore.NewAt(dir).Set("stale-token"))

	_, err := run(t, "--api-url", srv.URL, "--config-dir", dir, "ls")
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "log in again"))

	_, ok := tokenstore.NewAt(dir).Valid()
	assert.False(t, ok)
}

func TestCLI_UsageErrors(t *testing.T) {
	t.Setenv(tokenstore.EnvToken, "")
	dir := t.TempDir()

	_, err := run(t, "--config-dir", dir, "login", "only-username")
	assert.Error(t, err)

	_, err = run(t, "--config-dir", dir, "rm", "abc")
	assert.Error(t, err)

	_, err = run(t, "--config-dir", dir, "add", "   ")
	assert.Error(t, err)
}
