// Package tui is the two-view terminal client: Login and Todos. Entering the
// Todos view requires a stored token; the server still checks every call.
package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasklane/todo-service/internal/client/api"
	"github.com/tasklane/todo-service/internal/core/domain"
)

// Backend is the subset of the API client the views call.
type Backend interface {
	Register(ctx context.Context, username, password string) (*domain.User, error)
	Login(ctx context.Context, username, password string) (string, error)
	Logout(ctx context.Context) error
	List(ctx context.Context) ([]domain.Todo, error)
	Create(ctx context.Context, content string) (*domain.Todo, error)
	Delete(ctx context.Context, id int64) (*domain.Todo, error)
}

// Tokens persists the session token between runs.
type Tokens interface {
	Valid() (string, bool)
	Set(token string) error
	Delete() error
}

type route int

const (
	routeLogin route = iota
	routeTodos
)

const requestTimeout = 10 * time.Second

// Model is the root Bubble Tea model. It owns routing and delegates to the
// active view.
type Model struct {
	backend Backend
	tokens  Tokens

	route route
	login loginView
	todos todosView

	width int
}

func New(backend Backend, tokens Tokens) Model {
	m := Model{
		backend: backend,
		tokens:  tokens,
		login:   newLoginView(),
		todos:   newTodosView(),
	}
	m.route = m.guard(routeTodos)
	return m
}

// guard resolves the route actually shown for target. It is a convenience
// only; the API enforces access.
func (m Model) guard(target route) route {
	if target == routeTodos {
		if _, ok := m.tokens.Valid(); !ok {
			return routeLogin
		}
	}
	return target
}

// navigate switches views and returns the command the new view starts with.
func (m Model) navigate(target route) (Model, tea.Cmd) {
	m.route = m.guard(target)
	switch m.route {
	case routeTodos:
		m.todos.loading = true
		return m, m.loadTodos()
	default:
		m.login = m.login.reset()
		return m, m.login.focusCmd()
	}
}

func (m Model) Init() tea.Cmd {
	if m.route == routeTodos {
		return m.loadTodos()
	}
	return m.login.focusCmd()
}

// Messages produced by API commands.
type (
	loggedInMsg    struct{ token string }
	todosLoadedMsg struct{ todos []domain.Todo }
	todoCreatedMsg struct{ todo domain.Todo }
	todoDeletedMsg struct{ id int64 }
	loggedOutMsg   struct{}
	sessionLostMsg struct{ err error }
	errMsg         struct{ err error }
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	case loggedInMsg:
		if err := m.tokens.Set(msg.token); err != nil {
			m.login.err = err.Error()
			m.login.busy = false
			return m, nil
		}
		return m.navigate(routeTodos)
	case loggedOutMsg:
		_ = m.tokens.Delete()
		return m.navigate(routeLogin)
	case sessionLostMsg:
		_ = m.tokens.Delete()
		next, cmd := m.navigate(routeLogin)
		next.login.err = "session expired, please log in again"
		return next, cmd
	}

	var cmd tea.Cmd
	switch m.route {
	case routeTodos:
		m, cmd = m.updateTodos(msg)
	default:
		m, cmd = m.updateLogin(msg)
	}
	return m, cmd
}

func (m Model) View() string {
	if m.route == routeTodos {
		return m.todos.view()
	}
	return m.login.view()
}

// callPublic runs fn with a timeout. Login and register go through it so a
// 401 for bad credentials reaches the view as a plain error.
func callPublic(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
		defer cancel()
		return fn(ctx)
	}
}

// call is callPublic for requests that carry the stored token: a 401 or 403
// there means the session is gone.
func call(fn func(ctx context.Context) tea.Msg) tea.Cmd {
	return callPublic(func(ctx context.Context) tea.Msg {
		msg := fn(ctx)
		if e, ok := msg.(errMsg); ok && api.IsAuthError(e.err) {
			return sessionLostMsg{err: e.err}
		}
		return msg
	})
}

func (m Model) loadTodos() tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		todos, err := m.backend.List(ctx)
		if err != nil {
			return errMsg{err}
		}
		return todosLoadedMsg{todos}
	})
}

// logout asks the server to revoke the token. The local token is dropped
// whatever the outcome.
func (m Model) logout() tea.Cmd {
	return callPublic(func(ctx context.Context) tea.Msg {
		_ = m.backend.Logout(ctx)
		return loggedOutMsg{}
	})
}

// Run starts the program in the alternate screen.
func Run(backend Backend, tokens Tokens) error {
	_, err := tea.NewProgram(New(backend, tokens), tea.WithAltScreen()).Run()
	return err
}
