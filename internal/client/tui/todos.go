package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/tasklane/todo-service/internal/core/domain"
)

type todosKeyMap struct {
	Up, Down, Add, Delete, Refresh, Logout, Quit key.Binding
}

var todosKeys = todosKeyMap{
	Up:      key.NewBinding(key.WithKeys("up", "k"), key.WithHelp("↑/k", "up")),
	Down:    key.NewBinding(key.WithKeys("down", "j"), key.WithHelp("↓/j", "down")),
	Add:     key.NewBinding(key.WithKeys("a"), key.WithHelp("a", "add")),
	Delete:  key.NewBinding(key.WithKeys("d", "x"), key.WithHelp("d", "delete")),
	Refresh: key.NewBinding(key.WithKeys("r"), key.WithHelp("r", "refresh")),
	Logout:  key.NewBinding(key.WithKeys("L"), key.WithHelp("L", "log out")),
	Quit:    key.NewBinding(key.WithKeys("q", "esc"), key.WithHelp("q", "quit")),
}

type todosView struct {
	items   []domain.Todo
	cursor  int
	loading bool
	adding  bool
	input   textinput.Model
	status  string
	err     string
}

func newTodosView() todosView {
	ti := textinput.New()
	ti.Prompt = "> "
	ti.Placeholder = "What needs doing?"
	ti.CharLimit = 500
	return todosView{input: ti}
}

func (m Model) updateTodos(msg tea.Msg) (Model, tea.Cmd) {
	v := &m.todos
	switch msg := msg.(type) {
	case todosLoadedMsg:
		v.loading = false
		v.items = msg.todos
		v.err = ""
		v.clampCursor()
		return m, nil
	case todoCreatedMsg:
		v.items = append([]domain.Todo{msg.todo}, v.items...)
		v.cursor = 0
		v.status = "added"
		return m, nil
	case todoDeletedMsg:
		for i, t := range v.items {
			if t.ID == msg.id {
				v.items = append(v.items[:i], v.items[i+1:]...)
				break
			}
		}
		v.clampCursor()
		v.status = "deleted"
		return m, nil
	case errMsg:
		v.loading = false
		v.err = msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		if v.adding {
			return m.updateAdding(msg)
		}
		v.status, v.err = "", ""
		switch {
		case key.Matches(msg, todosKeys.Quit):
			return m, tea.Quit
		case key.Matches(msg, todosKeys.Up):
			if v.cursor > 0 {
				v.cursor--
			}
		case key.Matches(msg, todosKeys.Down):
			if v.cursor < len(v.items)-1 {
				v.cursor++
			}
		case key.Matches(msg, todosKeys.Add):
			v.adding = true
			v.input.SetValue("")
			return m, v.input.Focus()
		case key.Matches(msg, todosKeys.Delete):
			if len(v.items) == 0 {
				return m, nil
			}
			return m, m.deleteTodo(v.items[v.cursor].ID)
		case key.Matches(msg, todosKeys.Refresh):
			v.loading = true
			return m, m.loadTodos()
		case key.Matches(msg, todosKeys.Logout):
			return m, m.logout()
		}
	}
	return m, nil
}

func (m Model) updateAdding(msg tea.KeyMsg) (Model, tea.Cmd) {
	v := &m.todos
	switch msg.String() {
	case "esc":
		v.adding = false
		v.input.Blur()
		return m, nil
	case "enter":
		content := strings.TrimSpace(v.input.Value())
		if content == "" {
			v.err = "content cannot be empty"
			return m, nil
		}
		v.adding = false
		v.input.Blur()
		return m, m.createTodo(content)
	}

	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return m, cmd
}

func (v *todosView) clampCursor() {
	if v.cursor >= len(v.items) {
		v.cursor = len(v.items) - 1
	}
	if v.cursor < 0 {
		v.cursor = 0
	}
}

func (m Model) createTodo(content string) tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		todo, err := m.backend.Create(ctx, content)
		if err != nil {
			return errMsg{err}
		}
		return todoCreatedMsg{*todo}
	})
}

func (m Model) deleteTodo(id int64) tea.Cmd {
	return call(func(ctx context.Context) tea.Msg {
		if _, err := m.backend.Delete(ctx, id); err != nil {
			return errMsg{err}
		}
		return todoDeletedMsg{id}
	})
}

func (v todosView) view() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%s   %s %d\n\n", titleStyle.Render("Todos"), accentStyle.Render("Total"), len(v.items)))

	switch {
	case v.loading:
		b.WriteString(mutedStyle.Render("loading...") + "\n")
	case len(v.items) == 0:
		b.WriteString(mutedStyle.Render("nothing here yet, press a to add") + "\n")
	default:
		for i, t := range v.items {
			line := fmt.Sprintf("%s  %s", t.Content, mutedStyle.Render(t.CreatedAt.Local().Format("2006-01-02 15:04")))
			prefix := "  "
			if i == v.cursor {
				prefix = selectedStyle.Render("> ")
			}
			b.WriteString(prefix + line + "\n")
		}
	}

	if v.adding {
		b.WriteString("\n" + v.input.View() + "\n")
	}
	b.WriteString("\n")
	if v.err != "" {
		b.WriteString(errorStyle.Render("✖ "+v.err) + "\n")
	} else if v.status != "" {
		b.WriteString(successStyle.Render("✔ "+v.status) + "\n")
	}

	help := []string{}
	for _, k := range []key.Binding{todosKeys.Up, todosKeys.Down, todosKeys.Add, todosKeys.Delete, todosKeys.Refresh, todosKeys.Logout, todosKeys.Quit} {
		h := k.Help()
		help = append(help, h.Key+": "+h.Desc)
	}
	b.WriteString(helpStyle.Render(strings.Join(help, " • ")))
	return panelStyle.Render(b.String())
}
