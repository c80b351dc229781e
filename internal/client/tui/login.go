package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

type loginView struct {
	inputs   []textinput.Model // username, password
	focus    int
	register bool
	busy     bool
	err      string
}

func newLoginView() loginView {
	user := textinput.New()
	user.Prompt = "username > "
	user.CharLimit = 255

	pass := textinput.New()
	pass.Prompt = "password > "
	pass.EchoMode = textinput.EchoPassword
	pass.EchoCharacter = '•'
	pass.CharLimit = 255

	v := loginView{inputs: []textinput.Model{user, pass}}
	v.inputs[0].Focus()
	return v
}

func (v loginView) reset() loginView {
	for i := range v.inputs {
		v.inputs[i].SetValue("")
		v.inputs[i].Blur()
	}
	v.focus = 0
	v.inputs[0].Focus()
	v.busy = false
	v.err = ""
	return v
}

func (v loginView) focusCmd() tea.Cmd {
	return textinput.Blink
}

func (v loginView) values() (string, string) {
	return strings.TrimSpace(v.inputs[0].Value()), v.inputs[1].Value()
}

func (m Model) updateLogin(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case errMsg:
		m.login.busy = false
		m.login.err = msg.err.Error()
		return m, nil
	case tea.KeyMsg:
		if m.login.busy {
			return m, nil
		}
		switch msg.String() {
		case "esc":
			return m, tea.Quit
		case "ctrl+r":
			m.login.register = !m.login.register
			m.login.err = ""
			return m, nil
		case "tab", "shift+tab", "up", "down":
			m.login.inputs[m.login.focus].Blur()
			m.login.focus = (m.login.focus + 1) % len(m.login.inputs)
			return m, m.login.inputs[m.login.focus].Focus()
		case "enter":
			if m.login.focus == 0 {
				m.login.inputs[0].Blur()
				m.login.focus = 1
				return m, m.login.inputs[1].Focus()
			}
			return m.submitLogin()
		}
	}

	var cmd tea.Cmd
	m.login.inputs[m.login.focus], cmd = m.login.inputs[m.login.focus].Update(msg)
	return m, cmd
}

func (m Model) submitLogin() (Model, tea.Cmd) {
	username, password := m.login.values()
	if username == "" || password == "" {
		m.login.err = "username and password are required"
		return m, nil
	}
	m.login.busy = true
	m.login.err = ""

	register := m.login.register
	return m, callPublic(func(ctx context.Context) tea.Msg {
		if register {
			if _, err := m.backend.Register(ctx, username, password); err != nil {
				return errMsg{err}
			}
		}
		token, err := m.backend.Login(ctx, username, password)
		if err != nil {
			return errMsg{err}
		}
		return loggedInMsg{token}
	})
}

func (v loginView) view() string {
	mode := "Login"
	if v.register {
		mode = "Register"
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(mode) + "\n\n")
	for _, in := range v.inputs {
		b.WriteString(in.View() + "\n")
	}
	b.WriteString("\n")
	switch {
	case v.busy:
		b.WriteString(mutedStyle.Render("working...") + "\n")
	case v.err != "":
		b.WriteString(errorStyle.Render("✖ "+v.err) + "\n")
	}
	b.WriteString(helpStyle.Render("tab: switch field • enter: submit • ctrl+r: toggle register • esc: quit"))
	return panelStyle.Render(b.String())
}
