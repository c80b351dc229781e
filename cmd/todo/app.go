package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/tasklane/todo-service/internal/client/api"
	"github.com/tasklane/todo-service/internal/client/tokenstore"
	"github.com/tasklane/todo-service/internal/client/tui"
)

// session bundles the token store with an API client reading from it.
type session struct {
	tokens *tokenstore.Store
	client *api.Client
}

func newSession(c *cli.Context) (*session, error) {
	var (
		tokens *tokenstore.Store
		err    error
	)
	if dir := c.String("config-dir"); dir != "" {
		tokens = tokenstore.NewAt(dir)
	} else if tokens, err = tokenstore.New(); err != nil {
		return nil, err
	}

	client := api.New(c.String("api-url"), func() string {
		tok, _ := tokens.Valid()
		return tok
	})
	return &session{tokens: tokens, client: client}, nil
}

// requireLogin mirrors the TUI guard for scriptable commands.
func (s *session) requireLogin() error {
	if _, ok := s.tokens.Valid(); !ok {
		return errors.New("not logged in; run `todo login` first")
	}
	return nil
}

// handleAuth drops a token the server no longer accepts.
func (s *session) handleAuth(err error) error {
	if api.IsAuthError(err) {
		_ = s.tokens.Delete()
		return fmt.Errorf("%w; log in again", err)
	}
	return err
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "todo",
		Usage: "multi-user todo list client",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "api-url",
				Usage:   "base URL of the todo service",
				Value:   api.DefaultBaseURL,
				EnvVars: []string{"TODO_API_URL"},
			},
			&cli.StringFlag{
				Name:  "config-dir",
				Usage: "directory holding credentials.json (default ~/.todo)",
			},
		},
		Action: runTUI,
		Commands: []*cli.Command{
			{
				Name:      "register",
				Usage:     "create an account and log in",
				ArgsUsage: "<username> <password>",
				Action:    runRegister,
			},
			{
				Name:      "login",
				Usage:     "log in and store the session token",
				ArgsUsage: "<username> <password>",
				Action:    runLogin,
			},
			{
				Name:   "logout",
				Usage:  "revoke and forget the stored token",
				Action: runLogout,
			},
			{
				Name:    "ls",
				Aliases: []string{"list"},
				Usage:   "list your todos, newest first",
				Action:  runList,
			},
			{
				Name:      "add",
				Usage:     "add a todo",
				ArgsUsage: "<content...>",
				Action:    runAdd,
			},
			{
				Name:      "rm",
				Aliases:   []string{"delete"},
				Usage:     "delete a todo by id",
				ArgsUsage: "<id>",
				Action:    runRemove,
			},
			{
				Name:   "tui",
				Usage:  "open the interactive client (default)",
				Action: runTUI,
			},
		},
	}
}

func credentialsArgs(c *cli.Context) (string, string, error) {
	if c.NArg() != 2 {
		return "", "", fmt.Errorf("usage: todo %s <username> <password>", c.Command.Name)
	}
	return c.Args().Get(0), c.Args().Get(1), nil
}

func runRegister(c *cli.Context) error {
	username, password, err := credentialsArgs(c)
	if err != nil {
		return err
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}

	user, err := s.client.Register(c.Context, username, password)
	if err != nil {
		return err
	}
	printOK(c.App.Writer, fmt.Sprintf("registered %s (id %d)", user.Username, user.ID))
	return login(c.Context, c.App.Writer, s, username, password)
}

func runLogin(c *cli.Context) error {
	username, password, err := credentialsArgs(c)
	if err != nil {
		return err
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}
	return login(c.Context, c.App.Writer, s, username, password)
}

func login(ctx context.Context, w io.Writer, s *session, username, password string) error {
	token, err := s.client.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if err := s.tokens.Set(token); err != nil {
		return err
	}
	printOK(w, "logged in as "+username)
	return nil
}

func runLogout(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	if _, ok := s.tokens.Valid(); ok {
		// The local token is dropped even when the server is unreachable.
		if err := s.client.Logout(c.Context); err != nil && !api.IsAuthError(err) {
			fmt.Fprintln(c.App.ErrWriter, mutedStyle.Render("server logout failed: "+err.Error()))
		}
	}
	if err := s.tokens.Delete(); err != nil {
		return err
	}
	printOK(c.App.Writer, "logged out")
	return nil
}

func runList(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	if err := s.requireLogin(); err != nil {
		return err
	}

	todos, err := s.client.List(c.Context)
	if err != nil {
		return s.handleAuth(err)
	}
	if len(todos) == 0 {
		fmt.Fprintln(c.App.Writer, mutedStyle.Render("no todos"))
		return nil
	}
	for _, t := range todos {
		fmt.Fprintf(c.App.Writer, "%4d  %s  %s\n", t.ID, t.Content, mutedStyle.Render(t.CreatedAt.Local().Format("2006-01-02 15:04")))
	}
	return nil
}

func runAdd(c *cli.Context) error {
	content := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if content == "" {
		return errors.New("usage: todo add <content...>")
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}
	if err := s.requireLogin(); err != nil {
		return err
	}

	todo, err := s.client.Create(c.Context, content)
	if err != nil {
		return s.handleAuth(err)
	}
	printOK(c.App.Writer, fmt.Sprintf("added #%d", todo.ID))
	return nil
}

func runRemove(c *cli.Context) error {
	if c.NArg() != 1 {
		return errors.New("usage: todo rm <id>")
	}
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil {
		return errors.New("id must be a number")
	}
	s, err := newSession(c)
	if err != nil {
		return err
	}
	if err := s.requireLogin(); err != nil {
		return err
	}

	deleted, err := s.client.Delete(c.Context, id)
	if err != nil {
		return s.handleAuth(err)
	}
	printOK(c.App.Writer, fmt.Sprintf("deleted #%d %q", deleted.ID, deleted.Content))
	return nil
}

func runTUI(c *cli.Context) error {
	s, err := newSession(c)
	if err != nil {
		return err
	}
	return tui.Run(s.client, s.tokens)
}

func printOK(w io.Writer, msg string) {
	fmt.Fprintln(w, successStyle.Render("✔ "+msg))
}
