package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"golang.org/x/term"

	"github.com/powerfolio/powerfolio/internal/config"
	"github.com/powerfolio/powerfolio/internal/session"
	"github.com/powerfolio/powerfolio/internal/tui"
	"github.com/powerfolio/powerfolio/pkg/client"
)

// version is set at build time via -ldflags "-X main.version=..."
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	store := session.NewStore(cfg.SessionPath())

	if len(os.Args) > 1 {
		switch os.Args[1] {
		case "--version", "version", "-v":
			fmt.Println("powerfolio " + version)
			return nil
		case "help", "--help", "-h":
			printHelp()
			return nil
		case "login":
			adminOnly := len(os.Args) > 2 && os.Args[2] == "--admin"
			return runLogin(cfg, store, adminOnly)
		case "register":
			return runRegister(cfg, store)
		case "logout":
			return runLogout(store)
		case "whoami":
			return runWhoami(cfg, store)
		case "update":
			return runUpdate(cfg)
		case "--update-done":
			if len(os.Args) >= 4 {
				printUpdateSuccess(os.Args[2], os.Args[3])
			}
			return nil
		}
	}

	// No subcommand: open the showcase. Guests browse read-only; an
	// expired session just means we launch unauthenticated.
	token := currentToken(store)
	c := client.New(cfg.APIURL, token)
	if token != "" {
		// Only drop the session on an actual auth failure (401), not
		// transient network errors.
		if _, err := c.Me(context.Background()); client.IsStatus(err, 401) {
			c.SetToken("")
		}
	}
	return launchTUI(cfg, c)
}

// currentToken returns the stored session token, or "" for guests and
// sessions that have already expired.
func currentToken(store *session.Store) string {
	sess, err := store.Current()
	if err != nil {
		return ""
	}
	if !sess.Valid(time.Now()) {
		return ""
	}
	return sess.Token
}

func launchTUI(cfg config.Config, c *client.Client) error {
	log := fileLogger(cfg)
	c.SetLogger(log)

	app := tui.NewApp(c, log)
	p := tea.NewProgram(app, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

// fileLogger writes structured logs to the data dir so the TUI keeps
// sole ownership of stdout. Falls back to a no-op logger.
func fileLogger(cfg config.Config) zerolog.Logger {
	if err := os.MkdirAll(cfg.DataDir, 0700); err != nil {
		return zerolog.Nop()
	}
	f, err := os.OpenFile(cfg.LogPath(), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return zerolog.Nop()
	}
	return zerolog.New(f).With().Timestamp().Logger()
}

// promptLine reads one trimmed line from stdin.
func promptLine(label string) (string, error) {
	fmt.Print(label)
	reader := bufio.NewReader(os.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// promptPassword reads a password without echoing it.
func promptPassword(label string) (string, error) {
	fmt.Print(label)
	pw, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(pw), nil
}

func runLogin(cfg config.Config, store *session.Store, adminOnly bool) error {
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}

	c := client.New(cfg.APIURL, "")
	auth, err := c.Login(context.Background(), email, password)
	if err != nil {
		if client.IsStatus(err, 400) || client.IsStatus(err, 401) {
			return fmt.Errorf("invalid credentials")
		}
		return fmt.Errorf("login: %w", err)
	}

	// A non-admin signing in through the admin door gets no session at all.
	if adminOnly && !auth.User.IsAdmin() {
		_ = store.Clear()
		return fmt.Errorf("access denied: this account is not an administrator")
	}

	if err := store.Save(session.Session{Token: auth.Token, User: auth.User}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	c.SetToken(auth.Token)
	name := email
	if me, err := c.Me(context.Background()); err == nil && me != nil {
		name = me.Name
	}
	fmt.Printf("Signed in as %s\n\n", name)

	return launchTUI(cfg, c)
}

func runRegister(cfg config.Config, store *session.Store) error {
	name, err := promptLine("Name: ")
	if err != nil {
		return err
	}
	email, err := promptLine("Email: ")
	if err != nil {
		return err
	}
	password, err := promptPassword("Password (6+ characters): ")
	if err != nil {
		return err
	}
	confirm, err := promptPassword("Confirm password: ")
	if err != nil {
		return err
	}
	if password != confirm {
		return fmt.Errorf("passwords do not match")
	}

	c := client.New(cfg.APIURL, "")
	auth, err := c.Register(context.Background(), name, email, password)
	if err != nil {
		return fmt.Errorf("register: %w", err)
	}

	if err := store.Save(session.Session{Token: auth.Token, User: auth.User}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}

	fmt.Printf("Welcome, %s\n\n", name)
	c.SetToken(auth.Token)
	return launchTUI(cfg, c)
}

func runLogout(store *session.Store) error {
	if _, err := store.Current(); errors.Is(err, session.ErrNotLoggedIn) {
		fmt.Println("Already logged out.")
		return nil
	}
	if err := store.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	fmt.Println("Logged out.")
	return nil
}

func runWhoami(cfg config.Config, store *session.Store) error {
	token := currentToken(store)
	if token == "" {
		printGuestGreeting()
		return nil
	}
	c := client.New(cfg.APIURL, token)
	me, err := c.Me(context.Background())
	if err != nil {
		if client.IsStatus(err, 401) {
			printGuestGreeting()
			return nil
		}
		return fmt.Errorf("whoami: %w", err)
	}
	fmt.Printf("%s <%s>", me.Name, me.Email)
	if me.IsAdmin() {
		fmt.Print("  [admin]")
	}
	fmt.Println()
	return nil
}
