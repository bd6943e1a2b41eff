// Package session persists the authenticated session between runs.
package session

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/powerfolio/powerfolio/pkg/domain"
)

// ErrNotLoggedIn is returned when no saved session exists.
var ErrNotLoggedIn = errors.New("not logged in")

// Session is the saved state of a logged-in user.
type Session struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Store reads and writes the session file.
type Store struct {
	path string
}

// NewStore creates a store backed by the given file path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Current loads the saved session. Returns ErrNotLoggedIn when the file
// does not exist.
func (s *Store) Current() (*Session, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("session.Current: %w", err)
	}
	var sess Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("session.Current: parse %s: %w", s.path, err)
	}
	if sess.Token == "" {
		return nil, ErrNotLoggedIn
	}
	return &sess, nil
}

// Save writes the session with owner-only permissions.
func (s *Store) Save(sess Session) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	data, err := json.MarshalIndent(sess, "", "  ")
	if err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return fmt.Errorf("session.Save: %w", err)
	}
	return nil
}

// Clear removes the session file. Clearing an absent session is not an
// error.
func (s *Store) Clear() error {
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("session.Clear: %w", err)
	}
	return nil
}

// Valid reports whether the saved session can still be used: a token is
// present and, when it carries an expiry claim, the expiry has not
// passed. The token signature is the server's business, so it is not
// checked here.
func (sess *Session) Valid(now time.Time) bool {
	if sess == nil || sess.Token == "" {
		return false
	}
	parser := jwt.NewParser()
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(sess.Token, claims); err != nil {
		// Opaque tokens are accepted as-is.
		return true
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return true
	}
	return now.Before(exp.Time)
}
