package session

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/powerfolio/powerfolio/pkg/domain"
)

func tempStore(t *testing.T) *Store {
	t.Helper()
	return NewStore(filepath.Join(t.TempDir(), "session.json"))
}

func signedToken(t *testing.T, exp time.Time) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user": map[string]string{"id": "u1"},
		"exp":  exp.Unix(),
	})
	s, err := tok.SignedString([]byte("test-secret"))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestSaveAndCurrent(t *testing.T) {
	store := tempStore(t)
	want := Session{
		Token: "tok-abc",
		User:  domain.User{ID: "u1", Name: "Dana", Role: domain.RoleUser},
	}
	if err := store.Save(want); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Current()
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if got.Token != want.Token || got.User.Name != want.User.Name {
		t.Errorf("roundtrip mismatch: %+v", got)
	}

	info, err := os.Stat(store.path)
	if err != nil {
		t.Fatal(err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("expected 0600 permissions, got %o", perm)
	}
}

func TestCurrentMissing(t *testing.T) {
	store := tempStore(t)
	if _, err := store.Current(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn, got %v", err)
	}
}

func TestClear(t *testing.T) {
	store := tempStore(t)
	if err := store.Save(Session{Token: "tok"}); err != nil {
		t.Fatal(err)
	}
	if err := store.Clear(); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	if _, err := store.Current(); !errors.Is(err, ErrNotLoggedIn) {
		t.Errorf("expected ErrNotLoggedIn after clear, got %v", err)
	}
	// Clearing twice is fine.
	if err := store.Clear(); err != nil {
		t.Errorf("second Clear: %v", err)
	}
}

func TestValid(t *testing.T) {
	now := time.Now()
	tests := []struct {
		name string
		sess *Session
		want bool
	}{
		{"nil session", nil, false},
		{"empty token", &Session{}, false},
		{"opaque token", &Session{Token: "not-a-jwt"}, true},
		{"live jwt", &Session{Token: signedToken(t, now.Add(time.Hour))}, true},
		{"expired jwt", &Session{Token: signedToken(t, now.Add(-time.Hour))}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sess.Valid(now); got != tt.want {
				t.Errorf("Valid() = %v, want %v", got, tt.want)
			}
		})
	}
}
