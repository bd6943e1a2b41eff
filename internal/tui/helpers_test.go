package tui

import (
	"strings"
	"testing"
	"time"
)

func TestFormatTime(t *testing.T) {
	now := time.Now()
	cases := []struct {
		in   time.Time
		want string
	}{
		{time.Time{}, ""},
		{now.Add(-30 * time.Second), "just now"},
		{now.Add(-5 * time.Minute), "5m ago"},
		{now.Add(-3 * time.Hour), "3h ago"},
		{now.Add(-48 * time.Hour), "2d ago"},
		{time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC), "Mar 9, 2024"},
	}
	for _, c := range cases {
		if got := formatTime(c.in); got != c.want {
			t.Errorf("formatTime(%v) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTruncStr(t *testing.T) {
	if got := truncStr("short", 10); got != "short" {
		t.Errorf("expected unchanged, got %q", got)
	}
	got := truncStr("a very long project title", 10)
	if !strings.HasSuffix(got, "…") || len([]rune(got)) != 10 {
		t.Errorf("expected 10-rune ellipsized string, got %q", got)
	}
}

func TestFormatNum(t *testing.T) {
	if got := formatNum(42); got != "42" {
		t.Errorf("got %q", got)
	}
	if got := formatNum(1500); got != "1.5k" {
		t.Errorf("got %q", got)
	}
}

func TestEditRune(t *testing.T) {
	if got := editRune("ab", "c"); got != "abc" {
		t.Errorf("got %q", got)
	}
	if got := editRune("abc", "backspace"); got != "ab" {
		t.Errorf("got %q", got)
	}
	if got := editRune("", "backspace"); got != "" {
		t.Errorf("got %q", got)
	}
	if got := editRune("a", "space"); got != "a " {
		t.Errorf("got %q", got)
	}
	// Multi-rune key names pass through untouched.
	if got := editRune("a", "ctrl+s"); got != "a" {
		t.Errorf("got %q", got)
	}
	// Rune-aware backspace.
	if got := editRune("héllo", "backspace"); got != "héll" {
		t.Errorf("got %q", got)
	}
}

func TestTruncateToHeight(t *testing.T) {
	s := "a\nb\nc\nd\n"
	if got := truncateToHeight(s, 2); got != "a\nb\n" {
		t.Errorf("got %q", got)
	}
	if got := truncateToHeight(s, 0); got != s {
		t.Errorf("expected unchanged for zero height, got %q", got)
	}
	if got := truncateToHeight("one line", 5); got != "one line" {
		t.Errorf("got %q", got)
	}
}
