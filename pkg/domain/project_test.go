package domain

import (
	"strings"
	"testing"
)

func TestAuthorName(t *testing.T) {
	p := &Project{User: &User{Name: "Dana"}}
	if got := p.AuthorName(); got != "Dana" {
		t.Errorf("got %q", got)
	}

	for _, p := range []*Project{{}, {User: &User{}}} {
		if got := p.AuthorName(); got != "Unknown Author" {
			t.Errorf("expected fallback, got %q", got)
		}
	}
}

func TestLikedBy(t *testing.T) {
	p := &Project{Likes: []Like{{User: "u1"}, {User: "u2"}}}
	if !p.LikedBy("u1") {
		t.Error("expected u1 liked")
	}
	if p.LikedBy("u3") {
		t.Error("expected u3 not liked")
	}
	if (&Project{}).LikedBy("u1") {
		t.Error("expected no likes on empty project")
	}
}

func TestStarCount(t *testing.T) {
	p := &Project{Likes: []Like{{User: "u1"}, {User: "u2"}}, Stats: &Stats{Stars: 99}}
	if got := p.StarCount(); got != 2 {
		t.Errorf("expected live like list to win, got %d", got)
	}
	p = &Project{Stats: &Stats{Stars: 7}}
	if got := p.StarCount(); got != 7 {
		t.Errorf("expected cached counter, got %d", got)
	}
	if got := (&Project{}).StarCount(); got != 0 {
		t.Errorf("expected zero, got %d", got)
	}
}

func TestValidCategory(t *testing.T) {
	for _, c := range Categories {
		if !ValidCategory(c) {
			t.Errorf("expected %q valid", c)
		}
	}
	for _, c := range []string{"", "web development", "Gaming"} {
		if ValidCategory(c) {
			t.Errorf("expected %q invalid", c)
		}
	}
}

func TestCommentDisplayName(t *testing.T) {
	c := &Comment{Name: "Sam"}
	if got := c.DisplayName(); got != "Sam" {
		t.Errorf("got %q", got)
	}
	c = &Comment{}
	if got := c.DisplayName(); got != "User" {
		t.Errorf("expected fallback, got %q", got)
	}
}

func TestIsAdmin(t *testing.T) {
	if !(&User{Role: RoleAdmin}).IsAdmin() {
		t.Error("expected admin")
	}
	if (&User{Role: RoleUser}).IsAdmin() {
		t.Error("expected non-admin")
	}
	var u *User
	if u.IsAdmin() {
		t.Error("expected nil user non-admin")
	}
}

func TestAvatarURL(t *testing.T) {
	got := AvatarURL("Jane Doe")
	if !strings.Contains(got, "ui-avatars.com") {
		t.Errorf("got %q", got)
	}
	if !strings.Contains(got, "Jane+Doe") {
		t.Errorf("expected the name query-escaped, got %q", got)
	}
}
