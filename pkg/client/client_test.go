package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/powerfolio/powerfolio/pkg/domain"
)

func TestListProjects(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects" {
			t.Errorf("expected path /api/projects, got %s", r.URL.Path)
		}
		if r.Method != http.MethodGet {
			t.Errorf("expected GET, got %s", r.Method)
		}
		if r.Header.Get("X-Request-ID") == "" {
			t.Error("expected X-Request-ID header to be set")
		}
		json.NewEncoder(w).Encode([]domain.Project{
			{ID: "p1", Title: "Pathfinder"},
			{ID: "p2", Title: "Skyline"},
		})
	}))
	defer server.Close()

	c := New(server.URL, "")
	projects, err := c.ListProjects(context.Background())
	if err != nil {
		t.Fatalf("ListProjects: %v", err)
	}
	if len(projects) != 2 {
		t.Fatalf("expected 2 projects, got %d", len(projects))
	}
	if projects[0].Title != "Pathfinder" {
		t.Errorf("expected title Pathfinder, got %s", projects[0].Title)
	}
}

func TestAuthHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer tok-123" {
			t.Errorf("expected bearer header, got %q", got)
		}
		if got := r.Header.Get("x-auth-token"); got != "tok-123" {
			t.Errorf("expected legacy token header, got %q", got)
		}
		json.NewEncoder(w).Encode(domain.User{ID: "u1", Name: "Dana"})
	}))
	defer server.Close()

	c := New(server.URL, "tok-123")
	user, err := c.Me(context.Background())
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if user.Name != "Dana" {
		t.Errorf("expected user Dana, got %s", user.Name)
	}
}

func TestLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/auth/login" {
			t.Errorf("expected path /api/auth/login, got %s", r.URL.Path)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Fatalf("decode body: %v", err)
		}
		if body["email"] != "dana@example.com" {
			t.Errorf("expected email in body, got %q", body["email"])
		}
		json.NewEncoder(w).Encode(AuthResponse{
			Token: "fresh-token",
			User:  domain.User{ID: "u1", Name: "Dana", Role: domain.RoleUser},
		})
	}))
	defer server.Close()

	c := New(server.URL, "")
	resp, err := c.Login(context.Background(), "dana@example.com", "hunter2")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if resp.Token != "fresh-token" {
		t.Errorf("expected fresh-token, got %s", resp.Token)
	}
}

func TestLoginBadCredentials(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"msg": "Invalid credentials"})
	}))
	defer server.Close()

	c := New(server.URL, "")
	_, err := c.Login(context.Background(), "dana@example.com", "wrong")
	if err == nil {
		t.Fatal("expected error for bad credentials")
	}
	if !IsStatus(err, http.StatusUnauthorized) {
		t.Errorf("expected 401 status error, got %v", err)
	}
}

func TestValidationErrorList(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		json.NewEncoder(w).Encode(map[string]any{
			"errors": []map[string]string{
				{"msg": "Title is required"},
				{"msg": "GitHub URL is required"},
			},
		})
	}))
	defer server.Close()

	c := New(server.URL, "tok")
	_, err := c.CreateProject(context.Background(), ProjectInput{})
	if err == nil {
		t.Fatal("expected validation error")
	}
	want := "Title is required; GitHub URL is required"
	if !IsStatus(err, http.StatusBadRequest) {
		t.Fatalf("expected 400 status error, got %v", err)
	}
	var httpErr *HTTPError
	if !errors.As(err, &httpErr) || httpErr.Message != want {
		t.Errorf("expected joined messages %q, got %v", want, err)
	}
}

func TestLikeProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/like/p1" {
			t.Errorf("expected like path, got %s", r.URL.Path)
		}
		if r.Method != http.MethodPut {
			t.Errorf("expected PUT, got %s", r.Method)
		}
		json.NewEncoder(w).Encode([]domain.Like{{User: "u1"}, {User: "u2"}})
	}))
	defer server.Close()

	c := New(server.URL, "tok")
	likes, err := c.LikeProject(context.Background(), "p1")
	if err != nil {
		t.Fatalf("LikeProject: %v", err)
	}
	if len(likes) != 2 {
		t.Errorf("expected 2 likes, got %d", len(likes))
	}
}

func TestCommentProject(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/projects/comment/p1" {
			t.Errorf("expected comment path, got %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "Nice work" {
			t.Errorf("expected comment text in body, got %q", body["text"])
		}
		json.NewEncoder(w).Encode([]domain.Comment{
			{ID: "c1", Name: "Dana", Text: "Nice work"},
		})
	}))
	defer server.Close()

	c := New(server.URL, "tok")
	comments, err := c.CommentProject(context.Background(), "p1", "Nice work")
	if err != nil {
		t.Fatalf("CommentProject: %v", err)
	}
	if len(comments) != 1 || comments[0].Text != "Nice work" {
		t.Errorf("unexpected comments: %+v", comments)
	}
}

func TestUploadFile(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload" {
			t.Errorf("expected path /api/upload, got %s", r.URL.Path)
		}
		if err := r.ParseMultipartForm(1 << 20); err != nil {
			t.Fatalf("parse multipart: %v", err)
		}
		f, hdr, err := r.FormFile("image")
		if err != nil {
			t.Fatalf("expected image form field: %v", err)
		}
		f.Close()
		if hdr.Filename != "shot.png" {
			t.Errorf("expected filename shot.png, got %s", hdr.Filename)
		}
		json.NewEncoder(w).Encode(map[string]string{"file": "uploads/abc123.png"})
	}))
	defer server.Close()

	dir := t.TempDir()
	local := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(local, []byte("fake image bytes"), 0o644); err != nil {
		t.Fatal(err)
	}

	c := New(server.URL, "tok")
	ref, err := c.UploadFile(context.Background(), "image", local)
	if err != nil {
		t.Fatalf("UploadFile: %v", err)
	}
	if ref != "uploads/abc123.png" {
		t.Errorf("expected uploads/abc123.png, got %s", ref)
	}
}

func TestDeleteUploadStripsPrefix(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/upload/abc123.png" {
			t.Errorf("expected bare filename in path, got %s", r.URL.Path)
		}
		if r.Method != http.MethodDelete {
			t.Errorf("expected DELETE, got %s", r.Method)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "tok")
	if err := c.DeleteUpload(context.Background(), "uploads/abc123.png"); err != nil {
		t.Fatalf("DeleteUpload: %v", err)
	}
}

func TestSetProjectStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/admin/projects/p1/status" {
			t.Errorf("expected status path, got %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["status"] != domain.StatusApproved {
			t.Errorf("expected approved status, got %q", body["status"])
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	c := New(server.URL, "tok")
	if err := c.SetProjectStatus(context.Background(), "p1", domain.StatusApproved); err != nil {
		t.Fatalf("SetProjectStatus: %v", err)
	}
}

func TestResolveMediaURL(t *testing.T) {
	c := New("https://api.example.com", "")
	tests := []struct {
		ref  string
		want string
	}{
		{"uploads/a.png", "https://api.example.com/uploads/a.png"},
		{"/uploads/a.png", "https://api.example.com/uploads/a.png"},
		{"https://cdn.example.com/a.png", "https://cdn.example.com/a.png"},
		{"http://cdn.example.com/a.png", "http://cdn.example.com/a.png"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := c.ResolveMediaURL(tt.ref); got != tt.want {
			t.Errorf("ResolveMediaURL(%q) = %q, want %q", tt.ref, got, tt.want)
		}
	}
}
