package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/powerfolio/powerfolio/pkg/domain"
)

// PlaceholderImage is substituted when a project has no images so the
// gallery always has something to show.
const PlaceholderImage = "https://via.placeholder.com/800x500?text=No+Image"

// ProjectInput is the payload for creating or updating a project. Media
// fields hold server-assigned upload references, never local paths.
type ProjectInput struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	LongDescription string   `json:"longDescription"`
	Category        string   `json:"category"`
	Tags            []string `json:"tags"`
	Images          []string `json:"images"`
	DemoVideo       string   `json:"demoVideo,omitempty"`
	ProfileImage    string   `json:"profileImage,omitempty"`
	GitHubURL       string   `json:"githubUrl"`
	LiveURL         string   `json:"liveUrl,omitempty"`
}

// AuthResponse is returned by the login and register endpoints.
type AuthResponse struct {
	Token string      `json:"token"`
	User  domain.User `json:"user"`
}

// Client is the PowerFolio API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	log        zerolog.Logger
}

// New creates a new API client. baseURL is the bare origin; the /api
// prefix is added per request. token may be empty for anonymous calls.
func New(baseURL, token string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: zerolog.Nop(),
	}
}

// SetLogger routes request failures to the given logger.
func (c *Client) SetLogger(l zerolog.Logger) {
	c.log = l
}

// SetToken swaps the auth token, e.g. after a fresh login.
func (c *Client) SetToken(token string) {
	c.token = token
}

// Token returns the current auth token ("" when anonymous).
func (c *Client) Token() string {
	return c.token
}

// ResolveMediaURL turns a stored upload reference into an absolute URL.
// Absolute references pass through unchanged.
func (c *Client) ResolveMediaURL(ref string) string {
	if ref == "" || strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}
	return c.baseURL + "/" + strings.TrimLeft(ref, "/")
}

// --- Auth ---

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.post(ctx, "/api/auth/login", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Login: %w", err)
	}
	return &resp, nil
}

// Register creates an account and returns a session token.
func (c *Client) Register(ctx context.Context, name, email, password string) (*AuthResponse, error) {
	var resp AuthResponse
	body := map[string]string{"name": name, "email": email, "password": password}
	if err := c.post(ctx, "/api/auth/register", body, &resp); err != nil {
		return nil, fmt.Errorf("client.Register: %w", err)
	}
	return &resp, nil
}

// Me returns the account behind the current token.
func (c *Client) Me(ctx context.Context) (*domain.User, error) {
	var u domain.User
	if err := c.get(ctx, "/api/auth", &u); err != nil {
		return nil, fmt.Errorf("client.Me: %w", err)
	}
	return &u, nil
}

// --- Projects ---

// ListProjects fetches the full approved project collection.
func (c *Client) ListProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.get(ctx, "/api/projects", &projects); err != nil {
		return nil, fmt.Errorf("client.ListProjects: %w", err)
	}
	return projects, nil
}

// GetProject fetches a single project by ID.
func (c *Client) GetProject(ctx context.Context, id string) (*domain.Project, error) {
	var p domain.Project
	if err := c.get(ctx, "/api/projects/"+url.PathEscape(id), &p); err != nil {
		return nil, fmt.Errorf("client.GetProject: %w", err)
	}
	return &p, nil
}

// MyProjects fetches the authenticated user's own submissions.
func (c *Client) MyProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.get(ctx, "/api/projects/my-projects", &projects); err != nil {
		return nil, fmt.Errorf("client.MyProjects: %w", err)
	}
	return projects, nil
}

// CreateProject submits a new project.
func (c *Client) CreateProject(ctx context.Context, in ProjectInput) (*domain.Project, error) {
	var created domain.Project
	if err := c.post(ctx, "/api/projects", in, &created); err != nil {
		return nil, fmt.Errorf("client.CreateProject: %w", err)
	}
	return &created, nil
}

// UpdateProject replaces an existing project's fields.
func (c *Client) UpdateProject(ctx context.Context, id string, in ProjectInput) (*domain.Project, error) {
	var updated domain.Project
	if err := c.doRequest(ctx, http.MethodPut, "/api/projects/"+url.PathEscape(id), in, &updated); err != nil {
		return nil, fmt.Errorf("client.UpdateProject: %w", err)
	}
	return &updated, nil
}

// DeleteProject removes a project owned by the caller.
func (c *Client) DeleteProject(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/projects/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteProject: %w", err)
	}
	return nil
}

// LikeProject toggles the caller's star and returns the updated like list.
func (c *Client) LikeProject(ctx context.Context, id string) ([]domain.Like, error) {
	var likes []domain.Like
	if err := c.doRequest(ctx, http.MethodPut, "/api/projects/like/"+url.PathEscape(id), nil, &likes); err != nil {
		return nil, fmt.Errorf("client.LikeProject: %w", err)
	}
	return likes, nil
}

// CommentProject appends a comment and returns the full updated list.
func (c *Client) CommentProject(ctx context.Context, id, text string) ([]domain.Comment, error) {
	var comments []domain.Comment
	body := map[string]string{"text": text}
	if err := c.post(ctx, "/api/projects/comment/"+url.PathEscape(id), body, &comments); err != nil {
		return nil, fmt.Errorf("client.CommentProject: %w", err)
	}
	return comments, nil
}

// --- Uploads ---

// UploadFile posts one local file as multipart form data under the given
// field name and returns the server-assigned reference ("uploads/...").
func (c *Client) UploadFile(ctx context.Context, field, filePath string) (string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("client.UploadFile: %w", err)
	}
	defer f.Close()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile(field, filepath.Base(filePath))
	if err != nil {
		return "", fmt.Errorf("client.UploadFile: create part: %w", err)
	}
	if _, err := io.Copy(part, f); err != nil {
		return "", fmt.Errorf("client.UploadFile: read file: %w", err)
	}
	if err := mw.Close(); err != nil {
		return "", fmt.Errorf("client.UploadFile: finalize form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload", &buf)
	if err != nil {
		return "", fmt.Errorf("client.UploadFile: create request: %w", err)
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("client.UploadFile: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		return "", fmt.Errorf("client.UploadFile: %w", c.errorFromResponse(resp))
	}

	var result struct {
		File string `json:"file"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("client.UploadFile: decode response: %w", err)
	}
	if result.File == "" {
		return "", fmt.Errorf("client.UploadFile: empty file reference in response")
	}
	return result.File, nil
}

// DeleteUpload removes a previously uploaded file, used to roll back when
// a later step of the submit pipeline fails.
func (c *Client) DeleteUpload(ctx context.Context, ref string) error {
	name := path.Base(ref)
	if err := c.doRequest(ctx, http.MethodDelete, "/api/upload/"+url.PathEscape(name), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteUpload: %w", err)
	}
	return nil
}

// --- Admin ---

// AdminStats returns platform totals for the admin dashboard.
func (c *Client) AdminStats(ctx context.Context) (*domain.AdminStats, error) {
	var stats domain.AdminStats
	if err := c.get(ctx, "/api/admin/stats", &stats); err != nil {
		return nil, fmt.Errorf("client.AdminStats: %w", err)
	}
	return &stats, nil
}

// AdminProjects lists every project regardless of status.
func (c *Client) AdminProjects(ctx context.Context) ([]domain.Project, error) {
	var projects []domain.Project
	if err := c.get(ctx, "/api/admin/projects", &projects); err != nil {
		return nil, fmt.Errorf("client.AdminProjects: %w", err)
	}
	return projects, nil
}

// AdminUsers lists all registered accounts.
func (c *Client) AdminUsers(ctx context.Context) ([]domain.User, error) {
	var users []domain.User
	if err := c.get(ctx, "/api/admin/users", &users); err != nil {
		return nil, fmt.Errorf("client.AdminUsers: %w", err)
	}
	return users, nil
}

// SetProjectStatus moves a project to pending, approved or rejected.
func (c *Client) SetProjectStatus(ctx context.Context, id, status string) error {
	body := map[string]string{"status": status}
	if err := c.doRequest(ctx, http.MethodPut, "/api/admin/projects/"+url.PathEscape(id)+"/status", body, nil); err != nil {
		return fmt.Errorf("client.SetProjectStatus: %w", err)
	}
	return nil
}

// DeleteUser removes an account.
func (c *Client) DeleteUser(ctx context.Context, id string) error {
	if err := c.doRequest(ctx, http.MethodDelete, "/api/admin/users/"+url.PathEscape(id), nil, nil); err != nil {
		return fmt.Errorf("client.DeleteUser: %w", err)
	}
	return nil
}

// --- plumbing ---

func (c *Client) get(ctx context.Context, path string, out any) error {
	return c.doRequest(ctx, http.MethodGet, path, nil, out)
}

func (c *Client) post(ctx context.Context, path string, body any, out any) error {
	return c.doRequest(ctx, http.MethodPost, path, body, out)
}

func (c *Client) setAuthHeaders(req *http.Request) {
	req.Header.Set("X-Request-ID", uuid.NewString())
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
		// Older API deployments read the legacy header instead.
		req.Header.Set("x-auth-token", c.token)
	}
}

func (c *Client) doRequest(ctx context.Context, method, path string, body any, out any) error {
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal body: %w", err)
		}
		reqBody = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	c.setAuthHeaders(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Error().Err(err).Str("method", method).Str("path", path).Msg("request failed")
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		httpErr := c.errorFromResponse(resp)
		c.log.Warn().Int("status", resp.StatusCode).Str("method", method).Str("path", path).Msg(httpErr.Message)
		return httpErr
	}

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

// errorFromResponse extracts the server's message. The API answers either
// {"msg": "..."} or {"errors": [{"msg": "..."}, ...]} depending on the
// failure; anything else falls back to the raw body.
func (c *Client) errorFromResponse(resp *http.Response) *HTTPError {
	respBody, readErr := io.ReadAll(io.LimitReader(resp.Body, 1<<20)) // 1 MB max error body
	if readErr != nil {
		return &HTTPError{StatusCode: resp.StatusCode, Message: fmt.Sprintf("failed to read body: %v", readErr)}
	}

	var apiErr struct {
		Msg    string `json:"msg"`
		Errors []struct {
			Msg string `json:"msg"`
		} `json:"errors"`
	}
	if json.Unmarshal(respBody, &apiErr) == nil {
		if len(apiErr.Errors) > 0 {
			msgs := make([]string, 0, len(apiErr.Errors))
			for _, e := range apiErr.Errors {
				if e.Msg != "" {
					msgs = append(msgs, e.Msg)
				}
			}
			if len(msgs) > 0 {
				return &HTTPError{StatusCode: resp.StatusCode, Message: strings.Join(msgs, "; ")}
			}
		}
		if apiErr.Msg != "" {
			return &HTTPError{StatusCode: resp.StatusCode, Message: apiErr.Msg}
		}
	}
	msg := strings.TrimSpace(string(respBody))
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	return &HTTPError{StatusCode: resp.StatusCode, Message: msg}
}
