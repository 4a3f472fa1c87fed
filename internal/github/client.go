// Package github is a minimal GitHub REST v3 client covering the three PR
// operations the reviewer needs: fetch changes, submit a review, add a
// comment.
package github

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"golang.org/x/sync/errgroup"
)

// DefaultBaseURL is the public GitHub API endpoint.
const DefaultBaseURL = "https://api.github.com"

// Review events accepted by the reviews API.
const (
	EventComment        = "COMMENT"
	EventApprove        = "APPROVE"
	EventRequestChanges = "REQUEST_CHANGES"
)

// Config holds GitHub API connection settings.
type Config struct {
	BaseURL string // empty = DefaultBaseURL
	Token   string // personal access token
}

// Client is a GitHub API client.
type Client struct {
	HTTPClient *http.Client
	Config     Config
}

// NewClient returns a client with the given config. HTTPClient may be
// replaced afterwards (tests do).
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{Config: cfg, HTTPClient: http.DefaultClient}
}

// FileChange is one changed file in a pull request.
type FileChange struct {
	Filename    string `json:"filename"`
	Status      string `json:"status"` // added, modified, removed
	Additions   int    `json:"additions"`
	Deletions   int    `json:"deletions"`
	Changes     int    `json:"changes"`
	Patch       string `json:"patch,omitempty"`
	RawURL      string `json:"raw_url,omitempty"`
	ContentsURL string `json:"contents_url,omitempty"`
}

// PRInfo combines pull request metadata with its file changes.
type PRInfo struct {
	Title        string       `json:"title"`
	Description  string       `json:"description"`
	Author       string       `json:"author"`
	CreatedAt    string       `json:"created_at"`
	UpdatedAt    string       `json:"updated_at"`
	State        string       `json:"state"`
	TotalChanges int          `json:"total_changes"`
	Changes      []FileChange `json:"changes"`
}

// ReviewComment is a line comment attached to a review.
type ReviewComment struct {
	Path     string `json:"path"`
	Position int    `json:"position"`
	Body     string `json:"body"`
}

// Review is the submitted review as echoed back by the API.
type Review struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
	State   string `json:"state"`
}

// Comment is the created issue comment as echoed back by the API.
type Comment struct {
	ID      int64  `json:"id"`
	HTMLURL string `json:"html_url"`
}

// GitHub API response shapes we unmarshal directly.
type prDetail struct {
	Title     string `json:"title"`
	Body      string `json:"body"`
	User      struct {
		Login string `json:"login"`
	} `json:"user"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
	State     string `json:"state"`
}

// FetchPRChanges fetches pull request metadata and its changed files. The
// two GETs are independent and run concurrently.
func (c *Client) FetchPRChanges(ctx context.Context, owner, repo string, number int) (*PRInfo, error) {
	var (
		detail prDetail
		files  []FileChange
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return c.get(gctx, fmt.Sprintf("/repos/%s/%s/pulls/%d", owner, repo, number), &detail)
	})
	g.Go(func() error {
		return c.get(gctx, fmt.Sprintf("/repos/%s/%s/pulls/%d/files", owner, repo, number), &files)
	})
	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("fetch pr %s/%s#%d: %w", owner, repo, number, err)
	}

	return &PRInfo{
		Title:        detail.Title,
		Description:  detail.Body,
		Author:       detail.User.Login,
		CreatedAt:    detail.CreatedAt,
		UpdatedAt:    detail.UpdatedAt,
		State:        detail.State,
		TotalChanges: len(files),
		Changes:      files,
	}, nil
}

// SubmitReview submits a review with an optional set of line comments.
// event must be one of EventComment, EventApprove, EventRequestChanges.
func (c *Client) SubmitReview(ctx context.Context, owner, repo string, number int, body, event string, comments []ReviewComment) (*Review, error) {
	switch event {
	case EventComment, EventApprove, EventRequestChanges:
	case "":
		event = EventComment
	default:
		return nil, fmt.Errorf("invalid review event %q (want COMMENT, APPROVE or REQUEST_CHANGES)", event)
	}

	payload := map[string]any{
		"body":  body,
		"event": event,
	}
	if len(comments) > 0 {
		payload["comments"] = comments
	}

	var review Review
	path := fmt.Sprintf("/repos/%s/%s/pulls/%d/reviews", owner, repo, number)
	if err := c.post(ctx, path, payload, &review); err != nil {
		return nil, fmt.Errorf("submit review %s/%s#%d: %w", owner, repo, number, err)
	}
	return &review, nil
}

// AddComment posts a plain comment on the pull request's conversation.
func (c *Client) AddComment(ctx context.Context, owner, repo string, number int, body string) (*Comment, error) {
	var comment Comment
	path := fmt.Sprintf("/repos/%s/%s/issues/%d/comments", owner, repo, number)
	if err := c.post(ctx, path, map[string]any{"body": body}, &comment); err != nil {
		return nil, fmt.Errorf("add comment %s/%s#%d: %w", owner, repo, number, err)
	}
	return &comment, nil
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.Config.BaseURL+path, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	return c.do(req, out)
}

func (c *Client) post(ctx context.Context, path string, payload, out any) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.BaseURL+path, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	if c.Config.Token != "" {
		req.Header.Set("Authorization", "token "+c.Config.Token)
	}
	req.Header.Set("Accept", "application/vnd.github.v3+json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("%s %s: %s: %s", req.Method, req.URL.Path, resp.Status, strings.TrimSpace(string(body)))
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}
