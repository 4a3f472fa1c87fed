// Package notion creates analysis pages under a fixed parent page using the
// Notion REST API. Only the one operation the reviewer needs is covered.
package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// DefaultBaseURL is the public Notion API endpoint.
const DefaultBaseURL = "https://api.notion.com"

// apiVersion is the Notion-Version header value this client speaks.
const apiVersion = "2022-06-28"

// Config holds Notion API connection settings.
type Config struct {
	BaseURL string // empty = DefaultBaseURL
	APIKey  string // integration token
	PageID  string // parent page for created pages
}

// Client is a Notion API client.
type Client struct {
	HTTPClient *http.Client
	Config     Config
}

// NewClient returns a client with the given config.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	cfg.BaseURL = strings.TrimSuffix(cfg.BaseURL, "/")
	return &Client{Config: cfg, HTTPClient: http.DefaultClient}
}

// Page is the created page as echoed back by the API.
type Page struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

// CreatePage creates a page titled title under the configured parent, with
// content as a single paragraph block.
func (c *Client) CreatePage(ctx context.Context, title, content string) (*Page, error) {
	if c.Config.PageID == "" {
		return nil, fmt.Errorf("create page: no parent page ID configured")
	}

	payload := map[string]any{
		"parent": map[string]any{"type": "page_id", "page_id": c.Config.PageID},
		"properties": map[string]any{
			"title": map[string]any{
				"title": []map[string]any{
					{"text": map[string]any{"content": title}},
				},
			},
		},
		"children": []map[string]any{
			{
				"object": "block",
				"type":   "paragraph",
				"paragraph": map[string]any{
					"rich_text": []map[string]any{
						{"type": "text", "text": map[string]any{"content": content}},
					},
				},
			},
		},
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encode page: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Config.BaseURL+"/v1/pages", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.Config.APIKey)
	req.Header.Set("Notion-Version", apiVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("create page %q: %s: %s", title, resp.Status, strings.TrimSpace(string(body)))
	}

	var page Page
	if err := json.NewDecoder(resp.Body).Decode(&page); err != nil {
		return nil, fmt.Errorf("decode page: %w", err)
	}
	return &page, nil
}
