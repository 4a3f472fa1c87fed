package github

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestClient_FetchPRChanges_MockHTTP(t *testing.T) {
	prResp := map[string]any{
		"title":      "Add retry to fetcher",
		"body":       "Retries transient 5xx responses.",
		"user":       map[string]any{"login": "octocat"},
		"created_at": "2026-08-01T10:00:00Z",
		"updated_at": "2026-08-02T09:30:00Z",
		"state":      "open",
	}
	filesResp := []map[string]any{
		{"filename": "fetcher.go", "status": "modified", "additions": 12, "deletions": 3, "changes": 15, "patch": "@@ -1 +1 @@"},
		{"filename": "fetcher_test.go", "status": "added", "additions": 40, "deletions": 0, "changes": 40},
	}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "token test-token" {
			t.Errorf("missing token header, got %q", r.Header.Get("Authorization"))
		}
		switch r.URL.Path {
		case "/repos/octocat/widgets/pulls/42":
			_ = json.NewEncoder(w).Encode(prResp)
		case "/repos/octocat/widgets/pulls/42/files":
			_ = json.NewEncoder(w).Encode(filesResp)
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "test-token"})
	client.HTTPClient = server.Client()

	info, err := client.FetchPRChanges(context.Background(), "octocat", "widgets", 42)
	if err != nil {
		t.Fatalf("FetchPRChanges: %v", err)
	}
	if info.Title != "Add retry to fetcher" || info.Author != "octocat" {
		t.Errorf("pr info: title=%q author=%q", info.Title, info.Author)
	}
	if info.TotalChanges != 2 || len(info.Changes) != 2 {
		t.Errorf("total_changes = %d, changes = %d", info.TotalChanges, len(info.Changes))
	}
	if info.Changes[0].Filename != "fetcher.go" || info.Changes[0].Additions != 12 {
		t.Errorf("first change: %+v", info.Changes[0])
	}
}

func TestClient_SubmitReview(t *testing.T) {
	var gotPayload map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/octocat/widgets/pulls/42/reviews" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewDecoder(r.Body).Decode(&gotPayload)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       991,
			"html_url": "https://github.com/octocat/widgets/pull/42#pullrequestreview-991",
			"state":    "COMMENTED",
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "t"})
	client.HTTPClient = server.Client()

	review, err := client.SubmitReview(context.Background(), "octocat", "widgets", 42,
		"Looks good overall.", "", []ReviewComment{{Path: "fetcher.go", Position: 3, Body: "nit: rename"}})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if review.ID != 991 || !strings.Contains(review.HTMLURL, "pullrequestreview-991") {
		t.Errorf("review: %+v", review)
	}
	if gotPayload["event"] != "COMMENT" {
		t.Errorf("empty event must default to COMMENT, got %v", gotPayload["event"])
	}
	if _, ok := gotPayload["comments"]; !ok {
		t.Error("line comments missing from payload")
	}
}

func TestClient_SubmitReview_InvalidEvent(t *testing.T) {
	client := NewClient(Config{Token: "t"})
	if _, err := client.SubmitReview(context.Background(), "o", "r", 1, "b", "SHIP_IT", nil); err == nil {
		t.Error("expected error for invalid review event")
	}
}

func TestClient_AddComment(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/repos/octocat/widgets/issues/42/comments" {
			http.NotFound(w, r)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"id":       5150,
			"html_url": "https://github.com/octocat/widgets/pull/42#issuecomment-5150",
		})
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "t"})
	client.HTTPClient = server.Client()

	comment, err := client.AddComment(context.Background(), "octocat", "widgets", 42, "ping")
	if err != nil {
		t.Fatalf("AddComment: %v", err)
	}
	if comment.ID != 5150 {
		t.Errorf("comment id = %d", comment.ID)
	}
}

func TestClient_ErrorIncludesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"message":"Validation Failed"}`))
	}))
	defer server.Close()

	client := NewClient(Config{BaseURL: server.URL, Token: "t"})
	client.HTTPClient = server.Client()

	_, err := client.AddComment(context.Background(), "o", "r", 1, "x")
	if err == nil {
		t.Fatal("expected error for 422")
	}
	if !strings.Contains(err.Error(), "Validation Failed") {
		t.Errorf("error should carry the response body, got: %v", err)
	}
}
