// Package mcp exposes the PR-review tools over the Model Context Protocol.
// The server runs over stdio; an MCP host (editor, agent) connects and calls
// the tools directly.
package mcp

import (
	"context"
	"fmt"

	"prreview/internal/github"
	"prreview/internal/journal"
	"prreview/internal/logging"
	"prreview/internal/notion"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Deps are the collaborators the tool handlers call into. GitHub and Notion
// may be nil when their credentials are not configured; the corresponding
// tools then fail at call time with a configuration error instead of
// preventing the server from starting.
type Deps struct {
	GitHub  *github.Client
	Notion  *notion.Client
	Journal journal.Journal
}

// Server wraps the MCP SDK server around the PR-review tool set.
type Server struct {
	MCPServer *sdkmcp.Server
	deps      Deps
}

// NewServer creates an MCP server with the four PR-review tools registered.
func NewServer(deps Deps) *Server {
	if deps.Journal == nil {
		deps.Journal = journal.NewMemJournal()
	}
	s := &Server{deps: deps}
	s.MCPServer = sdkmcp.NewServer(
		&sdkmcp.Implementation{Name: "prreview", Version: "dev"},
		nil,
	)
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "fetch_pr",
		Description: "Fetch metadata and file changes from a GitHub pull request.",
	}, s.handleFetchPR)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "submit_pr_review",
		Description: "Submit a review to a GitHub pull request, optionally with line comments.",
	}, s.handleSubmitPRReview)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "add_pr_comment",
		Description: "Add a comment to a GitHub pull request conversation.",
	}, s.handleAddPRComment)

	sdkmcp.AddTool(s.MCPServer, &sdkmcp.Tool{
		Name:        "create_notion_page",
		Description: "Create a Notion page with PR analysis under the configured parent page.",
	}, s.handleCreateNotionPage)
}

// --- Tool input/output types ---

type fetchPRInput struct {
	RepoOwner string `json:"repo_owner" jsonschema:"owner of the GitHub repository"`
	RepoName  string `json:"repo_name" jsonschema:"name of the GitHub repository"`
	PRNumber  int    `json:"pr_number" jsonschema:"pull request number"`
}

type fetchPROutput struct {
	PR *github.PRInfo `json:"pr"`
}

type submitPRReviewInput struct {
	RepoOwner   string                 `json:"repo_owner" jsonschema:"owner of the GitHub repository"`
	RepoName    string                 `json:"repo_name" jsonschema:"name of the GitHub repository"`
	PRNumber    int                    `json:"pr_number" jsonschema:"pull request number"`
	ReviewBody  string                 `json:"review_body" jsonschema:"main review comment body"`
	ReviewState string                 `json:"review_state,omitempty" jsonschema:"COMMENT, APPROVE or REQUEST_CHANGES (default COMMENT)"`
	Comments    []github.ReviewComment `json:"comments,omitempty" jsonschema:"optional line comments (path, position, body)"`
}

type submitPRReviewOutput struct {
	Success   bool   `json:"success"`
	ReviewID  int64  `json:"review_id,omitempty"`
	ReviewURL string `json:"review_url,omitempty"`
}

type addPRCommentInput struct {
	RepoOwner string `json:"repo_owner" jsonschema:"owner of the GitHub repository"`
	RepoName  string `json:"repo_name" jsonschema:"name of the GitHub repository"`
	PRNumber  int    `json:"pr_number" jsonschema:"pull request number"`
	Comment   string `json:"comment" jsonschema:"comment text"`
}

type addPRCommentOutput struct {
	Success    bool   `json:"success"`
	CommentID  int64  `json:"comment_id,omitempty"`
	CommentURL string `json:"comment_url,omitempty"`
}

type createNotionPageInput struct {
	Title   string `json:"title" jsonschema:"page title"`
	Content string `json:"content" jsonschema:"page body, written as one paragraph"`
}

type createNotionPageOutput struct {
	Message string `json:"message"`
	PageURL string `json:"page_url,omitempty"`
}

// --- Tool handlers ---

func (s *Server) handleFetchPR(ctx context.Context, _ *sdkmcp.CallToolRequest, input fetchPRInput) (*sdkmcp.CallToolResult, fetchPROutput, error) {
	logger := logging.New("mcp")
	if s.deps.GitHub == nil {
		return nil, fetchPROutput{}, fmt.Errorf("GitHub is not configured (set GITHUB_TOKEN)")
	}
	logger.Info("fetching PR", "repo", input.RepoOwner+"/"+input.RepoName, "pr", input.PRNumber)

	info, err := s.deps.GitHub.FetchPRChanges(ctx, input.RepoOwner, input.RepoName, input.PRNumber)
	if err != nil {
		return nil, fetchPROutput{}, err
	}
	return nil, fetchPROutput{PR: info}, nil
}

func (s *Server) handleSubmitPRReview(ctx context.Context, _ *sdkmcp.CallToolRequest, input submitPRReviewInput) (*sdkmcp.CallToolResult, submitPRReviewOutput, error) {
	logger := logging.New("mcp")
	if s.deps.GitHub == nil {
		return nil, submitPRReviewOutput{}, fmt.Errorf("GitHub is not configured (set GITHUB_TOKEN)")
	}
	logger.Info("submitting review", "repo", input.RepoOwner+"/"+input.RepoName, "pr", input.PRNumber, "event", input.ReviewState)

	review, err := s.deps.GitHub.SubmitReview(ctx, input.RepoOwner, input.RepoName, input.PRNumber,
		input.ReviewBody, input.ReviewState, input.Comments)
	if err != nil {
		return nil, submitPRReviewOutput{}, err
	}

	if _, err := s.deps.Journal.RecordSubmission(&journal.Submission{
		Kind:     journal.KindReview,
		Repo:     input.RepoOwner + "/" + input.RepoName,
		PRNumber: input.PRNumber,
		RemoteID: review.ID,
		URL:      review.HTMLURL,
	}); err != nil {
		logger.Warn("journal write failed", "err", err)
	}

	return nil, submitPRReviewOutput{
		Success:   true,
		ReviewID:  review.ID,
		ReviewURL: review.HTMLURL,
	}, nil
}

func (s *Server) handleAddPRComment(ctx context.Context, _ *sdkmcp.CallToolRequest, input addPRCommentInput) (*sdkmcp.CallToolResult, addPRCommentOutput, error) {
	logger := logging.New("mcp")
	if s.deps.GitHub == nil {
		return nil, addPRCommentOutput{}, fmt.Errorf("GitHub is not configured (set GITHUB_TOKEN)")
	}
	logger.Info("adding comment", "repo", input.RepoOwner+"/"+input.RepoName, "pr", input.PRNumber)

	comment, err := s.deps.GitHub.AddComment(ctx, input.RepoOwner, input.RepoName, input.PRNumber, input.Comment)
	if err != nil {
		return nil, addPRCommentOutput{}, err
	}

	if _, err := s.deps.Journal.RecordSubmission(&journal.Submission{
		Kind:     journal.KindComment,
		Repo:     input.RepoOwner + "/" + input.RepoName,
		PRNumber: input.PRNumber,
		RemoteID: comment.ID,
		URL:      comment.HTMLURL,
	}); err != nil {
		logger.Warn("journal write failed", "err", err)
	}

	return nil, addPRCommentOutput{
		Success:    true,
		CommentID:  comment.ID,
		CommentURL: comment.HTMLURL,
	}, nil
}

func (s *Server) handleCreateNotionPage(ctx context.Context, _ *sdkmcp.CallToolRequest, input createNotionPageInput) (*sdkmcp.CallToolResult, createNotionPageOutput, error) {
	logger := logging.New("mcp")
	if s.deps.Notion == nil {
		return nil, createNotionPageOutput{}, fmt.Errorf("Notion is not configured (set NOTION_API_KEY and NOTION_PAGE_ID)")
	}
	if input.Title == "" {
		return nil, createNotionPageOutput{}, fmt.Errorf("title is required")
	}
	logger.Info("creating Notion page", "title", input.Title)

	page, err := s.deps.Notion.CreatePage(ctx, input.Title, input.Content)
	if err != nil {
		return nil, createNotionPageOutput{}, err
	}
	return nil, createNotionPageOutput{
		Message: fmt.Sprintf("Notion page %q created successfully", input.Title),
		PageURL: page.URL,
	}, nil
}
