package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"prreview/internal/config"
	"prreview/internal/github"
	"prreview/internal/journal"
	"prreview/internal/logging"
	mcpserver "prreview/internal/mcp"
	"prreview/internal/notion"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the native PR-review MCP server over stdio",
	Long: `Starts an MCP server over stdin/stdout exposing fetch_pr,
submit_pr_review, add_pr_comment and create_notion_page. The MCP host
connects via its server config and calls the tools directly.

The server monitors for parent process death and self-terminates when the
host disconnects, to prevent zombie processes.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := logging.New("serve")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	deps := buildDeps(cfg, logger)
	if deps.Journal != nil {
		defer deps.Journal.Close()
	}

	srv := mcpserver.NewServer(deps)

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()
	mcpserver.WatchParent(ctx, 2*time.Second, cancel)

	logger.Info("starting prreview MCP server over stdio (parent watchdog active)")
	return srv.MCPServer.Run(ctx, &sdkmcp.StdioTransport{})
}

// buildDeps wires the tool collaborators from config. Missing credentials
// degrade the matching tools instead of refusing to serve.
func buildDeps(cfg *config.Config, logger *slog.Logger) mcpserver.Deps {
	var deps mcpserver.Deps

	if token, err := cfg.ResolveGitHubToken(); err != nil {
		logger.Warn("GitHub tools disabled", "err", err)
	} else {
		deps.GitHub = github.NewClient(github.Config{Token: token})
	}

	if key, err := cfg.ResolveNotionKey(); err != nil {
		logger.Warn("Notion tools disabled", "err", err)
	} else if cfg.Notion.PageID == "" {
		logger.Warn("Notion tools disabled", "err", "notion.page_id not configured")
	} else {
		deps.Notion = notion.NewClient(notion.Config{APIKey: key, PageID: cfg.Notion.PageID})
	}

	if jr, err := journal.Open(cfg.Abs(cfg.JournalDB)); err != nil {
		logger.Warn("journal unavailable, using memory", "err", err)
	} else {
		deps.Journal = jr
	}

	return deps
}
