package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"prreview/internal/config"
	"prreview/internal/github"
	"prreview/internal/journal"
	"prreview/internal/logging"
)

var reviewFlags struct {
	repo     string
	pr       int
	body     string
	bodyFile string
	event    string
}

var reviewCmd = &cobra.Command{
	Use:   "review",
	Short: "Submit a review to a pull request",
	Long: `Submits a review directly via the GitHub API, without going through an
MCP host. Useful for smoke-testing credentials.

  prreview review --repo octocat/widgets --pr 42 --body "LGTM" --event APPROVE`,
	RunE: runReview,
}

func init() {
	f := reviewCmd.Flags()
	f.StringVar(&reviewFlags.repo, "repo", "", "Repository as owner/name (required)")
	f.IntVar(&reviewFlags.pr, "pr", 0, "Pull request number (required)")
	f.StringVar(&reviewFlags.body, "body", "", "Review body")
	f.StringVarP(&reviewFlags.bodyFile, "body-file", "f", "", "Read review body from file")
	f.StringVar(&reviewFlags.event, "event", github.EventComment, "Review event: COMMENT, APPROVE or REQUEST_CHANGES")

	_ = reviewCmd.MarkFlagRequired("repo")
	_ = reviewCmd.MarkFlagRequired("pr")
}

func runReview(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	owner, name, err := splitRepo(reviewFlags.repo)
	if err != nil {
		return err
	}
	body, err := resolveBody(reviewFlags.body, reviewFlags.bodyFile)
	if err != nil {
		return err
	}

	client, err := newGitHubClient(cfg)
	if err != nil {
		return err
	}

	review, err := client.SubmitReview(cmd.Context(), owner, name, reviewFlags.pr, body, reviewFlags.event, nil)
	if err != nil {
		return err
	}

	recordSubmission(cfg, &journal.Submission{
		Kind:     journal.KindReview,
		Repo:     reviewFlags.repo,
		PRNumber: reviewFlags.pr,
		RemoteID: review.ID,
		URL:      review.HTMLURL,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Review submitted: %s\n", review.HTMLURL)
	return nil
}

func newGitHubClient(cfg *config.Config) (*github.Client, error) {
	token, err := cfg.ResolveGitHubToken()
	if err != nil {
		return nil, err
	}
	return github.NewClient(github.Config{Token: token}), nil
}

func splitRepo(s string) (owner, name string, err error) {
	owner, name, ok := strings.Cut(s, "/")
	if !ok || owner == "" || name == "" {
		return "", "", fmt.Errorf("repo must be owner/name, got %q", s)
	}
	return owner, name, nil
}

func resolveBody(body, file string) (string, error) {
	if body != "" {
		return body, nil
	}
	if file == "" {
		return "", fmt.Errorf("either --body or --body-file is required")
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return "", fmt.Errorf("read body file: %w", err)
	}
	return string(data), nil
}

// recordSubmission journals a direct CLI submission. Journal trouble is
// logged, not fatal — the submission already happened.
func recordSubmission(cfg *config.Config, sub *journal.Submission) {
	logger := logging.New("journal")
	jr, err := journal.Open(cfg.Abs(cfg.JournalDB))
	if err != nil {
		logger.Warn("journal unavailable", "err", err)
		return
	}
	defer jr.Close()
	if _, err := jr.RecordSubmission(sub); err != nil {
		logger.Warn("journal write failed", "err", err)
	}
}
