package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prreview/internal/journal"
)

var commentFlags struct {
	repo     string
	pr       int
	body     string
	bodyFile string
}

var commentCmd = &cobra.Command{
	Use:   "comment",
	Short: "Add a comment to a pull request",
	Long: `Posts a conversation comment directly via the GitHub API.

  prreview comment --repo octocat/widgets --pr 42 --body "ping"`,
	RunE: runComment,
}

func init() {
	f := commentCmd.Flags()
	f.StringVar(&commentFlags.repo, "repo", "", "Repository as owner/name (required)")
	f.IntVar(&commentFlags.pr, "pr", 0, "Pull request number (required)")
	f.StringVar(&commentFlags.body, "body", "", "Comment text")
	f.StringVarP(&commentFlags.bodyFile, "body-file", "f", "", "Read comment text from file")

	_ = commentCmd.MarkFlagRequired("repo")
	_ = commentCmd.MarkFlagRequired("pr")
}

func runComment(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	owner, name, err := splitRepo(commentFlags.repo)
	if err != nil {
		return err
	}
	body, err := resolveBody(commentFlags.body, commentFlags.bodyFile)
	if err != nil {
		return err
	}

	client, err := newGitHubClient(cfg)
	if err != nil {
		return err
	}

	comment, err := client.AddComment(cmd.Context(), owner, name, commentFlags.pr, body)
	if err != nil {
		return err
	}

	recordSubmission(cfg, &journal.Submission{
		Kind:     journal.KindComment,
		Repo:     commentFlags.repo,
		PRNumber: commentFlags.pr,
		RemoteID: comment.ID,
		URL:      comment.HTMLURL,
	})

	fmt.Fprintf(cmd.OutOrStdout(), "Comment added: %s\n", comment.HTMLURL)
	return nil
}
