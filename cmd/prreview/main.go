// prreview bootstraps and launches the Python PR reviewer, and can serve the
// same review tools natively over MCP.
//
// Usage:
//
//	prreview launch [-- reviewer args]     # verify environment, run the reviewer
//	prreview check                         # verify environment, report, don't run
//	prreview serve                         # native MCP server over stdio
//	prreview review --repo owner/name --pr N --body "..."
//	prreview comment --repo owner/name --pr N --body "..."
//	prreview history                       # journal of runs and submissions
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prreview/internal/config"
	"prreview/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
}

var rootCmd = &cobra.Command{
	Use:   "prreview",
	Short: "Launcher and MCP tools for GitHub PR review",
	Long: "prreview verifies the reviewer's Python environment (virtualenv,\n" +
		"interpreter, entrypoint) before launching it, and exposes the PR review\n" +
		"tools (fetch, review, comment, Notion pages) natively over MCP.",
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(rootFlags.logLevel)
		if err != nil {
			return err
		}
		logging.Init(level, rootFlags.logFormat)
		return nil
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file path (default: prreview.yaml if present)")
	pf.StringVar(&rootFlags.logLevel, "log-level", "info", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "text", "Log format: text or json")

	rootCmd.AddCommand(launchCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(reviewCmd)
	rootCmd.AddCommand(commentCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

// exitError carries a specific process exit code out of a RunE. The codes
// are part of the launcher's contract (see internal/bootstrap).
type exitError struct {
	code int
}

func (e exitError) Error() string { return fmt.Sprintf("exit status %d", e.code) }

func loadConfig() (*config.Config, error) {
	cfg, err := config.LoadFromPath(rootFlags.configPath)
	if err != nil {
		return nil, err
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		var ee exitError
		if errors.As(err, &ee) {
			os.Exit(ee.code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
