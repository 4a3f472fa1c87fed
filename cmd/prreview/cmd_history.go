package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prreview/internal/journal"
)

var historyFlags struct {
	limit int
	runs  bool
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show journaled submissions and launch attempts",
	RunE:  runHistory,
}

func init() {
	f := historyCmd.Flags()
	f.IntVarP(&historyFlags.limit, "limit", "n", 20, "Max entries to show (0 = all)")
	f.BoolVar(&historyFlags.runs, "runs", false, "Show launch attempts instead of submissions")
}

func runHistory(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	jr, err := journal.Open(cfg.Abs(cfg.JournalDB))
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer jr.Close()

	out := cmd.OutOrStdout()

	if historyFlags.runs {
		runs, err := jr.ListRuns(historyFlags.limit)
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			fmt.Fprintln(out, "No launch attempts recorded.")
			return nil
		}
		for _, r := range runs {
			outcome := "ok"
			if r.ExitCode != 0 {
				outcome = fmt.Sprintf("failed at %s (code %d)", r.FailedCheck, r.ExitCode)
			}
			fmt.Fprintf(out, "%s  %-40s %s\n", r.StartedAt, r.Interpreter, outcome)
		}
		return nil
	}

	subs, err := jr.ListSubmissions(historyFlags.limit)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		fmt.Fprintln(out, "No submissions recorded.")
		return nil
	}
	for _, s := range subs {
		fmt.Fprintf(out, "%s  %-7s %s#%d  %s\n", s.CreatedAt, s.Kind, s.Repo, s.PRNumber, s.URL)
	}
	return nil
}
