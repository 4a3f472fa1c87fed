package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"prreview/internal/bootstrap"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Run the environment checklist without launching anything",
	Long: `Runs the same precondition checklist as 'launch' and prints a per-check
report to stdout instead of writing the trace file. Exits with the code of
the first failed check, or 0 when all pass.`,
	RunE: runCheck,
}

func runCheck(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	bctx := bootstrap.NewContext(cfg)
	report := bootstrap.Run(bctx, bootstrap.NewTrace(out))

	fmt.Fprintln(out)
	for _, res := range report.Results {
		status := "ok  "
		if !res.OK {
			status = "FAIL"
		}
		fmt.Fprintf(out, "%s %-14s %s\n", status, res.Name, res.Detail)
	}
	if report.Failed() {
		return exitError{code: report.Code}
	}
	fmt.Fprintf(out, "\nEnvironment ready: %s\n", bctx.Interpreter)
	return nil
}
