package main

import (
	"github.com/spf13/cobra"

	"prreview/internal/bootstrap"
	"prreview/internal/config"
	"prreview/internal/journal"
	"prreview/internal/launch"
	"prreview/internal/logging"
)

var launchCmd = &cobra.Command{
	Use:   "launch [-- reviewer args]",
	Short: "Verify the reviewer environment and launch it",
	Long: `Runs the precondition checklist (project root, virtualenv, interpreter,
entrypoint), writing each decision to the launch trace file. On success the
reviewer is started with the selected interpreter and a scoped environment,
and its exit code is propagated. Each precondition failure has a distinct
exit code:

  2  project root missing
  3  virtual environment missing
  4  no usable interpreter
  5  reviewer entrypoint missing`,
	RunE: runLaunch,
}

func runLaunch(cmd *cobra.Command, args []string) error {
	logger := logging.New("launch")
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	tr, err := bootstrap.OpenTrace(cfg.Abs(cfg.TraceLog))
	if err != nil {
		logger.Error("cannot open trace file", "path", cfg.Abs(cfg.TraceLog), "err", err)
		return exitError{code: bootstrap.CodeFailure}
	}
	defer tr.Close()

	bctx := bootstrap.NewContext(cfg)
	report := bootstrap.Run(bctx, tr)
	recordRun(cfg, bctx, report)

	if report.Failed() {
		last := report.Results[len(report.Results)-1]
		logger.Error("precondition failed", "check", last.Name, "detail", last.Detail)
		return exitError{code: report.Code}
	}

	code, err := launch.Run(cmd.Context(), bctx, tr, args...)
	if err != nil {
		logger.Error("reviewer failed to start", "err", err)
		return exitError{code: code}
	}
	if code != 0 {
		return exitError{code: code}
	}
	return nil
}

// recordRun journals the outcome of a checklist run. Journal trouble never
// affects the launch itself.
func recordRun(cfg *config.Config, bctx *bootstrap.Context, report *bootstrap.Report) {
	logger := logging.New("journal")
	jr, err := journal.Open(cfg.Abs(cfg.JournalDB))
	if err != nil {
		logger.Warn("journal unavailable", "path", cfg.Abs(cfg.JournalDB), "err", err)
		return
	}
	defer jr.Close()

	run := &journal.Run{Interpreter: bctx.Interpreter, ExitCode: report.Code}
	if report.Failed() {
		run.FailedCheck = report.Results[len(report.Results)-1].Name
	}
	if _, err := jr.RecordRun(run); err != nil {
		logger.Warn("journal write failed", "err", err)
	}
}
