// Package launch invokes the downstream reviewer with the interpreter and
// scoped environment resolved by the bootstrap checklist.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"

	"prreview/internal/bootstrap"
)

// Command builds the reviewer invocation: <interpreter> <entrypoint>,
// running in the project root with the scoped environment and inherited
// stdio. The reviewer speaks MCP over the inherited stdin/stdout, so the
// launcher must not touch those streams after this point.
func Command(ctx context.Context, bctx *bootstrap.Context, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, bctx.Interpreter, append([]string{bctx.Entrypoint}, args...)...)
	cmd.Dir = bctx.ProjectRoot
	cmd.Env = bctx.Env
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd
}

// Run starts the reviewer and blocks until it exits, returning the child's
// exit code unchanged. A child that could not be started at all maps to the
// generic failure code.
func Run(ctx context.Context, bctx *bootstrap.Context, tr *bootstrap.Trace, args ...string) (int, error) {
	cmd := Command(ctx, bctx, args...)
	tr.Printf("Invoking %s %s", bctx.Interpreter, bctx.Entrypoint)

	err := cmd.Run()
	if err == nil {
		tr.Printf("Reviewer exited with status 0")
		return bootstrap.CodeOK, nil
	}

	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		code := exitErr.ExitCode()
		tr.Printf("Reviewer exited with status %d", code)
		return code, nil
	}

	tr.Printf("ERROR: failed to start reviewer: %v", err)
	return bootstrap.CodeFailure, fmt.Errorf("start reviewer: %w", err)
}
