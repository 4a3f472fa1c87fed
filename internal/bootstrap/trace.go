package bootstrap

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Trace is the human-readable launch log. One plain sentence per line, in
// the order decisions are made. It is part of the launcher's contract, not
// a diagnostic logger — slog output goes to stderr separately.
type Trace struct {
	w io.Writer
	f *os.File
}

// OpenTrace opens the trace file in append mode, creating its parent
// directory if needed.
func OpenTrace(path string) (*Trace, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create trace dir: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open trace: %w", err)
	}
	return &Trace{w: f, f: f}, nil
}

// NewTrace wraps an arbitrary writer, for tests and for --trace-log=-.
func NewTrace(w io.Writer) *Trace {
	return &Trace{w: w}
}

// Printf appends one line to the trace. Write failures are ignored: the
// trace must never abort a run it exists to describe.
func (t *Trace) Printf(format string, args ...any) {
	if t == nil || t.w == nil {
		return
	}
	fmt.Fprintf(t.w, format+"\n", args...)
}

// Close closes the underlying file, if any.
func (t *Trace) Close() error {
	if t == nil || t.f == nil {
		return nil
	}
	return t.f.Close()
}
