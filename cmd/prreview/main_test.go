package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// execute runs the CLI in-process and returns stdout plus the exit code the
// process would have used.
func execute(t *testing.T, args ...string) (string, int, error) {
	t.Helper()
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	if err == nil {
		return buf.String(), 0, nil
	}
	var ee exitError
	if errors.As(err, &ee) {
		return buf.String(), ee.code, nil
	}
	return buf.String(), 1, err
}

func makeVenvFixture(t *testing.T, withVenv bool) string {
	t.Helper()
	root := t.TempDir()
	if withVenv {
		binDir := filepath.Join(root, "venv", "bin")
		if err := os.MkdirAll(binDir, 0755); err != nil {
			t.Fatal(err)
		}
		for name, mode := range map[string]os.FileMode{"activate": 0644, "python3": 0755} {
			if err := os.WriteFile(filepath.Join(binDir, name), []byte("#!/bin/sh\n"), mode); err != nil {
				t.Fatal(err)
			}
		}
		if err := os.WriteFile(filepath.Join(root, "pr_analyzer.py"), []byte("print('ok')\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func TestCheck_FullySatisfied(t *testing.T) {
	root := makeVenvFixture(t, true)
	t.Setenv("PRREVIEW_ROOT", root)

	out, code, err := execute(t, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if code != 0 {
		t.Fatalf("exit code = %d, want 0\n%s", code, out)
	}
	if !strings.Contains(out, "Environment ready") {
		t.Errorf("missing ready line:\n%s", out)
	}
	if strings.Contains(out, "FAIL") {
		t.Errorf("unexpected failed check:\n%s", out)
	}
}

func TestCheck_MissingVenvExitCode(t *testing.T) {
	root := makeVenvFixture(t, false)
	t.Setenv("PRREVIEW_ROOT", root)

	out, code, err := execute(t, "check")
	if err != nil {
		t.Fatalf("check: %v\n%s", err, out)
	}
	if code != 3 {
		t.Errorf("exit code = %d, want 3 (missing virtualenv)\n%s", code, out)
	}
	if !strings.Contains(out, "ERROR: virtual environment not found") {
		t.Errorf("missing venv error:\n%s", out)
	}
}

func TestSplitRepo(t *testing.T) {
	owner, name, err := splitRepo("octocat/widgets")
	if err != nil || owner != "octocat" || name != "widgets" {
		t.Errorf("splitRepo: %q %q %v", owner, name, err)
	}
	if _, _, err := splitRepo("widgets"); err == nil {
		t.Error("expected error for repo without owner")
	}
	if _, _, err := splitRepo("/widgets"); err == nil {
		t.Error("expected error for empty owner")
	}
}

func TestResolveBody(t *testing.T) {
	if body, err := resolveBody("inline", ""); err != nil || body != "inline" {
		t.Errorf("inline body: %q %v", body, err)
	}
	if _, err := resolveBody("", ""); err == nil {
		t.Error("expected error with neither body nor file")
	}

	path := filepath.Join(t.TempDir(), "body.md")
	if err := os.WriteFile(path, []byte("from file"), 0644); err != nil {
		t.Fatal(err)
	}
	if body, err := resolveBody("", path); err != nil || body != "from file" {
		t.Errorf("file body: %q %v", body, err)
	}
}
