package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestLoadFromPath_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prreview.yaml")
	content := `
project_root: /srv/reviewer
venv_dir: .venv
trace_log: /var/log/prreview.log
interpreters: [python3.12, python3]
entrypoint: server/pr_analyzer.py
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}

	want := Default()
	want.ProjectRoot = "/srv/reviewer"
	want.VenvDir = ".venv"
	want.TraceLog = "/var/log/prreview.log"
	want.Interpreters = []string{"python3.12", "python3"}
	want.Entrypoint = "server/pr_analyzer.py"

	if diff := cmp.Diff(want, cfg); diff != "" {
		t.Errorf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_JSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "prreview.json")
	content := `{"venv_dir": "env", "notion": {"page_id": "abc123"}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.VenvDir != "env" {
		t.Errorf("venv_dir = %q, want env", cfg.VenvDir)
	}
	if cfg.Notion.PageID != "abc123" {
		t.Errorf("notion.page_id = %q, want abc123", cfg.Notion.PageID)
	}
	// Unset fields keep defaults.
	if cfg.Entrypoint != "pr_analyzer.py" {
		t.Errorf("entrypoint = %q, want default", cfg.Entrypoint)
	}
}

func TestLoadFromPath_MissingDefaultIsNotError(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadFromPath("")
	if err != nil {
		t.Fatalf("LoadFromPath(\"\"): %v", err)
	}
	if diff := cmp.Diff(Default(), cfg); diff != "" {
		t.Errorf("expected pure defaults (-want +got):\n%s", diff)
	}
}

func TestLoadFromPath_MissingExplicitIsError(t *testing.T) {
	if _, err := LoadFromPath("/nonexistent/prreview.yaml"); err == nil {
		t.Error("expected error for explicit missing config path")
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PRREVIEW_ROOT", "/opt/reviewer")
	t.Setenv("PRREVIEW_VENV", "venv311")
	t.Setenv("NOTION_PAGE_ID", "page-from-env")

	dir := t.TempDir()
	t.Chdir(dir)

	cfg, err := LoadFromPath("")
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.ProjectRoot != "/opt/reviewer" {
		t.Errorf("project_root = %q, want /opt/reviewer", cfg.ProjectRoot)
	}
	if cfg.VenvDir != "venv311" {
		t.Errorf("venv_dir = %q, want venv311", cfg.VenvDir)
	}
	if cfg.Notion.PageID != "page-from-env" {
		t.Errorf("notion.page_id = %q, want page-from-env", cfg.Notion.PageID)
	}
}

func TestAbs(t *testing.T) {
	cfg := Default()
	cfg.ProjectRoot = "/srv/reviewer"

	if got := cfg.Abs("venv"); got != "/srv/reviewer/venv" {
		t.Errorf("Abs(venv) = %q", got)
	}
	if got := cfg.Abs("/var/log/x.log"); got != "/var/log/x.log" {
		t.Errorf("Abs(absolute) = %q", got)
	}
}

func TestResolveGitHubToken(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "")
	dir := t.TempDir()
	cfg := Default()
	cfg.ProjectRoot = dir

	if _, err := cfg.ResolveGitHubToken(); err == nil {
		t.Error("expected error with no env and no token file")
	}

	if err := os.WriteFile(filepath.Join(dir, ".github-token"), []byte("ghp_filetoken\n"), 0600); err != nil {
		t.Fatal(err)
	}
	tok, err := cfg.ResolveGitHubToken()
	if err != nil {
		t.Fatalf("ResolveGitHubToken: %v", err)
	}
	if tok != "ghp_filetoken" {
		t.Errorf("token = %q, want ghp_filetoken", tok)
	}

	t.Setenv("GITHUB_TOKEN", "ghp_envtoken")
	tok, err = cfg.ResolveGitHubToken()
	if err != nil {
		t.Fatalf("ResolveGitHubToken: %v", err)
	}
	if tok != "ghp_envtoken" {
		t.Errorf("env token should win, got %q", tok)
	}
}
