// Package config resolves launcher settings from a YAML/JSON file, the
// PRREVIEW_* environment variables and built-in defaults, in that order of
// increasing precedence for the environment overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	yaml "gopkg.in/yaml.v3"
)

// DefaultPath is the config file probed when no --config flag is given.
const DefaultPath = "prreview.yaml"

// Notion holds the credentials for the Notion page writer.
type Notion struct {
	APIKeyFile string `json:"api_key_file" yaml:"api_key_file"` // first line is the key; NOTION_API_KEY wins
	PageID     string `json:"page_id" yaml:"page_id"`           // parent page for created pages
}

// Config is the full launcher + reviewer configuration.
type Config struct {
	ProjectRoot     string   `json:"project_root" yaml:"project_root"`             // base for all relative paths; empty = cwd
	VenvDir         string   `json:"venv_dir" yaml:"venv_dir"`                     // virtual environment directory
	TraceLog        string   `json:"trace_log" yaml:"trace_log"`                   // human-readable launch trace file
	Interpreters    []string `json:"interpreters" yaml:"interpreters"`             // candidate binaries inside <venv>/bin, probed in order
	Entrypoint      string   `json:"entrypoint" yaml:"entrypoint"`                 // downstream reviewer script
	JournalDB       string   `json:"journal_db" yaml:"journal_db"`                 // submission journal SQLite path
	GitHubTokenFile string   `json:"github_token_file" yaml:"github_token_file"`   // token file; GITHUB_TOKEN env wins
	Notion          Notion   `json:"notion" yaml:"notion"`
}

// Default returns the configuration matching the original fixed layout:
// venv/ and the reviewer entrypoint directly under the project root.
func Default() *Config {
	return &Config{
		VenvDir:         "venv",
		TraceLog:        ".prreview/launch.log",
		Interpreters:    []string{"python3", "python"},
		Entrypoint:      "pr_analyzer.py",
		JournalDB:       ".prreview/journal.db",
		GitHubTokenFile: ".github-token",
	}
}

// LoadFromPath reads a config file (YAML or JSON) and applies env overrides.
// An empty path probes DefaultPath; a missing default file is not an error.
func LoadFromPath(path string) (*Config, error) {
	cfg := Default()
	probe := path
	if probe == "" {
		probe = DefaultPath
	}
	data, err := os.ReadFile(probe)
	if err != nil {
		if path == "" && os.IsNotExist(err) {
			cfg.applyEnv()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := unmarshal(data, filepath.Ext(probe), cfg); err != nil {
		return nil, err
	}
	cfg.applyEnv()
	return cfg, nil
}

// unmarshal parses config bytes into cfg. ext is the file extension for the
// format hint; empty = detect from content (JSON starts with '{').
func unmarshal(data []byte, ext string, cfg *Config) error {
	ext = strings.ToLower(ext)
	isJSON := ext == ".json"
	if ext == "" {
		isJSON = strings.HasPrefix(strings.TrimSpace(string(data)), "{")
	}
	if isJSON {
		if err := json.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("parse config json: %w", err)
		}
		return nil
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config yaml: %w", err)
	}
	return nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("PRREVIEW_ROOT"); v != "" {
		c.ProjectRoot = v
	}
	if v := os.Getenv("PRREVIEW_VENV"); v != "" {
		c.VenvDir = v
	}
	if v := os.Getenv("PRREVIEW_TRACE_LOG"); v != "" {
		c.TraceLog = v
	}
	if v := os.Getenv("PRREVIEW_ENTRYPOINT"); v != "" {
		c.Entrypoint = v
	}
	if v := os.Getenv("PRREVIEW_JOURNAL_DB"); v != "" {
		c.JournalDB = v
	}
	if v := os.Getenv("NOTION_PAGE_ID"); v != "" {
		c.Notion.PageID = v
	}
}

// Root returns the project root, defaulting to the current working directory.
func (c *Config) Root() string {
	if c.ProjectRoot != "" {
		return c.ProjectRoot
	}
	cwd, _ := os.Getwd()
	return cwd
}

// Abs resolves p against the project root when p is relative.
func (c *Config) Abs(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.Root(), p)
}

// ResolveGitHubToken returns the GitHub API token: GITHUB_TOKEN env var
// first, then the first line of the configured token file.
func (c *Config) ResolveGitHubToken() (string, error) {
	if v := os.Getenv("GITHUB_TOKEN"); v != "" {
		return v, nil
	}
	tok, err := readFirstLine(c.Abs(c.GitHubTokenFile))
	if err != nil {
		return "", fmt.Errorf("github token: set GITHUB_TOKEN or create %s: %w", c.GitHubTokenFile, err)
	}
	return tok, nil
}

// ResolveNotionKey returns the Notion API key: NOTION_API_KEY env var first,
// then the first line of the configured key file.
func (c *Config) ResolveNotionKey() (string, error) {
	if v := os.Getenv("NOTION_API_KEY"); v != "" {
		return v, nil
	}
	if c.Notion.APIKeyFile == "" {
		return "", fmt.Errorf("notion key: set NOTION_API_KEY or notion.api_key_file in config")
	}
	key, err := readFirstLine(c.Abs(c.Notion.APIKeyFile))
	if err != nil {
		return "", fmt.Errorf("notion key: %w", err)
	}
	return key, nil
}

func readFirstLine(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	line := strings.TrimSpace(strings.Split(string(data), "\n")[0])
	if line == "" {
		return "", fmt.Errorf("%s is empty", path)
	}
	return line, nil
}
