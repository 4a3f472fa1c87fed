// Package bootstrap verifies the environment the downstream reviewer needs:
// project root, virtual environment, interpreter, entrypoint. Checks run as
// an ordered fail-fast checklist; every decision is appended to the launch
// trace. No check calls os.Exit — failures are data (an exit code in the
// report) so the checklist is testable end to end.
package bootstrap

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"prreview/internal/config"
)

// Exit codes form the operational contract with wrapper scripts and CI.
// Each precondition failure gets its own code.
const (
	CodeOK            = 0 // all checks passed
	CodeFailure       = 1 // generic failure (trace unwritable, exec error)
	CodeNoProjectRoot = 2 // project root missing or not a directory
	CodeNoVenv        = 3 // virtual environment activation script missing
	CodeNoInterpreter = 4 // no candidate interpreter exists and is executable
	CodeNoEntrypoint  = 5 // reviewer entrypoint file missing
)

// Context is the transient run state: resolved paths going in, the chosen
// interpreter and scoped child environment coming out. It lives for one run.
type Context struct {
	ProjectRoot  string   // absolute project root
	VenvDir      string   // absolute virtual environment directory
	ActivatePath string   // <venv>/bin/activate, the existence witness
	BinDir       string   // <venv>/bin
	Candidates   []string // interpreter names probed in order
	Entrypoint   string   // absolute path of the downstream script

	Interpreter string   // absolute path of the selected interpreter
	Env         []string // scoped environment for the child process
}

// NewContext resolves all paths from cfg. Nothing is checked yet.
func NewContext(cfg *config.Config) *Context {
	venv := cfg.Abs(cfg.VenvDir)
	return &Context{
		ProjectRoot:  cfg.Root(),
		VenvDir:      venv,
		ActivatePath: filepath.Join(venv, "bin", "activate"),
		BinDir:       filepath.Join(venv, "bin"),
		Candidates:   cfg.Interpreters,
		Entrypoint:   cfg.Abs(cfg.Entrypoint),
	}
}

// Result is the structured outcome of one check.
type Result struct {
	Name       string // check name, stable across runs
	OK         bool
	Detail     string // one trace sentence
	Diagnostic string // supplementary dump written on failure (may be empty)
	Code       int    // exit code when !OK
}

// Check is one named precondition in the checklist.
type Check struct {
	Name string
	Run  func(*Context) Result
}

// Report is the outcome of a full checklist run.
type Report struct {
	Results []Result
	Code    int // CodeOK, or the code of the first failed check
}

// Failed reports whether any check failed.
func (r *Report) Failed() bool { return r.Code != CodeOK }

// Checklist returns the launcher's precondition checks in execution order.
func Checklist() []Check {
	return []Check{
		{Name: "project-root", Run: checkProjectRoot},
		{Name: "virtualenv", Run: checkVenv},
		{Name: "interpreter", Run: checkInterpreter},
		{Name: "entrypoint", Run: checkEntrypoint},
	}
}

// Run executes the checklist in order, appending each decision to tr.
// It stops at the first failure; later checks are never probed.
func Run(ctx *Context, tr *Trace) *Report {
	cwd, _ := os.Getwd()
	tr.Printf("Launch started (cwd: %s)", cwd)

	report := &Report{Code: CodeOK}
	for _, c := range Checklist() {
		res := c.Run(ctx)
		res.Name = c.Name
		report.Results = append(report.Results, res)
		tr.Printf("%s", res.Detail)
		if !res.OK {
			if res.Diagnostic != "" {
				tr.Printf("%s", res.Diagnostic)
			}
			report.Code = res.Code
			return report
		}
	}
	return report
}

func checkProjectRoot(ctx *Context) Result {
	info, err := os.Stat(ctx.ProjectRoot)
	if err != nil || !info.IsDir() {
		return Result{
			Detail: fmt.Sprintf("ERROR: project root not found at %s", ctx.ProjectRoot),
			Code:   CodeNoProjectRoot,
		}
	}
	return Result{OK: true, Detail: fmt.Sprintf("Using project root %s", ctx.ProjectRoot)}
}

func checkVenv(ctx *Context) Result {
	if _, err := os.Stat(ctx.ActivatePath); err != nil {
		return Result{
			Detail: fmt.Sprintf("ERROR: virtual environment not found at %s", ctx.ActivatePath),
			Code:   CodeNoVenv,
		}
	}
	ctx.Env = scopedEnv(ctx.VenvDir, ctx.BinDir)
	return Result{OK: true, Detail: fmt.Sprintf("Found virtual environment at %s", ctx.VenvDir)}
}

func checkInterpreter(ctx *Context) Result {
	for _, name := range ctx.Candidates {
		path := filepath.Join(ctx.BinDir, name)
		if isExecutable(path) {
			ctx.Interpreter = path
			return Result{OK: true, Detail: fmt.Sprintf("Selected interpreter %s", path)}
		}
	}
	return Result{
		Detail: fmt.Sprintf("ERROR: no usable interpreter in %s (tried %s)",
			ctx.BinDir, strings.Join(ctx.Candidates, ", ")),
		Diagnostic: listDir(ctx.BinDir),
		Code:       CodeNoInterpreter,
	}
}

func checkEntrypoint(ctx *Context) Result {
	info, err := os.Stat(ctx.Entrypoint)
	if err != nil || info.IsDir() {
		return Result{
			Detail: fmt.Sprintf("ERROR: reviewer entrypoint not found at %s", ctx.Entrypoint),
			Code:   CodeNoEntrypoint,
		}
	}
	return Result{OK: true, Detail: fmt.Sprintf("Verified reviewer entrypoint %s", ctx.Entrypoint)}
}

// scopedEnv builds the child environment equivalent to sourcing
// bin/activate, without mutating this process: VIRTUAL_ENV set, the venv
// bin dir prepended to PATH, PYTHONHOME dropped.
func scopedEnv(venvDir, binDir string) []string {
	env := []string{"VIRTUAL_ENV=" + venvDir}
	pathSeen := false
	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		switch key {
		case "VIRTUAL_ENV", "PYTHONHOME":
			// replaced / dropped
		case "PATH":
			env = append(env, "PATH="+binDir+string(os.PathListSeparator)+kv[len("PATH="):])
			pathSeen = true
		default:
			env = append(env, kv)
		}
	}
	if !pathSeen {
		env = append(env, "PATH="+binDir)
	}
	return env
}

func isExecutable(path string) bool {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	return info.Mode().Perm()&0111 != 0
}

// listDir renders a directory listing for the failure diagnostic.
func listDir(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Sprintf("Contents of %s: unreadable (%v)", dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	sort.Strings(names)
	if len(names) == 0 {
		return fmt.Sprintf("Contents of %s: (empty)", dir)
	}
	return fmt.Sprintf("Contents of %s: %s", dir, strings.Join(names, " "))
}
