package journal

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

const schemaVersion = 1

var schema = `
CREATE TABLE IF NOT EXISTS schema_version (version INTEGER NOT NULL);
CREATE TABLE IF NOT EXISTS runs (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	started_at TEXT NOT NULL,
	interpreter TEXT NOT NULL DEFAULT '',
	exit_code INTEGER NOT NULL,
	failed_check TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS submissions (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	kind TEXT NOT NULL,
	repo TEXT NOT NULL,
	pr_number INTEGER NOT NULL,
	remote_id INTEGER NOT NULL,
	url TEXT NOT NULL DEFAULT '',
	created_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_submissions_repo_pr ON submissions(repo, pr_number);
`

// SQLJournal implements Journal with SQLite.
type SQLJournal struct {
	db *sql.DB
}

// Open opens or creates a SQLite journal at path and runs migrations.
// Creates the parent directory (e.g. .prreview) if it does not exist.
func Open(path string) (*SQLJournal, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}
	j := &SQLJournal{db: db}
	if err := j.migrate(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return j, nil
}

func (j *SQLJournal) migrate() error {
	if _, err := j.db.Exec(schema); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	var count int
	if err := j.db.QueryRow("SELECT COUNT(*) FROM schema_version").Scan(&count); err != nil {
		return fmt.Errorf("check schema version: %w", err)
	}
	if count == 0 {
		if _, err := j.db.Exec("INSERT INTO schema_version(version) VALUES(?)", schemaVersion); err != nil {
			return fmt.Errorf("set schema version: %w", err)
		}
		return nil
	}
	var v int
	if err := j.db.QueryRow("SELECT version FROM schema_version LIMIT 1").Scan(&v); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if v != schemaVersion {
		return fmt.Errorf("unknown schema version %d", v)
	}
	return nil
}

// Close closes the underlying database.
func (j *SQLJournal) Close() error {
	return j.db.Close()
}

// RecordRun inserts a run row. StartedAt defaults to now.
func (j *SQLJournal) RecordRun(run *Run) (int64, error) {
	if run.StartedAt == "" {
		run.StartedAt = nowUTC()
	}
	res, err := j.db.Exec(
		"INSERT INTO runs(started_at, interpreter, exit_code, failed_check) VALUES(?, ?, ?, ?)",
		run.StartedAt, run.Interpreter, run.ExitCode, run.FailedCheck,
	)
	if err != nil {
		return 0, fmt.Errorf("insert run: %w", err)
	}
	return res.LastInsertId()
}

// ListRuns returns the most recent runs, newest first. limit <= 0 means all.
func (j *SQLJournal) ListRuns(limit int) ([]*Run, error) {
	q := "SELECT id, started_at, interpreter, exit_code, failed_check FROM runs ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var out []*Run
	for rows.Next() {
		r := &Run{}
		if err := rows.Scan(&r.ID, &r.StartedAt, &r.Interpreter, &r.ExitCode, &r.FailedCheck); err != nil {
			return nil, fmt.Errorf("scan run: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// RecordSubmission inserts a submission row. CreatedAt defaults to now.
func (j *SQLJournal) RecordSubmission(sub *Submission) (int64, error) {
	if sub.CreatedAt == "" {
		sub.CreatedAt = nowUTC()
	}
	res, err := j.db.Exec(
		"INSERT INTO submissions(kind, repo, pr_number, remote_id, url, created_at) VALUES(?, ?, ?, ?, ?, ?)",
		sub.Kind, sub.Repo, sub.PRNumber, sub.RemoteID, sub.URL, sub.CreatedAt,
	)
	if err != nil {
		return 0, fmt.Errorf("insert submission: %w", err)
	}
	return res.LastInsertId()
}

// ListSubmissions returns the most recent submissions, newest first.
// limit <= 0 means all.
func (j *SQLJournal) ListSubmissions(limit int) ([]*Submission, error) {
	q := "SELECT id, kind, repo, pr_number, remote_id, url, created_at FROM submissions ORDER BY id DESC"
	args := []any{}
	if limit > 0 {
		q += " LIMIT ?"
		args = append(args, limit)
	}
	rows, err := j.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("list submissions: %w", err)
	}
	defer rows.Close()

	var out []*Submission
	for rows.Next() {
		s := &Submission{}
		if err := rows.Scan(&s.ID, &s.Kind, &s.Repo, &s.PRNumber, &s.RemoteID, &s.URL, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan submission: %w", err)
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
