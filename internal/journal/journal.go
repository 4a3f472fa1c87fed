// Package journal records launch attempts and GitHub submissions so runs
// leave a queryable trail beyond the plain-text trace file.
package journal

import "time"

// Submission kinds.
const (
	KindReview  = "review"
	KindComment = "comment"
)

// Run is one launcher invocation: which interpreter was chosen and how the
// checklist ended.
type Run struct {
	ID          int64
	StartedAt   string // ISO 8601 UTC
	Interpreter string // empty when selection never happened
	ExitCode    int
	FailedCheck string // name of the first failed check, empty on success
}

// Submission is one review or comment posted to GitHub.
type Submission struct {
	ID        int64
	Kind      string // KindReview or KindComment
	Repo      string // owner/name
	PRNumber  int
	RemoteID  int64  // GitHub's ID for the review/comment
	URL       string
	CreatedAt string // ISO 8601 UTC
}

// Journal is the persistence interface. SQLite in production, memory in
// tests.
type Journal interface {
	RecordRun(run *Run) (int64, error)
	ListRuns(limit int) ([]*Run, error)
	RecordSubmission(sub *Submission) (int64, error)
	ListSubmissions(limit int) ([]*Submission, error)
	Close() error
}

// nowUTC returns the current UTC time as an ISO 8601 string.
func nowUTC() string { return time.Now().UTC().Format(time.RFC3339) }
