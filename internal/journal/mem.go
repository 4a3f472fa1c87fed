package journal

import "sync"

// MemJournal is an in-memory Journal for tests and for running without a
// writable database path.
type MemJournal struct {
	mu          sync.Mutex
	runs        []*Run
	submissions []*Submission
	nextRun     int64
	nextSub     int64
}

// NewMemJournal returns an empty in-memory journal.
func NewMemJournal() *MemJournal {
	return &MemJournal{nextRun: 1, nextSub: 1}
}

func (m *MemJournal) RecordRun(run *Run) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if run.StartedAt == "" {
		run.StartedAt = nowUTC()
	}
	cp := *run
	cp.ID = m.nextRun
	m.nextRun++
	m.runs = append(m.runs, &cp)
	return cp.ID, nil
}

func (m *MemJournal) ListRuns(limit int) ([]*Run, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return newestFirst(m.runs, limit), nil
}

func (m *MemJournal) RecordSubmission(sub *Submission) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if sub.CreatedAt == "" {
		sub.CreatedAt = nowUTC()
	}
	cp := *sub
	cp.ID = m.nextSub
	m.nextSub++
	m.submissions = append(m.submissions, &cp)
	return cp.ID, nil
}

func (m *MemJournal) ListSubmissions(limit int) ([]*Submission, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return newestFirst(m.submissions, limit), nil
}

func (m *MemJournal) Close() error { return nil }

func newestFirst[T any](items []*T, limit int) []*T {
	out := make([]*T, 0, len(items))
	for i := len(items) - 1; i >= 0; i-- {
		out = append(out, items[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}
