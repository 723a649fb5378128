package api

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"doc-assistant/ingestion"
)

const (
	jobRunning   = "running"
	jobCompleted = "completed"
	jobFailed    = "failed"
)

// ingestJob tracks one background ingestion run.
type ingestJob struct {
	ID         string            `json:"job_id"`
	Status     string            `json:"status"`
	Docs       []string          `json:"docs"`
	Report     *ingestion.Report `json:"report,omitempty"`
	Error      string            `json:"error,omitempty"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt *time.Time        `json:"finished_at,omitempty"`
}

// jobTracker is an in-memory registry of ingestion jobs.
type jobTracker struct {
	mu   sync.RWMutex
	jobs map[string]*ingestJob
}

func newJobTracker() *jobTracker {
	return &jobTracker{jobs: make(map[string]*ingestJob)}
}

func (t *jobTracker) create(docs []string) *ingestJob {
	job := &ingestJob{
		ID:        uuid.NewString(),
		Status:    jobRunning,
		Docs:      docs,
		StartedAt: time.Now().UTC(),
	}

	t.mu.Lock()
	t.jobs[job.ID] = job
	t.mu.Unlock()

	return job
}

func (t *jobTracker) finish(id string, report *ingestion.Report, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	job, ok := t.jobs[id]
	if !ok {
		return
	}

	now := time.Now().UTC()
	job.FinishedAt = &now
	job.Report = report
	if err != nil {
		job.Status = jobFailed
		job.Error = err.Error()
		return
	}
	job.Status = jobCompleted
}

func (t *jobTracker) get(id string) (ingestJob, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	job, ok := t.jobs[id]
	if !ok {
		return ingestJob{}, false
	}
	return *job, true
}
