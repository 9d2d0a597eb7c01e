package model

import "time"

// JobStatus is the lifecycle state of a remote enrichment job.
type JobStatus string

const (
	// JobQueued means the job is waiting for the remote service to pick it up.
	JobQueued JobStatus = "QUEUED"
	// JobProcessing means the remote service is working on the job.
	JobProcessing JobStatus = "PROCESSING"
	// JobCompleted means the job finished and a result CSV is available.
	JobCompleted JobStatus = "COMPLETED"
	// JobFailed means the remote service gave up on the job.
	JobFailed JobStatus = "FAILED"
)

// Terminal reports whether the status ends the polling loop.
func (s JobStatus) Terminal() bool {
	return s == JobCompleted || s == JobFailed
}

// EnrichmentJob is a read-only snapshot of a server-owned job, obtained by
// polling. The client never mutates a job, it only re-fetches it; any snapshot
// may be stale the moment it arrives.
type EnrichmentJob struct {
	CreatedAt    time.Time
	ID           string
	Name         string
	ResultURL    string
	Status       JobStatus
	TotalRecords int
}
