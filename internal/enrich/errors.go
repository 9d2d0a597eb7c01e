package enrich

import (
	"errors"
	"fmt"

	"github.com/calebhart/enrichflow/internal/model"
)

// Locally detectable input errors, rejected before any network call.
var (
	// ErrNoColumnsSelected means no enabled column mapping carries a target field.
	ErrNoColumnsSelected = errors.New("no columns selected for matching")
	// ErrNoValidRows means validation left nothing to submit.
	ErrNoValidRows = errors.New("no valid rows to submit")
)

// SubmissionError means job creation failed, whether the remote service
// rejected it or its response could not be used.
type SubmissionError struct {
	Err        error
	Message    string
	StatusCode int
}

func (e *SubmissionError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("job submission rejected (status %d): %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("job submission rejected: %s", e.Message)
}

func (e *SubmissionError) Unwrap() error {
	return e.Err
}

// ParseError means a request or response body could not be decoded as the
// expected shape. The CSV parser never fails; this is about JSON envelopes.
type ParseError struct {
	Err     error
	Context string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("malformed %s: %v", e.Context, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// JobNotFoundError means a poll could not locate the job id.
type JobNotFoundError struct {
	JobID string
}

func (e *JobNotFoundError) Error() string {
	return fmt.Sprintf("job %s not found", e.JobID)
}

// JobFailedError means the remote service marked the job FAILED. Failed jobs
// are never retried; the whole workflow must be re-initiated.
type JobFailedError struct {
	Job model.EnrichmentJob
}

func (e *JobFailedError) Error() string {
	return fmt.Sprintf("job %s failed on the remote service", e.Job.ID)
}

// PollTimeoutError means the job did not reach a terminal status within the
// attempt budget.
type PollTimeoutError struct {
	JobID    string
	Attempts int
}

func (e *PollTimeoutError) Error() string {
	return fmt.Sprintf("job %s still not terminal after %d poll attempts", e.JobID, e.Attempts)
}

// MissingResultError means a job presented as complete has no result URL.
type MissingResultError struct {
	JobID string
}

func (e *MissingResultError) Error() string {
	return fmt.Sprintf("job %s has no downloadable result", e.JobID)
}

// DownloadError means fetching the result CSV failed. It carries the
// completed job snapshot so a caller can re-fetch the result without
// resubmitting and paying for the job again.
type DownloadError struct {
	Err error
	Job model.EnrichmentJob
}

func (e *DownloadError) Error() string {
	return fmt.Sprintf("downloading result for job %s: %v", e.Job.ID, e.Err)
}

func (e *DownloadError) Unwrap() error { return e.Err }
