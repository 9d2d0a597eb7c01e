package enrich

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/calebhart/enrichflow/internal/model"
)

// PollerConfig bounds the polling loop. The strategy is fixed-interval, not
// exponential backoff: enrichment jobs take minutes and a steady cadence
// keeps progress reporting predictable.
type PollerConfig struct {
	// Interval is the suspension between iterations.
	Interval time.Duration
	// MaxAttempts caps the number of status fetches.
	MaxAttempts int
	// TransientRetries is how many consecutive fetch failures are absorbed
	// before the error propagates. A FAILED job status is never retried.
	TransientRetries int
}

// DefaultPollerConfig matches the service's expected job turnaround: up to
// ten minutes at a two second cadence.
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		Interval:         2 * time.Second,
		MaxAttempts:      300,
		TransientRetries: 3,
	}
}

// Poller repeatedly fetches a job snapshot until it reaches a terminal
// status, surfacing every snapshot to the caller's update callback.
type Poller struct {
	api API
	cfg PollerConfig
}

// NewPoller creates a poller over the given API. Zero config values fall back
// to defaults.
func NewPoller(api API, cfg PollerConfig) *Poller {
	def := DefaultPollerConfig()
	if cfg.Interval <= 0 {
		cfg.Interval = def.Interval
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.TransientRetries <= 0 {
		cfg.TransientRetries = def.TransientRetries
	}
	return &Poller{api: api, cfg: cfg}
}

// Poll loops until the job completes, fails, disappears, or the attempt
// budget runs out. onUpdate receives every successfully fetched snapshot,
// including the terminal one. The inter-iteration delay is a cooperative
// suspension honoring ctx.
func (p *Poller) Poll(ctx context.Context, jobID string, onUpdate func(model.EnrichmentJob)) (model.EnrichmentJob, error) {
	consecutiveFailures := 0

	for attempt := 1; attempt <= p.cfg.MaxAttempts; attempt++ {
		job, err := p.api.GetJob(ctx, jobID)
		switch {
		case err != nil:
			var notFound *JobNotFoundError
			if errors.As(err, &notFound) {
				return model.EnrichmentJob{}, err
			}
			consecutiveFailures++
			if consecutiveFailures > p.cfg.TransientRetries {
				return model.EnrichmentJob{}, err
			}
			slog.Warn("Poll attempt failed, retrying",
				"job_id", jobID,
				"attempt", attempt,
				"consecutive_failures", consecutiveFailures,
				"error", err)
		default:
			consecutiveFailures = 0
			if onUpdate != nil {
				onUpdate(job)
			}
			switch job.Status {
			case model.JobCompleted:
				return job, nil
			case model.JobFailed:
				return model.EnrichmentJob{}, &JobFailedError{Job: job}
			}
			slog.Debug("Job not terminal yet",
				"job_id", jobID,
				"status", job.Status,
				"attempt", attempt)
		}

		if attempt == p.cfg.MaxAttempts {
			break
		}
		select {
		case <-ctx.Done():
			return model.EnrichmentJob{}, ctx.Err()
		case <-time.After(p.cfg.Interval):
		}
	}

	return model.EnrichmentJob{}, &PollTimeoutError{JobID: jobID, Attempts: p.cfg.MaxAttempts}
}
