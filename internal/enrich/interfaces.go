// Package enrich drives the remote enrichment workflow: job submission,
// status polling, and result retrieval, sequenced by the Orchestrator.
package enrich

import (
	"context"

	"github.com/calebhart/enrichflow/internal/model"
)

// API is the surface of the remote enrichment service the workflow needs.
// Client implements it against the relay; MockAPI implements it in-process.
type API interface {
	// SubmitJob creates a job and returns its opaque identifier.
	SubmitJob(ctx context.Context, req model.EnrichmentRequest) (string, error)
	// GetJob fetches the current snapshot of a job.
	GetJob(ctx context.Context, jobID string) (model.EnrichmentJob, error)
	// DownloadResult fetches the raw result CSV at the given URL.
	DownloadResult(ctx context.Context, url string) (string, error)
}
