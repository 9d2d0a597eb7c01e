package enrich

import (
	"context"

	"github.com/calebhart/enrichflow/internal/csvio"
	"github.com/calebhart/enrichflow/internal/model"
)

// RetrieveResults downloads a completed job's result CSV and parses it into a
// table, one record per data row with header-derived field names. The job
// must be COMPLETED with a result URL present.
func RetrieveResults(ctx context.Context, api API, job model.EnrichmentJob) (*model.ParsedTable, error) {
	if job.Status != model.JobCompleted || job.ResultURL == "" {
		return nil, &MissingResultError{JobID: job.ID}
	}

	text, err := api.DownloadResult(ctx, job.ResultURL)
	if err != nil {
		return nil, &DownloadError{Job: job, Err: err}
	}

	return csvio.Parse(text), nil
}
