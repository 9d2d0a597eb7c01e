package enrich

import (
	"context"
	"log/slog"

	"github.com/calebhart/enrichflow/internal/model"
	"github.com/calebhart/enrichflow/internal/validate"
)

// Stage names one phase of the enrichment workflow.
type Stage string

const (
	StageSubmitting  Stage = "submitting"
	StagePolling     Stage = "polling"
	StageDownloading Stage = "downloading"
	StageComplete    Stage = "complete"
)

// Progress is delivered to the caller on every stage transition and on every
// poll update. Percent moves monotonically from 0 to 100; Job is nil until
// the first poll snapshot arrives.
type Progress struct {
	Job     *model.EnrichmentJob
	Stage   Stage
	Percent int
}

// Orchestrator sequences submit, poll, and download as one workflow. Any
// failure aborts the whole run and surfaces a single error; there is no
// partial-result path. A DownloadError still carries the completed job so the
// caller can re-fetch without resubmitting.
type Orchestrator struct {
	api    API
	poller *Poller
}

// NewOrchestrator wires an orchestrator over an API and its poller.
func NewOrchestrator(api API, poller *Poller) *Orchestrator {
	return &Orchestrator{api: api, poller: poller}
}

// Run validates, submits, polls to completion, and retrieves the enriched
// records. Input errors (nothing mapped, nothing valid) are rejected before
// any network call.
func (o *Orchestrator) Run(
	ctx context.Context,
	name string,
	table *model.ParsedTable,
	mappings []model.ColumnMapping,
	operator model.MatchOperator,
	onProgress func(Progress),
) (*model.ParsedTable, error) {
	report := func(stage Stage, job *model.EnrichmentJob, percent int) {
		if onProgress != nil {
			onProgress(Progress{Stage: stage, Job: job, Percent: percent})
		}
	}

	active := activeMappings(mappings)
	if len(active) == 0 {
		return nil, ErrNoColumnsSelected
	}

	partition := validate.Validate(table, mappings, operator)
	if len(partition.ValidRows) == 0 {
		return nil, ErrNoValidRows
	}

	req := buildRequest(name, table, partition, active, operator)

	slog.Info("Starting enrichment workflow",
		"name", name,
		"records", len(req.Records),
		"columns", len(req.Columns),
		"operator", operator)

	report(StageSubmitting, nil, 0)
	jobID, err := o.api.SubmitJob(ctx, req)
	if err != nil {
		return nil, err
	}

	report(StagePolling, nil, 10)
	job, err := o.poller.Poll(ctx, jobID, func(snapshot model.EnrichmentJob) {
		report(StagePolling, &snapshot, pollPercent(snapshot.Status))
	})
	if err != nil {
		return nil, err
	}

	report(StageDownloading, &job, 90)
	results, err := RetrieveResults(ctx, o.api, job)
	if err != nil {
		return nil, err
	}

	slog.Info("Enrichment workflow complete",
		"job_id", job.ID,
		"records", results.RowCount())

	report(StageComplete, &job, 100)
	return results, nil
}

func activeMappings(mappings []model.ColumnMapping) []model.ColumnMapping {
	var active []model.ColumnMapping
	for _, m := range mappings {
		if m.Active() {
			active = append(active, m)
		}
	}
	return active
}

// buildRequest projects each valid row through the active mappings. Columns
// are the distinct target fields in mapping order; when two CSV columns share
// a target, the later one's value wins per record.
func buildRequest(
	name string,
	table *model.ParsedTable,
	partition *model.ValidationPartition,
	active []model.ColumnMapping,
	operator model.MatchOperator,
) model.EnrichmentRequest {
	var columns []model.InputField
	seen := make(map[model.InputField]struct{}, len(active))
	for _, m := range active {
		if _, dup := seen[m.TargetField]; dup {
			continue
		}
		seen[m.TargetField] = struct{}{}
		columns = append(columns, m.TargetField)
	}

	records := make([]map[model.InputField]string, 0, len(partition.ValidRows))
	for _, idx := range partition.ValidRows {
		row := table.Rows[idx]
		record := make(map[model.InputField]string, len(columns))
		for _, m := range active {
			record[m.TargetField] = row[m.CSVColumn]
		}
		records = append(records, record)
	}

	return model.EnrichmentRequest{
		Name:     name,
		Operator: operator,
		Columns:  columns,
		Records:  records,
	}
}

// pollPercent maps a job status to the coarse progress shown during polling.
func pollPercent(status model.JobStatus) int {
	switch status {
	case model.JobProcessing:
		return 50
	case model.JobCompleted:
		return 90
	default:
		return 10
	}
}
