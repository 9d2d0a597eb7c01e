package enrich

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebhart/enrichflow/internal/model"
)

func sampleTable() *model.ParsedTable {
	return &model.ParsedTable{
		Columns: []string{"Email Address", "Given Name", "Notes"},
		Rows: []map[string]string{
			{"Email Address": "ada@example.com", "Given Name": "Ada", "Notes": "vip"},
			{"Email Address": "grace@example.com", "Given Name": "Grace", "Notes": ""},
			{"Email Address": "ada@example.com", "Given Name": "Ada", "Notes": "dup"},
		},
	}
}

func sampleMappings() []model.ColumnMapping {
	return []model.ColumnMapping{
		{CSVColumn: "Email Address", TargetField: model.FieldEmail, Enabled: true},
		{CSVColumn: "Given Name", TargetField: model.FieldFirstName, Enabled: true},
		{CSVColumn: "Notes", Enabled: false},
	}
}

func testOrchestrator(api API) *Orchestrator {
	return NewOrchestrator(api, NewPoller(api, PollerConfig{
		Interval:    time.Millisecond,
		MaxAttempts: 10,
	}))
}

func TestRunCompletesWorkflow(t *testing.T) {
	api := NewMockAPI()
	var updates []Progress

	results, err := testOrchestrator(api).Run(
		context.Background(),
		"Enrichment_test",
		sampleTable(),
		sampleMappings(),
		model.MatchAny,
		func(p Progress) { updates = append(updates, p) },
	)

	require.NoError(t, err)
	require.NotNil(t, results)
	assert.Equal(t, 2, results.RowCount(), "duplicate row must be dropped before submission")
	assert.Contains(t, results.Columns, "email")

	require.NotEmpty(t, updates)
	assert.Equal(t, StageSubmitting, updates[0].Stage)
	assert.Equal(t, 0, updates[0].Percent)
	last := updates[len(updates)-1]
	assert.Equal(t, StageComplete, last.Stage)
	assert.Equal(t, 100, last.Percent)
	require.NotNil(t, last.Job)
	assert.Equal(t, model.JobCompleted, last.Job.Status)

	prev := -1
	for _, p := range updates {
		assert.GreaterOrEqual(t, p.Percent, prev, "progress must be monotonic")
		prev = p.Percent
	}
}

func TestRunReportsDownloadingBeforeComplete(t *testing.T) {
	api := NewMockAPI()
	var stages []Stage

	_, err := testOrchestrator(api).Run(
		context.Background(),
		"Enrichment_test",
		sampleTable(),
		sampleMappings(),
		model.MatchAny,
		func(p Progress) {
			if len(stages) == 0 || stages[len(stages)-1] != p.Stage {
				stages = append(stages, p.Stage)
			}
		},
	)

	require.NoError(t, err)
	assert.Equal(t, []Stage{StageSubmitting, StagePolling, StageDownloading, StageComplete}, stages)
}

func TestRunRejectsInputBeforeNetwork(t *testing.T) {
	tests := []struct {
		name     string
		table    *model.ParsedTable
		mappings []model.ColumnMapping
		wantErr  error
	}{
		{
			name:  "nothing enabled",
			table: sampleTable(),
			mappings: []model.ColumnMapping{
				{CSVColumn: "Email Address", TargetField: model.FieldEmail, Enabled: false},
			},
			wantErr: ErrNoColumnsSelected,
		},
		{
			name: "no valid rows",
			table: &model.ParsedTable{
				Columns: []string{"Email Address"},
				Rows:    []map[string]string{{"Email Address": "  "}},
			},
			mappings: []model.ColumnMapping{
				{CSVColumn: "Email Address", TargetField: model.FieldEmail, Enabled: true},
			},
			wantErr: ErrNoValidRows,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := NewMockAPI()
			_, err := testOrchestrator(api).Run(
				context.Background(), "x", tt.table, tt.mappings, model.MatchAny, nil)

			require.ErrorIs(t, err, tt.wantErr)
			assert.Empty(t, api.jobs, "no job may be created for rejected input")
		})
	}
}

func TestRunSurfacesJobFailure(t *testing.T) {
	api := NewMockAPI()
	api.FailJobs = true

	_, err := testOrchestrator(api).Run(
		context.Background(), "x", sampleTable(), sampleMappings(), model.MatchAny, nil)

	var failed *JobFailedError
	require.ErrorAs(t, err, &failed)
}

// brokenDownloadAPI completes jobs normally but refuses result downloads.
type brokenDownloadAPI struct {
	*MockAPI
}

func (b *brokenDownloadAPI) DownloadResult(context.Context, string) (string, error) {
	return "", errors.New("storage offline")
}

func TestRunDownloadErrorCarriesCompletedJob(t *testing.T) {
	api := &brokenDownloadAPI{MockAPI: NewMockAPI()}

	_, err := testOrchestrator(api).Run(
		context.Background(), "x", sampleTable(), sampleMappings(), model.MatchAny, nil)

	var dlErr *DownloadError
	require.ErrorAs(t, err, &dlErr)
	assert.Equal(t, model.JobCompleted, dlErr.Job.Status)
	assert.NotEmpty(t, dlErr.Job.ResultURL, "caller needs the URL to retry without resubmitting")
}

func TestBuildRequestProjectsActiveMappingsOnly(t *testing.T) {
	table := sampleTable()
	mappings := sampleMappings()
	active := activeMappings(mappings)
	partition := &model.ValidationPartition{ValidRows: []int{0, 1}}

	req := buildRequest("Enrichment_x", table, partition, active, model.MatchAll)

	assert.Equal(t, "Enrichment_x", req.Name)
	assert.Equal(t, model.MatchAll, req.Operator)
	assert.Equal(t, []model.InputField{model.FieldEmail, model.FieldFirstName}, req.Columns)
	require.Len(t, req.Records, 2)
	assert.Equal(t, map[model.InputField]string{
		model.FieldEmail:     "ada@example.com",
		model.FieldFirstName: "Ada",
	}, req.Records[0])
	assert.NotContains(t, req.Records[0], model.InputField("Notes"))
}

func TestBuildRequestLaterMappingWinsOnSharedTarget(t *testing.T) {
	table := &model.ParsedTable{
		Columns: []string{"work", "personal"},
		Rows:    []map[string]string{{"work": "a@corp.com", "personal": "a@home.com"}},
	}
	active := []model.ColumnMapping{
		{CSVColumn: "work", TargetField: model.FieldEmail, Enabled: true},
		{CSVColumn: "personal", TargetField: model.FieldEmail, Enabled: true},
	}
	partition := &model.ValidationPartition{ValidRows: []int{0}}

	req := buildRequest("x", table, partition, active, model.MatchAny)

	assert.Equal(t, []model.InputField{model.FieldEmail}, req.Columns, "shared target appears once")
	assert.Equal(t, "a@home.com", req.Records[0][model.FieldEmail])
}
