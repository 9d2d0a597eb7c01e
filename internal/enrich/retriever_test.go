package enrich

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/calebhart/enrichflow/internal/model"
)

type staticDownloadAPI struct {
	scriptedAPI
	csv string
}

func (s *staticDownloadAPI) DownloadResult(context.Context, string) (string, error) {
	return s.csv, nil
}

func TestRetrieveResultsParsesDownload(t *testing.T) {
	api := &staticDownloadAPI{csv: "email,first_name\nada@example.com,Ada\ngrace@example.com,Grace\n"}
	job := model.EnrichmentJob{ID: "job-1", Status: model.JobCompleted, ResultURL: "https://x/r.csv"}

	table, err := RetrieveResults(context.Background(), api, job)

	require.NoError(t, err)
	assert.Equal(t, []string{"email", "first_name"}, table.Columns)
	require.Equal(t, 2, table.RowCount())
	assert.Equal(t, "Ada", table.Rows[0]["first_name"])
}

func TestRetrieveResultsRequiresCompletedJobWithURL(t *testing.T) {
	tests := []struct {
		name string
		job  model.EnrichmentJob
	}{
		{"still processing", model.EnrichmentJob{ID: "j", Status: model.JobProcessing, ResultURL: "https://x/r.csv"}},
		{"completed without url", model.EnrichmentJob{ID: "j", Status: model.JobCompleted}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := RetrieveResults(context.Background(), &staticDownloadAPI{}, tt.job)

			var missing *MissingResultError
			require.ErrorAs(t, err, &missing)
			assert.Equal(t, "j", missing.JobID)
		})
	}
}

func TestRetrieveResultsEmptyDownloadYieldsEmptyTable(t *testing.T) {
	api := &staticDownloadAPI{csv: ""}
	job := model.EnrichmentJob{ID: "job-1", Status: model.JobCompleted, ResultURL: "https://x/r.csv"}

	table, err := RetrieveResults(context.Background(), api, job)

	require.NoError(t, err)
	assert.True(t, table.Empty())
}
