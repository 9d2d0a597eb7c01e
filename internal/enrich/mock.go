package enrich

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/calebhart/enrichflow/internal/csvio"
	"github.com/calebhart/enrichflow/internal/model"
)

// Sample pools for generated contacts. Selection is by row index, so mock
// output is deterministic run to run.
var (
	mockFirstNames = []string{"John", "Jane", "Michael", "Sarah", "David", "Emily", "Robert", "Lisa", "James", "Mary"}
	mockLastNames  = []string{"Smith", "Johnson", "Williams", "Brown", "Jones", "Garcia", "Miller", "Davis", "Rodriguez", "Martinez"}
	mockCompanies  = []string{"TechCorp", "InnovateLabs", "DataSystems", "CloudWorks", "DigitalEdge", "SmartSolutions", "NextGen Inc", "FutureWorks", "Synergy Group", "Quantum Labs"}
	mockJobTitles  = []string{"CEO", "CTO", "VP of Engineering", "Marketing Director", "Sales Manager", "Product Manager", "Software Engineer", "Data Scientist", "Operations Manager", "HR Director"}
)

type mockJob struct {
	job     model.EnrichmentJob
	request model.EnrichmentRequest
	polls   int
}

// MockAPI simulates the remote service in-process: jobs advance from queued
// to processing to completed as they are polled, and results are generated
// deterministically from the submitted records. Used by --mock runs and tests.
type MockAPI struct {
	jobs map[string]*mockJob
	// PollsToComplete is how many GetJob calls a job needs before
	// completing. Defaults to 3 (queued, processing, completed).
	PollsToComplete int
	// FailJobs makes every submitted job end FAILED instead.
	FailJobs bool
	mu       sync.Mutex
	nextID   int
}

// NewMockAPI creates an empty mock service.
func NewMockAPI() *MockAPI {
	return &MockAPI{
		jobs:            make(map[string]*mockJob),
		PollsToComplete: 3,
	}
}

// SubmitJob registers a job in the queued state.
func (m *MockAPI) SubmitJob(_ context.Context, req model.EnrichmentRequest) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.nextID++
	id := fmt.Sprintf("mock-%06d", m.nextID)
	m.jobs[id] = &mockJob{
		request: req,
		job: model.EnrichmentJob{
			ID:           id,
			Name:         req.Name,
			Status:       model.JobQueued,
			TotalRecords: len(req.Records),
		},
	}
	return id, nil
}

// GetJob advances the job one lifecycle step and returns its snapshot.
func (m *MockAPI) GetJob(_ context.Context, jobID string) (model.EnrichmentJob, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.jobs[jobID]
	if !ok {
		return model.EnrichmentJob{}, &JobNotFoundError{JobID: jobID}
	}

	entry.polls++
	switch {
	case entry.polls >= m.PollsToComplete:
		if m.FailJobs {
			entry.job.Status = model.JobFailed
		} else {
			entry.job.Status = model.JobCompleted
			entry.job.ResultURL = "mock://results/" + jobID
		}
	case entry.polls > 1:
		entry.job.Status = model.JobProcessing
	}
	return entry.job, nil
}

// DownloadResult renders the deterministic enrichment of a completed job.
func (m *MockAPI) DownloadResult(_ context.Context, resultURL string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	jobID := strings.TrimPrefix(resultURL, "mock://results/")
	entry, ok := m.jobs[jobID]
	if !ok || entry.job.Status != model.JobCompleted {
		return "", fmt.Errorf("no result at %s", resultURL)
	}

	columns := []string{"email", "first_name", "last_name", "job_title", "company_name", "company_domain"}
	rows := make([]map[string]string, 0, len(entry.request.Records))
	for i, rec := range entry.request.Records {
		company := mockCompanies[i%len(mockCompanies)]
		rows = append(rows, map[string]string{
			"email":          matchValue(rec),
			"first_name":     mockFirstNames[i%len(mockFirstNames)],
			"last_name":      mockLastNames[i%len(mockLastNames)],
			"job_title":      mockJobTitles[i%len(mockJobTitles)],
			"company_name":   company,
			"company_domain": strings.ToLower(strings.ReplaceAll(company, " ", "")) + ".com",
		})
	}
	return csvio.ToCSV(columns, rows), nil
}

// matchValue picks the submitted value a generated contact echoes back,
// preferring email-shaped fields.
func matchValue(rec map[model.InputField]string) string {
	for _, f := range []model.InputField{model.FieldEmail, model.FieldBusinessEmail, model.FieldPersonalEmail} {
		if v := rec[f]; v != "" {
			return v
		}
	}
	for _, f := range model.InputFields {
		if v := rec[f]; v != "" {
			return v
		}
	}
	return ""
}
