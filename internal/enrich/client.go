package enrich

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/calebhart/enrichflow/internal/model"
)

const (
	jobsEndpoint = "/enrich/v2/jobs"
	// The service has no get-by-id endpoint; jobs are located by scanning
	// one large page of the listing. Fine at current volumes, a known
	// scalability limit beyond ~1000 jobs.
	lookupPageSize = 1000
)

// Client talks to the remote enrichment service through the relay, which adds
// the API key server-side and shields the caller from origin restrictions.
type Client struct {
	httpClient *http.Client
	relayURL   string
}

// NewClient creates a client pointed at a relay base URL such as
// "http://localhost:8477".
func NewClient(relayURL string) *Client {
	return &Client{
		relayURL: relayURL,
		httpClient: &http.Client{
			Timeout: 60 * time.Second,
		},
	}
}

// Wire shapes shared with the relay and the remote service.
type relayRequest struct {
	Body     any    `json:"body,omitempty"`
	Endpoint string `json:"endpoint"`
	Method   string `json:"method"`
}

type errorEnvelope struct {
	Error struct {
		Code    string          `json:"code"`
		Message string          `json:"message"`
		Details json.RawMessage `json:"details,omitempty"`
	} `json:"error"`
}

type jobCreateBody struct {
	Name     string              `json:"name"`
	Operator string              `json:"operator"`
	Columns  []string            `json:"columns"`
	Records  []map[string]string `json:"records"`
}

type jobCreateResponse struct {
	JobID  string `json:"jobId"`
	Status string `json:"status"`
}

type jobSnapshot struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Status    string `json:"status"`
	CSVURL    string `json:"csv_url,omitempty"`
	CreatedAt string `json:"created_at"`
	Total     int    `json:"total"`
}

type jobPage struct {
	Data         []jobSnapshot `json:"data"`
	TotalRecords int           `json:"total_records"`
	PageSize     int           `json:"page_size"`
	Page         int           `json:"page"`
	TotalPages   int           `json:"total_pages"`
}

// SubmitJob serializes the request and creates a job on the remote service.
func (c *Client) SubmitJob(ctx context.Context, req model.EnrichmentRequest) (string, error) {
	columns := make([]string, len(req.Columns))
	for i, f := range req.Columns {
		columns[i] = string(f)
	}
	records := make([]map[string]string, len(req.Records))
	for i, rec := range req.Records {
		wire := make(map[string]string, len(rec))
		for f, v := range rec {
			wire[string(f)] = v
		}
		records[i] = wire
	}

	body := jobCreateBody{
		Name:     req.Name,
		Operator: req.Operator.Wire(),
		Columns:  columns,
		Records:  records,
	}

	var resp jobCreateResponse
	if err := c.do(ctx, jobsEndpoint, http.MethodPost, body, &resp); err != nil {
		var se *statusError
		if errors.As(err, &se) {
			return "", &SubmissionError{StatusCode: se.code, Message: se.message}
		}
		var parseErr *ParseError
		if errors.As(err, &parseErr) {
			return "", &SubmissionError{Message: "undecodable response", Err: err}
		}
		return "", &SubmissionError{Message: err.Error(), Err: err}
	}
	if resp.JobID == "" {
		return "", &SubmissionError{Message: "response carried no job id"}
	}

	slog.Debug("Submitted enrichment job",
		"job_id", resp.JobID,
		"records", len(records),
		"operator", body.Operator)

	return resp.JobID, nil
}

// GetJob fetches a page of the job listing and locates the job by id.
func (c *Client) GetJob(ctx context.Context, jobID string) (model.EnrichmentJob, error) {
	page, err := c.fetchJobPage(ctx, 1, lookupPageSize)
	if err != nil {
		return model.EnrichmentJob{}, err
	}

	for _, snap := range page.Data {
		if snap.ID == jobID {
			return snapshotToJob(snap)
		}
	}
	return model.EnrichmentJob{}, &JobNotFoundError{JobID: jobID}
}

// ListJobs returns one page of the remote job listing, newest first.
func (c *Client) ListJobs(ctx context.Context, pageNum, pageSize int) ([]model.EnrichmentJob, int, error) {
	page, err := c.fetchJobPage(ctx, pageNum, pageSize)
	if err != nil {
		return nil, 0, err
	}

	jobs := make([]model.EnrichmentJob, 0, len(page.Data))
	for _, snap := range page.Data {
		job, err := snapshotToJob(snap)
		if err != nil {
			return nil, 0, err
		}
		jobs = append(jobs, job)
	}
	return jobs, page.TotalRecords, nil
}

func (c *Client) fetchJobPage(ctx context.Context, pageNum, pageSize int) (*jobPage, error) {
	endpoint := fmt.Sprintf("%s?page=%d&page_size=%d", jobsEndpoint, pageNum, pageSize)
	var page jobPage
	if err := c.do(ctx, endpoint, http.MethodGet, nil, &page); err != nil {
		return nil, fmt.Errorf("fetching job listing: %w", err)
	}
	return &page, nil
}

// DownloadResult streams the result CSV through the relay's download route.
func (c *Client) DownloadResult(ctx context.Context, resultURL string) (string, error) {
	u := c.relayURL + "/api/audiencelab/download?url=" + url.QueryEscape(resultURL)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return "", fmt.Errorf("building download request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("fetching result: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading result body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("result fetch returned status %d: %s", resp.StatusCode, truncate(string(data), 200))
	}
	return string(data), nil
}

// statusError is the decoded error envelope of a failed relay call.
type statusError struct {
	message string
	code    int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("status %d: %s", e.code, e.message)
}

// do posts a relay envelope and decodes the JSON response into out.
func (c *Client) do(ctx context.Context, endpoint, method string, body, out any) error {
	payload, err := json.Marshal(relayRequest{Endpoint: endpoint, Method: method, Body: body})
	if err != nil {
		return &ParseError{Context: "relay request body", Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.relayURL+"/api/audiencelab", bytes.NewReader(payload))
	if err != nil {
		return fmt.Errorf("building relay request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	slog.Debug("Relaying request", "endpoint", endpoint, "method", method)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("calling relay: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading relay response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		var envelope errorEnvelope
		if jsonErr := json.Unmarshal(data, &envelope); jsonErr == nil && envelope.Error.Message != "" {
			return &statusError{code: resp.StatusCode, message: envelope.Error.Message}
		}
		return &statusError{code: resp.StatusCode, message: truncate(string(data), 200)}
	}

	if out != nil {
		if err := json.Unmarshal(data, out); err != nil {
			return &ParseError{Context: "relay response body", Err: err}
		}
	}
	return nil
}

func snapshotToJob(snap jobSnapshot) (model.EnrichmentJob, error) {
	status, err := wireStatus(snap.Status)
	if err != nil {
		return model.EnrichmentJob{}, err
	}

	// created_at is best-effort; a missing or odd timestamp should not
	// sink a poll.
	createdAt, parseErr := time.Parse(time.RFC3339, snap.CreatedAt)
	if parseErr != nil {
		createdAt = time.Time{}
	}

	return model.EnrichmentJob{
		ID:           snap.ID,
		Name:         snap.Name,
		Status:       status,
		ResultURL:    snap.CSVURL,
		TotalRecords: snap.Total,
		CreatedAt:    createdAt,
	}, nil
}

func wireStatus(s string) (model.JobStatus, error) {
	switch s {
	case "IN_QUEUE":
		return model.JobQueued, nil
	case "PROCESSING":
		return model.JobProcessing, nil
	case "COMPLETED":
		return model.JobCompleted, nil
	case "FAILED":
		return model.JobFailed, nil
	default:
		return "", &ParseError{Context: "job snapshot", Err: fmt.Errorf("unexpected status %q", s)}
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
