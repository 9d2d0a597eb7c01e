package relay

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T, upstreamURL string) *Server {
	t.Helper()
	srv, err := NewServer(Config{
		ListenAddr:  "localhost:0",
		UpstreamURL: upstreamURL,
		APIKey:      "test-key",
	})
	require.NoError(t, err)
	return srv
}

func postEnvelope(t *testing.T, router http.Handler, payload any) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(payload)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/audiencelab", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var envelope struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return envelope.Error.Code
}

func TestNewServerRequiresCredentials(t *testing.T) {
	tests := []struct {
		name        string
		cfg         Config
		wantSetting string
	}{
		{"missing key", Config{UpstreamURL: "https://api.example.com"}, "audiencelab.api_key"},
		{"missing upstream", Config{APIKey: "k"}, "audiencelab.base_url"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewServer(tt.cfg)

			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantSetting, cfgErr.Setting)
		})
	}
}

func TestForwardAttachesAPIKeyAndRelaysResponse(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/enrich/v2/jobs", r.URL.Path)

		body, _ := io.ReadAll(r.Body)
		assert.JSONEq(t, `{"name":"Enrichment_x"}`, string(body))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"jobId":"job-42","status":"IN_QUEUE"}`))
	}))
	defer upstream.Close()

	router := newTestServer(t, upstream.URL).Router()
	rec := postEnvelope(t, router, map[string]any{
		"endpoint": "/enrich/v2/jobs",
		"method":   "POST",
		"body":     map[string]string{"name": "Enrichment_x"},
	})

	assert.Equal(t, http.StatusCreated, rec.Code, "upstream status passes through")
	assert.JSONEq(t, `{"jobId":"job-42","status":"IN_QUEUE"}`, rec.Body.String())
}

func TestForwardRelaysUpstreamErrorsUnchanged(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"code":"INSUFFICIENT_CREDITS","message":"no credits"}}`))
	}))
	defer upstream.Close()

	router := newTestServer(t, upstream.URL).Router()
	rec := postEnvelope(t, router, map[string]any{"endpoint": "/enrich/v2/jobs", "method": "POST"})

	assert.Equal(t, http.StatusPaymentRequired, rec.Code)
	assert.Equal(t, "INSUFFICIENT_CREDITS", errorCode(t, rec))
}

func TestForwardValidatesEnvelope(t *testing.T) {
	router := newTestServer(t, "https://api.example.com").Router()

	tests := []struct {
		name     string
		payload  any
		wantCode string
	}{
		{"no endpoint", map[string]any{"method": "GET"}, "MISSING_ENDPOINT"},
		{"relative endpoint", map[string]any{"endpoint": "jobs", "method": "GET"}, "MISSING_ENDPOINT"},
		{"bad method", map[string]any{"endpoint": "/jobs", "method": "DELETE"}, "INVALID_METHOD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := postEnvelope(t, router, tt.payload)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, tt.wantCode, errorCode(t, rec))
		})
	}
}

func TestForwardRejectsMalformedJSON(t *testing.T) {
	router := newTestServer(t, "https://api.example.com").Router()

	req := httptest.NewRequest(http.MethodPost, "/api/audiencelab", bytes.NewReader([]byte("{not json")))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "PARSE_ERROR", errorCode(t, rec))
}

func TestForwardNormalizesNonJSONUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("<html>maintenance</html>"))
	}))
	defer upstream.Close()

	router := newTestServer(t, upstream.URL).Router()
	rec := postEnvelope(t, router, map[string]any{"endpoint": "/jobs", "method": "GET"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "PARSE_ERROR", errorCode(t, rec))
}

func TestForwardNormalizesTransportFailure(t *testing.T) {
	router := newTestServer(t, "http://127.0.0.1:1").Router()
	rec := postEnvelope(t, router, map[string]any{"endpoint": "/jobs", "method": "GET"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "API_ERROR", errorCode(t, rec))
}

func TestDownloadStreamsResult(t *testing.T) {
	const csv = "email,first_name\nada@example.com,Ada\n"
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(csv))
	}))
	defer storage.Close()

	router := newTestServer(t, "https://api.example.com").Router()
	req := httptest.NewRequest(http.MethodGet, "/api/audiencelab/download?url="+storage.URL+"/r.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, csv, rec.Body.String())
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
}

func TestDownloadValidatesURL(t *testing.T) {
	router := newTestServer(t, "https://api.example.com").Router()

	for _, target := range []string{"", "ftp://x/r.csv", "not-a-url"} {
		req := httptest.NewRequest(http.MethodGet, "/api/audiencelab/download?url="+target, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Equal(t, "MISSING_URL", errorCode(t, rec))
	}
}

func TestDownloadSurfacesStorageErrors(t *testing.T) {
	storage := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "expired", http.StatusForbidden)
	}))
	defer storage.Close()

	router := newTestServer(t, "https://api.example.com").Router()
	req := httptest.NewRequest(http.MethodGet, "/api/audiencelab/download?url="+storage.URL+"/r.csv", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.Equal(t, "DOWNLOAD_ERROR", errorCode(t, rec))
}
