package relay

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
)

// Config holds relay settings. The API key never reaches the CLI client;
// holding it here is the relay's whole reason to exist.
type Config struct {
	// ListenAddr is the local bind address, e.g. "localhost:8477".
	ListenAddr string
	// UpstreamURL is the remote service base URL.
	UpstreamURL string
	// APIKey is attached to every forwarded request.
	APIKey string
}

// ConfigError means the relay cannot start because a required setting is
// absent.
type ConfigError struct {
	Setting string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("relay configuration incomplete: %s is not set", e.Setting)
}

// Server forwards envelope requests to the remote enrichment service,
// attaching the server-held API key, and relays the upstream response back
// unchanged.
type Server struct {
	cfg        Config
	httpClient *http.Client
}

// NewServer validates the configuration and builds a relay.
func NewServer(cfg Config) (*Server, error) {
	if cfg.APIKey == "" {
		return nil, &ConfigError{Setting: "audiencelab.api_key"}
	}
	if cfg.UpstreamURL == "" {
		return nil, &ConfigError{Setting: "audiencelab.base_url"}
	}
	return &Server{
		cfg: cfg,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}, nil
}

// Router configures the relay's routes.
func (s *Server) Router() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.POST("/api/audiencelab", s.handleForward)
	r.GET("/api/audiencelab/download", s.handleDownload)

	return r
}

// envelope is the client-side request wrapper.
type envelope struct {
	Body     json.RawMessage `json:"body,omitempty"`
	Endpoint string          `json:"endpoint"`
	Method   string          `json:"method"`
}

func errorBody(code, message string) gin.H {
	return gin.H{"error": gin.H{"code": code, "message": message}}
}

func (s *Server) handleForward(c *gin.Context) {
	var req envelope
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errorBody("PARSE_ERROR", "request body is not a valid relay envelope"))
		return
	}
	if req.Endpoint == "" || !strings.HasPrefix(req.Endpoint, "/") {
		c.JSON(http.StatusBadRequest, errorBody("MISSING_ENDPOINT", "endpoint must be a path on the remote service"))
		return
	}
	if req.Method != http.MethodGet && req.Method != http.MethodPost {
		c.JSON(http.StatusBadRequest, errorBody("INVALID_METHOD", "method must be GET or POST"))
		return
	}

	var body io.Reader
	if req.Method == http.MethodPost && len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}

	upstream, err := http.NewRequestWithContext(c.Request.Context(), req.Method, s.cfg.UpstreamURL+req.Endpoint, body)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("MISSING_ENDPOINT", "endpoint does not form a valid URL"))
		return
	}
	upstream.Header.Set("X-Api-Key", s.cfg.APIKey)
	if body != nil {
		upstream.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("Forwarding to remote service", "endpoint", req.Endpoint, "method", req.Method)

	resp, err := s.httpClient.Do(upstream)
	if err != nil {
		slog.Error("Upstream request failed", "endpoint", req.Endpoint, "error", err)
		c.JSON(http.StatusBadGateway, errorBody("API_ERROR", "remote service unreachable: "+err.Error()))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorBody("API_ERROR", "reading remote response: "+err.Error()))
		return
	}

	// The upstream body is relayed unchanged, but it has to be JSON for
	// the client to make sense of it.
	if !json.Valid(data) {
		slog.Warn("Upstream returned non-JSON body",
			"endpoint", req.Endpoint,
			"status", resp.StatusCode)
		c.JSON(http.StatusBadGateway, errorBody("PARSE_ERROR", "remote service returned a non-JSON response"))
		return
	}

	c.Data(resp.StatusCode, "application/json", data)
}

// handleDownload streams a result CSV from its storage URL. Result URLs are
// presigned, so no API key is attached here.
func (s *Server) handleDownload(c *gin.Context) {
	target := c.Query("url")
	if target == "" {
		c.JSON(http.StatusBadRequest, errorBody("MISSING_URL", "url query parameter is required"))
		return
	}
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		c.JSON(http.StatusBadRequest, errorBody("MISSING_URL", "url must be absolute"))
		return
	}

	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, target, nil)
	if err != nil {
		c.JSON(http.StatusBadRequest, errorBody("MISSING_URL", "url does not form a valid request"))
		return
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		c.JSON(http.StatusBadGateway, errorBody("DOWNLOAD_ERROR", "fetching result: "+err.Error()))
		return
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusBadGateway, errorBody("DOWNLOAD_ERROR",
			fmt.Sprintf("result storage returned status %d", resp.StatusCode)))
		return
	}

	c.DataFromReader(http.StatusOK, resp.ContentLength, "text/csv", resp.Body, nil)
}
