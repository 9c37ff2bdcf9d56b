package weaviate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docrelay/internal/domain"
	"github.com/kailas-cloud/docrelay/internal/domain/search/query"
	"github.com/kailas-cloud/docrelay/internal/domain/search/result"
	"github.com/kailas-cloud/docrelay/internal/metrics"
)

const (
	graphqlPath = "/v1/graphql"
	readyPath   = "/v1/.well-known/ready"

	defaultTimeout = 15 * time.Second
	maxErrorBody   = 4 << 10
)

// Config holds vector store connection settings.
type Config struct {
	Endpoint string
	APIKey   string
	Timeout  time.Duration
	Logger   *zap.Logger
}

// Client issues GraphQL search requests to a Weaviate-style vector store.
// Synchronous request/response; no retry built in — transport failures
// surface to the caller as domain errors.
type Client struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	logger     *zap.Logger
}

// NewClient creates a vector store client.
func NewClient(cfg *Config) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	endpoint := cfg.Endpoint
	for len(endpoint) > 0 && endpoint[len(endpoint)-1] == '/' {
		endpoint = endpoint[:len(endpoint)-1]
	}

	return &Client{
		httpClient: &http.Client{Timeout: timeout},
		endpoint:   endpoint,
		apiKey:     cfg.APIKey,
		logger:     logger,
	}
}

// Search renders the spec to GraphQL, executes it, and normalizes the
// response into ranked chunks.
func (c *Client) Search(ctx context.Context, spec *query.Spec) ([]result.Chunk, error) {
	gql := BuildGraphQL(spec)
	m := string(spec.Mode())

	start := time.Now()
	raw, err := c.Execute(ctx, gql)
	duration := time.Since(start)

	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(m, "error").Inc()
		return nil, err
	}

	chunks, err := Normalize(raw, spec.Class())
	if err != nil {
		metrics.UpstreamRequestsTotal.WithLabelValues(m, "error").Inc()
		return nil, err
	}

	metrics.UpstreamRequestsTotal.WithLabelValues(m, "success").Inc()
	metrics.UpstreamRequestDuration.WithLabelValues(m).Observe(duration.Seconds())

	c.logger.Debug("vector store search",
		zap.String("mode", m),
		zap.Int("results", len(chunks)),
		zap.Duration("latency", duration),
	)
	return chunks, nil
}

// Execute posts a GraphQL query and decodes the response envelope.
// HTTP status codes map to domain errors: 401/403 auth, 400/422 bad
// query, 429 rate limited, everything else unavailable.
func (c *Client) Execute(ctx context.Context, gql string) (*RawResponse, error) {
	body, err := json.Marshal(graphQLRequest{Query: gql})
	if err != nil {
		return nil, fmt.Errorf("marshal graphql request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint+graphqlPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, statusError(resp.StatusCode, resp.Body)
	}

	var raw RawResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: decode envelope: %w", domain.ErrMalformedResponse, err)
	}
	return &raw, nil
}

// Ready checks the store readiness endpoint (used by health checks).
func (c *Client) Ready(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.endpoint+readyPath, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %w", domain.ErrUnavailable, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: readiness check returned %d", domain.ErrUnavailable, resp.StatusCode)
	}
	return nil
}

// statusError maps an HTTP error status to a domain error, attaching
// whatever detail the store included in the body.
func statusError(code int, body io.Reader) error {
	var sentinel error
	switch code {
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = domain.ErrAuth
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		sentinel = domain.ErrBadQuery
	case http.StatusTooManyRequests:
		sentinel = domain.ErrRateLimited
	default:
		sentinel = domain.ErrUnavailable
	}

	if detail := extractDetail(body); detail != "" {
		return fmt.Errorf("vector store returned %d: %s: %w", code, detail, sentinel)
	}
	return fmt.Errorf("vector store returned %d: %w", code, sentinel)
}

// extractDetail pulls a human-readable message from a JSON error body.
func extractDetail(body io.Reader) string {
	data, err := io.ReadAll(io.LimitReader(body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return ""
	}

	var parsed struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	if json.Unmarshal(data, &parsed) == nil {
		if parsed.Error != "" {
			return parsed.Error
		}
		if parsed.Message != "" {
			return parsed.Message
		}
	}
	return ""
}
