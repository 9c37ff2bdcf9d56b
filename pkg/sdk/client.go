package sdk

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// Sentinel errors mirroring the relay's error kinds.
var (
	ErrInvalidRequest    = errors.New("docrelay: invalid request")
	ErrAuth              = errors.New("docrelay: vector store authentication failed")
	ErrBadQuery          = errors.New("docrelay: vector store rejected query")
	ErrRateLimited       = errors.New("docrelay: rate limited")
	ErrUnavailable       = errors.New("docrelay: vector store unavailable")
	ErrMalformedResponse = errors.New("docrelay: malformed vector store response")
	ErrUnauthorized      = errors.New("docrelay: unauthorized")
	ErrInternal          = errors.New("docrelay: internal error")
)

var kindToErr = map[string]error{
	"InvalidRequest":    ErrInvalidRequest,
	"AuthError":         ErrAuth,
	"BadQuery":          ErrBadQuery,
	"RateLimited":       ErrRateLimited,
	"Unavailable":       ErrUnavailable,
	"MalformedResponse": ErrMalformedResponse,
	"Unauthorized":      ErrUnauthorized,
	"InternalError":     ErrInternal,
}

const defaultTimeout = 30 * time.Second

// Client calls the docrelay HTTP API.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

// Option configures a Client.
type Option func(*Client)

// WithAPIKey sets the bearer token sent with every request.
func WithAPIKey(key string) Option {
	return func(c *Client) { c.apiKey = key }
}

// WithHTTPClient replaces the default HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// New creates a relay client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SearchRequest is the relay webhook payload.
type SearchRequest struct {
	Query       string   `json:"query"`
	Mode        string   `json:"mode,omitempty"`
	Limit       int      `json:"limit,omitempty"`
	Filename    string   `json:"filename,omitempty"`
	FilterField string   `json:"filter_field,omitempty"`
	FilterValue string   `json:"filter_value,omitempty"`
	HybridAlpha *float64 `json:"hybrid_alpha,omitempty"`
}

// ResultItem is one normalized chunk in a search response.
type ResultItem struct {
	Document       string  `json:"document"`
	RelevanceScore float64 `json:"relevance_score"`
	Content        string  `json:"content"`
	Source         string  `json:"source"`
	ChunkIndex     int     `json:"chunk_index"`
	Generated      string  `json:"generated,omitempty"`
}

// SearchResult is the relay's success payload.
type SearchResult struct {
	Results    []ResultItem `json:"results"`
	Query      string       `json:"query"`
	TotalFound int          `json:"total_found"`
}

type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Search submits a search request to the relay.
func (c *Client) Search(ctx context.Context, req SearchRequest) (*SearchResult, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/search", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("relay request: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var errResp errorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr != nil {
			return nil, fmt.Errorf("relay returned %d: %w", resp.StatusCode, ErrInternal)
		}
		sentinel, ok := kindToErr[errResp.Kind]
		if !ok {
			sentinel = ErrInternal
		}
		return nil, fmt.Errorf("%s: %w", errResp.Error, sentinel)
	}

	var out SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return &out, nil
}
