package chi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docrelay/internal/domain"
	"github.com/kailas-cloud/docrelay/internal/domain/search/mode"
	"github.com/kailas-cloud/docrelay/internal/domain/search/request"
	"github.com/kailas-cloud/docrelay/internal/domain/search/result"
	healthuc "github.com/kailas-cloud/docrelay/internal/usecase/health"
	relayuc "github.com/kailas-cloud/docrelay/internal/usecase/relay"
)

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the relay over HTTP.
type Server struct {
	relay         *relayuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(relay *relayuc.Service, health *healthuc.Service, logger *zap.Logger) *Server {
	s := &Server{
		relay:  relay,
		health: health,
		logger: logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidRequest, http.StatusBadRequest),
		sentinelHandler(domain.ErrRateLimited, http.StatusTooManyRequests),
		sentinelHandler(domain.ErrAuth, http.StatusBadGateway),
		sentinelHandler(domain.ErrMalformedResponse, http.StatusBadGateway),
		sentinelHandler(domain.ErrBadQuery, http.StatusInternalServerError),
		sentinelHandler(domain.ErrUnavailable, http.StatusServiceUnavailable),
	}
	return s
}

// searchRequestDTO is the inbound webhook payload.
type searchRequestDTO struct {
	Query       string   `json:"query"`
	Mode        string   `json:"mode"`
	Limit       *int     `json:"limit"`
	Filename    string   `json:"filename"`
	FilterField string   `json:"filter_field"`
	FilterValue string   `json:"filter_value"`
	HybridAlpha *float64 `json:"hybrid_alpha"`
}

// searchResponseDTO is the success payload.
type searchResponseDTO struct {
	Results    []resultItemDTO `json:"results"`
	Query      string          `json:"query"`
	TotalFound int             `json:"total_found"`
}

// resultItemDTO is one normalized chunk in the response.
type resultItemDTO struct {
	Document       string  `json:"document"`
	RelevanceScore float64 `json:"relevance_score"`
	Content        string  `json:"content"`
	Source         string  `json:"source"`
	ChunkIndex     int     `json:"chunk_index"`
	Generated      string  `json:"generated,omitempty"`
}

// errorResponseDTO carries the message and stable kind tag on failure.
type errorResponseDTO struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

// Search handles POST /search.
func (s *Server) Search(w http.ResponseWriter, r *http.Request) {
	var dto searchRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&dto); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body: "+err.Error(), "InvalidRequest")
		return
	}

	req, err := searchRequestFromDTO(dto)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	res, err := s.relay.Relay(r.Context(), &req)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, searchResultToDTO(res))
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	checks := make(map[string]string, len(report.Checks))
	for k, v := range report.Checks {
		checks[k] = string(v)
	}

	httpStatus := http.StatusOK
	if report.Status != healthuc.Healthy {
		httpStatus = http.StatusServiceUnavailable
	}

	writeJSON(w, httpStatus, map[string]any{
		"status": string(report.Status),
		"checks": checks,
	})
}

// Metrics handles GET /metrics.
func (s *Server) Metrics(w http.ResponseWriter, r *http.Request) {
	promhttp.Handler().ServeHTTP(w, r)
}

// searchRequestFromDTO maps the webhook payload to a validated request.
// filename is shorthand for an equality filter on the filename field;
// providing it defaults the mode to filtered.
func searchRequestFromDTO(dto searchRequestDTO) (request.Request, error) {
	m := mode.Mode(dto.Mode)

	filterField := dto.FilterField
	filterValue := dto.FilterValue
	if dto.Filename != "" && filterField == "" {
		filterField = "filename"
		filterValue = dto.Filename
		if m == "" {
			m = mode.Filtered
		}
	}

	// Validate explicitly provided limit (absent means "use the default").
	limit := 0
	if dto.Limit != nil {
		if *dto.Limit <= 0 || *dto.Limit > request.MaxLimit {
			return request.Request{}, fmt.Errorf(
				"%w: limit must be between 1 and %d", domain.ErrInvalidRequest, request.MaxLimit)
		}
		limit = *dto.Limit
	}

	return request.New(dto.Query, m, filterField, filterValue, limit, dto.HybridAlpha)
}

func searchResultToDTO(res result.Result) searchResponseDTO {
	chunks := res.Chunks()
	items := make([]resultItemDTO, len(chunks))
	for i := range chunks {
		items[i] = resultItemDTO{
			Document:       chunks[i].Filename(),
			RelevanceScore: chunks[i].Score(),
			Content:        chunks[i].Content(),
			Source:         chunks[i].ChunkID(),
			ChunkIndex:     chunks[i].ChunkIndex(),
			Generated:      chunks[i].Generated(),
		}
	}
	return searchResponseDTO{
		Results:    items,
		Query:      res.Query(),
		TotalFound: res.TotalFound(),
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message, kind string) {
	writeJSON(w, status, errorResponseDTO{
		Error: message,
		Kind:  kind,
	})
}

// safeErrorMessage returns a sentinel error message for the client
// without exposing internals.
func safeErrorMessage(err error) string {
	sentinels := []error{
		domain.ErrInvalidRequest,
		domain.ErrAuth,
		domain.ErrBadQuery,
		domain.ErrRateLimited,
		domain.ErrUnavailable,
		domain.ErrMalformedResponse,
	}
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s.Error()
		}
	}
	return "internal error"
}

// sentinelHandler returns an errorHandler that matches a single sentinel error.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, msg, domain.Kind(err))
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := safeErrorMessage(err)
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, "internal error", "InternalError")
}
