package request

import (
	"fmt"

	"github.com/kailas-cloud/docrelay/internal/domain"
	"github.com/kailas-cloud/docrelay/internal/domain/search/mode"
)

// Search parameter limits.
const (
	// MaxQueryLength is the maximum allowed search query length.
	MaxQueryLength = 4096
	DefaultLimit   = 4
	MaxLimit       = 100
)

// Request is a validated relay search request.
type Request struct {
	query       string
	searchMode  mode.Mode
	filterField string
	filterValue string
	limit       int
	hybridAlpha float64
}

// New validates and normalizes search parameters.
// Defaults: mode=semantic, limit=4. hybridAlpha is required iff mode=hybrid.
// All validation failures wrap domain.ErrInvalidRequest.
func New(
	query string,
	m mode.Mode,
	filterField, filterValue string,
	limit int,
	hybridAlpha *float64,
) (Request, error) {
	if query == "" {
		return Request{}, fmt.Errorf("%w: query is required", domain.ErrInvalidRequest)
	}
	if len(query) > MaxQueryLength {
		return Request{}, fmt.Errorf("%w: query too long (max %d chars)", domain.ErrInvalidRequest, MaxQueryLength)
	}
	if m == "" {
		m = mode.Semantic
	}
	if !m.IsValid() {
		return Request{}, fmt.Errorf("%w: invalid search mode %q", domain.ErrInvalidRequest, m)
	}
	if limit < 0 {
		return Request{}, fmt.Errorf("%w: limit must be positive", domain.ErrInvalidRequest)
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	if m == mode.Filtered {
		if filterField == "" || filterValue == "" {
			return Request{}, fmt.Errorf(
				"%w: filtered mode requires filter_field and filter_value", domain.ErrInvalidRequest)
		}
	} else if filterField != "" || filterValue != "" {
		return Request{}, fmt.Errorf(
			"%w: filter_field/filter_value are only valid in filtered mode", domain.ErrInvalidRequest)
	}

	var alpha float64
	if m == mode.Hybrid {
		if hybridAlpha == nil {
			return Request{}, fmt.Errorf("%w: hybrid mode requires hybrid_alpha", domain.ErrInvalidRequest)
		}
		if *hybridAlpha < 0 || *hybridAlpha > 1 {
			return Request{}, fmt.Errorf("%w: hybrid_alpha must be between 0 and 1", domain.ErrInvalidRequest)
		}
		alpha = *hybridAlpha
	} else if hybridAlpha != nil {
		return Request{}, fmt.Errorf("%w: hybrid_alpha is only valid in hybrid mode", domain.ErrInvalidRequest)
	}

	return Request{
		query:       query,
		searchMode:  m,
		filterField: filterField,
		filterValue: filterValue,
		limit:       limit,
		hybridAlpha: alpha,
	}, nil
}

// Query returns the search query text.
func (r *Request) Query() string { return r.query }

// Mode returns the search strategy.
func (r *Request) Mode() mode.Mode { return r.searchMode }

// FilterField returns the equality filter field (filtered mode only).
func (r *Request) FilterField() string { return r.filterField }

// FilterValue returns the equality filter value (filtered mode only).
func (r *Request) FilterValue() string { return r.filterValue }

// Limit returns the maximum results to return.
func (r *Request) Limit() int { return r.limit }

// HybridAlpha returns the vector/keyword blend weight (hybrid mode only).
// 1.0 is pure vector, 0.0 is pure keyword.
func (r *Request) HybridAlpha() float64 { return r.hybridAlpha }
