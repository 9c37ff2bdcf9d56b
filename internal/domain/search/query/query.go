package query

import (
	"strings"

	"github.com/kailas-cloud/docrelay/internal/domain/search/mode"
	"github.com/kailas-cloud/docrelay/internal/domain/search/request"
)

// Filter is an equality predicate on a named field.
type Filter struct {
	Field string
	Value string
}

// Generative is a typed generation sub-request: a template with named
// placeholders plus the variables bound so far. Modeled as data rather
// than raw string substitution at call sites.
type Generative struct {
	template  string
	variables map[string]string
}

// NewGenerative creates a generation sub-request.
func NewGenerative(template string, variables map[string]string) Generative {
	return Generative{template: template, variables: variables}
}

// Template returns the raw prompt template.
func (g *Generative) Template() string { return g.template }

// Variables returns the bound template variables.
func (g *Generative) Variables() map[string]string { return g.variables }

// Render substitutes bound variables plus any extra bindings into the
// template. Placeholders use {name} syntax; unbound placeholders are
// left intact for downstream substitution.
func (g *Generative) Render(extra map[string]string) string {
	out := g.template
	for name, val := range g.variables {
		out = strings.ReplaceAll(out, "{"+name+"}", val)
	}
	for name, val := range extra {
		out = strings.ReplaceAll(out, "{"+name+"}", val)
	}
	return out
}

// Spec is a structured semantic-search query: the class to search,
// concept text, an optional equality filter, an optional hybrid weight,
// a result cap, and an optional generation sub-request.
type Spec struct {
	class      string
	searchMode mode.Mode
	concepts   string
	filter     *Filter
	alpha      *float64
	limit      int
	generative *Generative
}

// Build constructs a Spec from a validated request. gen is the
// store-side generation sub-request; pass nil when generation is
// disabled or executed client-side.
func Build(req *request.Request, class string, gen *Generative) Spec {
	s := Spec{
		class:      class,
		searchMode: req.Mode(),
		concepts:   req.Query(),
		limit:      req.Limit(),
	}

	switch req.Mode() {
	case mode.Filtered:
		s.filter = &Filter{Field: req.FilterField(), Value: req.FilterValue()}
	case mode.Hybrid:
		a := req.HybridAlpha()
		s.alpha = &a
	case mode.Generative:
		s.generative = gen
	case mode.Semantic:
		// nearest-neighbor only
	}

	return s
}

// Class returns the collection class name to search.
func (s *Spec) Class() string { return s.class }

// Mode returns the search strategy the spec was built for.
func (s *Spec) Mode() mode.Mode { return s.searchMode }

// Concepts returns the concept query text.
func (s *Spec) Concepts() string { return s.concepts }

// Filter returns the equality filter, or nil.
func (s *Spec) Filter() *Filter { return s.filter }

// Alpha returns the hybrid blend weight, or nil.
func (s *Spec) Alpha() *float64 { return s.alpha }

// Limit returns the result cap.
func (s *Spec) Limit() int { return s.limit }

// Generative returns the store-side generation sub-request, or nil.
func (s *Spec) Generative() *Generative { return s.generative }
