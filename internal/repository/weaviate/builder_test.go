package weaviate

import (
	"strings"
	"testing"

	"github.com/kailas-cloud/docrelay/internal/domain/search/mode"
	"github.com/kailas-cloud/docrelay/internal/domain/search/query"
	"github.com/kailas-cloud/docrelay/internal/domain/search/request"
)

func buildSpec(t *testing.T, q string, m mode.Mode, field, value string, limit int, alpha *float64, gen *query.Generative) query.Spec {
	t.Helper()
	req, err := request.New(q, m, field, value, limit, alpha)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return query.Build(&req, "Documents", gen)
}

func TestBuildGraphQL_Semantic(t *testing.T) {
	spec := buildSpec(t, "GDPR compliance", mode.Semantic, "", "", 4, nil, nil)

	gql := BuildGraphQL(&spec)

	for _, want := range []string{
		"Get { Documents(",
		"limit: 4",
		`nearText: {concepts: ["GDPR compliance"]}`,
		"filename chunk_index chunk_id content",
		"_additional { certainty score }",
	} {
		if !strings.Contains(gql, want) {
			t.Errorf("missing %q in:\n%s", want, gql)
		}
	}
	for _, absent := range []string{"where:", "hybrid:", "generate("} {
		if strings.Contains(gql, absent) {
			t.Errorf("unexpected %q in:\n%s", absent, gql)
		}
	}
}

func TestBuildGraphQL_Filtered(t *testing.T) {
	spec := buildSpec(t, "retention policy", mode.Filtered, "filename", "handbook.pdf", 4, nil, nil)

	gql := BuildGraphQL(&spec)

	want := `where: {path: ["filename"], operator: Equal, valueText: "handbook.pdf"}`
	if !strings.Contains(gql, want) {
		t.Errorf("missing %q in:\n%s", want, gql)
	}
	if !strings.Contains(gql, "nearText:") {
		t.Error("filtered search must keep the nearText clause")
	}
}

func TestBuildGraphQL_Hybrid(t *testing.T) {
	alpha := 0.5
	spec := buildSpec(t, "security review", mode.Hybrid, "", "", 10, &alpha, nil)

	gql := BuildGraphQL(&spec)

	want := `hybrid: {query: "security review", alpha: 0.5}`
	if !strings.Contains(gql, want) {
		t.Errorf("missing %q in:\n%s", want, gql)
	}
	if strings.Contains(gql, "nearText:") {
		t.Error("hybrid search must replace the nearText clause")
	}
}

func TestBuildGraphQL_Generative(t *testing.T) {
	gen := query.NewGenerative(
		"Answer the question {query} using only this context: {content}",
		map[string]string{"query": "what is our retention period"},
	)
	spec := buildSpec(t, "what is our retention period", mode.Generative, "", "", 4, nil, &gen)

	gql := BuildGraphQL(&spec)

	if !strings.Contains(gql, "generate(singleResult: {prompt:") {
		t.Errorf("missing generate clause in:\n%s", gql)
	}
	// The query variable is bound at build time; {content} stays for the store.
	if !strings.Contains(gql, "what is our retention period") {
		t.Errorf("query not substituted into prompt:\n%s", gql)
	}
	if !strings.Contains(gql, "{content}") {
		t.Errorf("content placeholder must stay intact:\n%s", gql)
	}
	if !strings.Contains(gql, "{ singleResult error }") {
		t.Errorf("missing generate selection set:\n%s", gql)
	}
}

func TestBuildGraphQL_EscapesQuotes(t *testing.T) {
	spec := buildSpec(t, `what does "force majeure" mean`, mode.Semantic, "", "", 4, nil, nil)

	gql := BuildGraphQL(&spec)

	if !strings.Contains(gql, `\"force majeure\"`) {
		t.Errorf("quotes not escaped in:\n%s", gql)
	}
}
