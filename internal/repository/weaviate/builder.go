package weaviate

import (
	"strconv"
	"strings"

	"github.com/kailas-cloud/docrelay/internal/domain/search/query"
)

// chunkFields are the Documents class properties requested per match.
const chunkFields = "filename chunk_index chunk_id content"

// BuildGraphQL renders a query spec to GraphQL text for POST /v1/graphql.
func BuildGraphQL(spec *query.Spec) string {
	var b strings.Builder

	b.WriteString("{ Get { ")
	b.WriteString(spec.Class())
	b.WriteString("(")
	b.WriteString("limit: ")
	b.WriteString(strconv.Itoa(spec.Limit()))

	if alpha := spec.Alpha(); alpha != nil {
		// Hybrid ranking replaces the nearText clause entirely.
		b.WriteString(", hybrid: {query: ")
		b.WriteString(quote(spec.Concepts()))
		b.WriteString(", alpha: ")
		b.WriteString(strconv.FormatFloat(*alpha, 'g', -1, 64))
		b.WriteString("}")
	} else {
		b.WriteString(", nearText: {concepts: [")
		b.WriteString(quote(spec.Concepts()))
		b.WriteString("]}")
	}

	if f := spec.Filter(); f != nil {
		b.WriteString(", where: {path: [")
		b.WriteString(quote(f.Field))
		b.WriteString("], operator: Equal, valueText: ")
		b.WriteString(quote(f.Value))
		b.WriteString("}")
	}

	b.WriteString(") { ")
	b.WriteString(chunkFields)
	b.WriteString(" _additional { certainty score")

	if g := spec.Generative(); g != nil {
		// Variables bound so far are substituted here; {content} stays
		// intact for the store to fill in per result.
		b.WriteString(" generate(singleResult: {prompt: ")
		b.WriteString(quote(g.Render(nil)))
		b.WriteString("}) { singleResult error }")
	}

	b.WriteString(" } } } }")
	return b.String()
}

// quote escapes a value as a GraphQL string literal (JSON escaping rules).
func quote(s string) string {
	return strconv.Quote(s)
}
