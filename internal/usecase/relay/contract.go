package relay

import (
	"context"

	"github.com/kailas-cloud/docrelay/internal/domain/search/query"
	"github.com/kailas-cloud/docrelay/internal/domain/search/request"
	"github.com/kailas-cloud/docrelay/internal/domain/search/result"
)

// VectorStore executes structured search queries against the external store.
type VectorStore interface {
	Search(ctx context.Context, spec *query.Spec) ([]result.Chunk, error)
}

// Generator runs a generation sub-request relay-side.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// ResponseCache stores normalized results for identical requests.
type ResponseCache interface {
	Get(ctx context.Context, req *request.Request) (result.Result, bool)
	Put(ctx context.Context, req *request.Request, res result.Result)
}
