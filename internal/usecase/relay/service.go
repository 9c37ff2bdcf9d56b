package relay

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docrelay/internal/domain/search/mode"
	"github.com/kailas-cloud/docrelay/internal/domain/search/query"
	"github.com/kailas-cloud/docrelay/internal/domain/search/request"
	"github.com/kailas-cloud/docrelay/internal/domain/search/result"
	"github.com/kailas-cloud/docrelay/internal/logger"
)

// Service composes query building, store invocation, and response
// normalization into the relay operation. No state is retained between
// calls; each request ends in a single success or error outcome.
type Service struct {
	store    VectorStore
	cache    ResponseCache
	gen      Generator
	class    string
	template string
}

// New creates a relay service searching the given class.
func New(store VectorStore, class, genTemplate string) *Service {
	return &Service{store: store, class: class, template: genTemplate}
}

// WithCache attaches a response cache.
func (s *Service) WithCache(cache ResponseCache) *Service {
	s.cache = cache
	return s
}

// WithGenerator attaches a relay-side generator. When set, generative
// mode runs the generation sub-request per chunk here instead of
// store-side inside the GraphQL query.
func (s *Service) WithGenerator(gen Generator) *Service {
	s.gen = gen
	return s
}

// Relay executes a validated search request end to end.
func (s *Service) Relay(ctx context.Context, req *request.Request) (result.Result, error) {
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, req); ok {
			logger.FromContext(ctx).Debug("response cache hit",
				zap.String("mode", string(req.Mode())))
			return cached, nil
		}
	}

	spec := s.buildSpec(req)

	chunks, err := s.store.Search(ctx, &spec)
	if err != nil {
		return result.Result{}, fmt.Errorf("vector store search: %w", err)
	}

	if req.Mode() == mode.Generative && s.gen != nil {
		chunks, err = s.generate(ctx, req, chunks)
		if err != nil {
			return result.Result{}, err
		}
	}

	res := result.NewResult(req.Query(), chunks)

	if s.cache != nil {
		s.cache.Put(ctx, req, res)
	}
	return res, nil
}

// buildSpec constructs the query spec. The store-side generation
// sub-request is included only when no relay-side generator is wired.
func (s *Service) buildSpec(req *request.Request) query.Spec {
	var gen *query.Generative
	if req.Mode() == mode.Generative && s.gen == nil {
		g := query.NewGenerative(s.template, map[string]string{"query": req.Query()})
		gen = &g
	}
	return query.Build(req, s.class, gen)
}

// generate runs the generation sub-request for each retrieved chunk.
// Any failure aborts the whole request — no partial results.
func (s *Service) generate(
	ctx context.Context, req *request.Request, chunks []result.Chunk,
) ([]result.Chunk, error) {
	sub := query.NewGenerative(s.template, map[string]string{"query": req.Query()})

	out := make([]result.Chunk, len(chunks))
	for i := range chunks {
		prompt := sub.Render(map[string]string{"content": chunks[i].Content()})
		text, err := s.gen.Generate(ctx, prompt)
		if err != nil {
			return nil, fmt.Errorf("generate for chunk %s: %w", chunks[i].ChunkID(), err)
		}
		out[i] = chunks[i].WithGenerated(text)
	}
	return out, nil
}
