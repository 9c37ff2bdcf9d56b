package weaviate

import (
	"encoding/json"
	"fmt"

	"github.com/kailas-cloud/docrelay/internal/domain"
	"github.com/kailas-cloud/docrelay/internal/domain/search/result"
)

// Normalize reshapes a raw GraphQL envelope into ranked document chunks.
// Order is preserved as returned by the store (already ranked by score
// descending); the count of entities is the caller's total_found.
// GraphQL-level errors surface as ErrBadQuery; a missing or misshapen
// envelope surfaces as ErrMalformedResponse.
func Normalize(raw *RawResponse, class string) ([]result.Chunk, error) {
	if raw == nil {
		return nil, fmt.Errorf("%w: empty envelope", domain.ErrMalformedResponse)
	}
	if len(raw.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrBadQuery, raw.Errors[0].Message)
	}
	if raw.Data == nil || raw.Data.Get == nil {
		return nil, fmt.Errorf("%w: missing data.Get", domain.ErrMalformedResponse)
	}

	entities, ok := raw.Data.Get[class]
	if !ok {
		return nil, fmt.Errorf("%w: missing class %q in data.Get", domain.ErrMalformedResponse, class)
	}

	var dtos []chunkDTO
	if err := json.Unmarshal(entities, &dtos); err != nil {
		return nil, fmt.Errorf("%w: decode %q entities: %w", domain.ErrMalformedResponse, class, err)
	}

	chunks := make([]result.Chunk, 0, len(dtos))
	for _, dto := range dtos {
		chunk := result.NewChunk(
			dto.Filename, dto.ChunkIndex, dto.ChunkID, dto.Content, relevanceScore(dto.Additional),
		)
		if g := dto.Additional.Generate; g != nil && g.SingleResult != nil {
			chunk = chunk.WithGenerated(*g.SingleResult)
		}
		chunks = append(chunks, chunk)
	}
	return chunks, nil
}

// relevanceScore prefers certainty (vector search) over the ranking
// score (hybrid/keyword search).
func relevanceScore(a additionalDTO) float64 {
	if a.Certainty != nil {
		return *a.Certainty
	}
	return float64(a.Score)
}
