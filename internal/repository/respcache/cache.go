package respcache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/kailas-cloud/docrelay/internal/db"
	"github.com/kailas-cloud/docrelay/internal/domain/search/request"
	"github.com/kailas-cloud/docrelay/internal/domain/search/result"
)

const cacheKeyPrefix = "docrelay:resp_cache:"

// store is the consumer interface for the response cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// Cache stores normalized search results keyed by request identity.
// Identical requests against an unchanged store are idempotent, so a
// short TTL trades staleness for upstream round-trips. Cache failures
// degrade to the upstream call, never fail the request.
type Cache struct {
	store      store
	ttl        time.Duration
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
}

// New creates a response cache.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(s store, ttl time.Duration, cacheTotal *prometheus.CounterVec, logger *zap.Logger) *Cache {
	return &Cache{
		store:      s,
		ttl:        ttl,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// cachedChunk is the persisted form of result.Chunk.
type cachedChunk struct {
	Filename   string  `json:"filename"`
	ChunkIndex int     `json:"chunk_index"`
	ChunkID    string  `json:"chunk_id"`
	Content    string  `json:"content"`
	Score      float64 `json:"score"`
	Generated  string  `json:"generated,omitempty"`
}

// cachedResult is the persisted form of result.Result.
type cachedResult struct {
	Query      string        `json:"query"`
	TotalFound int           `json:"total_found"`
	Chunks     []cachedChunk `json:"chunks"`
}

// Get returns a cached result for the request, if present.
func (c *Cache) Get(ctx context.Context, req *request.Request) (result.Result, bool) {
	data, err := c.store.Get(ctx, cacheKey(req))
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached response", zap.Error(err))
		}
		c.incCache("miss")
		return result.Result{}, false
	}

	var cached cachedResult
	if err := json.Unmarshal(data, &cached); err != nil {
		c.logger.Warn("Failed to parse cached response", zap.Error(err))
		c.incCache("miss")
		return result.Result{}, false
	}

	chunks := make([]result.Chunk, len(cached.Chunks))
	for i, ch := range cached.Chunks {
		chunks[i] = result.ReconstructChunk(
			ch.Filename, ch.ChunkIndex, ch.ChunkID, ch.Content, ch.Score, ch.Generated,
		)
	}

	c.incCache("hit")
	return result.Reconstruct(cached.Query, chunks, cached.TotalFound), true
}

// Put stores a result under the request's cache key.
func (c *Cache) Put(ctx context.Context, req *request.Request, res result.Result) {
	chunks := res.Chunks()
	cached := cachedResult{
		Query:      res.Query(),
		TotalFound: res.TotalFound(),
		Chunks:     make([]cachedChunk, len(chunks)),
	}
	for i := range chunks {
		cached.Chunks[i] = cachedChunk{
			Filename:   chunks[i].Filename(),
			ChunkIndex: chunks[i].ChunkIndex(),
			ChunkID:    chunks[i].ChunkID(),
			Content:    chunks[i].Content(),
			Score:      chunks[i].Score(),
			Generated:  chunks[i].Generated(),
		}
	}

	data, err := json.Marshal(cached)
	if err != nil {
		c.logger.Warn("Failed to encode response for cache", zap.Error(err))
		return
	}

	if err := c.store.SetWithTTL(ctx, cacheKey(req), data, c.ttl); err != nil {
		c.logger.Warn("Failed to cache response", zap.Error(err))
	}
}

func (c *Cache) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

// cacheKey derives a stable key from every request field that affects
// the search outcome.
func cacheKey(req *request.Request) string {
	canonical := fmt.Sprintf("%s\x00%s\x00%s\x00%s\x00%d\x00%s",
		req.Query(),
		req.Mode(),
		req.FilterField(),
		req.FilterValue(),
		req.Limit(),
		strconv.FormatFloat(req.HybridAlpha(), 'g', -1, 64),
	)
	h := sha256.Sum256([]byte(canonical))
	return cacheKeyPrefix + hex.EncodeToString(h[:])
}
