package result

// Chunk is a single retrieved document chunk. Owned by the external
// vector store; the relay never mutates stored data.
type Chunk struct {
	filename   string
	chunkIndex int
	chunkID    string
	content    string
	score      float64
	generated  string
}

// NewChunk creates a document chunk result.
func NewChunk(filename string, chunkIndex int, chunkID, content string, score float64) Chunk {
	return Chunk{
		filename:   filename,
		chunkIndex: chunkIndex,
		chunkID:    chunkID,
		content:    content,
		score:      score,
	}
}

// Filename returns the source document filename.
func (c *Chunk) Filename() string { return c.filename }

// ChunkIndex returns the position of the chunk within its document.
func (c *Chunk) ChunkIndex() int { return c.chunkIndex }

// ChunkID returns the store-assigned chunk identifier.
func (c *Chunk) ChunkID() string { return c.chunkID }

// Content returns the chunk text.
func (c *Chunk) Content() string { return c.content }

// Score returns the relevance score.
func (c *Chunk) Score() float64 { return c.score }

// Generated returns the generation output attached to this chunk, if any.
func (c *Chunk) Generated() string { return c.generated }

// WithGenerated returns a copy of the chunk carrying a generation output.
func (c Chunk) WithGenerated(text string) Chunk {
	c.generated = text
	return c
}

// Result is a normalized search outcome: the ranked chunk list, an echo
// of the input query, and the count of returned chunks. Constructed per
// request, never persisted.
type Result struct {
	chunks     []Chunk
	query      string
	totalFound int
}

// NewResult creates a search result. Order of chunks is preserved as
// returned by the store; total_found is derived from the chunk count.
func NewResult(query string, chunks []Chunk) Result {
	return Result{chunks: chunks, query: query, totalFound: len(chunks)}
}

// Reconstruct rebuilds a Result from persisted fields (cache rehydration).
func Reconstruct(query string, chunks []Chunk, totalFound int) Result {
	return Result{chunks: chunks, query: query, totalFound: totalFound}
}

// ReconstructChunk rebuilds a Chunk from persisted fields.
func ReconstructChunk(
	filename string, chunkIndex int, chunkID, content string,
	score float64, generated string,
) Chunk {
	return Chunk{
		filename:   filename,
		chunkIndex: chunkIndex,
		chunkID:    chunkID,
		content:    content,
		score:      score,
		generated:  generated,
	}
}

// Chunks returns the ranked chunk list.
func (r *Result) Chunks() []Chunk { return r.chunks }

// Query returns the echoed input query.
func (r *Result) Query() string { return r.query }

// TotalFound returns the count of returned chunks.
func (r *Result) TotalFound() int { return r.totalFound }
