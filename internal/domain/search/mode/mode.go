package mode

// Mode is the search strategy.
type Mode string

// Search mode constants.
const (
	// Semantic is pure nearest-neighbor search by concept text.
	Semantic Mode = "semantic"
	// Filtered intersects nearest-neighbor ranking with an equality predicate.
	Filtered Mode = "filtered"
	// Hybrid blends vector similarity and keyword match via an alpha weight.
	Hybrid Mode = "hybrid"
	// Generative augments each retrieved chunk with a templated generation call.
	Generative Mode = "generative"
)

// IsValid checks if the mode is one of the supported values.
func (m Mode) IsValid() bool {
	return m == Semantic || m == Filtered || m == Hybrid || m == Generative
}
