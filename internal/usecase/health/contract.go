package health

import "context"

// CachePinger checks response cache connectivity.
type CachePinger interface {
	Ping(ctx context.Context) error
}

// StoreChecker checks vector store readiness.
type StoreChecker interface {
	Ready(ctx context.Context) error
}
