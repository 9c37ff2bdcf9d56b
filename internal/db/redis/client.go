package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/rueidis"

	"github.com/kailas-cloud/docrelay/internal/db"
)

var _ db.Store = (*Store)(nil)

const readyPollInterval = 100 * time.Millisecond

// Config holds connection parameters for a Redis-compatible store
// (Redis, Valkey, or a cluster of either).
type Config struct {
	Addrs    []string
	Username string
	Password string
	DB       int
}

// Store implements db.Store on top of rueidis. Client-side caching is
// disabled: cached responses are already a cache, a second layer on top
// only adds invalidation traffic.
type Store struct {
	client rueidis.Client
}

// NewStore connects to the store described by cfg.
func NewStore(cfg Config) (*Store, error) {
	if len(cfg.Addrs) == 0 {
		return nil, fmt.Errorf("addrs is required")
	}

	client, err := rueidis.NewClient(rueidis.ClientOption{
		InitAddress:  cfg.Addrs,
		Username:     cfg.Username,
		Password:     cfg.Password,
		SelectDB:     cfg.DB,
		DisableCache: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &Store{client: client}, nil
}

// Ping checks connectivity.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.client.Do(ctx, s.client.B().Ping().Build()).Error(); err != nil {
		return &db.Error{Op: db.OpPing, Err: err}
	}
	return nil
}

// Close shuts down the underlying client.
func (s *Store) Close() {
	s.client.Close()
}

// WaitForReady blocks until the store answers a ping or the timeout
// expires. The first attempt is immediate so a healthy store adds no
// startup delay.
func (s *Store) WaitForReady(ctx context.Context, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	if err := s.Ping(ctx); err == nil {
		return nil
	}

	ticker := time.NewTicker(readyPollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("timeout waiting for cache store: %w", ctx.Err())
		case <-ticker.C:
			if err := s.Ping(ctx); err == nil {
				return nil
			}
		}
	}
}
