package respcache

import (
	"context"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/docrelay/internal/db"
	"github.com/kailas-cloud/docrelay/internal/domain/search/mode"
	"github.com/kailas-cloud/docrelay/internal/domain/search/request"
	"github.com/kailas-cloud/docrelay/internal/domain/search/result"
)

type fakeStore struct {
	data    map[string][]byte
	getErr  error
	setErr  error
	lastTTL time.Duration
}

func newFakeStore() *fakeStore {
	return &fakeStore{data: map[string][]byte{}}
}

func (f *fakeStore) Get(_ context.Context, key string) ([]byte, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return nil, db.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) SetWithTTL(_ context.Context, key string, value []byte, ttl time.Duration) error {
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.lastTTL = ttl
	return nil
}

func mustRequest(t *testing.T) request.Request {
	t.Helper()
	req, err := request.New("GDPR compliance", mode.Semantic, "", "", 4, nil)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	return req
}

func TestCache_RoundTrip(t *testing.T) {
	store := newFakeStore()
	cache := New(store, 5*time.Minute, nil, zap.NewNop())
	req := mustRequest(t)

	chunks := []result.Chunk{
		result.NewChunk("a.pdf", 0, "id-1", "first", 0.91).WithGenerated("answer"),
		result.NewChunk("b.pdf", 2, "id-2", "second", 0.85),
	}
	cache.Put(context.Background(), &req, result.NewResult(req.Query(), chunks))

	got, ok := cache.Get(context.Background(), &req)
	if !ok {
		t.Fatal("expected cache hit")
	}
	if got.Query() != "GDPR compliance" || got.TotalFound() != 2 {
		t.Errorf("envelope: got %q/%d", got.Query(), got.TotalFound())
	}
	gc := got.Chunks()
	if gc[0].ChunkID() != "id-1" || gc[0].Generated() != "answer" || gc[0].Score() != 0.91 {
		t.Errorf("chunk 0 not rehydrated: %+v", gc[0])
	}
	if gc[1].Filename() != "b.pdf" || gc[1].ChunkIndex() != 2 {
		t.Errorf("chunk 1 not rehydrated: %+v", gc[1])
	}
	if store.lastTTL != 5*time.Minute {
		t.Errorf("ttl: got %v", store.lastTTL)
	}
}

func TestCache_Miss(t *testing.T) {
	cache := New(newFakeStore(), time.Minute, nil, zap.NewNop())
	req := mustRequest(t)

	if _, ok := cache.Get(context.Background(), &req); ok {
		t.Fatal("expected cache miss")
	}
}

func TestCache_KeyVariesWithRequestFields(t *testing.T) {
	store := newFakeStore()
	cache := New(store, time.Minute, nil, zap.NewNop())

	req := mustRequest(t)
	cache.Put(context.Background(), &req, result.NewResult(req.Query(), nil))

	other, err := request.New("GDPR compliance", mode.Semantic, "", "", 8, nil)
	if err != nil {
		t.Fatalf("request.New: %v", err)
	}
	if _, ok := cache.Get(context.Background(), &other); ok {
		t.Fatal("different limit must not share a cache entry")
	}
	if _, ok := cache.Get(context.Background(), &req); !ok {
		t.Fatal("identical request must hit")
	}
}

func TestCache_StoreFailureDegradesToMiss(t *testing.T) {
	store := newFakeStore()
	store.getErr = &db.Error{Op: db.OpGet, Err: context.DeadlineExceeded}
	cache := New(store, time.Minute, nil, zap.NewNop())
	req := mustRequest(t)

	if _, ok := cache.Get(context.Background(), &req); ok {
		t.Fatal("expected miss on store failure")
	}
}

func TestCache_CorruptEntryDegradesToMiss(t *testing.T) {
	store := newFakeStore()
	cache := New(store, time.Minute, nil, zap.NewNop())
	req := mustRequest(t)

	cache.Put(context.Background(), &req, result.NewResult(req.Query(), nil))
	for k := range store.data {
		store.data[k] = []byte("{corrupt")
	}

	if _, ok := cache.Get(context.Background(), &req); ok {
		t.Fatal("expected miss on corrupt entry")
	}
}

func TestCache_PutFailureIsSilent(t *testing.T) {
	store := newFakeStore()
	store.setErr = &db.Error{Op: db.OpSet, Err: context.DeadlineExceeded}
	cache := New(store, time.Minute, nil, zap.NewNop())
	req := mustRequest(t)

	// Must not panic or surface the error.
	cache.Put(context.Background(), &req, result.NewResult(req.Query(), nil))
}
