package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/jmcallister/weather-widget-service/internal/models"
)

// MemoryStore keeps records in process memory. Useful for serve mode when no
// state directory is wanted, and for tests.
type MemoryStore struct {
	ttls    TTLs
	now     func() time.Time
	mu      sync.RWMutex
	records map[models.Variant]Record
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore(ttls TTLs) *MemoryStore {
	return &MemoryStore{
		ttls:    ttls,
		now:     time.Now,
		records: make(map[models.Variant]Record),
	}
}

// Read returns the stored payload while the record is within its TTL.
func (s *MemoryStore) Read(ctx context.Context, variant models.Variant) (json.RawMessage, bool) {
	if ctx.Err() != nil {
		return nil, false
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[variant]
	if !ok || !fresh(rec.Timestamp, s.ttls.For(variant), s.now()) {
		return nil, false
	}
	return rec.Data, true
}

// Write replaces the variant's record.
func (s *MemoryStore) Write(ctx context.Context, variant models.Variant, data json.RawMessage) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[variant] = Record{Timestamp: s.now().UnixMilli(), Data: data}
	return nil
}
