package pricelog

import (
	"context"
	"sync"
)

// MemoryStore keeps records in memory. It is used in tests and when no
// history backend is configured.
type MemoryStore struct {
	mu   sync.RWMutex
	recs []LogRecord
}

// NewMemoryStore returns an empty store.
func NewMemoryStore() *MemoryStore { return &MemoryStore{} }

func (s *MemoryStore) Append(_ context.Context, rec LogRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.recs = append(s.recs, rec)
	return nil
}

func (s *MemoryStore) Query(_ context.Context, q LogQuery) ([]LogRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var res []LogRecord
	for _, r := range s.recs {
		if q.matches(r) {
			res = append(res, r)
		}
	}
	return q.finish(res), nil
}

func (s *MemoryStore) Close() error { return nil }
