package store

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/grovetools/companion/errors"
)

// MemoryStore keeps blobs in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	blobs map[string]Blob
	now   func() time.Time
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		blobs: make(map[string]Blob),
		now:   time.Now,
	}
}

func (s *MemoryStore) Read(_ context.Context, key string) (Blob, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	blob, ok := s.blobs[key]
	if !ok {
		return Blob{}, false, nil
	}
	blob.Data = append([]byte(nil), blob.Data...)
	return blob, true, nil
}

func (s *MemoryStore) Write(_ context.Context, key string, data []byte, expectedRevision int64) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.blobs[key].Revision
	if current != expectedRevision {
		return 0, errors.RevisionConflict(key, expectedRevision, current)
	}

	next := current + 1
	s.blobs[key] = Blob{
		Data:      append([]byte(nil), data...),
		Revision:  next,
		UpdatedAt: s.now(),
	}
	return next, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.blobs, key)
	return nil
}

func (s *MemoryStore) Keys(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	keys := make([]string, 0, len(s.blobs))
	for key := range s.blobs {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *MemoryStore) Close() error { return nil }
