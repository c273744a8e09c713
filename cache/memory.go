package cache

import (
	"context"
	"fmt"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultMemorySize is the number of entries a MemoryStore holds by default.
const DefaultMemorySize = 4096

type memoryItem struct {
	entry    Entry
	deadline time.Time
}

// MemoryStore is an in-process Store bounded by entry count. The least
// recently used entry is evicted when the store is full.
type MemoryStore struct {
	items *lru.Cache[string, memoryItem]
	now   func() time.Time
}

// NewMemoryStore returns a MemoryStore holding at most size entries. A size
// of zero or less uses DefaultMemorySize.
func NewMemoryStore(size int) (*MemoryStore, error) {
	if size <= 0 {
		size = DefaultMemorySize
	}
	items, err := lru.New[string, memoryItem](size)
	if err != nil {
		return nil, fmt.Errorf("could not create memory cache: %w", err)
	}
	return &MemoryStore{items: items, now: time.Now}, nil
}

// Get implements Store.
func (s *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	item, ok := s.items.Get(key)
	if !ok {
		return Entry{}, false, nil
	}
	if !s.now().Before(item.deadline) {
		s.items.Remove(key)
		return Entry{}, false, nil
	}
	return item.entry, true, nil
}

// Set implements Store.
func (s *MemoryStore) Set(_ context.Context, key string, entry Entry, expireAfter time.Duration) error {
	if expireAfter <= 0 {
		return ErrInvalidEntry
	}
	s.items.Add(key, memoryItem{entry: entry, deadline: s.now().Add(expireAfter)})
	return nil
}

// Len returns the number of entries held, including ones past their deadline
// that have not been read since.
func (s *MemoryStore) Len() int {
	return s.items.Len()
}

var _ Store = (*MemoryStore)(nil)
