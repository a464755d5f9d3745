package storage

import (
	"errors"
	"fmt"
	"slices"

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/shopspring/decimal"
)

// DefaultSize is the number of solved requests kept when no size is configured.
const DefaultSize = 256

var (
	// ErrInvalidSize indicates a non-positive cache size.
	ErrInvalidSize = errors.New("cache size must be a positive integer")
)

// Entry is a cached solution. Tables are never cached, only their outcome.
type Entry struct {
	IDs         []int
	TotalPrice  decimal.Decimal
	TotalWeight decimal.Decimal
	TableCells  int
}

// Storage keeps solved requests keyed by their fingerprint.
type Storage interface {
	Get(key uint64) (Entry, bool)
	Put(key uint64, entry Entry)
	Len() int
}

// MemoryStorage is a bounded in-memory LRU of solutions. The underlying
// cache synchronizes its own access.
type MemoryStorage struct {
	cache *lru.Cache[uint64, Entry]
}

// NewMemoryStorage creates a cache holding at most size entries.
func NewMemoryStorage(size int) (*MemoryStorage, error) {
	if size <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidSize, size)
	}
	cache, err := lru.New[uint64, Entry](size)
	if err != nil {
		return nil, fmt.Errorf("create LRU cache: %w", err)
	}
	return &MemoryStorage{cache: cache}, nil
}

// Get returns a copy of the entry stored under key and marks it recently used.
func (s *MemoryStorage) Get(key uint64) (Entry, bool) {
	entry, ok := s.cache.Get(key)
	if !ok {
		return Entry{}, false
	}
	return cloneEntry(entry), true
}

// Put stores a copy of entry under key, evicting the least recently used entry when full.
func (s *MemoryStorage) Put(key uint64, entry Entry) {
	s.cache.Add(key, cloneEntry(entry))
}

// Len returns the number of cached entries.
func (s *MemoryStorage) Len() int {
	return s.cache.Len()
}

func cloneEntry(src Entry) Entry {
	out := src
	out.IDs = slices.Clone(src.IDs)
	if out.IDs == nil {
		out.IDs = []int{}
	}
	return out
}
