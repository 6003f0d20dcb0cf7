package store

import (
	"sync"
	"time"
)

type entry struct {
	Value     string
	UpdatedAt time.Time
}

// MemoryStore is a KV that lives for the lifetime of the process
type MemoryStore struct {
	entries sync.Map
}

var _ KV = (*MemoryStore)(nil)

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(key string) (string, bool, error) {
	val, ok := s.entries.Load(key)
	if !ok {
		return "", false, nil
	}
	return val.(entry).Value, true, nil
}

func (s *MemoryStore) Set(key, value string) error {
	s.entries.Store(key, entry{Value: value, UpdatedAt: time.Now()})
	return nil
}

func (s *MemoryStore) Delete(key string) error {
	s.entries.Delete(key)
	return nil
}

func (s *MemoryStore) Close() error {
	return nil
}
