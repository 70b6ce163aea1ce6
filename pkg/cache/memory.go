package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	data     []byte
	expireAt time.Time // zero means no expiry
}

func (m *memoryItem) expired() bool {
	return !m.expireAt.IsZero() && time.Now().After(m.expireAt)
}

// MemoryStore implements Store with in-process maps. It mirrors the Redis
// semantics closely enough for single-process deployments and tests.
type MemoryStore struct {
	mu   sync.RWMutex
	data map[string]*memoryItem
	sets map[string]map[string]struct{}
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]*memoryItem),
		sets: make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Set(_ context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := encodeValue(value)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = newItem(data, expiration)
	return nil
}

func (s *MemoryStore) SetNX(_ context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	data, err := encodeValue(value)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if item, ok := s.data[key]; ok && !item.expired() {
		return false, nil
	}
	s.data[key] = newItem(data, expiration)
	return true, nil
}

func (s *MemoryStore) Get(_ context.Context, key string, dest interface{}) error {
	s.mu.RLock()
	item, ok := s.data[key]
	s.mu.RUnlock()

	if !ok || item.expired() {
		return ErrCacheMiss
	}
	return decodeValue(item.data, dest)
}

func (s *MemoryStore) Delete(_ context.Context, keys ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, k := range keys {
		delete(s.data, k)
	}
	return nil
}

func (s *MemoryStore) Exists(_ context.Context, keys ...string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, k := range keys {
		if item, ok := s.data[k]; ok && !item.expired() {
			return true, nil
		}
	}
	return false, nil
}

func (s *MemoryStore) SAdd(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	set, ok := s.sets[key]
	if !ok {
		set = make(map[string]struct{})
		s.sets[key] = set
	}
	for _, m := range members {
		set[m] = struct{}{}
	}
	return nil
}

func (s *MemoryStore) SRem(_ context.Context, key string, members ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if set, ok := s.sets[key]; ok {
		for _, m := range members {
			delete(set, m)
		}
	}
	return nil
}

func (s *MemoryStore) SMembers(_ context.Context, key string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	set, ok := s.sets[key]
	if !ok {
		return nil, nil
	}
	members := make([]string, 0, len(set))
	for m := range set {
		members = append(members, m)
	}
	return members, nil
}

func (s *MemoryStore) Close() error {
	return nil
}

func newItem(data []byte, expiration time.Duration) *memoryItem {
	item := &memoryItem{data: data}
	if expiration > 0 {
		item.expireAt = time.Now().Add(expiration)
	}
	return item
}

var _ Store = (*MemoryStore)(nil)
