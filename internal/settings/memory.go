package settings

import (
	"context"
	"sync"
)

// MemoryStore is a Store that keeps values in memory only.
type MemoryStore struct {
	mu     sync.RWMutex
	values map[Key]Value
}

// NewMemory creates an empty in-memory store.
func NewMemory() *MemoryStore {
	return &MemoryStore{values: make(map[Key]Value)}
}

// Get returns the stored value, or nil when key was never set.
func (m *MemoryStore) Get(key Key) Value {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.values[key]
}

// Set stores value under key.
func (m *MemoryStore) Set(ctx context.Context, key Key, value Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(value); err != nil {
		return err
	}
	m.mu.Lock()
	m.values[key] = value
	m.mu.Unlock()
	return nil
}

// SetIfNull stores value only if key has no value yet.
func (m *MemoryStore) SetIfNull(ctx context.Context, key Key, value Value) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := validate(value); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[key]; !ok {
		m.values[key] = value
	}
	return nil
}
