package memory

import (
	"context"
	"sync"
)

type InMemoryKeyValueStore struct {
	values map[string]string
	mutex  sync.RWMutex
}

func NewInMemoryKeyValueStore() *InMemoryKeyValueStore {
	return &InMemoryKeyValueStore{
		values: make(map[string]string),
	}
}

func (r *InMemoryKeyValueStore) Get(ctx context.Context, key string) (string, bool, error) {
	r.mutex.RLock()
	defer r.mutex.RUnlock()

	value, exists := r.values[key]
	return value, exists, nil
}

func (r *InMemoryKeyValueStore) Set(ctx context.Context, key, value string) error {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.values[key] = value
	return nil
}

