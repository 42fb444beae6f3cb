package memory

import (
	"context"
	"sync"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/repository"
)

// KVStore keeps values in a map. Nothing survives the process; used for tests
// and for the "memory" storage driver.
type KVStore struct {
	mu   sync.RWMutex
	data map[string]string
}

var _ repository.KeyValueStore = (*KVStore)(nil)

func NewKVStore() *KVStore {
	return &KVStore{data: make(map[string]string)}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.data[key]
	if !ok {
		return "", repository.ErrNotFound
	}
	return v, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	return nil
}

func (s *KVStore) Close() error { return nil }

// Noop is the store used where no durable storage exists: every key is
// missing and writes are dropped.
type Noop struct{}

var _ repository.KeyValueStore = Noop{}

func (Noop) Get(ctx context.Context, key string) (string, error) { return "", repository.ErrNotFound }
func (Noop) Set(ctx context.Context, key, value string) error    { return nil }
func (Noop) Close() error                                         { return nil }
