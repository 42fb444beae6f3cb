package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/platform/logger"
	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/repository"
)

// KVStore is a single JSON document on disk holding every key, rewritten in
// full on each Set.
type KVStore struct {
	path string
	log  logger.Logger
	mu   sync.RWMutex
	data map[string]string
}

var _ repository.KeyValueStore = (*KVStore)(nil)

func NewKVStore(path string, log logger.Logger) (*KVStore, error) {
	s := &KVStore{
		path: path,
		log:  log,
		data: make(map[string]string),
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir for %s: %w", path, err)
	}
	if err := s.loadFromFile(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *KVStore) loadFromFile() error {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read storage file %s: %w", s.path, err)
	}
	if len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, &s.data); err != nil {
		// Keep the unreadable document for inspection and start from scratch.
		aside := s.path + ".corrupt"
		s.log.Warnf("Storage file %s is not valid JSON (%v), moving it to %s", s.path, err, aside)
		if renameErr := os.Rename(s.path, aside); renameErr != nil {
			return fmt.Errorf("failed to move corrupt storage file %s: %w", s.path, renameErr)
		}
		s.data = make(map[string]string)
	}
	if s.data == nil {
		s.data = make(map[string]string)
	}
	return nil
}

func (s *KVStore) saveToFile() error {
	data, err := json.MarshalIndent(s.data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal storage document: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write storage file %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to replace storage file %s: %w", s.path, err)
	}
	return nil
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
	prev, had := s.data[key]
	s.data[key] = value
	if err := s.saveToFile(); err != nil {
		// The document on disk still holds the old value; keep memory in step.
		if had {
			s.data[key] = prev
		} else {
			delete(s.data, key)
		}
		return err
	}
	return nil
}

func (s *KVStore) Close() error { return nil }
