package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/Abdurahmanit/GroupProject/adbrowser-service/internal/repository"
	"github.com/redis/go-redis/v9"
)

type kvStore struct {
	client *redis.Client
	prefix string
}

// NewKVStore stores each key as a plain redis string without expiry.
func NewKVStore(client *redis.Client, prefix string) repository.KeyValueStore {
	return &kvStore{
		client: client,
		prefix: prefix,
	}
}

func (r *kvStore) key(key string) string {
	return r.prefix + key
}

func (r *kvStore) Get(ctx context.Context, key string) (string, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", repository.ErrNotFound
		}
		return "", fmt.Errorf("failed to get %s from redis: %w", key, err)
	}
	return val, nil
}

func (r *kvStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, 0).Err(); err != nil {
		return fmt.Errorf("failed to save %s to redis: %w", key, err)
	}
	return nil
}

func (r *kvStore) Close() error {
	return r.client.Close()
}
