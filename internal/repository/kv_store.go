package repository

import (
	"context"
	"errors"
)

var (
	ErrNotFound         = errors.New("key not found")
	ErrConnectionFailed = errors.New("storage connection failed")
	ErrQueryFailed      = errors.New("storage query failed")
)

// KeyValueStore is the durable string-keyed mirror of the ads store state.
// Get returns ErrNotFound when the key has never been written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Close() error
}
