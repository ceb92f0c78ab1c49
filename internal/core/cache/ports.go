package cache

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when the key does not exist.
var ErrNotFound = errors.New("key not found")

// Cache defines the key-value operations of the configuration store.
// This is a port that can be implemented by different providers (Redis, Memcached, etc.).
type Cache interface {
	// Get retrieves a value by key.
	// Returns an error wrapping ErrNotFound when the key is missing.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores a value with the specified key and TTL.
	// TTL of 0 means no expiration.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// SetIfAbsent atomically stores the value only when the key does not exist.
	// It reports whether the value was stored.
	SetIfAbsent(ctx context.Context, key string, value []byte) (bool, error)

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close closes the connection.
	Close() error
}
