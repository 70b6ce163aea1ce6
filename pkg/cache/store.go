package cache

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key does not exist.
var ErrCacheMiss = errors.New("cache: key not found")

// Store is the shared key-value contract used for durable safety state:
// the kill-switch marker and per-principal heartbeat/autonomous records.
// Implementations: Redis (multi-process deployments) and in-memory
// (single process, tests).
type Store interface {
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	// SetNX writes only if the key does not exist. Returns true if written.
	SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error)
	Get(ctx context.Context, key string, dest interface{}) error
	Delete(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, keys ...string) (bool, error)

	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)

	Close() error
}
