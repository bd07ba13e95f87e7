// Package kvstore is the durable key-value store behind favorites, the
// active selection and the user session.
package kvstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// ErrNotFound is returned by Get when the key has never been set or was removed.
var ErrNotFound = errors.New("kvstore: key not found")

type Store interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// Options selects and configures a backend.
type Options struct {
	Backend    string
	SQLitePath string
	RedisURL   string
	// KeyPrefix namespaces keys in shared backends.
	KeyPrefix string
}

// Open returns the store for opts.Backend. An empty backend means SQLite.
func Open(ctx context.Context, opts Options, logger *slog.Logger) (Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	switch strings.ToLower(opts.Backend) {
	case "", BackendSQLite:
		return NewSQLiteStore(ctx, opts.SQLitePath, logger)
	case BackendRedis:
		return NewRedisStoreFromURL(ctx, opts.RedisURL, opts.KeyPrefix)
	case BackendMemory:
		return NewMemoryStore(), nil
	default:
		return nil, fmt.Errorf("unknown kv backend %q", opts.Backend)
	}
}
