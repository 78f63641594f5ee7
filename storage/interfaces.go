package storage

import (
	"context"
)

// Store is durable key-value blob storage.
// Implementations must be thread-safe and support concurrent access.
// Callers own the (de)serialization of the values they store.
type Store interface {
	// Get returns the value stored under key.
	// Returns nil, nil if the key does not exist.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores value under key, replacing any previous value.
	Set(ctx context.Context, key string, value []byte) error

	// Clear removes every key.
	Clear(ctx context.Context) error

	// Close closes the storage backend and releases resources.
	Close() error
}

// Well-known keys for persisted launcher state.
const (
	KeyIconCache      = "icon_cache"
	KeyLaunchStack    = "launch_stack"
	KeyIndexedFolders = "indexed_folders"
)
