package xmlidx

import "context"

// Record is one extracted key with its serialized fragment.
type Record struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Store is an ordered, persistent map from key to serialized fragment.
type Store interface {
	// Get returns the value stored under key.
	// Returns ENOTFOUND if the key does not exist.
	Get(ctx context.Context, key string) (string, error)

	// Put writes records in one batch. Later records win over earlier
	// records and over existing values with the same key.
	Put(ctx context.Context, records []Record) error

	// Keys calls fn for every key in ascending order.
	Keys(ctx context.Context, fn func(key string) error) error

	// Scan calls fn for every record in ascending key order.
	Scan(ctx context.Context, fn func(rec Record) error) error

	// Close releases the store handle. Files on disk are left in place.
	Close() error
}

// StoreEngine creates, opens and removes stores of one on-disk format.
type StoreEngine interface {
	// Name returns the engine name used in configuration.
	Name() string

	// Exists reports whether a store of this engine is present in dir.
	Exists(dir string) bool

	// Open opens the store in dir. If create is false and no store exists,
	// Open returns ENOTFOUND.
	Open(dir string, create bool) (Store, error)

	// Remove deletes the store files in dir. The store must be closed.
	Remove(dir string) error
}
