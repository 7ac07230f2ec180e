// Package pebble provides a durable store engine on
// github.com/cockroachdb/pebble.
package pebble

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/cockroachdb/pebble"
	"github.com/fwojciec/xmlidx"
)

// Compile-time interface verification.
var (
	_ xmlidx.Store       = (*Store)(nil)
	_ xmlidx.StoreEngine = (*Engine)(nil)
)

// Store implements xmlidx.Store on a pebble database.
type Store struct {
	db *pebble.DB
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	v, closer, err := s.db.Get([]byte(key))
	if errors.Is(err, pebble.ErrNotFound) {
		return "", xmlidx.Errorf(xmlidx.ENOTFOUND, "record %q not found", key)
	}
	if err != nil {
		return "", err
	}
	defer closer.Close()
	return string(v), nil
}

// Put writes records in a single synced batch. Later records win over
// earlier ones with the same key.
func (s *Store) Put(ctx context.Context, records []xmlidx.Record) error {
	if len(records) == 0 {
		return nil
	}
	b := s.db.NewBatch()
	defer b.Close()
	for _, r := range records {
		if err := b.Set([]byte(r.Key), []byte(r.Value), nil); err != nil {
			return err
		}
	}
	return b.Commit(pebble.Sync)
}

// Keys calls fn for every key in byte order.
func (s *Store) Keys(ctx context.Context, fn func(key string) error) error {
	return s.iterate(ctx, func(it *pebble.Iterator) error {
		return fn(string(it.Key()))
	})
}

// Scan calls fn for every record in key order.
func (s *Store) Scan(ctx context.Context, fn func(xmlidx.Record) error) error {
	return s.iterate(ctx, func(it *pebble.Iterator) error {
		return fn(xmlidx.Record{Key: string(it.Key()), Value: string(it.Value())})
	})
}

func (s *Store) iterate(ctx context.Context, fn func(it *pebble.Iterator) error) error {
	it, err := s.db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	defer it.Close()
	for valid := it.First(); valid; valid = it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := fn(it); err != nil {
			return err
		}
	}
	return it.Error()
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Engine opens pebble stores, one database per directory.
type Engine struct{}

// NewEngine returns a new Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Name returns "pebble".
func (e *Engine) Name() string {
	return "pebble"
}

// Exists reports whether dir holds a pebble database.
func (e *Engine) Exists(dir string) bool {
	matches, err := filepath.Glob(filepath.Join(dir, "MANIFEST-*"))
	return err == nil && len(matches) > 0
}

// Open opens the store in dir. Returns ENOTFOUND if the store does not
// exist and create is false.
func (e *Engine) Open(dir string, create bool) (xmlidx.Store, error) {
	if !create && !e.Exists(dir) {
		return nil, xmlidx.Errorf(xmlidx.ENOTFOUND, "no pebble store in %s", dir)
	}
	db, err := pebble.Open(dir, &pebble.Options{ErrorIfNotExists: !create})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Remove deletes the store directory and everything in it.
func (e *Engine) Remove(dir string) error {
	return os.RemoveAll(dir)
}
