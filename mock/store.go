package mock

import (
	"context"

	"github.com/fwojciec/xmlidx"
)

var (
	_ xmlidx.Store       = (*Store)(nil)
	_ xmlidx.StoreEngine = (*StoreEngine)(nil)
)

// Store is a mock implementation of xmlidx.Store.
type Store struct {
	GetFn   func(ctx context.Context, key string) (string, error)
	PutFn   func(ctx context.Context, records []xmlidx.Record) error
	KeysFn  func(ctx context.Context, fn func(key string) error) error
	ScanFn  func(ctx context.Context, fn func(rec xmlidx.Record) error) error
	CloseFn func() error
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	return s.GetFn(ctx, key)
}

func (s *Store) Put(ctx context.Context, records []xmlidx.Record) error {
	return s.PutFn(ctx, records)
}

func (s *Store) Keys(ctx context.Context, fn func(key string) error) error {
	return s.KeysFn(ctx, fn)
}

func (s *Store) Scan(ctx context.Context, fn func(rec xmlidx.Record) error) error {
	return s.ScanFn(ctx, fn)
}

func (s *Store) Close() error {
	return s.CloseFn()
}

// StoreEngine is a mock implementation of xmlidx.StoreEngine.
type StoreEngine struct {
	NameFn   func() string
	ExistsFn func(dir string) bool
	OpenFn   func(dir string, create bool) (xmlidx.Store, error)
	RemoveFn func(dir string) error
}

func (e *StoreEngine) Name() string {
	return e.NameFn()
}

func (e *StoreEngine) Exists(dir string) bool {
	return e.ExistsFn(dir)
}

func (e *StoreEngine) Open(dir string, create bool) (xmlidx.Store, error) {
	return e.OpenFn(dir, create)
}

func (e *StoreEngine) Remove(dir string) error {
	return e.RemoveFn(dir)
}
