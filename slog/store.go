package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/xmlidx"
)

// Ensure LoggingStore implements xmlidx.Store.
var _ xmlidx.Store = (*LoggingStore)(nil)

// LoggingStore wraps a Store with debug logging.
type LoggingStore struct {
	next   xmlidx.Store
	logger *slog.Logger
}

// NewLoggingStore creates a new LoggingStore.
func NewLoggingStore(next xmlidx.Store, logger *slog.Logger) *LoggingStore {
	return &LoggingStore{next: next, logger: logger}
}

// Get delegates to the wrapped store and logs the read.
func (s *LoggingStore) Get(ctx context.Context, key string) (value string, err error) {
	defer func(begin time.Time) {
		s.logger.Debug("store get",
			"key", key,
			"bytes", len(value),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Get(ctx, key)
}

// Put delegates to the wrapped store and logs the batch.
func (s *LoggingStore) Put(ctx context.Context, records []xmlidx.Record) (err error) {
	defer func(begin time.Time) {
		s.logger.Debug("store put",
			"records", len(records),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Put(ctx, records)
}

// Keys delegates to the wrapped store and logs the scan.
func (s *LoggingStore) Keys(ctx context.Context, fn func(key string) error) (err error) {
	n := 0
	defer func(begin time.Time) {
		s.logger.Debug("store keys",
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Keys(ctx, func(key string) error {
		n++
		return fn(key)
	})
}

// Scan delegates to the wrapped store and logs the scan.
func (s *LoggingStore) Scan(ctx context.Context, fn func(rec xmlidx.Record) error) (err error) {
	n := 0
	defer func(begin time.Time) {
		s.logger.Debug("store scan",
			"count", n,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Scan(ctx, func(rec xmlidx.Record) error {
		n++
		return fn(rec)
	})
}

// Close delegates to the wrapped store.
func (s *LoggingStore) Close() error {
	return s.next.Close()
}

// Ensure LoggingEngine implements xmlidx.StoreEngine.
var _ xmlidx.StoreEngine = (*LoggingEngine)(nil)

// LoggingEngine wraps a StoreEngine so that every store it opens is a
// LoggingStore.
type LoggingEngine struct {
	next   xmlidx.StoreEngine
	logger *slog.Logger
}

// NewLoggingEngine creates a new LoggingEngine.
func NewLoggingEngine(next xmlidx.StoreEngine, logger *slog.Logger) *LoggingEngine {
	return &LoggingEngine{next: next, logger: logger}
}

// Name delegates to the wrapped engine.
func (e *LoggingEngine) Name() string {
	return e.next.Name()
}

// Exists delegates to the wrapped engine.
func (e *LoggingEngine) Exists(dir string) bool {
	return e.next.Exists(dir)
}

// Open opens the store and wraps it with logging.
func (e *LoggingEngine) Open(dir string, create bool) (xmlidx.Store, error) {
	s, err := e.next.Open(dir, create)
	e.logger.Debug("store open", "engine", e.next.Name(), "dir", dir, "create", create, "err", err)
	if err != nil {
		return nil, err
	}
	return NewLoggingStore(s, e.logger.With("store", dir)), nil
}

// Remove delegates to the wrapped engine and logs the deletion.
func (e *LoggingEngine) Remove(dir string) error {
	err := e.next.Remove(dir)
	e.logger.Debug("store remove", "engine", e.next.Name(), "dir", dir, "err", err)
	return err
}
