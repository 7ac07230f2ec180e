package durable

import (
	"context"
	"log/slog"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/lru"
)

// Compile-time interface verification.
var _ xmlidx.Source = (*Source)(nil)

// Source pairs a Document with a bounded FIFO cache of parsed fragments.
type Source struct {
	doc    *Document
	cache  *lru.Cache[string, *xmlidx.Fragment]
	files  int
	logger *slog.Logger
}

// NewSource wraps doc with a fragment cache holding up to cacheSize entries.
// The source takes ownership of doc.
func NewSource(doc *Document, cacheSize int) (*Source, error) {
	s := &Source{doc: doc, logger: doc.logger}
	cache, err := lru.New(cacheSize, func(key string, _ *xmlidx.Fragment) {
		s.logger.Debug("evicted fragment", "key", key)
	})
	if err != nil {
		return nil, err
	}
	s.cache = cache
	return s, nil
}

// Document returns the underlying document.
func (s *Source) Document() *Document {
	return s.doc
}

// DocumentCount returns the number of files ingested through the source.
func (s *Source) DocumentCount() int {
	return s.files
}

// GetContent returns a copy of the fragment stored under key, reading the
// store only on a cache miss. A missing key returns nil, nil.
func (s *Source) GetContent(ctx context.Context, key string) (*xmlidx.Fragment, error) {
	if f, ok := s.cache.Get(key); ok {
		return f.Clone(), nil
	}
	f, err := s.doc.GetContent(ctx, key)
	if err != nil || f == nil {
		return nil, err
	}
	s.cache.Add(key, f)
	return f.Clone(), nil
}

// AddDocument extracts the records of one file into the store.
// Cached fragments are dropped since their keys may have been rewritten.
func (s *Source) AddDocument(ctx context.Context, path string, opts xmlidx.IngestOptions) error {
	if err := s.doc.AddDocument(ctx, path); err != nil {
		return err
	}
	s.files++
	s.cache.Purge()
	return nil
}

// AddDocuments adds every file under base matching pattern.
func (s *Source) AddDocuments(ctx context.Context, base, pattern string, opts xmlidx.IngestOptions) error {
	n, err := s.doc.AddDocuments(ctx, base, pattern, opts.Recurse)
	s.files += n
	s.cache.Purge()
	return err
}

// Merge imports every record of src into the store.
func (s *Source) Merge(ctx context.Context, src Scanner) (int, error) {
	n, err := s.doc.Merge(ctx, src)
	s.cache.Purge()
	return n, err
}

// Close closes the underlying document.
func (s *Source) Close() error {
	s.cache.Purge()
	return s.doc.Close()
}
