// Package memory implements an index that keeps its key map in memory and
// re-reads source files on demand.
package memory

import (
	"context"
	"log/slog"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/etree"
	"github.com/fwojciec/xmlidx/fs"
	"github.com/fwojciec/xmlidx/lru"
)

// Compile-time interface verification.
var _ xmlidx.Source = (*Source)(nil)

// Options configures a Source.
type Options struct {
	Rules *etree.Rules

	// CacheSize is the number of parsed documents kept in the cache.
	CacheSize int

	// Jobs is the number of files parsed concurrently by AddDocuments.
	Jobs int

	Logger *slog.Logger
}

// Source maps every key to the file holding it and keeps a bounded cache
// of parsed documents. Documents that were evicted or reclaimed by the
// garbage collector are parsed again on the next lookup.
//
// Ingestion must not run concurrently with lookups.
type Source struct {
	rules  *etree.Rules
	keys   map[string]string
	files  map[string]struct{}
	cache  *lru.WeakCache[string, etree.Document]
	jobs   int
	logger *slog.Logger
}

// NewSource returns an empty Source.
func NewSource(opts Options) (*Source, error) {
	if opts.Rules == nil {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "extraction rules required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cache, err := lru.NewWeak[string, etree.Document](opts.CacheSize, func(path string) {
		logger.Debug("evicted document", "file", path)
	})
	if err != nil {
		return nil, err
	}
	return &Source{
		rules:  opts.Rules,
		keys:   make(map[string]string),
		files:  make(map[string]struct{}),
		cache:  cache,
		jobs:   opts.Jobs,
		logger: logger,
	}, nil
}

// Count returns the number of distinct keys.
func (s *Source) Count() int {
	return len(s.keys)
}

// DocumentCount returns the number of distinct files ingested.
func (s *Source) DocumentCount() int {
	return len(s.files)
}

// GetContent returns a copy of the record stored under key. A key that was
// never ingested returns nil, nil, as does a key whose file can no longer be
// read; the read failure is logged.
func (s *Source) GetContent(ctx context.Context, key string) (*xmlidx.Fragment, error) {
	path, ok := s.keys[key]
	if !ok {
		return nil, nil
	}
	doc, ok := s.cache.Get(path)
	if !ok {
		var err error
		if doc, err = etree.ReadDocument(path, s.rules); err != nil {
			s.logger.Error("reloading document", "file", path, "key", key, "err", err)
			return nil, nil
		}
		s.cache.Add(path, doc)
	}
	return doc.GetContent(key), nil
}

// AddDocument parses one file and maps its keys to it. Keys already held
// by another file move to this one.
func (s *Source) AddDocument(ctx context.Context, path string, opts xmlidx.IngestOptions) error {
	doc, err := etree.ReadDocument(path, s.rules)
	if err != nil {
		return err
	}
	s.add(doc, opts)
	return nil
}

// AddDocuments adds every file under base matching pattern, in directory
// order. Files that cannot be read or parsed are logged and skipped.
func (s *Source) AddDocuments(ctx context.Context, base, pattern string, opts xmlidx.IngestOptions) error {
	paths, err := fs.FindFiles(base, pattern, opts.Recurse)
	if err != nil {
		return err
	}
	return etree.ParseFiles(ctx, paths, s.rules, s.jobs, func(path string, doc *etree.Document, err error) error {
		if err != nil {
			s.logger.Error("skipping file", "file", path, "err", err)
			return nil
		}
		s.add(doc, opts)
		return nil
	})
}

func (s *Source) add(doc *etree.Document, opts xmlidx.IngestOptions) {
	path := doc.Path()
	for _, key := range doc.Keys() {
		if prev, ok := s.keys[key]; ok && prev != path && opts.WarnOverride {
			s.logger.Warn("key override", "key", key, "previous", prev, "file", path)
		}
		s.keys[key] = path
	}
	s.files[path] = struct{}{}

	// A cached copy of a re-ingested file would be stale.
	if opts.CacheIt || s.cache.Contains(path) {
		s.cache.Add(path, doc)
	}
}

// Close drops every key and cached document.
func (s *Source) Close() error {
	s.cache.Purge()
	clear(s.keys)
	clear(s.files)
	return nil
}
