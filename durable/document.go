// Package durable implements indices backed by an on-disk record store.
package durable

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/bloom"
	"github.com/fwojciec/xmlidx/etree"
	"github.com/fwojciec/xmlidx/fs"
	"github.com/gofrs/flock"
	"github.com/google/uuid"
)

// LockFile is the name of the lock file taken inside a store directory.
const LockFile = "xmlidx.lock"

const (
	minFilterSize   = 1024
	filterFalseRate = 0.01
	mergeBatchSize  = 1000
)

// Scanner iterates records in key order. Both xmlidx.Store and Document
// implement it.
type Scanner interface {
	Scan(ctx context.Context, fn func(rec xmlidx.Record) error) error
}

// Options configures a Document.
type Options struct {
	// Rules extract records from ingested files. Only required for ingestion.
	Rules *etree.Rules

	// Engine is the on-disk format of the store.
	Engine xmlidx.StoreEngine

	// System marks a long-lived store. System stores are never deleted.
	System bool

	// Create creates the store if it does not exist.
	Create bool

	// Jobs is the number of files parsed concurrently by AddDocuments.
	Jobs int

	Logger *slog.Logger
}

// Document is a persistent key to fragment map stored in one directory.
// A directory is owned by at most one open Document at a time.
type Document struct {
	dir     string
	system  bool
	existed bool
	jobs    int

	engine xmlidx.StoreEngine
	store  xmlidx.Store
	lock   *flock.Flock
	rules  *etree.Rules
	filter *bloom.KeyFilter
	logger *slog.Logger
}

// Open opens the store in dir. If no store exists, Open creates one when
// opts.Create is set and returns ENOTFOUND otherwise. Returns ECONFLICT if
// another Document holds the directory.
func Open(ctx context.Context, dir string, opts Options) (*Document, error) {
	if opts.Engine == nil {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "store engine required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	existed := opts.Engine.Exists(dir)
	if !existed {
		if !opts.Create {
			return nil, xmlidx.Errorf(xmlidx.ENOTFOUND, "no %s store in %s", opts.Engine.Name(), dir)
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
	}

	lock := flock.New(filepath.Join(dir, LockFile))
	ok, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock store directory: %w", err)
	}
	if !ok {
		return nil, xmlidx.Errorf(xmlidx.ECONFLICT, "store %s is in use", dir)
	}

	store, err := opts.Engine.Open(dir, true)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	d := &Document{
		dir:     dir,
		system:  opts.System,
		existed: existed,
		jobs:    opts.Jobs,
		engine:  opts.Engine,
		store:   store,
		lock:    lock,
		rules:   opts.Rules,
		logger:  logger.With("store", dir),
	}
	if err := d.rebuildFilter(ctx); err != nil {
		_ = store.Close()
		_ = lock.Unlock()
		return nil, err
	}
	return d, nil
}

// OpenTransient creates a non-system store in a fresh directory under
// workDir. An empty workDir means the OS temporary directory.
func OpenTransient(ctx context.Context, workDir string, opts Options) (*Document, error) {
	if workDir == "" {
		workDir = os.TempDir()
	}
	opts.System = false
	opts.Create = true
	return Open(ctx, filepath.Join(workDir, "xmlidx-"+uuid.NewString()), opts)
}

// Dir returns the store directory.
func (d *Document) Dir() string {
	return d.dir
}

// System reports whether the store is a long-lived system store.
func (d *Document) System() bool {
	return d.system
}

// Existed reports whether the store was present on disk when opened.
func (d *Document) Existed() bool {
	return d.existed
}

// Len returns the number of records in the store.
func (d *Document) Len(ctx context.Context) (int, error) {
	n := 0
	err := d.store.Keys(ctx, func(string) error {
		n++
		return nil
	})
	return n, err
}

// GetContent reads and parses the fragment stored under key. Every call
// returns an independent fragment. A missing key returns nil, nil.
func (d *Document) GetContent(ctx context.Context, key string) (*xmlidx.Fragment, error) {
	if !d.filter.MayContain(key) {
		return nil, nil
	}
	v, err := d.store.Get(ctx, key)
	if xmlidx.ErrorCode(err) == xmlidx.ENOTFOUND {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return xmlidx.ParseFragment(v)
}

// AddDocument extracts the records of one file into the store.
func (d *Document) AddDocument(ctx context.Context, path string) error {
	if d.rules == nil {
		return xmlidx.Errorf(xmlidx.EINVALID, "store %s has no extraction rules", d.dir)
	}
	doc, err := etree.ReadDocument(path, d.rules)
	if err != nil {
		return err
	}
	return d.put(ctx, doc.Records())
}

// AddDocuments adds every file under base matching pattern. Files that
// cannot be read or parsed are logged and skipped. Returns the number of
// files added.
func (d *Document) AddDocuments(ctx context.Context, base, pattern string, recurse bool) (int, error) {
	if d.rules == nil {
		return 0, xmlidx.Errorf(xmlidx.EINVALID, "store %s has no extraction rules", d.dir)
	}
	paths, err := fs.FindFiles(base, pattern, recurse)
	if err != nil {
		return 0, err
	}

	n := 0
	err = etree.ParseFiles(ctx, paths, d.rules, d.jobs, func(path string, doc *etree.Document, err error) error {
		if err != nil {
			d.logger.Error("skipping file", "file", path, "err", err)
			return nil
		}
		if err := d.put(ctx, doc.Records()); err != nil {
			return fmt.Errorf("writing records of %s: %w", path, err)
		}
		n++
		return nil
	})
	return n, err
}

// Merge copies every record of src into the store. Records of src win
// over existing records with the same key.
func (d *Document) Merge(ctx context.Context, src Scanner) (int, error) {
	n := 0
	batch := make([]xmlidx.Record, 0, mergeBatchSize)
	err := src.Scan(ctx, func(r xmlidx.Record) error {
		batch = append(batch, r)
		n++
		if len(batch) < mergeBatchSize {
			return nil
		}
		err := d.put(ctx, batch)
		batch = batch[:0]
		return err
	})
	if err != nil {
		return n, err
	}
	return n, d.put(ctx, batch)
}

// Scan calls fn for every record in key order.
func (d *Document) Scan(ctx context.Context, fn func(rec xmlidx.Record) error) error {
	return d.store.Scan(ctx, fn)
}

// Close closes the store and releases the directory. A non-system store is
// deleted from disk; deletion failures are logged and not returned.
func (d *Document) Close() error {
	err := d.store.Close()
	if !d.system {
		d.remove()
	}
	if uerr := d.lock.Unlock(); uerr != nil {
		err = errors.Join(err, uerr)
	}
	if rerr := os.Remove(d.lock.Path()); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
		d.logger.Warn("failed to remove lock file", "err", rerr)
	}
	if !d.system {
		// Only succeeds when nothing else lives in the directory.
		_ = os.Remove(d.dir)
	}
	return err
}

func (d *Document) remove() {
	if err := d.engine.Remove(d.dir); err != nil {
		d.logger.Error("failed to delete transient store", "err", err)
		return
	}
	d.logger.Debug("deleted transient store")
}

func (d *Document) put(ctx context.Context, records []xmlidx.Record) error {
	if len(records) == 0 {
		return nil
	}
	if err := d.store.Put(ctx, records); err != nil {
		return err
	}
	for _, r := range records {
		d.filter.Add(r.Key)
	}
	if d.filter.Full() {
		return d.rebuildFilter(ctx)
	}
	return nil
}

// rebuildFilter sizes a new key filter for twice the current key count and
// fills it from the store.
func (d *Document) rebuildFilter(ctx context.Context) error {
	n, err := d.Len(ctx)
	if err != nil {
		return fmt.Errorf("failed to count keys: %w", err)
	}
	f := bloom.NewKeyFilter(bloom.SizeFor(uint(n), minFilterSize), filterFalseRate)
	err = d.store.Keys(ctx, func(key string) error {
		f.Add(key)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to load keys: %w", err)
	}
	d.filter = f
	return nil
}
