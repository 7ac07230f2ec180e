package index

import (
	"context"
	"errors"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/fwojciec/xmlidx"
	"github.com/fwojciec/xmlidx/durable"
	"github.com/fwojciec/xmlidx/etree"
	"github.com/fwojciec/xmlidx/memory"
)

// Compile-time interface verification.
var _ xmlidx.Resolver = (*Controller)(nil)

// Index is one named index: an in-memory source with an optional durable
// fallback.
type Index struct {
	*Composite

	Name    string
	Memory  *memory.Source
	Durable *durable.Source
}

// Stats describes the contents of an index.
type Stats struct {
	Name     string `json:"name"`
	Elements int    `json:"elements"`
	Files    int    `json:"files"`
	Store    string `json:"store,omitempty"`
	System   bool   `json:"system,omitempty"`
	Stored   int    `json:"stored,omitempty"`
}

// Stats counts the records of the index.
func (i *Index) Stats(ctx context.Context) (Stats, error) {
	s := Stats{
		Name:     i.Name,
		Elements: i.Memory.Count(),
		Files:    i.Memory.DocumentCount(),
	}
	if i.Durable == nil {
		return s, nil
	}
	doc := i.Durable.Document()
	s.Store = doc.Dir()
	s.System = doc.System()
	s.Files += i.Durable.DocumentCount()
	n, err := doc.Len(ctx)
	s.Stored = n
	return s, err
}

// Close releases both sources.
func (i *Index) Close() error {
	err := i.Memory.Close()
	if i.Durable != nil {
		err = errors.Join(err, i.Durable.Close())
	}
	return err
}

// Controller builds every configured index and serves lookups by index
// name until closed.
type Controller struct {
	*Registry

	indexes []*Index
	logger  *slog.Logger
}

// Open builds the indices declared in cfg. engines lists the store engines
// available to durable locations, matched by name.
//
// A configuration error abandons the offending index and is logged, unless
// cfg.Strict is set, in which case Open fails.
func Open(ctx context.Context, cfg *xmlidx.Config, engines []xmlidx.StoreEngine, logger *slog.Logger) (*Controller, error) {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	cfg.SetDefaults()

	c := &Controller{Registry: NewRegistry(), logger: logger}
	for i := range cfg.Indexes {
		ic := &cfg.Indexes[i]
		if err := c.open(ctx, cfg, ic, engines); err != nil {
			if cfg.Strict || ctx.Err() != nil {
				_ = c.Close()
				return nil, err
			}
			logger.Error("abandoning index", "index", ic.Name, "err", err)
		}
	}
	return c, nil
}

// Index returns the named index.
func (c *Controller) Index(name string) (*Index, bool) {
	for _, idx := range c.indexes {
		if strings.EqualFold(idx.Name, name) {
			return idx, true
		}
	}
	return nil, false
}

// All returns the indices in configuration order.
func (c *Controller) All() []*Index {
	return append([]*Index(nil), c.indexes...)
}

// Close releases every index and unregisters it. Transient stores are
// deleted.
func (c *Controller) Close() error {
	var errs []error
	for _, idx := range c.indexes {
		c.Unregister(idx.Name)
		if err := idx.Close(); err != nil {
			c.logger.Error("failed to close index", "index", idx.Name, "err", err)
			errs = append(errs, err)
		}
	}
	c.indexes = nil
	return errors.Join(errs...)
}

func (c *Controller) open(ctx context.Context, cfg *xmlidx.Config, ic *xmlidx.IndexConfig, engines []xmlidx.StoreEngine) error {
	if err := ic.Validate(); err != nil {
		return err
	}
	if _, ok := c.Get(ic.Name); ok {
		return xmlidx.Errorf(xmlidx.EINVALID, "duplicate index name %q", ic.Name)
	}
	rules, err := etree.CompileRules(ic.Key, ic.Value)
	if err != nil {
		return err
	}
	engine := FindEngine(engines, ic.Engine)
	if engine == nil {
		return xmlidx.Errorf(xmlidx.EINVALID, "index %q: unknown store engine %q", ic.Name, ic.Engine)
	}

	logger := c.logger.With("index", ic.Name)
	mem, err := memory.NewSource(memory.Options{
		Rules:     rules,
		CacheSize: ic.Cache,
		Jobs:      cfg.Jobs,
		Logger:    logger,
	})
	if err != nil {
		return err
	}

	b := &builder{
		cfg:    cfg,
		index:  ic,
		rules:  rules,
		engine: engine,
		logger: logger,
		mem:    mem,
	}
	for _, d := range ic.Data {
		if err := b.add(ctx, d); err != nil {
			_ = b.close()
			return err
		}
	}

	idx := &Index{Name: ic.Name, Memory: mem, Durable: b.dur}
	if b.dur != nil {
		idx.Composite = NewComposite(mem, b.dur)
	} else {
		idx.Composite = NewComposite(mem, nil)
	}
	if err := c.Register(ic.Name, idx); err != nil {
		_ = idx.Close()
		return err
	}
	c.indexes = append(c.indexes, idx)

	logger.Info("indexed elements", "elements", mem.Count(), "files", mem.DocumentCount())
	return nil
}

// FindEngine returns the engine called name, ignoring case, or nil.
func FindEngine(engines []xmlidx.StoreEngine, name string) xmlidx.StoreEngine {
	for _, e := range engines {
		if strings.EqualFold(e.Name(), name) {
			return e
		}
	}
	return nil
}

// builder routes the data locations of one index to its sources.
type builder struct {
	cfg    *xmlidx.Config
	index  *xmlidx.IndexConfig
	rules  *etree.Rules
	engine xmlidx.StoreEngine
	logger *slog.Logger

	mem      *memory.Source
	dur      *durable.Source
	absorbed []string
}

func (b *builder) add(ctx context.Context, d xmlidx.DataConfig) error {
	base := xmlidx.ExpandEnv(d.Base)
	files := xmlidx.ExpandEnv(d.Files)
	store := xmlidx.ExpandEnv(d.Database)
	opts := xmlidx.IngestOptions{Recurse: d.Recurse, WarnOverride: d.WarnOverride}

	b.logger.Info("searching for files", "base", base, "files", files)

	switch {
	case store != "" && b.engine.Exists(store):
		err := b.absorb(ctx, store)
		if err == nil {
			b.absorbed = append(b.absorbed, base)
			return nil
		}
		if ctx.Err() != nil {
			return err
		}
		b.logger.Error("cannot use store, indexing files in memory", "store", store, "err", err)

	case d.System && b.covered(base):
		b.logger.Info("skipping location covered by a store", "base", base)
		return nil

	case d.Transient:
		if b.dur == nil {
			if err := b.openTransient(ctx); err != nil {
				b.logger.Error("cannot create transient store, indexing files in memory", "err", err)
			}
		}
		if b.dur != nil && !b.dur.Document().System() {
			return b.dur.AddDocuments(ctx, base, files, opts)
		}
	}

	return b.mem.AddDocuments(ctx, base, files, opts)
}

// absorb opens the store in dir as the durable source of the index, or
// merges it into the existing one. A store found on disk was built by an
// earlier run, so it is opened as a system store and never written or
// deleted.
func (b *builder) absorb(ctx context.Context, dir string) error {
	if b.dur == nil {
		src, err := b.openSource(ctx, dir)
		if err != nil {
			return err
		}
		b.dur = src
		b.logger.Info("opened store", "store", dir)
		return nil
	}
	if sameDir(b.dur.Document().Dir(), dir) {
		return nil
	}

	other, err := durable.Open(ctx, dir, b.options(true))
	if err != nil {
		return err
	}
	defer func() {
		if err := other.Close(); err != nil {
			b.logger.Warn("failed to close merged store", "store", dir, "err", err)
		}
	}()

	// Records never flow into a system store.
	if b.dur.Document().System() {
		if err := b.promote(ctx); err != nil {
			return err
		}
	}
	n, err := b.dur.Merge(ctx, other)
	if err != nil {
		return err
	}
	b.logger.Info("merged store", "store", dir, "records", n)
	return nil
}

// promote replaces a system durable source with a transient copy of it.
// The system store is closed untouched.
func (b *builder) promote(ctx context.Context) error {
	doc, err := durable.OpenTransient(ctx, b.cfg.WorkDir, b.options(false))
	if err != nil {
		return err
	}
	src, err := durable.NewSource(doc, b.index.Cache)
	if err != nil {
		_ = doc.Close()
		return err
	}
	if _, err := src.Merge(ctx, b.dur.Document()); err != nil {
		_ = src.Close()
		return err
	}
	if err := b.dur.Close(); err != nil {
		b.logger.Warn("failed to close store", "store", b.dur.Document().Dir(), "err", err)
	}
	b.dur = src
	return nil
}

func (b *builder) openTransient(ctx context.Context) error {
	doc, err := durable.OpenTransient(ctx, b.cfg.WorkDir, b.options(false))
	if err != nil {
		return err
	}
	src, err := durable.NewSource(doc, b.index.Cache)
	if err != nil {
		_ = doc.Close()
		return err
	}
	b.dur = src
	b.logger.Info("created transient store", "store", doc.Dir())
	return nil
}

func (b *builder) openSource(ctx context.Context, dir string) (*durable.Source, error) {
	doc, err := durable.Open(ctx, dir, b.options(true))
	if err != nil {
		return nil, err
	}
	src, err := durable.NewSource(doc, b.index.Cache)
	if err != nil {
		_ = doc.Close()
		return nil, err
	}
	return src, nil
}

func (b *builder) options(system bool) durable.Options {
	return durable.Options{
		Rules:  b.rules,
		Engine: b.engine,
		System: system,
		Jobs:   b.cfg.Jobs,
		Logger: b.logger,
	}
}

// covered reports whether base lies inside a location already served by a
// durable store.
func (b *builder) covered(base string) bool {
	for _, a := range b.absorbed {
		rel, err := filepath.Rel(a, base)
		if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func (b *builder) close() error {
	err := b.mem.Close()
	if b.dur != nil {
		err = errors.Join(err, b.dur.Close())
	}
	return err
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return filepath.Clean(a) == filepath.Clean(b)
	}
	return absA == absB
}
