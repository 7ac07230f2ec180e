package mock

import (
	"context"

	"github.com/fwojciec/xmlidx"
)

var (
	_ xmlidx.ContentSource = (*ContentSource)(nil)
	_ xmlidx.Source        = (*Source)(nil)
	_ xmlidx.Resolver      = (*Resolver)(nil)
)

// ContentSource is a mock implementation of xmlidx.ContentSource.
type ContentSource struct {
	GetContentFn func(ctx context.Context, key string) (*xmlidx.Fragment, error)
}

func (s *ContentSource) GetContent(ctx context.Context, key string) (*xmlidx.Fragment, error) {
	return s.GetContentFn(ctx, key)
}

// Source is a mock implementation of xmlidx.Source.
type Source struct {
	GetContentFn   func(ctx context.Context, key string) (*xmlidx.Fragment, error)
	AddDocumentFn  func(ctx context.Context, path string, opts xmlidx.IngestOptions) error
	AddDocumentsFn func(ctx context.Context, base, pattern string, opts xmlidx.IngestOptions) error
	CloseFn        func() error
}

func (s *Source) GetContent(ctx context.Context, key string) (*xmlidx.Fragment, error) {
	return s.GetContentFn(ctx, key)
}

func (s *Source) AddDocument(ctx context.Context, path string, opts xmlidx.IngestOptions) error {
	return s.AddDocumentFn(ctx, path, opts)
}

func (s *Source) AddDocuments(ctx context.Context, base, pattern string, opts xmlidx.IngestOptions) error {
	return s.AddDocumentsFn(ctx, base, pattern, opts)
}

func (s *Source) Close() error {
	return s.CloseFn()
}

// Resolver is a mock implementation of xmlidx.Resolver.
type Resolver struct {
	ResolveFn func(ctx context.Context, index, key string) (*xmlidx.Fragment, error)
	IndexesFn func() []string
}

func (r *Resolver) Resolve(ctx context.Context, index, key string) (*xmlidx.Fragment, error) {
	return r.ResolveFn(ctx, index, key)
}

func (r *Resolver) Indexes() []string {
	return r.IndexesFn()
}
