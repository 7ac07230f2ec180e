package xmlidx

import "context"

// ContentSource resolves lookup keys to content fragments.
type ContentSource interface {
	// GetContent returns a private copy of the fragment stored under key.
	// A missing key is not an error: GetContent returns nil, nil.
	GetContent(ctx context.Context, key string) (*Fragment, error)
}

// IngestOptions controls how files are added to a Source.
type IngestOptions struct {
	// Recurse descends into every subdirectory of the base directory.
	Recurse bool

	// CacheIt keeps the parsed document in the source's cache so that the
	// first lookups after ingestion do not re-parse the file.
	CacheIt bool

	// WarnOverride reports keys that move from one file to another.
	WarnOverride bool
}

// Source is an index that ingests XML files and resolves keys.
type Source interface {
	ContentSource

	// AddDocument extracts the records of one file into the index.
	AddDocument(ctx context.Context, path string, opts IngestOptions) error

	// AddDocuments adds every file under base whose name matches pattern.
	// Failures of individual files are logged and skipped; the returned
	// error only reports problems that stop the whole call.
	AddDocuments(ctx context.Context, base, pattern string, opts IngestOptions) error

	// Close releases every resource held by the source.
	Close() error
}

// Resolver exposes named indices to downstream consumers.
type Resolver interface {
	// Resolve looks key up in the named index.
	// Returns ENOTFOUND if no index has that name. A missing key returns nil, nil.
	Resolve(ctx context.Context, index, key string) (*Fragment, error)

	// Indexes returns the names of the registered indices.
	Indexes() []string
}
