// Package slog provides logging decorators for xmlidx services.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/xmlidx"
)

// Ensure LoggingResolver implements xmlidx.Resolver.
var _ xmlidx.Resolver = (*LoggingResolver)(nil)

// LoggingResolver wraps a Resolver with debug logging of every lookup.
type LoggingResolver struct {
	next   xmlidx.Resolver
	logger *slog.Logger
}

// NewLoggingResolver creates a new LoggingResolver.
func NewLoggingResolver(next xmlidx.Resolver, logger *slog.Logger) *LoggingResolver {
	return &LoggingResolver{next: next, logger: logger}
}

// Resolve delegates to the wrapped resolver and logs the lookup.
func (r *LoggingResolver) Resolve(ctx context.Context, index, key string) (f *xmlidx.Fragment, err error) {
	defer func(begin time.Time) {
		r.logger.Debug("resolve",
			"index", index,
			"key", key,
			"hit", f != nil,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return r.next.Resolve(ctx, index, key)
}

// Indexes delegates to the wrapped resolver.
func (r *LoggingResolver) Indexes() []string {
	return r.next.Indexes()
}
