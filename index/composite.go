// Package index combines sources into named indices and builds them from
// configuration.
package index

import (
	"context"

	"github.com/fwojciec/xmlidx"
)

// Compile-time interface verification.
var _ xmlidx.ContentSource = (*Composite)(nil)

// Composite resolves keys from a primary source first and falls back to a
// secondary source. It does not own either source.
type Composite struct {
	primary   xmlidx.ContentSource
	secondary xmlidx.ContentSource
}

// NewComposite returns a Composite. secondary may be nil.
func NewComposite(primary, secondary xmlidx.ContentSource) *Composite {
	return &Composite{primary: primary, secondary: secondary}
}

// GetContent returns the primary source's fragment for key if it has one,
// otherwise the secondary source's.
func (c *Composite) GetContent(ctx context.Context, key string) (*xmlidx.Fragment, error) {
	f, err := c.primary.GetContent(ctx, key)
	if err != nil || f != nil {
		return f, err
	}
	if c.secondary == nil {
		return nil, nil
	}
	return c.secondary.GetContent(ctx, key)
}
