// Package lru provides bounded FIFO caches built on hashicorp/golang-lru.
//
// Lookups use Peek, so reading an entry never changes its position: the
// oldest admitted entry is always the next one evicted, regardless of how
// recently it was used.
package lru

import (
	"weak"

	"github.com/fwojciec/xmlidx"
	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache is a bounded FIFO cache holding strong references to its values.
type Cache[K comparable, V any] struct {
	c *lru.Cache[K, V]
}

// New returns a cache admitting at most size entries. onEvict, if not nil,
// is called for every entry pushed out by a newer one or removed.
func New[K comparable, V any](size int, onEvict func(key K, value V)) (*Cache[K, V], error) {
	if size < 1 {
		return nil, xmlidx.Errorf(xmlidx.EINVALID, "cache size must be positive, got %d", size)
	}
	c, err := lru.NewWithEvict[K, V](size, onEvict)
	if err != nil {
		return nil, err
	}
	return &Cache[K, V]{c: c}, nil
}

// Get returns the value stored under key without affecting eviction order.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	return c.c.Peek(key)
}

// Add admits value under key. If the cache is full the oldest entry is
// evicted first. Adding an existing key replaces its value and re-admits it
// as the newest entry. Reports whether an eviction occurred.
func (c *Cache[K, V]) Add(key K, value V) bool {
	return c.c.Add(key, value)
}

// Contains reports whether key is cached.
func (c *Cache[K, V]) Contains(key K) bool {
	return c.c.Contains(key)
}

// Remove drops key from the cache.
func (c *Cache[K, V]) Remove(key K) bool {
	return c.c.Remove(key)
}

// Keys returns the cached keys from oldest to newest.
func (c *Cache[K, V]) Keys() []K {
	return c.c.Keys()
}

// Len returns the number of cached entries.
func (c *Cache[K, V]) Len() int {
	return c.c.Len()
}

// Purge drops every entry.
func (c *Cache[K, V]) Purge() {
	c.c.Purge()
}

// WeakCache is a bounded FIFO cache that does not keep its values alive.
// A value reclaimed by the garbage collector reads as a miss; the caller
// rebuilds it and adds it again.
type WeakCache[K comparable, T any] struct {
	c *Cache[K, weak.Pointer[T]]
}

// NewWeak returns a weak cache admitting at most size entries.
func NewWeak[K comparable, T any](size int, onEvict func(key K)) (*WeakCache[K, T], error) {
	var fn func(K, weak.Pointer[T])
	if onEvict != nil {
		fn = func(key K, _ weak.Pointer[T]) { onEvict(key) }
	}
	c, err := New[K, weak.Pointer[T]](size, fn)
	if err != nil {
		return nil, err
	}
	return &WeakCache[K, T]{c: c}, nil
}

// Get returns the value stored under key if it is still alive.
func (w *WeakCache[K, T]) Get(key K) (*T, bool) {
	p, ok := w.c.Get(key)
	if !ok {
		return nil, false
	}
	v := p.Value()
	if v == nil {
		return nil, false
	}
	return v, true
}

// Add admits value under key, evicting the oldest entry if full.
func (w *WeakCache[K, T]) Add(key K, value *T) bool {
	return w.c.Add(key, weak.Make(value))
}

// Contains reports whether key has an entry, alive or reclaimed.
func (w *WeakCache[K, T]) Contains(key K) bool {
	return w.c.Contains(key)
}

// Keys returns the cached keys from oldest to newest.
func (w *WeakCache[K, T]) Keys() []K {
	return w.c.Keys()
}

// Len returns the number of entries, alive or reclaimed.
func (w *WeakCache[K, T]) Len() int {
	return w.c.Len()
}

// Purge drops every entry.
func (w *WeakCache[K, T]) Purge() {
	w.c.Purge()
}
