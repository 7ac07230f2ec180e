// Package bloom provides key filters that let a durable store answer
// lookups for keys it never stored without reading the store.
package bloom

import "github.com/bits-and-blooms/bloom/v3"

// KeyFilter answers "might the store hold this key?". A negative answer is
// definite. A filter holds up to its capacity at the configured false
// positive rate; once Full reports true its owner rebuilds it from the
// store's keys with a size from SizeFor.
type KeyFilter struct {
	f        *bloom.BloomFilter
	capacity uint
}

// NewKeyFilter returns an empty filter sized for capacity keys at the
// given false positive rate.
func NewKeyFilter(capacity uint, fpRate float64) *KeyFilter {
	return &KeyFilter{
		f:        bloom.NewWithEstimates(capacity, fpRate),
		capacity: capacity,
	}
}

// SizeFor returns the capacity for a rebuilt filter holding n keys: twice
// n, so the next rebuild is as far away as the keys already stored, and
// never below floor.
func SizeFor(n, floor uint) uint {
	return max(2*n, floor)
}

// Add records a stored key.
func (k *KeyFilter) Add(key string) {
	k.f.AddString(key)
}

// MayContain reports whether key may have been added.
func (k *KeyFilter) MayContain(key string) bool {
	return k.f.TestString(key)
}

// Full reports whether the filter holds more keys than it was sized for.
func (k *KeyFilter) Full() bool {
	return uint(k.f.ApproximatedSize()) > k.capacity
}

// Capacity returns the number of keys the filter was sized for.
func (k *KeyFilter) Capacity() uint {
	return k.capacity
}
