// Package colorcache memoizes palette projections.
//
// The cache maps an exact input color to its projected color. Entries are
// never evicted: the key space is bounded by the 2^24 8-bit colors, and in
// practice by the distinct colors of the images being mapped.
package colorcache

import (
	"github.com/puzpuzpuz/xsync/v3"

	"github.com/ironsheep/palette-transfer/internal/palette"
)

// Cache is a concurrent color-to-color map.
//
// Cache is safe for concurrent use. Lookups and stores on unrelated keys do
// not contend on a shared lock. Two goroutines that miss on the same key may
// both compute it; the computation is expected to be pure, so whichever store
// lands last is equal to the other.
type Cache struct {
	entries *xsync.MapOf[uint32, palette.RGB]
}

// New creates an empty cache.
func New() *Cache {
	return &Cache{
		entries: xsync.NewMapOf[uint32, palette.RGB](),
	}
}

// Get returns the stored projection of key, if any.
func (c *Cache) Get(key palette.RGB) (palette.RGB, bool) {
	return c.entries.Load(key.Key())
}

// Put stores value as the projection of key.
func (c *Cache) Put(key, value palette.RGB) {
	c.entries.Store(key.Key(), value)
}

// GetOrCompute returns the stored projection of key, calling compute and
// storing its result on a miss. When compute fails nothing is stored.
func (c *Cache) GetOrCompute(key palette.RGB, compute func() (palette.RGB, error)) (palette.RGB, error) {
	k := key.Key()
	if v, ok := c.entries.Load(k); ok {
		return v, nil
	}
	v, err := compute()
	if err != nil {
		return palette.RGB{}, err
	}
	c.entries.Store(k, v)
	return v, nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() int {
	return c.entries.Size()
}
