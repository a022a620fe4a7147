package artifact

import (
	"context"
	"sync"
	"sync/atomic"
)

// Cache loads the bundle at most once and hands the same outcome, success or
// failure, to every caller. It is safe for concurrent use.
type Cache struct {
	loader Loader
	once   sync.Once
	bundle *Bundle
	err    error
	done   atomic.Bool
}

func NewCache(loader Loader) *Cache {
	return &Cache{loader: loader}
}

// Get runs the loader on first use. Later calls return the cached result
// without touching storage. The load ignores cancellation of the first
// caller's ctx so a cancelled request cannot poison the cache.
func (c *Cache) Get(ctx context.Context) (*Bundle, error) {
	c.once.Do(func() {
		c.bundle, c.err = c.loader.Load(context.WithoutCancel(ctx))
		c.done.Store(true)
	})
	return c.bundle, c.err
}

// Ready reports whether a bundle has been loaded successfully.
func (c *Cache) Ready() bool {
	return c.done.Load() && c.err == nil
}
