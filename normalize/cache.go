package normalize

import (
	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the number of distinct texts a Cache keeps by default.
const DefaultCacheSize = 4096

// Cache memoizes another Normalizer. Catalog search texts change rarely, so
// caching them avoids re-running Unicode decomposition on every keystroke.
type Cache struct {
	inner Normalizer
	cache *lru.Cache[string, string]
}

var _ Normalizer = (*Cache)(nil)

// NewCache wraps inner with an LRU holding up to size entries.
// A size below 1 uses DefaultCacheSize.
func NewCache(inner Normalizer, size int) (*Cache, error) {
	if inner == nil {
		inner = StripDiacritics
	}
	if size < 1 {
		size = DefaultCacheSize
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &Cache{inner: inner, cache: c}, nil
}

// Normalize returns the cached form of text, computing it on a miss.
func (c *Cache) Normalize(text string) string {
	if v, ok := c.cache.Get(text); ok {
		return v
	}
	v := c.inner.Normalize(text)
	c.cache.Add(text, v)
	return v
}

// Len returns the number of cached entries.
func (c *Cache) Len() int {
	return c.cache.Len()
}

// Purge drops every cached entry.
func (c *Cache) Purge() {
	c.cache.Purge()
}
