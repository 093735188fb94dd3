package utils

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
)

// CacheItem wraps cached data with its expiry time.
type CacheItem struct {
	Data      interface{}
	ExpiresAt time.Time
}

// Cache is a small TTL'd LRU used for listing snapshots.
type Cache struct {
	lruCache *lru.Cache[string, CacheItem]
}

// NewCache creates an LRU cache holding up to size entries.
func NewCache(size int) (*Cache, error) {
	l, err := lru.New[string, CacheItem](size)
	if err != nil {
		return nil, err
	}
	return &Cache{lruCache: l}, nil
}

// Set stores data under key for the given TTL.
func (c *Cache) Set(key string, data interface{}, ttl time.Duration) {
	c.lruCache.Add(key, CacheItem{
		Data:      data,
		ExpiresAt: time.Now().Add(ttl),
	})
}

// Get returns the cached data, or nil if absent or expired.
func (c *Cache) Get(key string) interface{} {
	val, ok := c.lruCache.Get(key)
	if !ok {
		return nil
	}

	if time.Now().After(val.ExpiresAt) {
		c.lruCache.Remove(key)
		return nil
	}

	return val.Data
}

// Delete removes the given key.
func (c *Cache) Delete(key string) {
	c.lruCache.Remove(key)
}
