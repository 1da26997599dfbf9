// Package cache is the client's keyed query cache. Values are only ever
// written by a successful load or by merging server-confirmed fields; a
// mutation invalidates the keys it may have made stale and the next read
// refetches them.
package cache

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"golang.org/x/sync/singleflight"
)

// Loader fetches the authoritative value of a key.
type Loader func(ctx context.Context) (any, error)

type item struct {
	value any
	stale bool
}

// Cache maps keys to the last loaded value. Concurrent loads of one key are
// collapsed into a single call.
type Cache struct {
	mu    sync.Mutex
	items map[Key]*item
	// gen counts invalidations per key so a load that raced with an
	// invalidation is returned to its caller but not stored.
	gen map[Key]uint64
	sf  singleflight.Group
}

func New() *Cache {
	return &Cache{
		items: make(map[Key]*item),
		gen:   make(map[Key]uint64),
	}
}

// Fetch returns the cached value of key when it is fresh and otherwise
// loads, stores and returns it.
func (c *Cache) Fetch(ctx context.Context, key Key, load Loader) (any, error) {
	c.mu.Lock()
	if it, ok := c.items[key]; ok && !it.stale {
		v := it.value
		c.mu.Unlock()
		return v, nil
	}
	startGen := c.gen[key]
	c.gen[key] = startGen
	c.mu.Unlock()

	// Loads started after an invalidation never join an older flight.
	flight := fmt.Sprintf("%s#%d", key, startGen)
	v, err, _ := c.sf.Do(flight, func() (any, error) {
		v, err := load(ctx)
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		if c.gen[key] == startGen {
			c.items[key] = &item{value: v}
		}
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

// Peek returns the cached value of key, fresh or stale.
func (c *Cache) Peek(key Key) (value any, fresh bool, ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return nil, false, false
	}
	return it.value, !it.stale, true
}

// Invalidate marks keys stale. Their values stay readable through Peek
// until the next Fetch replaces them.
func (c *Cache) Invalidate(keys ...Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, k := range keys {
		c.invalidateLocked(k)
	}
}

// InvalidatePrefix marks stale every key starting with prefix.
func (c *Cache) InvalidatePrefix(prefix Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.gen {
		if strings.HasPrefix(string(k), string(prefix)) {
			c.invalidateLocked(k)
		}
	}
}

func (c *Cache) invalidateLocked(k Key) {
	c.gen[k]++
	if it, ok := c.items[k]; ok {
		it.stale = true
	}
}

// Update replaces the cached value of key with fn(old) and marks it stale.
// Keys that were never loaded are left absent. fn must not retain old.
func (c *Cache) Update(key Key, fn func(old any) any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	it, ok := c.items[key]
	if !ok {
		return false
	}
	it.value = fn(it.value)
	c.invalidateLocked(key)
	return true
}

// Remove drops key entirely.
func (c *Cache) Remove(key Key) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.gen[key]++
	delete(c.items, key)
}

// Clear drops every key, e.g. on logout.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k := range c.gen {
		c.gen[k]++
	}
	clear(c.items)
}

// Len reports the number of cached keys.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

// Get is Fetch with a typed result. A cached value of another type is a
// programming error and panics.
func Get[T any](ctx context.Context, c *Cache, key Key, load func(ctx context.Context) (T, error)) (T, error) {
	v, err := c.Fetch(ctx, key, func(ctx context.Context) (any, error) {
		return load(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return v.(T), nil
}
