// Package cache provides a small generic LRU cache.
//
//	scratch := cache.New[image.Point, *image.RGBA](8)
//	buf := scratch.GetOrCreate(size, func() *image.RGBA { return image.NewRGBA(r) })
package cache

import "sync"

// Cache is a thread-safe LRU cache holding at most capacity entries.
// Inserting into a full cache evicts the least recently used entry.
//
// Cache must not be copied after creation (has mutex).
type Cache[K comparable, V any] struct {
	mu       sync.Mutex
	entries  map[K]*entry[K, V]
	order    lruList[K]
	capacity int
	onEvict  func(K, V)

	hits, misses, evictions uint64
}

type entry[K comparable, V any] struct {
	value V
	node  *lruNode[K]
}

// New creates a cache holding at most capacity entries. A capacity <= 0
// means unlimited.
func New[K comparable, V any](capacity int) *Cache[K, V] {
	return &Cache[K, V]{
		entries:  make(map[K]*entry[K, V]),
		capacity: capacity,
	}
}

// OnEvict sets a callback run for every entry removed by eviction, Delete
// or Clear. It is called with the cache lock held.
func (c *Cache[K, V]) OnEvict(fn func(K, V)) {
	c.mu.Lock()
	c.onEvict = fn
	c.mu.Unlock()
}

// Get returns the value for key and marks it most recently used.
func (c *Cache[K, V]) Get(key K) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	c.hits++
	c.order.MoveToFront(e.node)
	return e.value, true
}

// Set stores value under key.
func (c *Cache[K, V]) Set(key K, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		c.order.MoveToFront(e.node)
		return
	}
	c.insert(key, value)
}

// GetOrCreate returns the cached value or stores the result of create.
// create is called under the lock.
func (c *Cache[K, V]) GetOrCreate(key K, create func() V) V {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		c.hits++
		c.order.MoveToFront(e.node)
		return e.value
	}
	c.misses++
	value := create()
	c.insert(key, value)
	return value
}

// Delete removes key. It reports whether the key was present.
func (c *Cache[K, V]) Delete(key K) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return false
	}
	c.remove(key, e)
	return true
}

// Clear removes every entry.
func (c *Cache[K, V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	for k, e := range c.entries {
		c.remove(k, e)
	}
	c.order.Clear()
}

// Len returns the number of entries.
func (c *Cache[K, V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// Capacity returns the maximum number of entries, 0 for unlimited.
func (c *Cache[K, V]) Capacity() int {
	return c.capacity
}

// Stats returns cache statistics.
func (c *Cache[K, V]) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Stats{
		Len:       len(c.entries),
		Capacity:  c.capacity,
		Hits:      c.hits,
		Misses:    c.misses,
		Evictions: c.evictions,
	}
	if total := c.hits + c.misses; total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}
	return s
}

// insert adds a new entry and evicts the oldest ones over capacity.
// Caller must hold c.mu.
func (c *Cache[K, V]) insert(key K, value V) {
	c.entries[key] = &entry[K, V]{value: value, node: c.order.PushFront(key)}
	for c.capacity > 0 && len(c.entries) > c.capacity {
		oldest, ok := c.order.Oldest()
		if !ok {
			return
		}
		c.remove(oldest, c.entries[oldest])
		c.evictions++
	}
}

// remove drops an entry. Caller must hold c.mu.
func (c *Cache[K, V]) remove(key K, e *entry[K, V]) {
	c.order.Remove(e.node)
	delete(c.entries, key)
	if c.onEvict != nil {
		c.onEvict(key, e.value)
	}
}

// Stats contains cache statistics.
type Stats struct {
	// Len is the current number of entries.
	Len int
	// Capacity is the maximum number of entries, 0 for unlimited.
	Capacity int
	// Hits counts lookups that found their key.
	Hits uint64
	// Misses counts lookups that did not.
	Misses uint64
	// HitRate is Hits / (Hits + Misses), 0 before the first lookup.
	HitRate float64
	// Evictions counts entries removed to respect the capacity.
	Evictions uint64
}
