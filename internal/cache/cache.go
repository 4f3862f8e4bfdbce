// Package cache provides a small expiring LRU cache for probe results.
//
// A probe of the same host with the same options yields the same result,
// but some hosts take seconds to probe. The command's HTTP mode keeps
// recent results here for a bounded time.
package cache

import (
	"sync"
	"time"
)

// DefaultCapacity is the entry limit used when New is given a
// non-positive capacity.
const DefaultCapacity = 64

type entry[V any] struct {
	value   V
	expires time.Time
}

// Cache is a thread-safe LRU cache whose entries expire after a fixed TTL.
// A zero TTL disables the cache: Get always misses and Set is a no-op.
//
// Cache must not be copied after creation.
type Cache[V any] struct {
	mu       sync.Mutex
	nodes    map[string]*lruNode[V]
	lru      lruList[V]
	capacity int
	ttl      time.Duration
	now      func() time.Time

	hits, misses uint64
}

// New creates a cache holding at most capacity entries for ttl each.
func New[V any](capacity int, ttl time.Duration) *Cache[V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[V]{
		nodes:    make(map[string]*lruNode[V]),
		capacity: capacity,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Get returns the live value stored under key.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	node, ok := c.nodes[key]
	if !ok {
		c.misses++
		var zero V
		return zero, false
	}
	if !c.now().Before(node.entry.expires) {
		c.remove(node)
		c.misses++
		var zero V
		return zero, false
	}
	c.lru.moveToFront(node)
	c.hits++
	return node.entry.value, true
}

// Set stores value under key, evicting the least recently used entry when
// the cache is full.
func (c *Cache[V]) Set(key string, value V) {
	if c.ttl <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	e := entry[V]{value: value, expires: c.now().Add(c.ttl)}
	if node, ok := c.nodes[key]; ok {
		node.entry = e
		c.lru.moveToFront(node)
		return
	}
	node := &lruNode[V]{key: key, entry: e}
	c.nodes[key] = node
	c.lru.pushFront(node)
	for c.lru.len > c.capacity {
		c.remove(c.lru.oldest())
	}
}

// GetOrCreate returns the cached value for key or stores the result of
// create. Concurrent misses may call create more than once; create runs
// without the lock held. A create error is returned and not cached.
func (c *Cache[V]) GetOrCreate(key string, create func() (V, error)) (V, error) {
	if v, ok := c.Get(key); ok {
		return v, nil
	}
	v, err := create()
	if err != nil {
		return v, err
	}
	c.Set(key, v)
	return v, nil
}

// Len returns the number of stored entries, expired ones included.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lru.len
}

// Stats returns the hit and miss counts.
func (c *Cache[V]) Stats() (hits, misses uint64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.hits, c.misses
}

// Clear removes every entry.
func (c *Cache[V]) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nodes = make(map[string]*lruNode[V])
	c.lru = lruList[V]{}
}

func (c *Cache[V]) remove(node *lruNode[V]) {
	c.lru.unlink(node)
	delete(c.nodes, node.key)
}
