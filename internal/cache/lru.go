// Package cache provides a small bounded cache for expensive media decode
// work (waveform peaks, thumbnails) reused across invocations. Eviction is
// a property of the cache itself (capacity-bounded LRU plus an age limit),
// so callers never manage lifetime.
package cache

import (
	"container/list"
	"sync"
	"time"
)

// Cache is a bounded, mutex-guarded LRU with age-based expiry.
type Cache[V any] struct {
	mu       sync.Mutex
	capacity int
	maxAge   time.Duration
	order    *list.List
	items    map[string]*list.Element

	now func() time.Time
}

type entry[V any] struct {
	key      string
	value    V
	storedAt time.Time
}

// New creates a cache holding at most capacity entries, each valid for
// maxAge after being stored. A non-positive maxAge disables age expiry.
func New[V any](capacity int, maxAge time.Duration) *Cache[V] {
	if capacity < 1 {
		capacity = 1
	}
	return &Cache[V]{
		capacity: capacity,
		maxAge:   maxAge,
		order:    list.New(),
		items:    make(map[string]*list.Element, capacity),
		now:      time.Now,
	}
}

// Get returns the cached value and refreshes its recency. Expired entries
// are dropped on access.
func (c *Cache[V]) Get(key string) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	el, ok := c.items[key]
	if !ok {
		return zero, false
	}

	ent := el.Value.(*entry[V])
	if c.maxAge > 0 && c.now().Sub(ent.storedAt) > c.maxAge {
		c.removeLocked(el)
		return zero, false
	}

	c.order.MoveToFront(el)
	return ent.value, true
}

// Put stores a value, evicting the least recently used entry when full.
func (c *Cache[V]) Put(key string, value V) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		ent := el.Value.(*entry[V])
		ent.value = value
		ent.storedAt = c.now()
		c.order.MoveToFront(el)
		return
	}

	el := c.order.PushFront(&entry[V]{key: key, value: value, storedAt: c.now()})
	c.items[key] = el

	if c.order.Len() > c.capacity {
		c.removeLocked(c.order.Back())
	}
}

// Len returns the number of live entries.
func (c *Cache[V]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.order.Len()
}

// Purge drops every entry.
func (c *Cache[V]) Purge() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order.Init()
	c.items = make(map[string]*list.Element, c.capacity)
}

// removeLocked unlinks one element. Callers must hold the lock.
func (c *Cache[V]) removeLocked(el *list.Element) {
	if el == nil {
		return
	}
	c.order.Remove(el)
	delete(c.items, el.Value.(*entry[V]).key)
}

// NewForTests creates a cache with an injectable clock for expiry tests.
func NewForTests[V any](capacity int, maxAge time.Duration, now func() time.Time) *Cache[V] {
	c := New[V](capacity, maxAge)
	c.now = now
	return c
}
