// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

// Package cache provides a bounded in-memory TTL cache used for similarity
// responses and other derived query results.
package cache

import (
	"fmt"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/goccy/go-json"
)

// sweepInterval is how often the background sweeper drops expired entries
// that nothing has touched.
const sweepInterval = time.Minute

// entry is a node in the recency list. head.next is most recently used,
// tail.prev is least recently used.
type entry struct {
	key       string
	value     any
	expiresAt time.Time
	prev      *entry
	next      *entry
}

// Cache is a thread-safe TTL cache with an LRU capacity bound.
//
// Entries expire after the configured TTL and are also evicted from the
// cold end when the cache is full, so memory stays bounded no matter how
// many distinct queries arrive. Lookups, inserts, and evictions are O(1)
// via a hashmap plus doubly-linked recency list.
//
// Example:
//
//	c := cache.New(5*time.Minute, 512)
//	defer c.Close()
//
//	key := cache.GenerateKey("similar", req)
//	if v, ok := c.Get(key); ok {
//	    return v.([]models.SimilarMovie), nil
//	}
type Cache struct {
	mu       sync.Mutex
	entries  map[string]*entry
	head     *entry
	tail     *entry
	ttl      time.Duration
	capacity int
	stop     chan struct{}
}

// New creates a cache with the given default TTL and capacity. Non-positive
// arguments fall back to 5 minutes and 512 entries. A background goroutine
// sweeps expired entries; call Close to stop it.
func New(ttl time.Duration, maxEntries int) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	if maxEntries <= 0 {
		maxEntries = 512
	}

	c := &Cache{
		entries:  make(map[string]*entry, maxEntries),
		head:     &entry{},
		tail:     &entry{},
		ttl:      ttl,
		capacity: maxEntries,
		stop:     make(chan struct{}),
	}
	c.head.next = c.tail
	c.tail.prev = c.head

	go c.sweeper()

	return c
}

// Close stops the background sweeper. The cache remains usable afterwards;
// expired entries are then only removed lazily on access.
func (c *Cache) Close() {
	select {
	case <-c.stop:
	default:
		close(c.stop)
	}
}

// Get retrieves a value by key. Expired entries are removed on access and
// count as misses. Found entries move to the warm end of the recency list.
func (c *Cache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.entries[key]
	if !ok {
		return nil, false
	}
	if time.Now().After(e.expiresAt) {
		c.unlink(e)
		return nil, false
	}
	c.promote(e)
	return e.value, true
}

// Set stores a value under the default TTL, evicting the least recently
// used entry when the cache is at capacity.
func (c *Cache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if e, ok := c.entries[key]; ok {
		e.value = value
		e.expiresAt = time.Now().Add(c.ttl)
		c.promote(e)
		return
	}

	if len(c.entries) >= c.capacity {
		if cold := c.tail.prev; cold != c.head {
			c.unlink(cold)
		}
	}

	e := &entry{
		key:       key,
		value:     value,
		expiresAt: time.Now().Add(c.ttl),
	}
	c.entries[key] = e
	c.attach(e)
}

// Clear removes all entries in one operation. Called after imports and
// regenerations so stale derived results never outlive the data they were
// computed from.
func (c *Cache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]*entry, c.capacity)
	c.head.next = c.tail
	c.tail.prev = c.head
}

// Len returns the current number of entries, including any not yet swept.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

// attach inserts e right after the head sentinel. Caller holds mu.
func (c *Cache) attach(e *entry) {
	e.prev = c.head
	e.next = c.head.next
	c.head.next.prev = e
	c.head.next = e
}

// promote relinks e to the warm end. Caller holds mu.
func (c *Cache) promote(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	c.attach(e)
}

// unlink removes e from the list and the map. Caller holds mu.
func (c *Cache) unlink(e *entry) {
	e.prev.next = e.next
	e.next.prev = e.prev
	e.prev = nil
	e.next = nil
	delete(c.entries, e.key)
}

func (c *Cache) sweeper() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stop:
			return
		case <-ticker.C:
			c.sweep()
		}
	}
}

// sweep drops every expired entry in one pass.
func (c *Cache) sweep() {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()
	for _, e := range c.entries {
		if now.After(e.expiresAt) {
			c.unlink(e)
		}
	}
}

// GenerateKey derives a cache key from a method name and its parameters.
// Parameters are serialized to JSON and hashed so structurally equal
// requests share a key regardless of how the caller assembled them.
func GenerateKey(method string, params any) string {
	raw, err := json.Marshal(params)
	if err != nil {
		return method + ":" + fmt.Sprint(params)
	}
	h := fnv.New64a()
	_, _ = h.Write(raw)
	return method + ":" + strconv.FormatUint(h.Sum64(), 16)
}
