// Cinelog - Personal Movie Ratings Analytics
// Copyright 2026 Dan W. (danw628)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/danw628/cinelog

package cache

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestCacheSetGet(t *testing.T) {
	c := New(time.Minute, 16)
	defer c.Close()

	c.Set("a", 42)
	v, ok := c.Get("a")
	if !ok {
		t.Fatal("expected hit for key a")
	}
	if v.(int) != 42 {
		t.Errorf("Get(a) = %v, want 42", v)
	}

	if _, ok := c.Get("missing"); ok {
		t.Error("expected miss for absent key")
	}
}

func TestCacheExpiration(t *testing.T) {
	c := New(10*time.Millisecond, 16)
	defer c.Close()

	c.Set("a", "value")
	if _, ok := c.Get("a"); !ok {
		t.Fatal("entry should be live immediately after set")
	}

	time.Sleep(20 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Error("entry should have expired")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d after lazy expiry, want 0", c.Len())
	}
}

func TestCacheSweepDropsExpired(t *testing.T) {
	c := New(10*time.Millisecond, 16)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	time.Sleep(20 * time.Millisecond)

	c.sweep()
	if c.Len() != 0 {
		t.Errorf("Len() = %d after sweep, want 0", c.Len())
	}
}

func TestCacheCapacityEviction(t *testing.T) {
	c := New(time.Minute, 3)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	// Touch a so b becomes the coldest entry.
	c.Get("a")
	c.Set("d", 4)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted as least recently used")
	}
	for _, key := range []string{"a", "c", "d"} {
		if _, ok := c.Get(key); !ok {
			t.Errorf("%s should still be cached", key)
		}
	}
	if c.Len() != 3 {
		t.Errorf("Len() = %d, want 3", c.Len())
	}
}

func TestCacheUpdateExisting(t *testing.T) {
	c := New(time.Minute, 2)
	defer c.Close()

	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("a", 10)

	if c.Len() != 2 {
		t.Errorf("Len() = %d after update, want 2", c.Len())
	}
	v, ok := c.Get("a")
	if !ok || v.(int) != 10 {
		t.Errorf("Get(a) = %v, %v; want 10, true", v, ok)
	}
}

func TestCacheClear(t *testing.T) {
	c := New(time.Minute, 16)
	defer c.Close()

	for i := 0; i < 10; i++ {
		c.Set(fmt.Sprintf("k%d", i), i)
	}
	c.Clear()

	if c.Len() != 0 {
		t.Errorf("Len() = %d after Clear, want 0", c.Len())
	}
	// The cache stays usable after a wholesale invalidation.
	c.Set("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Error("set after Clear should hit")
	}
}

func TestCacheCloseIdempotent(t *testing.T) {
	c := New(time.Minute, 16)
	c.Close()
	c.Close()

	// Lazy expiry still works once the sweeper is gone.
	c.Set("a", 1)
	if _, ok := c.Get("a"); !ok {
		t.Error("cache should remain usable after Close")
	}
}

func TestCacheConcurrentAccess(t *testing.T) {
	c := New(time.Minute, 128)
	defer c.Close()

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			for j := 0; j < 200; j++ {
				key := fmt.Sprintf("k%d", j%32)
				if j%3 == 0 {
					c.Set(key, worker)
				} else {
					c.Get(key)
				}
			}
		}(i)
	}
	wg.Wait()

	if c.Len() > 32 {
		t.Errorf("Len() = %d, want <= 32 distinct keys", c.Len())
	}
}

func TestCacheDefaults(t *testing.T) {
	c := New(0, 0)
	defer c.Close()

	if c.ttl != 5*time.Minute {
		t.Errorf("default ttl = %s, want 5m", c.ttl)
	}
	if c.capacity != 512 {
		t.Errorf("default capacity = %d, want 512", c.capacity)
	}
}

func TestGenerateKey(t *testing.T) {
	type params struct {
		Query string
		Limit int
	}

	k1 := GenerateKey("search", params{Query: "matrix", Limit: 10})
	k2 := GenerateKey("search", params{Query: "matrix", Limit: 10})
	k3 := GenerateKey("search", params{Query: "matrix", Limit: 20})
	k4 := GenerateKey("similar", params{Query: "matrix", Limit: 10})

	if k1 != k2 {
		t.Error("equal params should produce equal keys")
	}
	if k1 == k3 {
		t.Error("different params should produce different keys")
	}
	if k1 == k4 {
		t.Error("different methods should produce different keys")
	}
	if len(k1) == 0 || k1[:7] != "search:" {
		t.Errorf("key should be method-prefixed, got %q", k1)
	}
}
