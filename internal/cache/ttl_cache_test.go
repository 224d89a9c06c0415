package cache

import (
	"sync"
	"testing"
	"time"
)

func TestTTLCacheExpires(t *testing.T) {
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := NewTTLCache[int, string](time.Minute)
	c.now = func() time.Time { return now }

	c.Set(700, "prime")
	if v, ok := c.Get(700); !ok || v != "prime" {
		t.Fatalf("expected hit, got %q %v", v, ok)
	}

	now = now.Add(61 * time.Second)
	if _, ok := c.Get(700); ok {
		t.Fatalf("expected expired entry to miss")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry not dropped on read")
	}
}

func TestTTLCacheZeroTTLNeverExpires(t *testing.T) {
	now := time.Now()
	c := NewTTLCache[string, int](0)
	c.now = func() time.Time { return now }
	c.Set("k", 1)
	now = now.Add(24 * time.Hour)
	if v, ok := c.Get("k"); !ok || v != 1 {
		t.Fatalf("expected entry to survive, got %d %v", v, ok)
	}
}

func TestTTLCacheDeleteAndPurge(t *testing.T) {
	c := NewTTLCache[string, int](time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Delete("a")
	if _, ok := c.Get("a"); ok {
		t.Fatalf("deleted entry still present")
	}
	c.Purge()
	if c.Len() != 0 {
		t.Fatalf("purge left %d entries", c.Len())
	}
}

func TestTTLCacheConcurrentUse(t *testing.T) {
	c := NewTTLCache[int, int](time.Hour)
	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 100; j++ {
				c.Set(j, i)
				c.Get(j)
			}
		}(i)
	}
	wg.Wait()
	if c.Len() != 100 {
		t.Fatalf("expected 100 keys, got %d", c.Len())
	}
}

func TestNilAndNoopCaches(t *testing.T) {
	var c *TTLCache[string, int]
	c.Set("a", 1)
	if _, ok := c.Get("a"); ok {
		t.Fatalf("nil cache should miss")
	}

	var n Cache[string, int] = NoopCache[string, int]{}
	n.Set("a", 1)
	if _, ok := n.Get("a"); ok {
		t.Fatalf("noop cache should miss")
	}
}
