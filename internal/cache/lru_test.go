package cache

import (
	"sync"
	"testing"
	"time"
)

type fakeClock struct{ t time.Time }

func (f *fakeClock) now() time.Time          { return f.t }
func (f *fakeClock) advance(d time.Duration) { f.t = f.t.Add(d) }

func newTestCache(size int, ttl time.Duration) (*LRUCache[int], *fakeClock) {
	clk := &fakeClock{t: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewLRUCache[int](size, ttl)
	c.now = clk.now
	return c, clk
}

func TestLRUEvictsLeastRecentlyUsed(t *testing.T) {
	c, _ := newTestCache(2, time.Hour)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Get("a")
	c.Set("c", 3)

	if _, ok := c.Get("b"); ok {
		t.Error("b should have been evicted")
	}
	if v, ok := c.Get("a"); !ok || v != 1 {
		t.Errorf("a = %d, %v", v, ok)
	}
	if c.Size() != 2 {
		t.Errorf("size = %d, want 2", c.Size())
	}
}

func TestLRUExpiry(t *testing.T) {
	c, clk := newTestCache(10, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	clk.advance(30 * time.Second)
	c.Set("b", 3) // resets b's TTL

	clk.advance(45 * time.Second)
	if _, ok := c.Get("a"); ok {
		t.Error("a should have expired")
	}
	if v, ok := c.Get("b"); !ok || v != 3 {
		t.Errorf("b = %d, %v", v, ok)
	}

	clk.advance(time.Minute)
	m := NewManager()
	m.Register(c)
	if n := m.Sweep(); n != 1 {
		t.Errorf("Sweep removed %d, want 1", n)
	}
	if c.Size() != 0 {
		t.Errorf("size = %d, want 0", c.Size())
	}
}

func TestLRUUpdateIsAtomic(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Update("n", func(cur int, _ bool) (int, bool) { return cur + 1, true })
		}()
	}
	wg.Wait()

	if v, _ := c.Get("n"); v != 50 {
		t.Errorf("n = %d, want 50", v)
	}
	got := c.Update("fresh", func(cur int, found bool) (int, bool) {
		if found {
			t.Error("fresh key reported as found")
		}
		return 7, true
	})
	if got != 7 {
		t.Errorf("Update returned %d", got)
	}
}

func TestLRUUpdateWithoutStore(t *testing.T) {
	c, _ := newTestCache(10, time.Hour)

	got := c.Update("skip", func(cur int, _ bool) (int, bool) { return 3, false })
	if got != 3 {
		t.Errorf("Update returned %d", got)
	}
	if _, ok := c.Get("skip"); ok {
		t.Error("value stored although fn declined")
	}
	if c.Size() != 0 {
		t.Errorf("size = %d, want 0", c.Size())
	}
}
