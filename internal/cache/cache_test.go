package cache

import (
	"testing"
	"time"
)

func TestGetHitInsideTTL(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	c := New(DefaultTTL)
	c.now = func() time.Time { return clock }

	c.Set("DM0000", "snapshot")

	clock = base.Add(23*time.Hour + 59*time.Minute)
	v, ok := c.Get("DM0000")
	if !ok {
		t.Fatal("entry inside TTL should hit")
	}
	if v != "snapshot" {
		t.Fatalf("got %v", v)
	}
}

func TestGetHitAtExactTTL(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	c := New(DefaultTTL)
	c.now = func() time.Time { return clock }

	c.Set("DM0000", "snapshot")

	// an entry aged exactly the TTL is still fresh
	clock = base.Add(DefaultTTL)
	v, ok := c.Get("DM0000")
	if !ok {
		t.Fatal("entry aged exactly the TTL should hit")
	}
	if v != "snapshot" {
		t.Fatalf("got %v", v)
	}

	clock = base.Add(DefaultTTL + time.Nanosecond)
	if _, ok := c.Get("DM0000"); ok {
		t.Fatal("entry aged past the TTL should miss")
	}
}

func TestGetEvictsStaleEntry(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	c := New(DefaultTTL)
	c.now = func() time.Time { return clock }

	c.Set("DM0000", "snapshot")

	clock = base.Add(24*time.Hour + time.Minute)
	if _, ok := c.Get("DM0000"); ok {
		t.Fatal("stale entry should miss")
	}
	if c.Len() != 0 {
		t.Fatal("stale entry should be evicted on read")
	}
}

func TestSetRestartsTTL(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	c := New(DefaultTTL)
	c.now = func() time.Time { return clock }

	c.Set("GN0100", "old")
	clock = base.Add(20 * time.Hour)
	c.Set("GN0100", "new")

	clock = base.Add(30 * time.Hour)
	v, ok := c.Get("GN0100")
	if !ok {
		t.Fatal("rewritten entry should still be fresh")
	}
	if v != "new" {
		t.Fatalf("got %v, want the overwritten value", v)
	}
}

func TestMissOnUnknownKey(t *testing.T) {
	c := New(0)
	if _, ok := c.Get("nope"); ok {
		t.Fatal("unknown key should miss")
	}
}
