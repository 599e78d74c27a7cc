package cache

import (
	"testing"
	"time"
)

func TestCacheTTL(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	c := NewWithClock(16, 5*time.Minute, now)

	c.Set("events", []string{"evt-1"})

	if _, ok := c.Get("events"); !ok {
		t.Fatal("expected fresh entry to be present")
	}

	clock = clock.Add(4 * time.Minute)
	if _, ok := c.Get("events"); !ok {
		t.Error("entry expired before TTL elapsed")
	}

	clock = clock.Add(2 * time.Minute)
	if _, ok := c.Get("events"); ok {
		t.Error("entry survived past TTL")
	}
}

func TestCacheInvalidatePattern(t *testing.T) {
	c := New(16, time.Minute)
	c.Set("payment-tracking-all", 1)
	c.Set("payment-tracking-evt-1", 2)
	c.Set("events", 3)

	removed := c.Invalidate("payment-tracking")
	if removed != 2 {
		t.Errorf("Invalidate removed %d entries, want 2", removed)
	}
	if _, ok := c.Get("payment-tracking-all"); ok {
		t.Error("pattern-matched entry still present")
	}
	if _, ok := c.Get("events"); !ok {
		t.Error("unrelated entry was removed")
	}

	c.Set("payment-tracking-all", 1)
	if removed := c.Invalidate(""); removed != 2 {
		t.Errorf("full clear removed %d entries, want 2", removed)
	}
	if _, ok := c.Get("events"); ok {
		t.Error("entry survived full clear")
	}
}

func TestCacheInfo(t *testing.T) {
	clock := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	now := func() time.Time { return clock }
	c := NewWithClock(16, 5*time.Minute, now)

	c.Set("events", 1)
	clock = clock.Add(90 * time.Second)

	infos := c.Info()
	if len(infos) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(infos))
	}
	if infos[0].Key != "events" {
		t.Errorf("key = %q, want events", infos[0].Key)
	}
	if infos[0].AgeSeconds != 90 {
		t.Errorf("age = %d, want 90", infos[0].AgeSeconds)
	}
	if infos[0].RemainingSeconds != 210 {
		t.Errorf("remaining = %d, want 210", infos[0].RemainingSeconds)
	}

	// Expired entries disappear from the listing.
	clock = clock.Add(10 * time.Minute)
	if infos := c.Info(); len(infos) != 0 {
		t.Errorf("expected no live entries, got %d", len(infos))
	}
}
