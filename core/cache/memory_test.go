package cache

import (
	"context"
	"testing"
	"time"
)

func TestMemoryCacheRoundTrip(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if _, err := c.Get(ctx, "missing"); err != ErrCacheMiss {
		t.Errorf("get on empty cache: got %v, want ErrCacheMiss", err)
	}

	if err := c.Set(ctx, "k", "v", time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := c.Get(ctx, "k")
	if err != nil || got != "v" {
		t.Errorf("get: got (%q, %v), want (v, nil)", got, err)
	}

	if err := c.Delete(ctx, "k"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := c.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("get after delete: got %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheExpiry(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	if err := c.Set(ctx, "k", "v", 10*time.Millisecond); err != nil {
		t.Fatalf("set: %v", err)
	}
	time.Sleep(30 * time.Millisecond)

	// Expired before the sweeper runs; Get must still miss.
	if _, err := c.Get(ctx, "k"); err != ErrCacheMiss {
		t.Errorf("get after ttl: got %v, want ErrCacheMiss", err)
	}
}

func TestMemoryCacheOverwrite(t *testing.T) {
	c := NewMemoryCache(time.Minute)
	defer c.Close()
	ctx := context.Background()

	_ = c.Set(ctx, "k", "old", time.Minute)
	_ = c.Set(ctx, "k", "new", time.Minute)

	got, err := c.Get(ctx, "k")
	if err != nil || got != "new" {
		t.Errorf("get: got (%q, %v), want (new, nil)", got, err)
	}
}
