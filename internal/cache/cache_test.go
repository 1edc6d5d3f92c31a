package cache

import (
	"testing"
	"time"
)

func TestCache_SetGetDelete(t *testing.T) {
	c := New[int](time.Minute)

	c.Set("k", 42)
	v, ok := c.Get("k")
	if !ok || v != 42 {
		t.Fatalf("Get = %v,%v want 42,true", v, ok)
	}

	c.Delete("k")
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected miss after Delete")
	}
}

func TestCache_Expiry(t *testing.T) {
	c := New[string](time.Minute)

	current := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	c.now = func() time.Time { return current }

	c.Set("k", "v")

	current = current.Add(30 * time.Second)
	if _, ok := c.Get("k"); !ok {
		t.Fatalf("expected hit before ttl")
	}

	current = current.Add(31 * time.Second)
	if _, ok := c.Get("k"); ok {
		t.Fatalf("expected entry to expire")
	}
	if len(c.m) != 0 {
		t.Fatalf("expired entry should be evicted on read")
	}
}

func TestCache_DefaultTTL(t *testing.T) {
	c := New[int](0)
	if c.ttl != defaultTTL {
		t.Fatalf("ttl = %v, want %v", c.ttl, defaultTTL)
	}
}
