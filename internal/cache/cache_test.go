package cache

import (
	"bytes"
	"testing"
	"time"
)

func TestKey_NamespacesDoNotCollide(t *testing.T) {
	a := Key("transcript", "abc123")
	b := Key("embed:text-embedding-3-small", "abc123")
	if a == b {
		t.Error("Expected different namespaces to produce different keys")
	}
	if Key("transcript", "abc123") != a {
		t.Error("Expected key generation to be deterministic")
	}
}

func TestMemoryCache_SetGetDelete(t *testing.T) {
	c := NewMemoryCache(time.Minute, time.Minute)

	key := Key("test", "value-1")
	if _, found := c.Get(key); found {
		t.Fatal("Expected miss on empty cache")
	}

	if err := c.Set(key, []byte("hello"), 0); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found || !bytes.Equal(val, []byte("hello")) {
		t.Fatalf("Expected hit with 'hello', got %q found=%v", val, found)
	}

	if err := c.Delete(key); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, found := c.Get(key); found {
		t.Error("Expected miss after delete")
	}
}

func TestDiskCache_RoundTripAndExpiry(t *testing.T) {
	dir := t.TempDir()
	c := NewDiskCache(dir, time.Minute)

	key := Key("test", "doc")
	if err := c.Set(key, []byte("payload"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	val, found := c.Get(key)
	if !found || string(val) != "payload" {
		t.Fatalf("Expected hit with 'payload', got %q found=%v", val, found)
	}

	// An already-expired entry must behave as a miss
	expired := Key("test", "old")
	if err := c.Set(expired, []byte("stale"), -time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}
	if _, found := c.Get(expired); found {
		t.Error("Expected expired entry to miss")
	}
}

func TestLayeredCache_PromotesFromDisk(t *testing.T) {
	dir := t.TempDir()
	c := NewLayeredCache(time.Minute, dir, time.Minute)

	key := Key("test", "promoted")
	if err := c.Set(key, []byte("data"), time.Minute); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	// Drop the memory layer; the disk layer must still serve the entry
	_ = c.memory.Clear()
	val, found := c.Get(key)
	if !found || string(val) != "data" {
		t.Fatalf("Expected disk hit, got %q found=%v", val, found)
	}

	// And the entry must now be back in memory
	if _, found := c.memory.Get(key); !found {
		t.Error("Expected entry promoted to memory layer")
	}
}
