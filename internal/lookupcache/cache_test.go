package lookupcache

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"reprise/internal/works"
)

func testWorks() []works.Work {
	return []works.Work{
		{ID: "W1", Title: "God's Plan", Source: works.SourceMLC, ISWC: "T-306.580.434-1"},
		{ID: "W2", Title: "Gods Plan", Source: works.SourceASCAP},
	}
}

func TestCacheStoreAndLookup(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "lookups.json")
	cache := New(cachePath, 0, nil)

	key := Key(works.SourceMLC, "code", "USCM51800011")
	if err := cache.Store(key, testWorks()); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	found, ok := cache.Lookup(key)
	if !ok {
		t.Fatal("Lookup failed to find stored entry")
	}
	if len(found) != 2 || found[0].ID != "W1" || found[1].Source != works.SourceASCAP {
		t.Fatalf("unexpected cached works %+v", found)
	}
}

func TestCacheKeyNormalizes(t *testing.T) {
	a := Key("MLC", "Title", "  God's Plan ")
	b := Key("mlc", "title", "God's Plan")
	if a != b {
		t.Fatalf("keys differ: %q vs %q", a, b)
	}
}

func TestCacheStoresEmptyResults(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "lookups.json")
	cache := New(cachePath, 0, nil)

	key := Key(works.SourceMLC, "title", "unknown song")
	if err := cache.Store(key, nil); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	found, ok := cache.Lookup(key)
	if !ok {
		t.Fatal("an empty result set is still a hit")
	}
	if len(found) != 0 {
		t.Fatalf("expected no works, got %+v", found)
	}
}

func TestCachePersistsAcrossInstances(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "lookups.json")

	first := New(cachePath, 0, nil)
	key := Key(works.SourceMLC, "code", "USCM51800011")
	if err := first.Store(key, testWorks()); err != nil {
		t.Fatalf("Store failed: %v", err)
	}

	second := New(cachePath, 0, nil)
	found, ok := second.Lookup(key)
	if !ok || len(found) != 2 {
		t.Fatalf("expected the persisted entry, got ok=%v works=%+v", ok, found)
	}
}

func TestCacheExpiresEntries(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "lookups.json")
	cache := New(cachePath, time.Hour, nil)

	key := Key(works.SourceMLC, "code", "USCM51800011")
	if err := cache.Store(key, testWorks()); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	cache.mu.Lock()
	entry := cache.entries[key]
	entry.CachedAt = time.Now().Add(-2 * time.Hour)
	cache.entries[key] = entry
	cache.mu.Unlock()

	if _, ok := cache.Lookup(key); ok {
		t.Fatal("expired entry must miss")
	}
	if cache.Count() != 0 {
		t.Fatalf("expired entries must not be counted, got %d", cache.Count())
	}
}

func TestCacheDisabledWithoutPath(t *testing.T) {
	cache := New("", 0, nil)
	key := Key(works.SourceMLC, "code", "USCM51800011")
	if err := cache.Store(key, testWorks()); err != nil {
		t.Fatalf("disabled Store must be a no-op, got %v", err)
	}
	if _, ok := cache.Lookup(key); ok {
		t.Fatal("disabled cache must always miss")
	}
	if entries := cache.List(); entries != nil {
		t.Fatalf("disabled cache must list nothing, got %+v", entries)
	}
}

func TestCacheClear(t *testing.T) {
	cachePath := filepath.Join(t.TempDir(), "lookups.json")
	cache := New(cachePath, 0, nil)

	if err := cache.Store(Key("mlc", "code", "a"), testWorks()); err != nil {
		t.Fatalf("Store failed: %v", err)
	}
	if err := cache.Clear(); err != nil {
		t.Fatalf("Clear failed: %v", err)
	}
	if cache.Count() != 0 {
		t.Fatalf("expected an empty cache, got %d entries", cache.Count())
	}
	data, err := os.ReadFile(cachePath)
	if err != nil {
		t.Fatalf("read cache file: %v", err)
	}
	if string(data) != "[]" {
		t.Fatalf("expected an empty persisted list, got %q", data)
	}
}
