package lookupcache

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"reprise/internal/logging"
	"reprise/internal/works"
)

// Entry is one cached works-database response.
type Entry struct {
	Key      string       `json:"key"`
	Works    []works.Work `json:"works"`
	CachedAt time.Time    `json:"cached_at"`
}

// Key builds the cache key for one lookup. Kind distinguishes code and
// title searches against the same source.
func Key(source, kind, query string) string {
	return strings.ToLower(source + "|" + kind + "|" + strings.TrimSpace(query))
}

// Cache provides thread-safe access to the lookup response cache. An empty
// path disables it: every operation becomes a no-op miss.
type Cache struct {
	path    string
	ttl     time.Duration
	logger  *slog.Logger
	mu      sync.RWMutex
	entries map[string]Entry
}

// New creates a cache backed by the given file. A zero TTL keeps entries
// forever. The file is created lazily on first Store.
func New(path string, ttl time.Duration, logger *slog.Logger) *Cache {
	if logger == nil {
		logger = logging.NewNop()
	}
	logger = logging.NewComponentLogger(logger, "lookupcache")

	c := &Cache{
		path:    path,
		ttl:     ttl,
		logger:  logger,
		entries: make(map[string]Entry),
	}
	if path == "" {
		return c
	}
	if err := c.load(); err != nil {
		logger.Warn("failed to load lookup cache",
			logging.String(logging.FieldEventType, "lookupcache_load_failed"),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "cache will start empty"),
			logging.String(logging.FieldImpact, "previously cached lookups will hit the network again"))
	}
	return c
}

// Lookup returns the cached works for the key. Expired entries are misses.
func (c *Cache) Lookup(key string) ([]works.Work, bool) {
	if key == "" || c.path == "" {
		return nil, false
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entry, found := c.entries[key]
	if !found || c.expired(entry) {
		return nil, false
	}
	return entry.Works, true
}

// Store adds or updates an entry and persists to disk. Empty result sets
// are cached too: a database that knows nothing about a title now will
// still know nothing about it in an hour.
func (c *Cache) Store(key string, found []works.Work) error {
	if key == "" {
		return errors.New("cache key cannot be empty")
	}
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = Entry{Key: key, Works: found, CachedAt: time.Now().UTC()}

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cached lookup response",
		logging.String("key", key),
		logging.Int("works", len(found)))
	return nil
}

// List returns all live entries sorted by CachedAt descending.
func (c *Cache) List() []Entry {
	if c.path == "" {
		return nil
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		if c.expired(entry) {
			continue
		}
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CachedAt.After(entries[j].CachedAt)
	})
	return entries
}

// Count returns the number of live entries.
func (c *Cache) Count() int {
	return len(c.List())
}

// Clear removes all entries and persists the empty cache.
func (c *Cache) Clear() error {
	if c.path == "" {
		return nil
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries = make(map[string]Entry)

	if err := c.save(); err != nil {
		return fmt.Errorf("persist cache: %w", err)
	}

	c.logger.Debug("cleared lookup cache")
	return nil
}

// Path returns the backing file, empty when the cache is disabled.
func (c *Cache) Path() string {
	return c.path
}

func (c *Cache) expired(entry Entry) bool {
	return c.ttl > 0 && time.Since(entry.CachedAt) > c.ttl
}

func (c *Cache) load() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read cache file: %w", err)
	}
	if len(data) == 0 {
		return nil
	}

	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parse cache file: %w", err)
	}

	c.entries = make(map[string]Entry, len(entries))
	for _, entry := range entries {
		if strings.TrimSpace(entry.Key) != "" {
			c.entries[entry.Key] = entry
		}
	}

	c.logger.Debug("loaded lookup cache",
		logging.Int("entry_count", len(c.entries)),
		logging.String("path", c.path))
	return nil
}

// save writes the cache to disk atomically.
func (c *Cache) save() error {
	entries := make([]Entry, 0, len(c.entries))
	for _, entry := range c.entries {
		entries = append(entries, entry)
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].CachedAt.After(entries[j].CachedAt)
	})

	data, err := json.MarshalIndent(entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal cache: %w", err)
	}

	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	tmpPath := c.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}
