package vectorcache

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"
)

// Cache is a content-addressed store mapping normalized text keys to
// embedding vectors. Entries are append-only for the process lifetime: no
// TTL, no eviction. Every Put is flushed to disk (write-through); if disk
// I/O fails the cache logs the error once and continues in-memory only, so
// recommendation correctness never depends on disk availability.
//
// All access goes through a read/write lock. The persisted format is a flat
// JSON object {"<key>": [floats...]} rewritten in full on each flush.
type Cache struct {
	mu         sync.RWMutex
	path       string
	entries    map[string][]float64
	memoryOnly bool
	logger     *logrus.Logger
}

// New builds a cache backed by the file at path and loads any persisted
// entries. A load failure is non-fatal: the cache starts empty and degrades
// to memory-only.
func New(path string, logger *logrus.Logger) *Cache {
	c := &Cache{
		path:    path,
		entries: make(map[string][]float64),
		logger:  logger,
	}

	if err := c.LoadAll(); err != nil {
		c.logger.WithError(err).WithField("path", path).
			Warn("Failed to load vector cache, continuing in-memory only")
		c.mu.Lock()
		c.memoryOnly = true
		c.mu.Unlock()
	}

	return c
}

// Get returns the vector stored under key.
func (c *Cache) Get(key string) ([]float64, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	vector, ok := c.entries[key]
	if !ok {
		return nil, false
	}

	out := make([]float64, len(vector))
	copy(out, vector)
	return out, true
}

// Put stores the vector under key and flushes the whole cache to disk.
// A flush failure is logged and switches the cache to memory-only mode;
// it is never surfaced as a request failure.
func (c *Cache) Put(key string, vector []float64) error {
	if key == "" {
		return errors.New("vector cache key must not be empty")
	}

	stored := make([]float64, len(vector))
	copy(stored, vector)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries[key] = stored

	if c.memoryOnly {
		return nil
	}
	if err := c.flushLocked(); err != nil {
		c.logger.WithError(err).WithField("path", c.path).
			Warn("Failed to persist vector cache, continuing in-memory only")
		c.memoryOnly = true
	}
	return nil
}

// Len reports the number of cached vectors.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}

// LoadAll replaces the in-memory entries with the persisted file contents.
// A missing file is not an error; it just means a fresh cache.
func (c *Cache) LoadAll() error {
	data, err := os.ReadFile(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	entries := make(map[string][]float64)
	if err := json.Unmarshal(data, &entries); err != nil {
		return err
	}

	c.mu.Lock()
	c.entries = entries
	c.mu.Unlock()
	return nil
}

// FlushAll rewrites the persisted file from the in-memory entries.
func (c *Cache) FlushAll() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.flushLocked()
}

func (c *Cache) flushLocked() error {
	data, err := json.Marshal(c.entries)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(c.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	return os.WriteFile(c.path, data, 0o644)
}
