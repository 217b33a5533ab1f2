package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"runtime/debug"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/dpup/prefab/errors"
	"github.com/dpup/prefab/logging"
)

// Cache is a thread-safe in-memory store of rendered documents with TTL
type Cache struct {
	entries map[string]*CacheEntry
	mutex   sync.RWMutex

	hits   atomic.Int64
	misses atomic.Int64
}

// Document is a rendered response body, e.g. a GeoJSON feature collection
type Document struct {
	ContentType string
	Body        []byte
}

// CacheEntry is a cached document with metadata
type CacheEntry struct {
	Key       string
	Document  Document
	CreatedAt time.Time
	ExpiresAt time.Time
	TTL       time.Duration
	Source    string
}

// CacheStats provides cache usage statistics
type CacheStats struct {
	TotalEntries int
	FreshEntries int
	StaleEntries int
	TotalBytes   int
	Hits         int64
	Misses       int64
	OldestEntry  time.Time
	NewestEntry  time.Time
}

// NewCache creates a new in-memory cache
func NewCache() *Cache {
	return &Cache{
		entries: make(map[string]*CacheEntry),
	}
}

// Key builds a cache key from a render kind and the parameters that fully
// determine its output. Equal parameters always produce equal keys.
func Key(kind string, params ...any) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = fmt.Sprintf("%v", p)
	}
	sum := sha256.Sum256([]byte(strings.Join(parts, "|")))
	return kind + ":" + hex.EncodeToString(sum[:12])
}

// Set stores a document that stays fresh for ttl. The body is copied.
func (c *Cache) Set(key string, doc Document, ttl time.Duration, source string) error {
	if ttl <= 0 {
		return fmt.Errorf("invalid ttl %s for cache key %s", ttl, key)
	}

	now := time.Now()
	entry := &CacheEntry{
		Key: key,
		Document: Document{
			ContentType: doc.ContentType,
			Body:        append([]byte(nil), doc.Body...),
		},
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
		TTL:       ttl,
		Source:    source,
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries[key] = entry
	return nil
}

// Get returns the document stored under key unless it is missing or stale
func (c *Cache) Get(key string) (Document, bool) {
	c.mutex.RLock()
	entry, exists := c.entries[key]
	c.mutex.RUnlock()

	if !exists || time.Now().After(entry.ExpiresAt) {
		c.misses.Add(1)
		return Document{}, false
	}

	c.hits.Add(1)
	return entry.Document, true
}

// IsStale checks if cache entry is stale (past expiration)
func (c *Cache) IsStale(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}

	return time.Now().After(entry.ExpiresAt)
}

// IsVeryStale checks if cache entry is past twice its TTL. Very stale
// entries are no longer served even when a refresh fails.
func (c *Cache) IsVeryStale(key string) bool {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return true
	}

	return time.Now().After(entry.RetainUntil())
}

// RetainUntil returns when the entry stops being servable as a stale
// fallback and may be swept
func (e *CacheEntry) RetainUntil() time.Time {
	return e.CreatedAt.Add(e.TTL * 2)
}

// GetWithMetadata returns the entry even when stale; the caller decides how to handle it
func (c *Cache) GetWithMetadata(key string) (*CacheEntry, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.entries[key]
	if !exists {
		return nil, false
	}
	copied := *entry
	return &copied, true
}

// Delete removes an entry from cache
func (c *Cache) Delete(key string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	delete(c.entries, key)
}

// Clear removes all entries from cache
func (c *Cache) Clear() {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.entries = make(map[string]*CacheEntry)
}

// Keys returns all cache keys
func (c *Cache) Keys() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	keys := make([]string, 0, len(c.entries))
	for key := range c.entries {
		keys = append(keys, key)
	}
	return keys
}

// Stats returns cache statistics
func (c *Cache) Stats() CacheStats {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	now := time.Now()
	stats := CacheStats{
		TotalEntries: len(c.entries),
		Hits:         c.hits.Load(),
		Misses:       c.misses.Load(),
	}

	for _, entry := range c.entries {
		if now.After(entry.ExpiresAt) {
			stats.StaleEntries++
		} else {
			stats.FreshEntries++
		}
		stats.TotalBytes += len(entry.Document.Body)

		if stats.OldestEntry.IsZero() || entry.CreatedAt.Before(stats.OldestEntry) {
			stats.OldestEntry = entry.CreatedAt
		}
		if entry.CreatedAt.After(stats.NewestEntry) {
			stats.NewestEntry = entry.CreatedAt
		}
	}

	return stats
}

// CleanupStale removes entries that are very stale. Entries past their TTL
// but inside twice their TTL are kept as stale fallbacks.
func (c *Cache) CleanupStale() int {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	now := time.Now()
	var removed int

	for key, entry := range c.entries {
		if now.After(entry.RetainUntil()) {
			delete(c.entries, key)
			removed++
		}
	}

	return removed
}

// StartPeriodicCleanup starts a goroutine that removes stale entries every
// interval until ctx is done. The returned channel is closed once the
// goroutine exits.
func (c *Cache) StartPeriodicCleanup(ctx context.Context, interval time.Duration) <-chan struct{} {
	done := make(chan struct{})
	go func() {
		defer close(done)
		defer func() {
			// Recover from any panics in the cache cleanup goroutine
			if r := recover(); r != nil {
				err, _ := errors.ParseStack(debug.Stack())
				skipFrames := 3
				numFrames := 5
				logging.Errorw(ctx, "Cache cleanup: recovered from panic",
					"error", r, "error.stack_trace", err.MinimalStack(skipFrames, numFrames))
			}
		}()

		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed := c.CleanupStale(); removed > 0 {
					log.Printf("Cache cleanup: removed %d stale render(s)", removed)
				}
			}
		}
	}()
	return done
}
