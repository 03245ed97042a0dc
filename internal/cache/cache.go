// Package cache tracks items already reported by previous digest cycles so
// watch mode does not re-deliver them.
package cache

import (
	"sync"
	"time"

	"github.com/alethic/forumdigest/internal/models"
)

// Cache is a retention-bounded set of item URLs. Safe for concurrent use.
type Cache struct {
	mu            sync.RWMutex
	seen          map[string]time.Time
	retention     time.Duration
	cleanupTicker *time.Ticker
	stopChan      chan struct{}
}

// New creates a cache that forgets entries older than the retention period.
func New(retention time.Duration) *Cache {
	c := &Cache{
		seen:      make(map[string]time.Time),
		retention: retention,
		stopChan:  make(chan struct{}),
	}

	c.cleanupTicker = time.NewTicker(1 * time.Hour)
	go c.cleanup()

	return c
}

// Seen reports whether an item URL has already been delivered.
func (c *Cache) Seen(url string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()

	_, exists := c.seen[url]
	return exists
}

// MarkSeen records an item URL as delivered.
func (c *Cache) MarkSeen(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.seen[url] = time.Now()
}

// FilterNew returns the items not yet delivered and marks them as seen.
// Items without a URL are always considered new.
func (c *Cache) FilterNew(items []models.ActivityItem) []models.ActivityItem {
	c.mu.Lock()
	defer c.mu.Unlock()

	var fresh []models.ActivityItem
	for _, item := range items {
		if item.URL != "" {
			if _, exists := c.seen[item.URL]; exists {
				continue
			}
			c.seen[item.URL] = time.Now()
		}
		fresh = append(fresh, item)
	}
	return fresh
}

func (c *Cache) cleanup() {
	for {
		select {
		case <-c.cleanupTicker.C:
			c.performCleanup()
		case <-c.stopChan:
			return
		}
	}
}

func (c *Cache) performCleanup() {
	c.mu.Lock()
	defer c.mu.Unlock()

	cutoff := time.Now().Add(-c.retention)

	for url, seenAt := range c.seen {
		if seenAt.Before(cutoff) {
			delete(c.seen, url)
		}
	}
}

// Close stops the cleanup goroutine.
func (c *Cache) Close() {
	c.cleanupTicker.Stop()
	close(c.stopChan)
}

// Stats returns cache counters for diagnostics.
func (c *Cache) Stats() map[string]interface{} {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return map[string]interface{}{
		"seen_items": len(c.seen),
		"retention":  c.retention.String(),
	}
}
