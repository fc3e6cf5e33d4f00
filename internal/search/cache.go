package search

import (
	"context"
	"fmt"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/JMRMEDEV/amazon-q-gpt-mcp-server/internal/agent"
)

// DefaultCacheSize is the number of search results kept by default.
const DefaultCacheSize = 128

// Cache memoises an agent.Searcher. Errors are never cached.
type Cache struct {
	next    agent.Searcher
	entries *lru.Cache[string, string]
}

// NewCache wraps next with an LRU of the given size.
func NewCache(next agent.Searcher, size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[string, string](size)
	if err != nil {
		return nil, fmt.Errorf("search: create cache: %w", err)
	}
	return &Cache{next: next, entries: entries}, nil
}

// Search implements agent.Searcher.
func (c *Cache) Search(ctx context.Context, query string, attempts int) (string, error) {
	key := cacheKey(query, attempts)
	if text, ok := c.entries.Get(key); ok {
		return text, nil
	}
	text, err := c.next.Search(ctx, query, attempts)
	if err != nil {
		return "", err
	}
	c.entries.Add(key, text)
	return text, nil
}

// Len returns the number of cached results.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// Purge drops every cached result.
func (c *Cache) Purge() {
	c.entries.Purge()
}

// cacheKey normalises the query. Attempt counts below the failure threshold
// share one entry.
func cacheKey(query string, attempts int) string {
	q := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	if attempts >= agent.FailedAttemptsThreshold {
		return fmt.Sprintf("%s|retry:%d", q, attempts)
	}
	return q + "|fresh"
}
