// Package cache memoizes generated study content so re-requesting an artifact
// does not re-bill the model. It is a derived efficiency layer: the store
// never reads it and the scanner never consults it.
package cache

import (
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
)

// ContentCache is an in-memory LRU keyed by (subject, module, topic, kind).
type ContentCache struct {
	lru *lru.Cache[string, string]
}

// New creates a cache holding up to size entries; size <= 0 falls back to a
// small default.
func New(size int) (*ContentCache, error) {
	if size <= 0 {
		size = 256
	}
	c, err := lru.New[string, string](size)
	if err != nil {
		return nil, err
	}
	return &ContentCache{lru: c}, nil
}

func key(subject, module, topic, kind string) string {
	return strings.Join([]string{subject, module, topic, kind}, "\x00")
}

// Get returns cached content for the key, if present.
func (c *ContentCache) Get(subject, module, topic, kind string) (string, bool) {
	if c == nil || c.lru == nil {
		return "", false
	}
	return c.lru.Get(key(subject, module, topic, kind))
}

// Put stores content for the key.
func (c *ContentCache) Put(subject, module, topic, kind, content string) {
	if c == nil || c.lru == nil {
		return
	}
	c.lru.Add(key(subject, module, topic, kind), content)
}

// Len reports the number of cached entries.
func (c *ContentCache) Len() int {
	if c == nil || c.lru == nil {
		return 0
	}
	return c.lru.Len()
}
