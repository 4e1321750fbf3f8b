// Package filecache adapts the teacher's sync.Map-based parsed-file
// cache into engine.Cache, so a CLI run can keep parsed files warm
// across invocations instead of the analyzer reparsing an untouched
// file every scan.
package filecache

import (
	"github.com/archlinter/archlint/internal/cache"
	"github.com/archlinter/archlint/internal/engine"
)

// Cache wraps a *cache.FileCache behind engine.Cache's (path,
// content-hash) contract.
type Cache struct {
	fc *cache.FileCache
}

// New builds a Cache with the teacher's default sizing and TTL.
func New() *Cache {
	return &Cache{fc: cache.NewFileCache(cache.DefaultCacheConfig())}
}

func (c *Cache) Get(path string, contentHash uint64) (*engine.ParsedFile, bool) {
	v := c.fc.Get(contentHash, path)
	if v == nil {
		return nil, false
	}
	pf, ok := v.(*engine.ParsedFile)
	return pf, ok
}

func (c *Cache) Insert(path string, contentHash uint64, pf *engine.ParsedFile) {
	c.fc.Put(contentHash, path, pf)
}

// Clear empties every cached entry, for a long-lived host (the watch
// command, an MCP server) that wants to drop stale entries without
// restarting.
func (c *Cache) Clear() {
	c.fc.Clear()
}

// Stats reports the underlying cache's hit-rate and size accounting.
func (c *Cache) Stats() cache.CacheStats {
	return c.fc.Stats()
}
