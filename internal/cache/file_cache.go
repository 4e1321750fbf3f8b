// Package cache provides a lock-free, TTL-bounded cache for parsed
// source files, adapted from the teacher's MetricsCache (which cached
// computed symbol metrics keyed by content-hash/symbol-name/file-ID for
// its indexing pipeline). This module has no symbol table and no
// integer file-ID space — a scan only ever needs "have I already
// parsed this exact file content," so the symbol and per-language
// parser tiers the teacher kept alongside its content tier are gone;
// what remains is the single content-keyed tier, generalized to key on
// a file path and a content hash instead of raw bytes and a symbol
// name.
package cache

import (
	"strconv"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

// Cache configuration constants.
const (
	DefaultMaxEntries      = 400
	DefaultTTL             = 2 * time.Hour
	DefaultCleanupInterval = 10 * time.Minute
	EstimatedBytesPerEntry = 322.0
)

// CachedEntry wraps a cached parsed file with the bookkeeping the
// cache needs for TTL expiry and oldest-first eviction (by CachedAt, the
// time of the Put that stored it; Get does not refresh it).
type CachedEntry struct {
	Data        interface{}
	CachedAt    int64 // Unix nano for atomic compare
	AccessCount int64 // Atomic counter
}

// FileCache provides lock-free caching of parsed files using sync.Map,
// keyed by path and content hash.
type FileCache struct {
	entries sync.Map // map[string]*CachedEntry

	// Configuration (changed after creation only by SetMaxEntries and UpdateTTL)
	maxEntries int
	ttlNanos   int64 // TTL in nanoseconds for atomic ops

	// Atomic counters - simple interlocked operations
	hits          int64
	misses        int64
	evictions     int64
	totalRequests int64

	// Approximate entry count (updated on insert/cleanup)
	entryCount int64

	createdAt   time.Time
	lastCleanup int64
}

// CacheConfig defines configuration options.
type CacheConfig struct {
	MaxEntries      int
	TTL             time.Duration
	AutoCleanup     bool
	CleanupInterval time.Duration
}

// DefaultCacheConfig returns default configuration.
func DefaultCacheConfig() CacheConfig {
	return CacheConfig{
		MaxEntries:      DefaultMaxEntries,
		TTL:             DefaultTTL,
		AutoCleanup:     true,
		CleanupInterval: DefaultCleanupInterval,
	}
}

// NewFileCache creates a new cache.
func NewFileCache(config CacheConfig) *FileCache {
	fc := &FileCache{
		maxEntries:  config.MaxEntries,
		ttlNanos:    config.TTL.Nanoseconds(),
		createdAt:   time.Now(),
		lastCleanup: time.Now().UnixNano(),
	}

	if config.AutoCleanup {
		go fc.startAutoCleanup(config.CleanupInterval)
	}

	return fc
}

// generateKey builds a cache key from a content hash and the path it
// belongs to, so the same content reparsed at a different path (a
// rename) is treated as a fresh entry.
func generateKey(contentHash uint64, path string) string {
	var b strings.Builder
	b.Grow(16 + 1 + len(path))
	b.WriteString(strconv.FormatUint(contentHash, 16))
	b.WriteByte(':')
	b.WriteString(path)
	return b.String()
}

// Get retrieves a cached parsed file, or nil if absent or expired.
func (fc *FileCache) Get(contentHash uint64, path string) interface{} {
	atomic.AddInt64(&fc.totalRequests, 1)
	now := time.Now().UnixNano()

	key := generateKey(contentHash, path)
	if val, ok := fc.entries.Load(key); ok {
		cached := val.(*CachedEntry)
		if now-atomic.LoadInt64(&cached.CachedAt) <= fc.ttlNanos {
			atomic.AddInt64(&cached.AccessCount, 1)
			atomic.AddInt64(&fc.hits, 1)
			return cached.Data
		}
		// Expired - delete lazily
		fc.entries.Delete(key)
	}

	atomic.AddInt64(&fc.misses, 1)
	return nil
}

// Put stores a parsed file in the cache with size limiting.
func (fc *FileCache) Put(contentHash uint64, path string, data interface{}) {
	now := time.Now().UnixNano()
	cached := &CachedEntry{
		Data:        data,
		CachedAt:    now,
		AccessCount: 1,
	}

	key := generateKey(contentHash, path)
	_, existed := fc.entries.Load(key)
	fc.entries.Store(key, cached)
	if !existed {
		// New entry - check size limit
		count := atomic.AddInt64(&fc.entryCount, 1)
		if count > int64(fc.maxEntries) {
			fc.evictOldest()
		}
	}
}

// evictOldest removes the oldest entry from the cache.
func (fc *FileCache) evictOldest() {
	var oldestKey interface{}
	var oldestTime int64 = time.Now().UnixNano()

	fc.entries.Range(func(key, value interface{}) bool {
		cached := value.(*CachedEntry)
		cachedAt := atomic.LoadInt64(&cached.CachedAt)
		if cachedAt < oldestTime {
			oldestTime = cachedAt
			oldestKey = key
		}
		return true
	})

	if oldestKey != nil {
		fc.entries.Delete(oldestKey)
		atomic.AddInt64(&fc.entryCount, -1)
		atomic.AddInt64(&fc.evictions, 1)
	}
}

// CleanExpired removes expired entries.
func (fc *FileCache) CleanExpired() int {
	now := time.Now().UnixNano()
	cleaned := int64(0)
	remaining := int64(0)

	fc.entries.Range(func(key, value interface{}) bool {
		cached := value.(*CachedEntry)
		if now-atomic.LoadInt64(&cached.CachedAt) > fc.ttlNanos {
			fc.entries.Delete(key)
			cleaned++
		} else {
			remaining++
		}
		return true
	})
	atomic.StoreInt64(&fc.entryCount, remaining)

	atomic.AddInt64(&fc.evictions, cleaned)
	atomic.StoreInt64(&fc.lastCleanup, now)
	return int(cleaned)
}

// startAutoCleanup runs periodic cleanup.
func (fc *FileCache) startAutoCleanup(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		fc.CleanExpired()
	}
}

// Stats returns cache statistics.
func (fc *FileCache) Stats() CacheStats {
	hits := atomic.LoadInt64(&fc.hits)
	misses := atomic.LoadInt64(&fc.misses)
	totalRequests := atomic.LoadInt64(&fc.totalRequests)

	hitRate := float64(0)
	if totalRequests > 0 {
		hitRate = float64(hits) / float64(totalRequests)
	}

	entries := int(atomic.LoadInt64(&fc.entryCount))

	return CacheStats{
		Hits:              hits,
		Misses:            misses,
		Evictions:         atomic.LoadInt64(&fc.evictions),
		TotalRequests:     totalRequests,
		HitRate:           hitRate,
		Entries:           entries,
		CreatedAt:         fc.createdAt,
		LastCleanup:       time.Unix(0, atomic.LoadInt64(&fc.lastCleanup)),
		Uptime:            time.Since(fc.createdAt),
		EstimatedMemoryKB: float64(entries) * EstimatedBytesPerEntry / 1024,
	}
}

// CacheStats holds cache statistics.
type CacheStats struct {
	Hits              int64
	Misses            int64
	Evictions         int64
	TotalRequests     int64
	HitRate           float64
	Entries           int
	CreatedAt         time.Time
	LastCleanup       time.Time
	Uptime            time.Duration
	EstimatedMemoryKB float64
}

// Clear removes all entries and resets statistics.
func (fc *FileCache) Clear() {
	fc.entries.Range(func(key, _ interface{}) bool {
		fc.entries.Delete(key)
		return true
	})

	atomic.StoreInt64(&fc.hits, 0)
	atomic.StoreInt64(&fc.misses, 0)
	atomic.StoreInt64(&fc.evictions, 0)
	atomic.StoreInt64(&fc.totalRequests, 0)
	atomic.StoreInt64(&fc.entryCount, 0)
	atomic.StoreInt64(&fc.lastCleanup, time.Now().UnixNano())
}

// GetCacheInfo returns cache configuration and status.
func (fc *FileCache) GetCacheInfo() CacheInfo {
	stats := fc.Stats()
	return CacheInfo{
		MaxEntries: fc.maxEntries,
		TTL:        time.Duration(fc.ttlNanos),
		Stats:      stats,
		Status:     getHealthStatus(stats.HitRate),
	}
}

// CacheInfo provides cache information.
type CacheInfo struct {
	MaxEntries int
	TTL        time.Duration
	Stats      CacheStats
	Status     string
}

func getHealthStatus(hitRate float64) string {
	switch {
	case hitRate >= 0.95:
		return "excellent"
	case hitRate >= 0.85:
		return "good"
	case hitRate >= 0.70:
		return "fair"
	default:
		return "poor"
	}
}

// SetMaxEntries updates the entry limit that later Puts enforce; it does
// not evict existing entries itself.
func (fc *FileCache) SetMaxEntries(maxEntries int) {
	fc.maxEntries = maxEntries
}

// UpdateTTL updates TTL and cleans expired entries.
func (fc *FileCache) UpdateTTL(ttl time.Duration) {
	atomic.StoreInt64(&fc.ttlNanos, ttl.Nanoseconds())
	fc.CleanExpired()
}
