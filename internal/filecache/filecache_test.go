package filecache

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/engine"
)

func TestCache_MissOnEmptyCache(t *testing.T) {
	c := New()
	_, ok := c.Get("a.ts", 12345)
	assert.False(t, ok)
}

func TestCache_InsertThenGetRoundTrips(t *testing.T) {
	c := New()
	pf := &engine.ParsedFile{
		Symbols:     &archmodel.FileSymbols{},
		ContentHash: 999,
	}

	c.Insert("a.ts", 999, pf)

	got, ok := c.Get("a.ts", 999)
	assert.True(t, ok)
	assert.Same(t, pf, got)
}

func TestCache_DifferentContentHashIsAMiss(t *testing.T) {
	c := New()
	pf := &engine.ParsedFile{ContentHash: 1}
	c.Insert("a.ts", 1, pf)

	_, ok := c.Get("a.ts", 2)
	assert.False(t, ok)
}

func TestCache_DifferentPathIsAMiss(t *testing.T) {
	c := New()
	pf := &engine.ParsedFile{ContentHash: 1}
	c.Insert("a.ts", 1, pf)

	_, ok := c.Get("b.ts", 1)
	assert.False(t, ok)
}

func TestCache_ClearRemovesEntries(t *testing.T) {
	c := New()
	c.Insert("a.ts", 1, &engine.ParsedFile{ContentHash: 1})
	c.Clear()

	_, ok := c.Get("a.ts", 1)
	assert.False(t, ok)
}

func TestCache_StatsReflectActivity(t *testing.T) {
	c := New()
	c.Insert("a.ts", 1, &engine.ParsedFile{ContentHash: 1})
	c.Get("a.ts", 1)
	c.Get("a.ts", 2)

	stats := c.Stats()
	assert.Positive(t, stats.TotalRequests)
}
