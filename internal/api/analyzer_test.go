package api

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlinter/archlint/internal/archmodel"
	_ "github.com/archlinter/archlint/internal/detectors"
	"github.com/archlinter/archlint/internal/snapshot"
)

func writeProject(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestAnalyzer_ScanPopulatesStateAndReturnsSmells(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": "export const a = 1;",
		"b.ts": "import { a } from './a'; export const b = a + 1;",
	})

	a, err := NewAnalyzer(dir, ScanOptions{})
	require.NoError(t, err)

	result, err := a.Scan(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Snapshot.Summary.FilesAnalyzed)

	stats := a.GetStateStats()
	assert.Equal(t, 2, stats.FilesCount)
}

func TestAnalyzer_ScanIncremental_NoChangesAffectsNothing(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": "export const a = 1;",
		"b.ts": "import { a } from './a'; export const b = a + 1;",
	})

	a, err := NewAnalyzer(dir, ScanOptions{})
	require.NoError(t, err)
	_, err = a.Scan(context.Background())
	require.NoError(t, err)

	inc, err := a.ScanIncremental(context.Background(), nil)
	require.NoError(t, err)
	assert.Equal(t, 0, inc.ChangedCount)
	assert.Equal(t, 0, inc.AffectedCount)
}

func TestAnalyzer_ScanIncremental_ChangedFileAffectsItsImporters(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": "export const a = 1;",
		"b.ts": "import { a } from './a'; export const b = a + 1;",
	})

	a, err := NewAnalyzer(dir, ScanOptions{})
	require.NoError(t, err)
	_, err = a.Scan(context.Background())
	require.NoError(t, err)

	aPath := filepath.Join(dir, "a.ts")
	require.NoError(t, os.WriteFile(aPath, []byte("export const a = 2;"), 0o644))

	inc, err := a.ScanIncremental(context.Background(), []string{aPath})
	require.NoError(t, err)
	assert.Equal(t, 1, inc.ChangedCount)
	assert.Equal(t, 2, inc.AffectedCount)
}

func TestAnalyzer_ScanIncrementalWithOverlay_UsesOverlaySourceNotDisk(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": "export const a = 1;",
		"b.ts": "import { a } from './a'; export const b = a + 1;",
	})

	a, err := NewAnalyzer(dir, ScanOptions{})
	require.NoError(t, err)
	_, err = a.Scan(context.Background())
	require.NoError(t, err)

	// a.ts on disk is untouched; only the overlay carries the edit.
	aPath := filepath.Join(dir, "a.ts")

	inc, err := a.ScanIncrementalWithOverlay(context.Background(), []string{aPath}, map[string][]byte{
		aPath: []byte("export const a = 2; export const extra = 3;"),
	})
	require.NoError(t, err)
	assert.Equal(t, 1, inc.ChangedCount)
	assert.Equal(t, 2, inc.AffectedCount)
}

func TestAnalyzer_Diff_WithoutPriorScanReturnsError(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.ts": "export const a = 1;"})
	a, err := NewAnalyzer(dir, ScanOptions{})
	require.NoError(t, err)

	_, err = a.Diff(snapshot.Snapshot{})
	assert.Error(t, err)
}

func TestAnalyzer_Scan_ExcludeDetectorsSuppressesItsFindings(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": "import { b } from './b'; export const a = b + 1;",
		"b.ts": "import { a } from './a'; export const b = 1;",
	})

	withCycles, err := NewAnalyzer(dir, ScanOptions{})
	require.NoError(t, err)
	resultWith, err := withCycles.Scan(context.Background())
	require.NoError(t, err)
	assert.True(t, hasSmellType(resultWith.Snapshot.Smells, "cyclic_dependency_cluster"))

	withoutCycles, err := NewAnalyzer(dir, ScanOptions{ExcludeDetectors: []string{"cyclic-dependency"}})
	require.NoError(t, err)
	resultWithout, err := withoutCycles.Scan(context.Background())
	require.NoError(t, err)
	assert.False(t, hasSmellType(resultWithout.Snapshot.Smells, "cyclic_dependency_cluster"))
}

func TestAnalyzer_Scan_MinSeverityFiltersLowerFindings(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": "import { b } from './b'; export const a = b + 1;",
		"b.ts": "import { a } from './a'; export const b = 1;",
	})

	critical := archmodel.SeverityCritical
	a, err := NewAnalyzer(dir, ScanOptions{MinSeverity: &critical})
	require.NoError(t, err)
	result, err := a.Scan(context.Background())
	require.NoError(t, err)
	for _, s := range result.Snapshot.Smells {
		assert.GreaterOrEqual(t, s.Severity, critical)
	}
}

func hasSmellType(smells []snapshot.Smell, t string) bool {
	for _, s := range smells {
		if string(s.Type) == t {
			return true
		}
	}
	return false
}

func TestAnalyzer_Invalidate_RemovesFileFromState(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": "export const a = 1;",
		"b.ts": "import { a } from './a'; export const b = a + 1;",
	})

	a, err := NewAnalyzer(dir, ScanOptions{})
	require.NoError(t, err)
	_, err = a.Scan(context.Background())
	require.NoError(t, err)

	aPath := filepath.Join(dir, "a.ts")
	a.Invalidate([]string{aPath})

	stats := a.GetStateStats()
	assert.Equal(t, 1, stats.FilesCount)
}
