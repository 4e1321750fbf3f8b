package api

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScan_OneShotReturnsResultWithoutKeepingState(t *testing.T) {
	dir := writeProject(t, map[string]string{
		"a.ts": "export const a = 1;",
		"b.ts": "import { a } from './a'; export const b = a + 1;",
	})

	result, err := Scan(context.Background(), dir, ScanOptions{})
	require.NoError(t, err)
	assert.Equal(t, 2, result.Snapshot.Summary.FilesAnalyzed)
}

func TestScanAsync_DeliversTheSameOutcomeAsScan(t *testing.T) {
	dir := writeProject(t, map[string]string{"a.ts": "export const a = 1;"})

	select {
	case outcome := <-ScanAsync(context.Background(), dir, ScanOptions{}):
		require.NoError(t, outcome.Err)
		assert.Equal(t, 1, outcome.Result.Snapshot.Summary.FilesAnalyzed)
	case <-time.After(5 * time.Second):
		t.Fatal("ScanAsync never delivered an outcome")
	}
}

func TestScanAsync_PropagatesAnalyzerConstructionError(t *testing.T) {
	select {
	case outcome := <-ScanAsync(context.Background(), "/does/not/exist", ScanOptions{ConfigPath: "/does/not/exist/archlint.yml"}):
		assert.Error(t, outcome.Err)
		assert.Nil(t, outcome.Result)
	case <-time.After(5 * time.Second):
		t.Fatal("ScanAsync never delivered an outcome")
	}
}

func TestListDetectors_ReturnsRegisteredDetectors(t *testing.T) {
	assert.NotEmpty(t, ListDetectors())
}
