package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/config"

	_ "github.com/archlinter/archlint/internal/detectors/cycles"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestEnumerate_HonorsIgnoreGlobAndExtension(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "src/a.ts", "export const a = 1;")
	writeFile(t, dir, "src/a.test.ts", "export const t = 1;")
	writeFile(t, dir, "README.md", "not source")

	paths, err := enumerate(dir, &config.Config{Ignore: []string{"**/*.test.ts"}})
	require.NoError(t, err)

	var rels []string
	for _, p := range paths {
		rel, _ := filepath.Rel(dir, p)
		rels = append(rels, filepath.ToSlash(rel))
	}
	assert.Contains(t, rels, "src/a.ts")
	assert.NotContains(t, rels, "src/a.test.ts")
	assert.NotContains(t, rels, "README.md")
}

func TestScan_CycleScenarioEmitsCyclicDependencySmell(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.ts", "import { b } from './b';\nexport const a = b;\n")
	writeFile(t, dir, "b.ts", "import { a } from './a';\nexport const b = a;\n")

	result, err := Scan(context.Background(), dir, Options{Config: &config.Config{}})
	require.NoError(t, err)

	var found bool
	for _, s := range result.Smells {
		if s.Type == archmodel.SmellCyclicDependencyCluster {
			found = true
		}
	}
	assert.True(t, found, "expected a cyclic-dependency smell, got %+v", result.Smells)
}
