package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlinter/archlint/internal/config"
	"github.com/archlinter/archlint/internal/snapshot"
)

func TestLayerPreset_FileFieldsOverridePreset(t *testing.T) {
	enabled := true
	preset := &config.Config{
		Ignore: []string{"**/vendor/**"},
		Rules:  map[string]config.RuleSpec{"god-module": {Enabled: &enabled}},
	}
	file := &config.Config{
		Ignore:      []string{"**/build/**"},
		EntryPoints: []string{"src/main.ts"},
	}

	out := layerPreset(preset, file)

	assert.Equal(t, []string{"**/build/**"}, out.Ignore)
	assert.Equal(t, []string{"src/main.ts"}, out.EntryPoints)
	assert.Equal(t, preset.Rules, out.Rules)
}

func TestLayerPreset_EmptyFileLeavesPresetUntouched(t *testing.T) {
	preset := &config.Config{Ignore: []string{"**/vendor/**"}, Framework: "nestjs"}
	file := &config.Config{}

	out := layerPreset(preset, file)

	assert.Equal(t, preset.Ignore, out.Ignore)
	assert.Equal(t, "nestjs", out.Framework)
}

func TestConfigToYAML_RendersConfiguredFields(t *testing.T) {
	cfg := &config.Config{Ignore: []string{"**/dist/**"}, Framework: "react"}

	text, err := configToYAML(cfg)
	require.NoError(t, err)
	assert.Contains(t, text, "framework: react")
	assert.Contains(t, text, "dist")
}

func TestRenderSnapshot_EachFormatProducesOutput(t *testing.T) {
	snap := snapshot.Snapshot{SchemaVersion: 1, Grade: "A", Score: 95}

	for _, format := range []string{"json", "markdown", "sarif", "table"} {
		data, err := renderSnapshot(format, snap)
		require.NoError(t, err, format)
		assert.NotEmpty(t, data, format)
	}
}

func TestRenderSnapshot_UnknownFormatErrors(t *testing.T) {
	_, err := renderSnapshot("yaml", snapshot.Snapshot{})
	assert.Error(t, err)
}

func TestWriteOutput_EmptyPathGoesToStdout(t *testing.T) {
	err := writeOutput("", []byte("hello\n"))
	assert.NoError(t, err)
}

func TestWriteOutput_PathWritesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	err := writeOutput(path, []byte(`{"ok":true}`))
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{"ok":true}`, string(data))
}
