package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "archlint.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func noPresets(name string) (*Config, error) {
	return nil, assert.AnError
}

func TestLoad_SimpleConfig(t *testing.T) {
	path := writeTemp(t, `
ignore:
  - "**/*.test.ts"
entry_points:
  - "src/main.ts"
rules:
  cyclic-dependency: high
  dead-code:
    enabled: false
max_file_size: 500000
`)
	cfg, err := Load(path, noPresets)
	require.NoError(t, err)
	assert.Equal(t, []string{"**/*.test.ts"}, cfg.Ignore)
	assert.Equal(t, "high", cfg.Rules["cyclic-dependency"].Severity)
	assert.NotNil(t, cfg.Rules["dead-code"].Enabled)
	assert.False(t, *cfg.Rules["dead-code"].Enabled)
	assert.EqualValues(t, 500000, cfg.MaxFileSize)
}

func TestLoad_ExtendsMergesPreset(t *testing.T) {
	preset := &Config{
		Rules: map[string]RuleSpec{"cyclic-dependency": {Severity: "medium"}},
	}
	path := writeTemp(t, `
extends:
  - "recommended"
rules:
  dead-code: high
`)
	cfg, err := Load(path, func(name string) (*Config, error) {
		if name == "recommended" {
			return preset, nil
		}
		return nil, assert.AnError
	})
	require.NoError(t, err)
	assert.Equal(t, "medium", cfg.Rules["cyclic-dependency"].Severity)
	assert.Equal(t, "high", cfg.Rules["dead-code"].Severity)
}

func TestLoad_CyclicExtendsIsFatal(t *testing.T) {
	path := writeTemp(t, `
extends:
  - "a"
`)
	_, err := Load(path, func(name string) (*Config, error) {
		return &Config{Extends: []string{"a"}}, nil
	})
	require.Error(t, err)
}

func TestLoad_MalformedYAMLIsFatal(t *testing.T) {
	path := writeTemp(t, "rules: [this is not a map\n")
	_, err := Load(path, noPresets)
	require.Error(t, err)
}
