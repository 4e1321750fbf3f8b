package main

import (
	"strings"
	"testing"

	"gopkg.in/yaml.v3"

	"github.com/archlinter/archlint/internal/config"
)

func TestGenerateStarterConfig_ParsesAsValidYAML(t *testing.T) {
	content := generateStarterConfig("")
	var cfg config.Config
	if err := yaml.Unmarshal([]byte(content), &cfg); err != nil {
		t.Fatalf("starter config does not parse as YAML: %v", err)
	}
	if len(cfg.Ignore) == 0 {
		t.Error("expected starter config to seed an ignore list")
	}
	if len(cfg.EntryPoints) == 0 {
		t.Error("expected starter config to seed entry_points")
	}
}

func TestGenerateStarterConfig_FrameworkAddsExtends(t *testing.T) {
	content := generateStarterConfig("nestjs")
	if !strings.Contains(content, "extends:") {
		t.Error("expected extends block when a framework is given")
	}
	if !strings.Contains(content, "nestjs") {
		t.Error("expected the framework name to appear in the extends block")
	}
}

func TestGenerateStarterConfig_NoFrameworkOmitsExtends(t *testing.T) {
	content := generateStarterConfig("")
	if strings.Contains(content, "extends:") {
		t.Error("expected no extends block without a framework")
	}
}
