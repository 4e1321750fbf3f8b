// Package config loads and merges the YAML configuration file, including
// the `extends` preset chain. Grounded on the
// teacher's internal/config package's struct-based shape (adapted from
// its KDL-specific fields to this module's YAML schema) and on
// gopkg.in/yaml.v3, which several pack repos (AleutianFOSS, CodeMCP,
// ingo-eichhorst-agent-readyness) import directly for their own config
// loading.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/archlinter/archlint/internal/archmodel"
	cfgerrors "github.com/archlinter/archlint/internal/errors"
)

// RuleSpec is one entry of the `rules` map: either a bare severity
// string, or a full rule block. yaml.v3 can unmarshal a scalar into a
// struct implementing UnmarshalYAML, so both forms are accepted.
type RuleSpec struct {
	Enabled  *bool             `yaml:"enabled,omitempty"`
	Severity string            `yaml:"severity,omitempty"`
	Exclude  []string          `yaml:"exclude,omitempty"`
	Options  map[string]string `yaml:"options,omitempty"`
}

func (r *RuleSpec) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		r.Severity = value.Value
		return nil
	}
	type plain RuleSpec
	return value.Decode((*plain)(r))
}

// Override is one `overrides` entry.
type Override struct {
	Files []string            `yaml:"files"`
	Rules map[string]RuleSpec `yaml:"rules"`
}

// ScoringWeights maps each severity to its scoring weight.
type ScoringWeights struct {
	Critical float64 `yaml:"critical"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
	Low      float64 `yaml:"low"`
}

// GradeThresholds maps a letter grade to its minimum score.
type GradeThresholds struct {
	Excellent float64 `yaml:"excellent"`
	Good      float64 `yaml:"good"`
	Fair      float64 `yaml:"fair"`
	Moderate  float64 `yaml:"moderate"`
	Poor      float64 `yaml:"poor"`
}

// Scoring is the `scoring` config block.
type Scoring struct {
	Weights         ScoringWeights  `yaml:"weights"`
	GradeThresholds GradeThresholds `yaml:"grade_thresholds"`
	Minimum         *int            `yaml:"minimum,omitempty"`
	MinimumScore    *float64        `yaml:"minimum_score,omitempty"`
}

// Git is the `git` config block.
type Git struct {
	Enabled       bool   `yaml:"enabled"`
	HistoryPeriod string `yaml:"history_period"`
}

// Config is the root of the YAML config file.
type Config struct {
	Ignore             []string            `yaml:"ignore"`
	Aliases            map[string]string   `yaml:"aliases"`
	EntryPoints        []string            `yaml:"entry_points"`
	Rules              map[string]RuleSpec `yaml:"rules"`
	Overrides          []Override          `yaml:"overrides"`
	Scoring            Scoring             `yaml:"scoring"`
	Extends            []string            `yaml:"extends"`
	Framework          string              `yaml:"framework"`
	AutoDetectFramework bool               `yaml:"auto_detect_framework"`
	MaxFileSize        int64               `yaml:"max_file_size"`
	Git                Git                 `yaml:"git"`
}

// Load reads and parses path, resolving its `extends` preset chain via
// resolvePreset. A malformed YAML document or a cyclic `extends` chain is
// a fatal config error.
func Load(path string, resolvePreset func(name string) (*Config, error)) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, cfgerrors.New(cfgerrors.KindConfig, "read config", err).WithPath(path)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, cfgerrors.New(cfgerrors.KindConfig, "parse config", err).WithPath(path)
	}

	merged, err := applyExtends(&cfg, resolvePreset, map[string]bool{})
	if err != nil {
		return nil, err
	}
	return merged, nil
}

// applyExtends merges preset chains named in cfg.Extends into cfg,
// presets first (in listed order) then cfg's own fields taking priority,
// detecting `extends` cycles.
func applyExtends(cfg *Config, resolvePreset func(name string) (*Config, error), seen map[string]bool) (*Config, error) {
	merged := &Config{}
	for _, name := range cfg.Extends {
		if seen[name] {
			return nil, cfgerrors.New(cfgerrors.KindConfig, "resolve extends", fmt.Errorf("cyclic extends at %q", name))
		}
		seen[name] = true

		preset, err := resolvePreset(name)
		if err != nil {
			return nil, cfgerrors.New(cfgerrors.KindConfig, "resolve extends", err)
		}
		presetMerged, err := applyExtends(preset, resolvePreset, seen)
		if err != nil {
			return nil, err
		}
		merged = mergeInto(merged, presetMerged)
	}
	return mergeInto(merged, cfg), nil
}

// mergeInto overlays override on top of base, returning base. Override's
// non-empty Ignore, EntryPoints, Framework and MaxFileSize replace base's;
// Aliases and Rules merge key by key; Overrides are appended;
// AutoDetectFramework is OR-ed; Scoring and Git are always taken from
// override.
func mergeInto(base, override *Config) *Config {
	if len(override.Ignore) > 0 {
		base.Ignore = override.Ignore
	}
	if override.Aliases != nil {
		if base.Aliases == nil {
			base.Aliases = map[string]string{}
		}
		for k, v := range override.Aliases {
			base.Aliases[k] = v
		}
	}
	if len(override.EntryPoints) > 0 {
		base.EntryPoints = override.EntryPoints
	}
	if override.Rules != nil {
		if base.Rules == nil {
			base.Rules = map[string]RuleSpec{}
		}
		for k, v := range override.Rules {
			base.Rules[k] = v
		}
	}
	if len(override.Overrides) > 0 {
		base.Overrides = append(base.Overrides, override.Overrides...)
	}
	if override.Framework != "" {
		base.Framework = override.Framework
	}
	if override.MaxFileSize != 0 {
		base.MaxFileSize = override.MaxFileSize
	}
	base.AutoDetectFramework = base.AutoDetectFramework || override.AutoDetectFramework
	base.Scoring = override.Scoring
	base.Git = override.Git
	base.Extends = nil
	return base
}

// ParseSeverity resolves a RuleSpec's severity string, defaulting to
// Medium when unset.
func ParseSeverity(r RuleSpec) archmodel.Severity {
	if r.Severity == "" {
		return archmodel.SeverityMedium
	}
	if sev, ok := archmodel.ParseSeverity(r.Severity); ok {
		return sev
	}
	return archmodel.SeverityMedium
}
