package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/archlinter/archlint/internal/api"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/config"
	"github.com/archlinter/archlint/internal/filecache"
	"github.com/archlinter/archlint/internal/presets"
	"github.com/archlinter/archlint/internal/report"
	"github.com/archlinter/archlint/internal/snapshot"
)

// knownRuleNames is the set of detector IDs a `rules` entry may
// legitimately name, used by `config validate` to flag typos.
var knownRuleNames = func() map[string]struct{} {
	m := map[string]struct{}{}
	for _, d := range api.ListDetectors() {
		m[d.ID] = struct{}{}
	}
	return m
}()

// configToYAML renders cfg back to YAML for `config show`.
func configToYAML(cfg *config.Config) (string, error) {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// rootFrom resolves the --root flag to an absolute path.
func rootFrom(c *cli.Context) (string, error) {
	root := c.String("root")
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", fmt.Errorf("failed to resolve root path %q: %w", root, err)
	}
	return abs, nil
}

// loadConfig loads --config if present, then layers --framework on top
// when given, with the framework preset's fields yielding to whatever
// the config file set explicitly (the same override direction
// config.Load's own extends chain uses).
func loadConfig(c *cli.Context) (*config.Config, error) {
	path := c.String("config")

	cfg := &config.Config{}
	if _, err := os.Stat(path); err == nil {
		loaded, err := api.LoadConfig(path)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if framework := c.String("framework"); framework != "" {
		preset, ok := presets.Get(framework)
		if !ok {
			return nil, fmt.Errorf("unknown framework preset %q (available: %s)", framework, presetNames())
		}
		cfg = layerPreset(preset.ToConfig(), cfg)
	}

	return cfg, nil
}

// layerPreset overlays file's explicit fields on top of the preset,
// mirroring config.go's own mergeInto (unexported, so re-derived here
// for the CLI's config-file + --framework combination).
func layerPreset(preset, file *config.Config) *config.Config {
	out := *preset
	if len(file.Ignore) > 0 {
		out.Ignore = file.Ignore
	}
	if file.Aliases != nil {
		out.Aliases = file.Aliases
	}
	if len(file.EntryPoints) > 0 {
		out.EntryPoints = file.EntryPoints
	}
	if file.Rules != nil {
		out.Rules = file.Rules
	}
	if len(file.Overrides) > 0 {
		out.Overrides = file.Overrides
	}
	if file.Framework != "" {
		out.Framework = file.Framework
	}
	if file.MaxFileSize != 0 {
		out.MaxFileSize = file.MaxFileSize
	}
	out.AutoDetectFramework = out.AutoDetectFramework || file.AutoDetectFramework
	out.Git = file.Git
	return &out
}

// scanOptions builds the shared api.ScanOptions from the global and
// scan-family flags.
func scanOptions(c *cli.Context) (string, api.ScanOptions, error) {
	root, err := rootFrom(c)
	if err != nil {
		return "", api.ScanOptions{}, err
	}
	cfg, err := loadConfig(c)
	if err != nil {
		return "", api.ScanOptions{}, err
	}

	opts := api.ScanOptions{
		Config:      cfg,
		EnableGit:   c.Bool("git"),
		GitRepoRoot: root,
	}
	if c.IsSet("detectors") {
		opts.Detectors = c.StringSlice("detectors")
	}
	if c.IsSet("exclude-detectors") {
		opts.ExcludeDetectors = c.StringSlice("exclude-detectors")
	}
	if c.IsSet("min-severity") {
		sev, ok := archmodel.ParseSeverity(c.String("min-severity"))
		if !ok {
			return "", api.ScanOptions{}, fmt.Errorf("unknown severity %q", c.String("min-severity"))
		}
		opts.MinSeverity = &sev
	}
	if c.Bool("cache") {
		opts.Cache = filecache.New()
	}
	return root, opts, nil
}

// renderSnapshot renders snap in the named format (json, markdown, sarif,
// table).
func renderSnapshot(format string, snap snapshot.Snapshot) ([]byte, error) {
	switch report.Format(format) {
	case report.FormatJSON:
		return report.JSON(snap)
	case report.FormatMarkdown:
		return []byte(report.Markdown(snap)), nil
	case report.FormatSARIF:
		return report.SARIF(snap)
	case report.FormatTable:
		return []byte(report.Table(snap)), nil
	default:
		return nil, fmt.Errorf("unknown output format %q (want json, markdown, sarif, or table)", format)
	}
}

// writeOutput writes data to output (stdout when output is "" or "-").
func writeOutput(output string, data []byte) error {
	if output == "" || output == "-" {
		_, err := os.Stdout.Write(data)
		if err == nil && len(data) > 0 && data[len(data)-1] != '\n' {
			fmt.Println()
		}
		return err
	}
	return os.WriteFile(output, data, 0o644)
}
