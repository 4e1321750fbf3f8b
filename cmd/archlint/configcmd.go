package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/archlinter/archlint/internal/presets"
)

var configCommand = &cli.Command{
	Name:  "config",
	Usage: "Configuration management commands",
	Subcommands: []*cli.Command{
		{
			Name:    "init",
			Aliases: []string{"i"},
			Usage:   "Write a starter archlint.yml",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "output",
					Aliases: []string{"o"},
					Usage:   "Output file path",
					Value:   "archlint.yml",
				},
				&cli.BoolFlag{
					Name:  "force",
					Usage: "Overwrite an existing config file",
				},
				&cli.StringFlag{
					Name:  "framework",
					Usage: fmt.Sprintf("Seed the config with a framework preset's extends entry (%s)", presetNames()),
				},
			},
			Action: runConfigInit,
		},
		{
			Name:    "show",
			Aliases: []string{"s"},
			Usage:   "Show the fully resolved configuration (after extends/preset merging)",
			Action:  runConfigShow,
		},
		{
			Name:    "validate",
			Aliases: []string{"v"},
			Usage:   "Validate a configuration file",
			Action:  runConfigValidate,
		},
	},
}

func runConfigInit(c *cli.Context) error {
	output := c.String("output")
	if !c.Bool("force") {
		if _, err := os.Stat(output); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", output)
		}
	}

	framework := c.String("framework")
	if framework != "" {
		if _, ok := presets.Get(framework); !ok {
			return fmt.Errorf("unknown framework preset %q (available: %s)", framework, presetNames())
		}
	}

	content := generateStarterConfig(framework)
	if err := os.WriteFile(output, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}
	fmt.Printf("wrote %s\n", output)
	return nil
}

func generateStarterConfig(framework string) string {
	extends := ""
	if framework != "" {
		extends = fmt.Sprintf("extends:\n  - %s\n", framework)
	}
	return extends + `ignore:
  - "**/node_modules/**"
  - "**/dist/**"
  - "**/*.test.ts"
  - "**/*.spec.ts"

entry_points:
  - "src/index.ts"
  - "src/main.ts"

rules:
  cyclic-dependency: high
  god-module: medium
  dead-code: low
  layer-violation: high

scoring:
  weights:
    critical: 10
    high: 5
    medium: 2
    low: 1
  grade_thresholds:
    excellent: 90
    good: 75
    fair: 60
    moderate: 40
    poor: 0

git:
  enabled: false
  history_period: "90d"
`
}

func runConfigShow(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	out, err := configToYAML(cfg)
	if err != nil {
		return err
	}
	fmt.Print(out)
	return nil
}

func runConfigValidate(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		fmt.Printf("config invalid: %v\n", err)
		return err
	}

	var warnings []string
	if cfg.MaxFileSize != 0 && cfg.MaxFileSize < 1024 {
		warnings = append(warnings, "max_file_size is under 1KB, most source files will be skipped")
	}
	for name := range cfg.Rules {
		if _, ok := knownRuleNames[name]; !ok {
			warnings = append(warnings, fmt.Sprintf("rule %q is not a recognized detector ID", name))
		}
	}

	if len(warnings) == 0 {
		fmt.Println("config is valid")
		return nil
	}
	fmt.Println("config loaded with warnings:")
	for _, w := range warnings {
		fmt.Printf("  - %s\n", w)
	}
	return nil
}
