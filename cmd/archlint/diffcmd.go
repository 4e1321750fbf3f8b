package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/archlinter/archlint/internal/api"
	"github.com/archlinter/archlint/internal/snapshot"
)

var snapshotCommand = &cli.Command{
	Name:  "snapshot",
	Usage: "Scan a project and write its snapshot as JSON, for later use with 'archlint diff'",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
	},
	Action: func(c *cli.Context) error {
		root, opts, err := scanOptions(c)
		if err != nil {
			return err
		}
		result, err := api.Scan(context.Background(), root, opts)
		if err != nil {
			return fmt.Errorf("scan failed: %w", err)
		}
		data, err := json.MarshalIndent(result.Snapshot, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput(c.String("output"), data)
	},
}

var diffCommand = &cli.Command{
	Name:  "diff",
	Usage: "Scan a project and compare it against a previously saved snapshot",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:     "baseline",
			Aliases:  []string{"b"},
			Usage:    "Path to a baseline snapshot file produced by 'archlint snapshot'",
			Required: true,
		},
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, text",
			Value:   "text",
		},
	},
	Action: runDiff,
}

func runDiff(c *cli.Context) error {
	root, opts, err := scanOptions(c)
	if err != nil {
		return err
	}

	raw, err := os.ReadFile(c.String("baseline"))
	if err != nil {
		return fmt.Errorf("failed to read baseline %s: %w", c.String("baseline"), err)
	}
	var baseline snapshot.Snapshot
	if err := json.Unmarshal(raw, &baseline); err != nil {
		return fmt.Errorf("failed to parse baseline: %w", err)
	}

	analyzer, err := api.NewAnalyzer(root, opts)
	if err != nil {
		return err
	}
	if _, err := analyzer.Scan(context.Background()); err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	result, err := analyzer.Diff(baseline)
	if err != nil {
		return fmt.Errorf("diff failed: %w", err)
	}

	if c.String("format") == "json" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return err
		}
		return writeOutput("", data)
	}

	fmt.Printf("Regressions: %d | Improvements: %d\n", result.Summary.TotalRegressions, result.Summary.TotalImprovements)
	for _, r := range result.Regressions {
		fmt.Printf("  [REGRESSION] %s %s: %s\n", r.Kind, r.ID, r.Message)
	}
	for _, imp := range result.Improvements {
		fmt.Printf("  [IMPROVED]   %s %s: %s\n", imp.Kind, imp.ID, imp.Message)
	}
	if result.HasRegressions {
		os.Exit(1)
	}
	return nil
}
