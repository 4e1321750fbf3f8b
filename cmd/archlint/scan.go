package main

import (
	"context"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/archlinter/archlint/internal/api"
	"github.com/archlinter/archlint/internal/archmodel"
)

var scanCommand = &cli.Command{
	Name:    "scan",
	Aliases: []string{"analyze"},
	Usage:   "Run a full architectural-smell scan of a project",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "format",
			Aliases: []string{"f"},
			Usage:   "Output format: json, markdown, sarif, table",
			Value:   "table",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "Output file path (default: stdout)",
		},
		&cli.StringSliceFlag{
			Name:  "detectors",
			Usage: "Run only these detector IDs (default: all enabled by config)",
		},
		&cli.StringSliceFlag{
			Name:  "exclude-detectors",
			Usage: "Skip these detector IDs",
		},
		&cli.StringFlag{
			Name:  "min-severity",
			Usage: "Only report smells at or above this severity: low, medium, high, critical",
		},
		&cli.StringFlag{
			Name:  "fail-on",
			Usage: "Exit non-zero if any smell at or above this severity is found",
		},
		&cli.BoolFlag{
			Name:  "git",
			Usage: "Enrich findings with git churn history",
		},
		&cli.IntFlag{
			Name:  "workers",
			Usage: "Parser worker pool size (0 selects a default)",
		},
		&cli.BoolFlag{
			Name:  "cache",
			Usage: "Cache parsed files in memory, keyed by content hash",
		},
	},
	Action: runScan,
}

func runScan(c *cli.Context) error {
	root, opts, err := scanOptions(c)
	if err != nil {
		return err
	}
	opts.WorkerCount = c.Int("workers")

	result, err := api.Scan(context.Background(), root, opts)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	data, err := renderSnapshot(c.String("format"), result.Snapshot)
	if err != nil {
		return err
	}
	if err := writeOutput(c.String("output"), data); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}

	if failOn := c.String("fail-on"); failOn != "" {
		threshold, ok := archmodel.ParseSeverity(failOn)
		if !ok {
			return fmt.Errorf("unknown severity %q for --fail-on", failOn)
		}
		for _, s := range result.Snapshot.Smells {
			if s.Severity >= threshold {
				os.Exit(1)
			}
		}
	}
	return nil
}

var detectorsCommand = &cli.Command{
	Name:    "detectors",
	Aliases: []string{"list-detectors"},
	Usage:   "List every registered detector",
	Action: func(c *cli.Context) error {
		for _, d := range api.ListDetectors() {
			state := "disabled"
			if d.DefaultEnabled {
				state = "enabled"
			}
			fmt.Printf("%-28s %-10s %-14s %s\n", d.ID, state, d.Category, d.Description)
		}
		return nil
	},
}
