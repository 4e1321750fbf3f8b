// Command archlint is the CLI front end for the architectural-smell
// analyzer: it wires internal/api onto a urfave/cli/v2 command tree the
// way the teacher's lci binary wires internal/indexing onto its own. The
// app has no Before hook: each subcommand loads its own config.
package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	_ "github.com/archlinter/archlint/internal/detectors"
	"github.com/archlinter/archlint/internal/presets"
	"github.com/archlinter/archlint/internal/version"
)

func main() {
	app := &cli.App{
		Name:                   "archlint",
		Usage:                  "Static architectural-smell analysis for TypeScript/JavaScript codebases",
		Version:                version.Version,
		UseShortOptionHandling: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Config file path",
				Value:   "archlint.yml",
			},
			&cli.StringFlag{
				Name:    "root",
				Aliases: []string{"r"},
				Usage:   "Project root directory to analyze (default: current directory)",
				Value:   ".",
			},
			&cli.StringFlag{
				Name:  "framework",
				Usage: fmt.Sprintf("Apply a framework preset (%s)", presetNames()),
			},
		},
		Commands: []*cli.Command{
			scanCommand,
			detectorsCommand,
			watchCommand,
			snapshotCommand,
			diffCommand,
			mcpServeCommand,
			configCommand,
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "archlint: %v\n", err)
		os.Exit(1)
	}
}

func presetNames() string {
	names := presets.Names()
	out := ""
	for i, n := range names {
		if i > 0 {
			out += ", "
		}
		out += n
	}
	return out
}
