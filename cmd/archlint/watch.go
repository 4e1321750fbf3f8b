package main

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/urfave/cli/v2"

	"github.com/archlinter/archlint/internal/api"
)

var watchCommand = &cli.Command{
	Name:  "watch",
	Usage: "Watch a project and re-report affected files as they change",
	Flags: []cli.Flag{
		&cli.DurationFlag{
			Name:  "debounce",
			Usage: "Coalesce changes arriving within this window into one re-scan",
			Value: 300 * time.Millisecond,
		},
		&cli.BoolFlag{
			Name:  "git",
			Usage: "Enrich findings with git churn history",
		},
		&cli.BoolFlag{
			Name:  "cache",
			Usage: "Cache parsed files in memory across re-scans, keyed by content hash",
		},
	},
	Action: runWatch,
}

func runWatch(c *cli.Context) error {
	root, opts, err := scanOptions(c)
	if err != nil {
		return err
	}

	analyzer, err := api.NewAnalyzer(root, opts)
	if err != nil {
		return fmt.Errorf("failed to initialize analyzer: %w", err)
	}

	ctx := context.Background()
	initial, err := analyzer.Scan(ctx)
	if err != nil {
		return fmt.Errorf("initial scan failed: %w", err)
	}
	printFindings(initial.Smells)
	fmt.Printf("watching %s for changes (ctrl-c to stop)\n", root)

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to start file watcher: %w", err)
	}
	defer watcher.Close()
	if err := addRecursive(watcher, root); err != nil {
		return fmt.Errorf("failed to watch %s: %w", root, err)
	}

	debounce := c.Duration("debounce")
	pending := map[string]struct{}{}
	var timer *time.Timer
	flush := make(chan struct{})

	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isSourceFile(ev.Name) {
				continue
			}
			pending[ev.Name] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() { flush <- struct{}{} })
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Printf("watch error: %v\n", watchErr)
		case <-flush:
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			pending = map[string]struct{}{}

			result, err := analyzer.ScanIncremental(ctx, changed)
			if err != nil {
				fmt.Printf("incremental scan failed: %v\n", err)
				continue
			}
			fmt.Printf("\n%d file(s) changed, %d affected\n", result.ChangedCount, result.AffectedCount)
			printFindings(result.Smells)
		}
	}
}

func printFindings(smells []api.SmellWithExplanation) {
	if len(smells) == 0 {
		fmt.Println("no smells found")
		return
	}
	for _, s := range smells {
		loc := ""
		if len(s.Smell.Files) > 0 {
			loc = s.Smell.Files[0]
		}
		fmt.Printf("[%s] %s %s %s\n", s.Smell.Severity, s.Smell.Type, loc, s.Smell.SymbolName)
	}
}

func isSourceFile(path string) bool {
	switch filepath.Ext(path) {
	case ".ts", ".tsx", ".js", ".jsx", ".mts", ".cts", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}

func addRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return watcher.Add(path)
		}
		return nil
	})
}
