package snapshot

import (
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/score"
)

// Generate converts a scan's smells and score into a persistable
// Snapshot and resolves root's current git commit (best-effort; empty on
// failure or when disabled). File paths, and the IDs built from them, are
// kept as the smells carry them; they are not made relative to root.
// Summary.FilesAnalyzed is left for the caller to fill in.
func Generate(root string, smells []archmodel.ArchSmell, result score.Result, generatedAt time.Time, includeCommit bool) Snapshot {
	out := make([]Smell, len(smells))
	for i, s := range smells {
		out[i] = ConvertSmell(s)
	}

	var commit string
	if includeCommit {
		commit = headCommit(root)
	}

	return Snapshot{
		SchemaVersion: SchemaVersion,
		GeneratedAt:   generatedAt.UTC().Format(time.RFC3339),
		Commit:        commit,
		Smells:        out,
		Summary:       summarize(smells),
		Score:         result.Score,
		Grade:         string(result.Grade),
	}
}

// ConvertSmell renders one detector finding into its persisted Smell
// shape, deriving a stable ID via IDFor. Exported so callers building a
// partial result set (an incremental scan, which never calls Generate)
// can still produce wire-compatible Smell values.
func ConvertSmell(s archmodel.ArchSmell) Smell {
	metrics := make(map[string]float64, len(s.Metrics))
	for _, m := range s.Metrics {
		metrics[m.Name] = m.Value
	}

	locs := make([]Location, len(s.Locations))
	for i, l := range s.Locations {
		loc := Location{File: l.File, Line: l.Line, Description: l.Description}
		if l.HasColumn {
			col := l.Column
			loc.Column = &col
		}
		locs[i] = loc
	}

	return Smell{
		ID:         IDFor(s),
		Type:       s.Type,
		Severity:   s.Severity,
		Files:      s.Files,
		SymbolName: s.SymbolName,
		Metrics:    metrics,
		Locations:  locs,
	}
}

func summarize(smells []archmodel.ArchSmell) Summary {
	var sum Summary
	sum.TotalSmells = len(smells)
	for _, s := range smells {
		switch s.Type {
		case archmodel.SmellCyclicDependencyCluster:
			sum.Cycles++
		case archmodel.SmellGodModule:
			sum.GodModules++
		case archmodel.SmellDeadCode:
			sum.DeadCode++
		case archmodel.SmellDeadSymbol:
			sum.DeadSymbols++
		case archmodel.SmellLayerViolation:
			sum.LayerViolations++
		case archmodel.SmellHighComplexity:
			sum.HighComplexity++
		case archmodel.SmellHubLikeDependency:
			sum.HubModules++
		}
	}
	return sum
}

func headCommit(root string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	out, err := exec.CommandContext(ctx, "git", "-C", root, "rev-parse", "--short=7", "HEAD").Output()
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(out))
}
