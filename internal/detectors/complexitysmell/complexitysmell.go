// Package complexitysmell flags individual functions whose cyclomatic
// complexity or nesting depth (computed by internal/complexity) crosses a
// threshold, emitting HighComplexity or DeepNesting smells per function.
package complexitysmell

import (
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "high-complexity"

const (
	defaultCyclomaticThreshold = 10
	defaultNestingThreshold    = 4
)

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "High complexity", DefaultEnabled: true, Category: detect.CategoryFileLocal,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "High complexity", DefaultEnabled: true, Category: detect.CategoryFileLocal}
}

func (d *Detector) Detect(ctx *anctx.Context) []archmodel.ArchSmell {
	var smells []archmodel.ArchSmell
	for _, path := range ctx.SortedPaths() {
		rule := ctx.RuleFor(ID, path)
		if !rule.Enabled {
			continue
		}
		fi := ctx.Files[path]
		if fi == nil {
			continue
		}
		for _, fn := range fi.Complexity {
			if fn.Cyclomatic >= defaultCyclomaticThreshold {
				smells = append(smells, archmodel.ArchSmell{
					Type: archmodel.SmellHighComplexity, Severity: rule.Severity, Files: []string{path}, SymbolName: fn.Name,
					Metrics:   []archmodel.Metric{{Name: "cyclomatic", Value: float64(fn.Cyclomatic)}, {Name: "cognitive", Value: float64(fn.Cognitive)}},
					Locations: []archmodel.LocationDetail{{File: path, Line: fn.Line, Range: fn.Range, HasRange: true}},
				})
			}
			if fn.MaxDepth >= defaultNestingThreshold {
				smells = append(smells, archmodel.ArchSmell{
					Type: archmodel.SmellDeepNesting, Severity: rule.Severity, Files: []string{path}, SymbolName: fn.Name,
					Metrics:   []archmodel.Metric{{Name: "maxDepth", Value: float64(fn.MaxDepth)}},
					Locations: []archmodel.LocationDetail{{File: path, Line: fn.Line, Range: fn.Range, HasRange: true}},
				})
			}
		}
	}
	sort.Slice(smells, func(i, j int) bool {
		if smells[i].Files[0] != smells[j].Files[0] {
			return smells[i].Files[0] < smells[j].Files[0]
		}
		return smells[i].SymbolName < smells[j].SymbolName
	})
	return smells
}
