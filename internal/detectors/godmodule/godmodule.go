// Package godmodule flags files that have grown too many responsibilities
// at once: too many exports, too many classes, or too many lines. This is
// one of the detectors supplementing the three detailed reference
// detectors, grounded on the same fan-in/fan-out and symbol-count
// signals the cycle and dead-code detectors already compute from
// FileSymbols.
package godmodule

import (
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "god-module"

const (
	defaultExportThreshold = 15
	defaultLineThreshold   = 500
)

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "God module", DefaultEnabled: true, IsDeep: false,
		Category: detect.CategoryFileLocal,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "God module", DefaultEnabled: true, Category: detect.CategoryFileLocal}
}

func (d *Detector) Detect(ctx *anctx.Context) []archmodel.ArchSmell {
	var smells []archmodel.ArchSmell
	for _, path := range ctx.SortedPaths() {
		rule := ctx.RuleFor(ID, path)
		if !rule.Enabled {
			continue
		}
		fi := ctx.Files[path]
		if fi == nil || fi.Symbols == nil {
			continue
		}

		exportCount := len(fi.Symbols.Exports) + len(fi.Symbols.Classes)
		lines := fi.Symbols.LinesCount

		if exportCount < defaultExportThreshold && lines < defaultLineThreshold {
			continue
		}

		fanIn := 0
		if node, ok := ctx.Graph.Node(path); ok {
			fanIn = ctx.Graph.FanIn(node)
		}

		smells = append(smells, archmodel.ArchSmell{
			Type: archmodel.SmellGodModule, Severity: rule.Severity, Files: []string{path},
			Metrics: []archmodel.Metric{
				{Name: "exportCount", Value: float64(exportCount)},
				{Name: "lines", Value: float64(lines)},
				{Name: "fanIn", Value: float64(fanIn)},
			},
			Locations: []archmodel.LocationDetail{{File: path, Description: "file concentrates too many exported responsibilities"}},
		})
	}
	sort.Slice(smells, func(i, j int) bool { return smells[i].Files[0] < smells[j].Files[0] })
	return smells
}
