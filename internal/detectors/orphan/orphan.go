// Package orphan flags files that participate in no import relationship
// at all — neither imported by anything nor importing anything retained
// in the graph — since they are very likely unreachable entry-adjacent
// scaffolding. A lighter cousin of deadcode's dead-file rule, scoped to
// pure graph isolation rather than reachability.
package orphan

import (
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "orphan-module"

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "Orphan module", DefaultEnabled: true, Category: detect.CategoryGraphBased,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "Orphan module", DefaultEnabled: true, Category: detect.CategoryGraphBased}
}

func (d *Detector) Detect(ctx *anctx.Context) []archmodel.ArchSmell {
	var smells []archmodel.ArchSmell
	for _, path := range ctx.SortedPaths() {
		rule := ctx.RuleFor(ID, path)
		if !rule.Enabled {
			continue
		}
		node, ok := ctx.Graph.Node(path)
		if !ok {
			continue
		}
		fanIn, fanOut := ctx.Graph.FanIn(node), ctx.Graph.FanOut(node)
		if fanIn != 0 || fanOut != 0 {
			continue
		}
		if ctx.EntryPoints != nil && ctx.EntryPoints(path) {
			continue
		}

		smells = append(smells, archmodel.ArchSmell{
			Type: archmodel.SmellOrphanModule, Severity: rule.Severity, Files: []string{path},
			Metrics:   []archmodel.Metric{{Name: "fanIn", Value: 0}, {Name: "fanOut", Value: 0}},
			Locations: []archmodel.LocationDetail{{File: path, Line: 1, Description: "file has no incoming or outgoing dependencies"}},
		})
	}
	sort.Slice(smells, func(i, j int) bool { return smells[i].Files[0] < smells[j].Files[0] })
	return smells
}
