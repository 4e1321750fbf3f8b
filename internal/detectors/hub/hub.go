// Package hub flags files whose combined fan-in and fan-out make them a
// de facto hub: a single point every change tends to pass through.
package hub

import (
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "hub-like-dependency"

const defaultDegreeThreshold = 20

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "Hub-like dependency", DefaultEnabled: false, Category: detect.CategoryGraphBased,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "Hub-like dependency", DefaultEnabled: false, Category: detect.CategoryGraphBased}
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
		if fanIn+fanOut < defaultDegreeThreshold {
			continue
		}
		smells = append(smells, archmodel.ArchSmell{
			Type: archmodel.SmellHubLikeDependency, Severity: rule.Severity, Files: []string{path},
			Metrics: []archmodel.Metric{
				{Name: "fanIn", Value: float64(fanIn)},
				{Name: "fanOut", Value: float64(fanOut)},
			},
			Locations: []archmodel.LocationDetail{{File: path, Line: 1, Description: "file sits at a high-traffic hub in the dependency graph"}},
		})
	}
	sort.Slice(smells, func(i, j int) bool { return smells[i].Files[0] < smells[j].Files[0] })
	return smells
}
