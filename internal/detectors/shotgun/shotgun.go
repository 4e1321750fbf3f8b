// Package shotgun flags files imported by so many distinct files (fan-in)
// that any change to this file tends to require
// touching a wide, scattered set of callers ("shotgun surgery").
package shotgun

import (
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "shotgun-surgery"

const defaultDependentThreshold = 10

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "Shotgun surgery", DefaultEnabled: false, Category: detect.CategoryGraphBased,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "Shotgun surgery", DefaultEnabled: false, Category: detect.CategoryGraphBased}
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
		fanIn := ctx.Graph.FanIn(node)
		if fanIn < defaultDependentThreshold {
			continue
		}

		dependents := ctx.Graph.Dependents(node)
		var files []string
		for _, dep := range dependents {
			if p, ok := ctx.Graph.FilePath(dep); ok {
				files = append(files, p)
			}
		}
		files = append(files, path)
		sort.Strings(files)

		smells = append(smells, archmodel.ArchSmell{
			Type: archmodel.SmellShotgunSurgery, Severity: rule.Severity, Files: files,
			Metrics:   []archmodel.Metric{{Name: "fanIn", Value: float64(fanIn)}},
			Locations: []archmodel.LocationDetail{{File: path, Line: 1, Description: "changes here ripple across many scattered dependents"}},
		})
	}
	sort.Slice(smells, func(i, j int) bool { return smells[i].Files[0] < smells[j].Files[0] })
	return smells
}
