// Package layering flags import edges that violate a configured
// architectural layer order (e.g. ui -> domain -> infra): a file in an
// inner layer reaching back out to import something from an outer layer.
package layering

import (
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "layer-violation"

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "Layer violation", DefaultEnabled: false, Category: detect.CategoryImportBased,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "Layer violation", DefaultEnabled: false, Category: detect.CategoryImportBased}
}

func (d *Detector) Detect(ctx *anctx.Context) []archmodel.ArchSmell {
	if len(ctx.Layers) == 0 {
		return nil
	}

	var smells []archmodel.ArchSmell
	for _, path := range ctx.SortedPaths() {
		rule := ctx.RuleFor(ID, path)
		if !rule.Enabled {
			continue
		}
		fromIdx, ok := ctx.LayerIndex(path)
		if !ok {
			continue
		}
		node, ok := ctx.Graph.Node(path)
		if !ok {
			continue
		}

		for _, dep := range ctx.Graph.Dependencies(node) {
			toPath, ok := ctx.Graph.FilePath(dep)
			if !ok {
				continue
			}
			toIdx, ok := ctx.LayerIndex(toPath)
			if !ok {
				continue
			}
			if fromIdx <= toIdx {
				continue // importing the same or a deeper layer is allowed
			}

			data, _ := ctx.Graph.EdgeData(node, dep)
			smells = append(smells, archmodel.ArchSmell{
				Type: archmodel.SmellLayerViolation, Severity: rule.Severity, Files: []string{path, toPath},
				Metrics: []archmodel.Metric{
					{Name: "fromLayer", Value: float64(fromIdx)},
					{Name: "toLayer", Value: float64(toIdx)},
				},
				Locations: []archmodel.LocationDetail{{
					File: path, Line: data.ImportLine, Range: data.ImportRange, HasRange: data.HasRange,
					Description: "imports from an outer layer (" + ctx.Layers[toIdx].Name + ") out of " + ctx.Layers[fromIdx].Name,
				}},
			})
		}
	}

	sort.Slice(smells, func(i, j int) bool {
		return smells[i].Files[0]+smells[i].Files[1] < smells[j].Files[0]+smells[j].Files[1]
	})
	return smells
}
