// Package longparams flags functions whose parameter list has grown past
// a threshold, a classic signal that the function is doing too much or
// badly needs a parameter object.
package longparams

import (
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "long-parameter-list"

const defaultParamThreshold = 5

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "Long parameter list", DefaultEnabled: true, Category: detect.CategoryFileLocal,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "Long parameter list", DefaultEnabled: true, Category: detect.CategoryFileLocal}
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
			if fn.IsConstructor || fn.ParamCount < defaultParamThreshold {
				continue
			}
			smells = append(smells, archmodel.ArchSmell{
				Type: archmodel.SmellLongParameterList, Severity: rule.Severity, Files: []string{path}, SymbolName: fn.Name,
				Metrics:   []archmodel.Metric{{Name: "paramCount", Value: float64(fn.ParamCount)}},
				Locations: []archmodel.LocationDetail{{File: path, Line: fn.Line, Range: fn.Range, HasRange: true}},
			})
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
