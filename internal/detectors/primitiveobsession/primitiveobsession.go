// Package primitiveobsession flags functions whose parameters are almost
// entirely bare primitives (string/number/boolean/...), a signal that a
// domain type is missing and callers are passing loosely-typed tuples
// instead.
package primitiveobsession

import (
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "primitive-obsession"

const (
	minParamsToConsider = 3
	minPrimitiveRatio   = 0.75
)

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "Primitive obsession", DefaultEnabled: false, Category: detect.CategoryFileLocal,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "Primitive obsession", DefaultEnabled: false, Category: detect.CategoryFileLocal}
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
			if fn.ParamCount < minParamsToConsider {
				continue
			}
			ratio := float64(fn.PrimitiveParams) / float64(fn.ParamCount)
			if ratio < minPrimitiveRatio {
				continue
			}
			smells = append(smells, archmodel.ArchSmell{
				Type: archmodel.SmellPrimitiveObsession, Severity: rule.Severity, Files: []string{path}, SymbolName: fn.Name,
				Metrics: []archmodel.Metric{
					{Name: "primitiveParams", Value: float64(fn.PrimitiveParams)},
					{Name: "paramCount", Value: float64(fn.ParamCount)},
				},
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
