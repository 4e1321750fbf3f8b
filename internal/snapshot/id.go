package snapshot

import (
	"fmt"
	"sort"
	"strings"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/tsparse"
)

// idPrefix maps each smell type to the short tag used in its canonical
// ID, mirroring the original implementation's cmplx/nest/params/... tags.
// The fuzzy matcher in internal/diff does not parse IDs; it keys on the
// smell's type, file and symbol fields.
var idPrefix = map[archmodel.SmellType]string{
	archmodel.SmellCyclicDependencyCluster: "cycle",
	archmodel.SmellDeadCode:                "dead",
	archmodel.SmellDeadSymbol:              "dead",
	archmodel.SmellCodeClone:               "clone",
	archmodel.SmellGodModule:               "god",
	archmodel.SmellOrphanModule:            "orphan",
	archmodel.SmellShotgunSurgery:          "shotgun",
	archmodel.SmellHubLikeDependency:       "hub",
	archmodel.SmellHighComplexity:          "cmplx",
	archmodel.SmellDeepNesting:             "nest",
	archmodel.SmellLongParameterList:       "params",
	archmodel.SmellPrimitiveObsession:      "prim",
	archmodel.SmellLayerViolation:          "layer",
}

// IDFor derives a canonical, mostly-stable ID for smell: prefix:file:name:line
// for single-file, symbol-anchored smells, or prefix:H for cycles and
// prefix:H:tokenCount for clones, where H is a hash of the sorted file
// list and no single line anchors the finding.
func IDFor(s archmodel.ArchSmell) string {
	prefix := idPrefix[s.Type]
	if prefix == "" {
		prefix = string(s.Type)
	}

	switch s.Type {
	case archmodel.SmellCyclicDependencyCluster:
		return fmt.Sprintf("%s:%s", prefix, joinedHash(s.Files))
	case archmodel.SmellCodeClone:
		tokenCount, _ := s.MetricValue("tokenCount")
		return fmt.Sprintf("%s:%s:%d", prefix, joinedHash(s.Files), int64(tokenCount))
	}

	file := "-"
	if len(s.Files) > 0 {
		file = s.Files[0]
	}
	name := s.SymbolName
	if name == "" {
		name = "-"
	}
	line := 0
	if len(s.Locations) > 0 {
		line = s.Locations[0].Line
	}
	return fmt.Sprintf("%s:%s:%s:%d", prefix, file, name, line)
}

func joinedHash(files []string) string {
	sorted := append([]string(nil), files...)
	sort.Strings(sorted)
	return fmt.Sprintf("%x", tsparse.Hash([]byte(strings.Join(sorted, "|"))))
}
