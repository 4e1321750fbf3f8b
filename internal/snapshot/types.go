// Package snapshot captures a scan's smells into a stable, serializable
// form that two scans of the same repository at different commits can be
// diffed against; each smell's human-readable explanation comes from
// internal/diff's Explain.
// Grounded on the original snapshot/generator.rs and diff/ subpackage.
package snapshot

import "github.com/archlinter/archlint/internal/archmodel"

// SchemaVersion is bumped whenever Snapshot's wire shape changes in a way
// that breaks older consumers.
const SchemaVersion = 1

// Location pins one diagnostic to a file position, mirroring
// archmodel.LocationDetail but with JSON-friendly field names.
type Location struct {
	File        string `json:"file"`
	Line        int    `json:"line"`
	Column      *int   `json:"column,omitempty"`
	Description string `json:"description,omitempty"`
}

// Smell is one detected architectural defect, serialized for storage and
// diffing. ID comes from IDFor; for single-file smells it includes the
// line, so it changes when the finding moves.
type Smell struct {
	ID         string             `json:"id"`
	Type       archmodel.SmellType `json:"smell_type"`
	Severity   archmodel.Severity `json:"severity"`
	Files      []string           `json:"files"`
	SymbolName string             `json:"symbol_name,omitempty"`
	Metrics    map[string]float64 `json:"metrics,omitempty"`
	Locations  []Location         `json:"locations,omitempty"`
}

// Summary aggregates a snapshot's smells by kind, for a quick glance
// without walking the full Smells slice.
type Summary struct {
	TotalSmells     int `json:"total_smells"`
	FilesAnalyzed   int `json:"files_analyzed"`
	Cycles          int `json:"cycles"`
	GodModules      int `json:"god_modules"`
	DeadCode        int `json:"dead_code"`
	DeadSymbols     int `json:"dead_symbols"`
	LayerViolations int `json:"layer_violations"`
	HighComplexity  int `json:"high_complexity"`
	HubModules      int `json:"hub_modules"`
}

// Snapshot is the persisted, comparable record of one scan.
type Snapshot struct {
	SchemaVersion int     `json:"schema_version"`
	GeneratedAt   string  `json:"generated_at"`
	Commit        string  `json:"commit,omitempty"`
	Smells        []Smell `json:"smells"`
	Summary       Summary `json:"summary"`
	Score         float64 `json:"score"`
	Grade         string  `json:"grade"`
}
