package api

import (
	"github.com/archlinter/archlint/internal/diff"
	"github.com/archlinter/archlint/internal/snapshot"
)

// SmellWithExplanation pairs a reported smell with its static
// problem/reason/risks/recommendations write-up, the shape a caller
// consumes directly without a second lookup. Grounded on the original
// api::result::SmellWithExplanation.
type SmellWithExplanation struct {
	Smell       snapshot.Smell   `json:"smell"`
	Explanation diff.Explanation `json:"explanation"`
}

// ScanResult is the outcome of a full Scan: every smell found, explained,
// alongside the snapshot they were derived from.
type ScanResult struct {
	Smells   []SmellWithExplanation `json:"smells"`
	Snapshot snapshot.Snapshot      `json:"snapshot"`
}

// IncrementalResult is the outcome of ScanIncremental: only the smells
// touching files affected by the change, plus timing and the affected
// file set itself so a caller can show its work. Grounded on the
// original api::result::IncrementalResult.
type IncrementalResult struct {
	Smells         []SmellWithExplanation `json:"smells"`
	AffectedFiles  []string               `json:"affected_files"`
	ChangedCount   int                    `json:"changed_count"`
	AffectedCount  int                    `json:"affected_count"`
	AnalysisTimeMs int64                  `json:"analysis_time_ms"`
}

// StateStats reports the size of the analyzer's retained incremental
// state, useful for a host to decide whether to keep an analyzer alive
// or recycle it.
type StateStats struct {
	FilesCount int `json:"files_count"`
	GraphNodes int `json:"graph_nodes"`
	GraphEdges int `json:"graph_edges"`
}
