package report

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/snapshot"
)

func sampleSnapshot() snapshot.Snapshot {
	col := 3
	return snapshot.Snapshot{
		SchemaVersion: 1,
		GeneratedAt:   "2026-01-01T00:00:00Z",
		Score:         82.5,
		Grade:         "B",
		Summary: snapshot.Summary{
			TotalSmells:   2,
			FilesAnalyzed: 10,
			Cycles:        1,
			GodModules:    1,
		},
		Smells: []snapshot.Smell{
			{
				ID:         "cycle:abc123",
				Type:       archmodel.SmellCyclicDependencyCluster,
				Severity:   archmodel.SeverityHigh,
				Files:      []string{"a.ts", "b.ts"},
				Locations:  []snapshot.Location{{File: "a.ts", Line: 12, Column: &col}},
			},
			{
				ID:         "god:module.ts:Widget:40",
				Type:       archmodel.SmellGodModule,
				Severity:   archmodel.SeverityCritical,
				Files:      []string{"module.ts"},
				SymbolName: "Widget",
				Locations:  []snapshot.Location{{File: "module.ts", Line: 40}},
			},
		},
	}
}

func TestJSON_RoundTripsSeverityAsLowercaseString(t *testing.T) {
	snap := sampleSnapshot()
	out, err := JSON(snap)
	require.NoError(t, err)

	var raw map[string]any
	require.NoError(t, json.Unmarshal(out, &raw))
	smells := raw["smells"].([]any)
	first := smells[0].(map[string]any)
	assert.Equal(t, "high", first["severity"])
}

func TestMarkdown_IncludesSummaryAndEachFinding(t *testing.T) {
	out := Markdown(sampleSnapshot())
	assert.Contains(t, out, "# Architecture report")
	assert.Contains(t, out, "Grade:** B")
	assert.Contains(t, out, "Circular Dependency")
	assert.Contains(t, out, "God Module")
}

func TestMarkdown_EmptySnapshotReportsNoSmells(t *testing.T) {
	out := Markdown(snapshot.Snapshot{Grade: "A", Score: 100})
	assert.Contains(t, out, "No smells detected.")
}

func TestSARIF_ProducesOneRulePerSmellTypeAndOneResultPerSmell(t *testing.T) {
	out, err := SARIF(sampleSnapshot())
	require.NoError(t, err)

	var log SarifLog
	require.NoError(t, json.Unmarshal(out, &log))
	assert.Equal(t, sarifVersion, log.Version)
	require.Len(t, log.Runs, 1)
	assert.Len(t, log.Runs[0].Tool.Driver.Rules, 2)
	require.Len(t, log.Runs[0].Results, 2)
	assert.Equal(t, "error", log.Runs[0].Results[0].Level)
	assert.Equal(t, "a.ts", log.Runs[0].Results[0].Locations[0].PhysicalLocation.ArtifactLocation.URI)
}

func TestSARIF_CriticalAndHighBothMapToErrorLevel(t *testing.T) {
	out, err := SARIF(sampleSnapshot())
	require.NoError(t, err)

	var log SarifLog
	require.NoError(t, json.Unmarshal(out, &log))
	for _, r := range log.Runs[0].Results {
		assert.Equal(t, "error", r.Level)
	}
}

func TestTable_RendersSummaryAndFindingsRows(t *testing.T) {
	out := Table(sampleSnapshot())
	assert.Contains(t, out, "Files analyzed")
	assert.Contains(t, out, "Widget")
	assert.Contains(t, out, "CRITICAL")
}

func TestTable_EmptySnapshotReportsNoSmells(t *testing.T) {
	out := Table(snapshot.Snapshot{})
	assert.Contains(t, out, "No smells detected.")
}
