package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/snapshot"
)

func smell(id, typ string, sev archmodel.Severity, file string, line int, metrics map[string]float64) snapshot.Smell {
	return snapshot.Smell{
		ID: id, Type: archmodel.SmellType(typ), Severity: sev, Files: []string{file},
		Metrics:   metrics,
		Locations: []snapshot.Location{{File: file, Line: line}},
	}
}

func TestDiff_NewSmellIsRegression(t *testing.T) {
	baseline := snapshot.Snapshot{}
	current := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("cycle:abc", "cyclic_dependency_cluster", archmodel.SeverityHigh, "a.ts", 0, nil),
	}}

	result := NewEngine().Diff(baseline, current)

	assert.True(t, result.HasRegressions)
	assert.Len(t, result.Regressions, 1)
	assert.Equal(t, RegressionNewSmell, result.Regressions[0].Kind)
}

func TestDiff_FixedSmellIsImprovement(t *testing.T) {
	baseline := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("cycle:abc", "cyclic_dependency_cluster", archmodel.SeverityHigh, "a.ts", 0, nil),
	}}
	current := snapshot.Snapshot{}

	result := NewEngine().Diff(baseline, current)

	assert.False(t, result.HasRegressions)
	assert.Len(t, result.Improvements, 1)
	assert.Equal(t, ImprovementFixed, result.Improvements[0].Kind)
}

func TestDiff_SeverityIncreaseIsRegression(t *testing.T) {
	baseline := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("god:service.ts", "god_module", archmodel.SeverityMedium, "service.ts", 0, nil),
	}}
	current := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("god:service.ts", "god_module", archmodel.SeverityHigh, "service.ts", 0, nil),
	}}

	result := NewEngine().Diff(baseline, current)

	assert.True(t, result.HasRegressions)
	assert.Equal(t, RegressionSeverityUp, result.Regressions[0].Kind)
	assert.Equal(t, "medium", result.Regressions[0].FromSev)
	assert.Equal(t, "high", result.Regressions[0].ToSev)
}

func TestDiff_MetricWorseningIsRegression(t *testing.T) {
	baseline := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("god:service.ts", "god_module", archmodel.SeverityHigh, "service.ts", 0, map[string]float64{"fanIn": 10}),
	}}
	current := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("god:service.ts", "god_module", archmodel.SeverityHigh, "service.ts", 0, map[string]float64{"fanIn": 25}),
	}}

	result := NewEngine().Diff(baseline, current)

	assert.True(t, result.HasRegressions)
	assert.Equal(t, RegressionMetricWorsened, result.Regressions[0].Kind)
	assert.Equal(t, "fanIn", result.Regressions[0].Metric)
}

func TestDiff_IdenticalSnapshotsProduceNoDiff(t *testing.T) {
	s := smell("god:service.ts", "god_module", archmodel.SeverityHigh, "service.ts", 0, nil)
	baseline := snapshot.Snapshot{Smells: []snapshot.Smell{s}}
	current := snapshot.Snapshot{Smells: []snapshot.Smell{s}}

	result := NewEngine().Diff(baseline, current)

	assert.False(t, result.HasRegressions)
	assert.Empty(t, result.Regressions)
	assert.Empty(t, result.Improvements)
}

func TestDiff_RenamedSymbolMatchesBySimilarityNotJustLine(t *testing.T) {
	baseline := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("cmplx:src/foo.ts:computeTotal:10", "high_complexity", archmodel.SeverityHigh, "src/foo.ts", 10, nil),
	}}
	baseline.Smells[0].SymbolName = "computeTotal"
	current := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("cmplx:src/foo.ts:computeTotals:11", "high_complexity", archmodel.SeverityHigh, "src/foo.ts", 11, nil),
	}}
	current.Smells[0].SymbolName = "computeTotals"

	result := NewEngine().Diff(baseline, current)

	assert.False(t, result.HasRegressions)
	assert.Empty(t, result.Regressions)
	assert.Empty(t, result.Improvements)
}

func TestDiff_LineShiftedSmellIsNotReportedAsBothFixedAndNew(t *testing.T) {
	baseline := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("cmplx:src/foo.ts:doWork:10", "high_complexity", archmodel.SeverityHigh, "src/foo.ts", 10, nil),
	}}
	baseline.Smells[0].SymbolName = "doWork"
	current := snapshot.Snapshot{Smells: []snapshot.Smell{
		smell("cmplx:src/foo.ts:doWork:15", "high_complexity", archmodel.SeverityHigh, "src/foo.ts", 15, nil),
	}}
	current.Smells[0].SymbolName = "doWork"

	result := NewEngine().Diff(baseline, current)

	assert.False(t, result.HasRegressions)
	assert.Empty(t, result.Regressions)
	assert.Empty(t, result.Improvements)
}
