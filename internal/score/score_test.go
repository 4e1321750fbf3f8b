package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/config"
)

func TestCompute_NoSmellsIsPerfectScore(t *testing.T) {
	r := Compute(nil, config.ScoringWeights{}, config.GradeThresholds{})
	assert.Equal(t, 100.0, r.Score)
	assert.Equal(t, GradeExcellent, r.Grade)
}

func TestCompute_DeductsByWeightAndCount(t *testing.T) {
	smells := []archmodel.ArchSmell{
		{Severity: archmodel.SeverityCritical},
		{Severity: archmodel.SeverityHigh},
		{Severity: archmodel.SeverityHigh},
	}
	r := Compute(smells, config.ScoringWeights{}, config.GradeThresholds{})
	assert.Equal(t, 1, r.Critical)
	assert.Equal(t, 2, r.High)
	assert.Equal(t, float64(100-10-5-5), r.Score)
}

func TestCompute_ScoreFloorsAtZero(t *testing.T) {
	smells := make([]archmodel.ArchSmell, 50)
	for i := range smells {
		smells[i] = archmodel.ArchSmell{Severity: archmodel.SeverityCritical}
	}
	r := Compute(smells, config.ScoringWeights{}, config.GradeThresholds{})
	assert.Equal(t, 0.0, r.Score)
	assert.Equal(t, GradePoor, r.Grade)
}

func TestMeetsMinimum_NoMinimumAlwaysPasses(t *testing.T) {
	assert.True(t, MeetsMinimum(Result{Score: 0}, config.Scoring{}))
}

func TestMeetsMinimum_RespectsConfiguredFloor(t *testing.T) {
	min := 80.0
	assert.False(t, MeetsMinimum(Result{Score: 70}, config.Scoring{MinimumScore: &min}))
	assert.True(t, MeetsMinimum(Result{Score: 85}, config.Scoring{MinimumScore: &min}))
}
