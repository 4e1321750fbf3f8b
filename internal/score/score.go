// Package score turns a set of detected smells into a single 0-100
// health score and a letter grade, per the config's scoring.weights and
// scoring.grade_thresholds keys.
package score

import (
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/config"
)

// Grade is a letter grade derived from a score.
type Grade string

const (
	GradeExcellent Grade = "excellent"
	GradeGood      Grade = "good"
	GradeFair      Grade = "fair"
	GradeModerate  Grade = "moderate"
	GradePoor      Grade = "poor"
)

// Result bundles the computed score, its grade, and the per-severity
// counts it was derived from.
type Result struct {
	Score    float64
	Grade    Grade
	Critical int
	High     int
	Medium   int
	Low      int
}

// defaultWeights mirrors a reasonable deduction-per-finding scale when a
// config omits scoring.weights entirely.
var defaultWeights = config.ScoringWeights{Critical: 10, High: 5, Medium: 2, Low: 0.5}

var defaultThresholds = config.GradeThresholds{Excellent: 90, Good: 75, Fair: 60, Moderate: 40, Poor: 0}

// Compute deducts weight*count from 100 for each severity present in
// smells, floors at 0, and maps the result to a letter grade via
// thresholds (each threshold is the minimum score for that grade).
func Compute(smells []archmodel.ArchSmell, weights config.ScoringWeights, thresholds config.GradeThresholds) Result {
	if weights == (config.ScoringWeights{}) {
		weights = defaultWeights
	}
	if thresholds == (config.GradeThresholds{}) {
		thresholds = defaultThresholds
	}

	r := Result{}
	for _, s := range smells {
		switch s.Severity {
		case archmodel.SeverityCritical:
			r.Critical++
		case archmodel.SeverityHigh:
			r.High++
		case archmodel.SeverityMedium:
			r.Medium++
		case archmodel.SeverityLow:
			r.Low++
		}
	}

	deduction := float64(r.Critical)*weights.Critical + float64(r.High)*weights.High +
		float64(r.Medium)*weights.Medium + float64(r.Low)*weights.Low
	r.Score = 100 - deduction
	if r.Score < 0 {
		r.Score = 0
	}
	r.Grade = gradeFor(r.Score, thresholds)
	return r
}

func gradeFor(score float64, t config.GradeThresholds) Grade {
	switch {
	case score >= t.Excellent:
		return GradeExcellent
	case score >= t.Good:
		return GradeGood
	case score >= t.Fair:
		return GradeFair
	case score >= t.Moderate:
		return GradeModerate
	default:
		return GradePoor
	}
}

// MeetsMinimum reports whether r clears the config's minimum_score gate
// (used by the CLI to decide whether to fail the run), or true when no
// minimum is configured.
func MeetsMinimum(r Result, s config.Scoring) bool {
	if s.MinimumScore != nil {
		return r.Score >= *s.MinimumScore
	}
	return true
}
