// Package diff compares two snapshots and classifies what changed between
// them into regressions and improvements, for "did this commit make the
// architecture worse" CI gating. Grounded on the original diff/engine.rs.
package diff

import (
	"fmt"
	"sort"

	"github.com/archlinter/archlint/internal/snapshot"
)

// RegressionKind discriminates why a regression was flagged.
type RegressionKind string

const (
	RegressionNewSmell       RegressionKind = "new_smell"
	RegressionSeverityUp     RegressionKind = "severity_increase"
	RegressionMetricWorsened RegressionKind = "metric_worsening"
)

// ImprovementKind discriminates why an improvement was flagged.
type ImprovementKind string

const (
	ImprovementFixed            ImprovementKind = "fixed"
	ImprovementMetricImproved   ImprovementKind = "metric_improvement"
)

// Regression is one way the current snapshot is worse than the baseline.
type Regression struct {
	ID       string
	Kind     RegressionKind
	Smell    snapshot.Smell
	Message  string
	Metric   string
	FromVal  float64
	ToVal    float64
	FromSev  string
	ToSev    string
	Explain  *Explanation
}

// Improvement is one way the current snapshot is better than the baseline.
type Improvement struct {
	ID      string
	Kind    ImprovementKind
	Message string
	Metric  string
	FromVal float64
	ToVal   float64
}

// Summary counts regressions/improvements by coarse category.
type Summary struct {
	NewSmells          int
	FixedSmells        int
	WorsenedSmells     int
	ImprovedSmells     int
	TotalRegressions   int
	TotalImprovements  int
}

// Result is the full outcome of comparing baseline against current.
type Result struct {
	HasRegressions bool
	Regressions    []Regression
	Improvements   []Improvement
	Summary        Summary
	BaselineCommit string
	CurrentCommit  string
}

// Engine compares snapshots, flagging a metric as worsened once it grows
// by more than MetricThresholdPercent.
type Engine struct {
	MetricThresholdPercent float64
	LineTolerance          int
}

// NewEngine returns an Engine with the original implementation's defaults:
// a metric must grow more than 20% to count as a regression, and fuzzy
// line matching tolerates up to 50 lines of drift.
func NewEngine() Engine {
	return Engine{MetricThresholdPercent: 20, LineTolerance: 50}
}

// Diff compares baseline against current.
func (e Engine) Diff(baseline, current snapshot.Snapshot) Result {
	baselineByID := indexByID(baseline.Smells)
	currentByID := indexByID(current.Smells)

	var regressions []Regression
	var improvements []Improvement

	var newIDs, fixedIDs, sharedIDs []string
	for id := range currentByID {
		if _, ok := baselineByID[id]; !ok {
			newIDs = append(newIDs, id)
		} else {
			sharedIDs = append(sharedIDs, id)
		}
	}
	for id := range baselineByID {
		if _, ok := currentByID[id]; !ok {
			fixedIDs = append(fixedIDs, id)
		}
	}
	sort.Strings(newIDs)
	sort.Strings(fixedIDs)
	sort.Strings(sharedIDs)

	for _, id := range newIDs {
		s := currentByID[id]
		regressions = append(regressions, Regression{
			ID: id, Kind: RegressionNewSmell, Smell: s,
			Message: fmt.Sprintf("New %s: %s", s.Type, firstFile(s.Files)),
		})
	}
	for _, id := range fixedIDs {
		s := baselineByID[id]
		improvements = append(improvements, Improvement{
			ID: id, Kind: ImprovementFixed,
			Message: fmt.Sprintf("Fixed %s: %s", s.Type, firstFile(s.Files)),
		})
	}
	for _, id := range sharedIDs {
		b, c := baselineByID[id], currentByID[id]
		if reg, ok := e.checkSeverity(id, b, c); ok {
			regressions = append(regressions, reg)
		}
		mr, mi := e.compareMetrics(id, b, c)
		regressions = append(regressions, mr...)
		improvements = append(improvements, mi...)
	}

	// Fuzzy-match orphans (new/fixed smells with shifted line numbers) to
	// avoid reporting the same symbol as both a new smell and a fix.
	regressions, improvements = mergeFuzzyMatches(e.LineTolerance, baseline.Smells, current.Smells, regressions, improvements)

	summary := Summary{}
	for _, r := range regressions {
		summary.TotalRegressions++
		if r.Kind == RegressionNewSmell {
			summary.NewSmells++
		} else {
			summary.WorsenedSmells++
		}
	}
	for _, i := range improvements {
		summary.TotalImprovements++
		if i.Kind == ImprovementFixed {
			summary.FixedSmells++
		} else {
			summary.ImprovedSmells++
		}
	}

	return Result{
		HasRegressions: len(regressions) > 0,
		Regressions:    regressions,
		Improvements:   improvements,
		Summary:        summary,
		BaselineCommit: baseline.Commit,
		CurrentCommit:  current.Commit,
	}
}

// DiffWithExplain runs Diff and attaches an Explanation to every
// regression, for human-facing CI output.
func (e Engine) DiffWithExplain(baseline, current snapshot.Snapshot) Result {
	result := e.Diff(baseline, current)
	for i := range result.Regressions {
		exp := Explain(result.Regressions[i].Smell)
		result.Regressions[i].Explain = &exp
	}
	return result
}

var severityRank = map[string]int{"low": 0, "medium": 1, "high": 2, "critical": 3}

func (e Engine) checkSeverity(id string, baseline, current snapshot.Smell) (Regression, bool) {
	baseRank := severityRank[baseline.Severity.String()]
	currRank := severityRank[current.Severity.String()]
	if currRank <= baseRank {
		return Regression{}, false
	}
	return Regression{
		ID: id, Kind: RegressionSeverityUp, Smell: current,
		FromSev: baseline.Severity.String(), ToSev: current.Severity.String(),
		Message: fmt.Sprintf("%s severity increased: %s -> %s", current.Type, baseline.Severity, current.Severity),
	}, true
}

// compareMetrics flags any metric present in both smells that grew by more
// than MetricThresholdPercent as a regression, and any that shrank by more
// than that threshold as an improvement.
func (e Engine) compareMetrics(id string, baseline, current snapshot.Smell) ([]Regression, []Improvement) {
	var regs []Regression
	var imps []Improvement

	names := make([]string, 0, len(current.Metrics))
	for name := range current.Metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		curr, ok := current.Metrics[name]
		if !ok {
			continue
		}
		base, ok := baseline.Metrics[name]
		if !ok || base == 0 {
			continue
		}
		percentChange := (curr - base) / base * 100
		switch {
		case percentChange > e.MetricThresholdPercent:
			regs = append(regs, Regression{
				ID: id, Kind: RegressionMetricWorsened, Smell: current, Metric: name, FromVal: base, ToVal: curr,
				Message: fmt.Sprintf("%s worsened: %s %.1f -> %.1f", current.Type, name, base, curr),
			})
		case percentChange < -e.MetricThresholdPercent:
			imps = append(imps, Improvement{
				ID: id, Kind: ImprovementMetricImproved, Metric: name, FromVal: base, ToVal: curr,
				Message: fmt.Sprintf("%s improved: %s %.1f -> %.1f", current.Type, name, base, curr),
			})
		}
	}
	return regs, imps
}

func indexByID(smells []snapshot.Smell) map[string]snapshot.Smell {
	m := make(map[string]snapshot.Smell, len(smells))
	for _, s := range smells {
		m[s.ID] = s
	}
	return m
}

func firstFile(files []string) string {
	if len(files) == 0 {
		return ""
	}
	return files[0]
}
