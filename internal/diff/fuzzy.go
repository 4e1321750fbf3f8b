package diff

import (
	"github.com/hbollon/go-edlib"

	"github.com/archlinter/archlint/internal/snapshot"
)

// symbolSimilarityThreshold is the minimum Jaro-Winkler similarity for two
// symbol names to be considered "the same symbol, renamed", used as a
// second-chance match after an exact (type, file, symbol) key misses —
// catches a function renamed in the same edit that introduced or fixed
// the smell on it.
const symbolSimilarityThreshold = 0.85

// symbolsSimilar reports whether a and b are close enough, via
// Jaro-Winkler distance, to be treated as the same renamed symbol.
func symbolsSimilar(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	score, err := edlib.StringsSimilarity(a, b, edlib.JaroWinkler)
	if err != nil {
		return false
	}
	return float64(score) >= symbolSimilarityThreshold
}

// smellKey groups smells for fuzzy matching: same type, same file, same
// symbol are assumed to be the "same" finding even if its line moved.
type smellKey struct {
	smellType  string
	file       string
	symbolName string
}

func extractKey(s snapshot.Smell) (smellKey, bool) {
	if len(s.Files) != 1 || s.SymbolName == "" {
		return smellKey{}, false
	}
	return smellKey{smellType: string(s.Type), file: s.Files[0], symbolName: s.SymbolName}, true
}

func extractLine(s snapshot.Smell) (int, bool) {
	if len(s.Locations) > 0 {
		return s.Locations[0].Line, true
	}
	return 0, false
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}

// mergeFuzzyMatches drops new-smell/fixed-smell pairs that are really the
// same finding shifted by nearby line edits, so a pure reformat upstream
// of a smell doesn't get reported as both a regression and an improvement.
func mergeFuzzyMatches(lineTolerance int, baselineSmells, currentSmells []snapshot.Smell, regressions []Regression, improvements []Improvement) ([]Regression, []Improvement) {
	newByID := map[string]snapshot.Smell{}
	for _, r := range regressions {
		if r.Kind == RegressionNewSmell {
			newByID[r.ID] = r.Smell
		}
	}
	fixedByID := map[string]snapshot.Smell{}
	baselineByID := indexByID(baselineSmells)
	for _, imp := range improvements {
		if imp.Kind == ImprovementFixed {
			if s, ok := baselineByID[imp.ID]; ok {
				fixedByID[imp.ID] = s
			}
		}
	}

	baselineByKey := map[smellKey][]string{}
	type fileTypeKey struct{ smellType, file string }
	baselineByFileType := map[fileTypeKey][]string{}
	for id, s := range fixedByID {
		if key, ok := extractKey(s); ok {
			baselineByKey[key] = append(baselineByKey[key], id)
		}
		if len(s.Files) == 1 {
			ft := fileTypeKey{string(s.Type), s.Files[0]}
			baselineByFileType[ft] = append(baselineByFileType[ft], id)
		}
	}

	matchedNew := map[string]bool{}
	matchedFixed := map[string]bool{}

	bestCandidate := func(curr snapshot.Smell, candidates []string) (string, int) {
		currLine, ok := extractLine(curr)
		if !ok {
			return "", -1
		}
		bestID, bestDiff := "", -1
		for _, baseID := range candidates {
			if matchedFixed[baseID] {
				continue
			}
			base := fixedByID[baseID]
			baseLine, ok := extractLine(base)
			if !ok {
				continue
			}
			d := abs(currLine - baseLine)
			if d > lineTolerance {
				continue
			}
			if bestDiff == -1 || d < bestDiff {
				bestID, bestDiff = baseID, d
			}
		}
		return bestID, bestDiff
	}

	for newID, curr := range newByID {
		// First try an exact (type, file, symbol) key match within line
		// tolerance; this is the common case (only the line shifted).
		if key, ok := extractKey(curr); ok {
			if bestID, _ := bestCandidate(curr, baselineByKey[key]); bestID != "" {
				matchedNew[newID] = true
				matchedFixed[bestID] = true
				continue
			}
		}

		// Fall back to same (type, file) with a similarly-named symbol,
		// for the case where the symbol itself was renamed in the same edit.
		if len(curr.Files) != 1 {
			continue
		}
		ft := fileTypeKey{string(curr.Type), curr.Files[0]}
		var similar []string
		for _, baseID := range baselineByFileType[ft] {
			if matchedFixed[baseID] {
				continue
			}
			if symbolsSimilar(curr.SymbolName, fixedByID[baseID].SymbolName) {
				similar = append(similar, baseID)
			}
		}
		if bestID, _ := bestCandidate(curr, similar); bestID != "" {
			matchedNew[newID] = true
			matchedFixed[bestID] = true
		}
	}

	var outRegs []Regression
	for _, r := range regressions {
		if matchedNew[r.ID] {
			continue
		}
		outRegs = append(outRegs, r)
	}
	var outImps []Improvement
	for _, imp := range improvements {
		if matchedFixed[imp.ID] {
			continue
		}
		outImps = append(outImps, imp)
	}
	return outRegs, outImps
}
