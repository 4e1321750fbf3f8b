// Package clone implements the near-duplicate code-clone detector
// (C8-clone): tokenize, sliding-window SHA-256 hash, expand, and
// union-find clustering. Grounded on the original Rust
// code_clone engine's same four-stage pipeline, and on a design note to
// use "a simple disjoint-set keyed by (file, token_start)".
package clone

import (
	"crypto/sha256"
	"sort"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "code-clone"

const (
	defaultMinTokens = 50
	defaultMinLines  = 6
)

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "Code clone", DefaultEnabled: true, IsDeep: true,
		Category: detect.CategoryGlobal,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "Code clone", DefaultEnabled: true, IsDeep: true, Category: detect.CategoryGlobal}
}

type position struct {
	file  string
	start int
}

type occurrence struct {
	file             string
	start, end       int // token index range [start, end)
	startLine, endLine int
	startCol, endCol   int
}

func (d *Detector) Detect(ctx *anctx.Context) []archmodel.ArchSmell {
	rule := ctx.RuleFor(ID, "")
	minTokens := defaultMinTokens
	minLines := defaultMinLines

	paths := ctx.SortedPaths()
	tokensByFile := make(map[string][]archmodel.Token, len(paths))
	for _, p := range paths {
		fi := ctx.Files[p]
		if fi == nil || len(fi.Tokens) < minTokens {
			continue
		}
		tokensByFile[p] = fi.Tokens
	}

	buckets := buildWindowIndex(tokensByFile, minTokens)

	uf := newUnionFind()
	covered := make(map[string]map[int]bool)
	markCovered := func(file string, start, end int) {
		if covered[file] == nil {
			covered[file] = make(map[int]bool)
		}
		for i := start; i < end; i++ {
			covered[file][i] = true
		}
	}
	isCovered := func(file string, i int) bool {
		return covered[file] != nil && covered[file][i]
	}

	hashes := make([]string, 0, len(buckets))
	for h := range buckets {
		hashes = append(hashes, h)
	}
	sort.Strings(hashes)

	for _, h := range hashes {
		positions := buckets[h]
		sort.Slice(positions, func(i, j int) bool {
			if positions[i].file != positions[j].file {
				return positions[i].file < positions[j].file
			}
			return positions[i].start < positions[j].start
		})

		for i := 0; i < len(positions); i++ {
			for j := i + 1; j < len(positions); j++ {
				a, b := positions[i], positions[j]
				if a.file == b.file && a.start == b.start {
					continue
				}
				sameFile := a.file == b.file

				if sameFile && isCovered(a.file, a.start) && isCovered(b.file, b.start) {
					continue
				} else if !sameFile && isCovered(a.file, a.start) && isCovered(b.file, b.start) {
					continue
				}

				occA, occB, ok := expandMatch(tokensByFile[a.file], tokensByFile[b.file], a.start, b.start, sameFile, minLines)
				if !ok {
					continue
				}

				occA.file, occB.file = a.file, b.file
				markCovered(a.file, occA.start, occA.end)
				markCovered(b.file, occB.start, occB.end)
				uf.union(position{a.file, occA.start}, position{b.file, occB.start})
				uf.remember(position{a.file, occA.start}, occA)
				uf.remember(position{b.file, occB.start}, occB)
			}
		}
	}

	clusters := uf.clusters()

	var smells []archmodel.ArchSmell
	for _, members := range clusters {
		if len(members) < 2 {
			continue
		}
		merged := mergePerFile(members)
		if len(merged) < 2 {
			continue
		}

		tokenCount := 0
		var files []string
		var locs []archmodel.LocationDetail
		for _, occ := range merged {
			files = append(files, occ.file)
			if n := occ.end - occ.start; n > tokenCount {
				tokenCount = n
			}
			locs = append(locs, archmodel.LocationDetail{
				File: occ.file, Line: occ.startLine,
				Range: archmodel.Range{StartLine: occ.startLine, StartCol: occ.startCol, EndLine: occ.endLine, EndCol: occ.endCol},
				HasRange: true,
			})
		}
		sort.Strings(files)

		sev := rule.Severity
		switch {
		case tokenCount < 50:
			sev = archmodel.SeverityLow
		case tokenCount < 100:
			sev = archmodel.SeverityMedium
		default:
			sev = archmodel.SeverityHigh
		}

		smells = append(smells, archmodel.ArchSmell{
			Type: archmodel.SmellCodeClone, Severity: sev, Files: dedupeStrings(files),
			Metrics:   []archmodel.Metric{{Name: "tokenCount", Value: float64(tokenCount)}, {Name: "occurrences", Value: float64(len(merged))}},
			Locations: locs,
		})
	}

	sort.Slice(smells, func(i, j int) bool {
		return smells[i].Locations[0].File < smells[j].Locations[0].File
	})
	return smells
}

func dedupeStrings(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	var out []string
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}

func buildWindowIndex(tokensByFile map[string][]archmodel.Token, minTokens int) map[string][]position {
	buckets := make(map[string][]position)
	for file, tokens := range tokensByFile {
		for start := 0; start+minTokens <= len(tokens); start++ {
			h := hashWindow(tokens[start : start+minTokens])
			buckets[h] = append(buckets[h], position{file: file, start: start})
		}
	}
	return buckets
}

func hashWindow(window []archmodel.Token) string {
	hasher := sha256.New()
	for _, t := range window {
		hasher.Write([]byte(t.Normalized))
		hasher.Write([]byte{0x00})
	}
	return string(hasher.Sum(nil))
}

// expandMatch grows the match at (startA, startB) forward and backward,
// enforcing the same-file non-overlap constraint and line-boundary
// alignment.
func expandMatch(tokensA, tokensB []archmodel.Token, startA, startB int, sameFile bool, minLines int) (occurrence, occurrence, bool) {
	i, j := startA, startB
	if sameFile && i > j {
		i, j = j, i
	}

	forward := 0
	for {
		ai, bi := i+forward, j+forward
		if ai >= len(tokensA) || bi >= len(tokensB) {
			break
		}
		if sameFile && ai >= j {
			break
		}
		if tokensA[ai].Normalized != tokensB[bi].Normalized {
			break
		}
		forward++
	}

	backward := 0
	for {
		ai, bi := i-backward-1, j-backward-1
		if ai < 0 || bi < 0 {
			break
		}
		if tokensA[ai].Normalized != tokensB[bi].Normalized {
			break
		}
		backward++
	}

	aStart, bStart := i-backward, j-backward
	aEnd, bEnd := i+forward, j+forward

	if !alignedAtLineBoundary(tokensA, aStart) || !alignedAtLineBoundary(tokensB, bStart) {
		return occurrence{}, occurrence{}, false
	}

	occA := occurrence{
		start: aStart, end: aEnd,
		startLine: tokensA[aStart].Line, startCol: tokensA[aStart].Col,
		endLine: tokensA[aEnd-1].EndLine, endCol: tokensA[aEnd-1].EndCol,
	}
	occB := occurrence{
		start: bStart, end: bEnd,
		startLine: tokensB[bStart].Line, startCol: tokensB[bStart].Col,
		endLine: tokensB[bEnd-1].EndLine, endCol: tokensB[bEnd-1].EndCol,
	}

	if occA.endLine-occA.startLine+1 < minLines || occB.endLine-occB.startLine+1 < minLines {
		return occurrence{}, occurrence{}, false
	}

	return occA, occB, true
}

func alignedAtLineBoundary(tokens []archmodel.Token, idx int) bool {
	if idx == 0 {
		return true
	}
	return tokens[idx-1].Line != tokens[idx].Line
}

func mergePerFile(occs []occurrence) []occurrence {
	byFile := make(map[string][]occurrence)
	for _, o := range occs {
		byFile[o.file] = append(byFile[o.file], o)
	}
	var out []occurrence
	for file, list := range byFile {
		sort.Slice(list, func(i, j int) bool { return list[i].start < list[j].start })
		merged := list[0]
		for _, o := range list[1:] {
			if o.start <= merged.end {
				if o.end > merged.end {
					merged.end = o.end
					merged.endLine, merged.endCol = o.endLine, o.endCol
				}
				continue
			}
			merged.file = file
			out = append(out, merged)
			merged = o
		}
		merged.file = file
		out = append(out, merged)
	}
	return out
}

// unionFind is a disjoint-set keyed by (file, token_start).
type unionFind struct {
	parent map[position]position
	data   map[position]occurrence
	order  []position
}

func newUnionFind() *unionFind {
	return &unionFind{parent: make(map[position]position), data: make(map[position]occurrence)}
}

func (u *unionFind) find(p position) position {
	if _, ok := u.parent[p]; !ok {
		u.parent[p] = p
		u.order = append(u.order, p)
		return p
	}
	root := p
	for u.parent[root] != root {
		root = u.parent[root]
	}
	u.parent[p] = root
	return root
}

// union merges the sets containing a and b, keeping the smaller (earlier
// registered) root.
func (u *unionFind) union(a, b position) {
	ra, rb := u.find(a), u.find(b)
	if ra == rb {
		return
	}
	ia, ib := u.indexOf(ra), u.indexOf(rb)
	if ia < ib {
		u.parent[rb] = ra
	} else {
		u.parent[ra] = rb
	}
}

func (u *unionFind) indexOf(p position) int {
	for i, q := range u.order {
		if q == p {
			return i
		}
	}
	return len(u.order)
}

func (u *unionFind) remember(p position, occ occurrence) {
	u.data[p] = occ
}

func (u *unionFind) clusters() map[position][]occurrence {
	out := make(map[position][]occurrence)
	for p := range u.parent {
		root := u.find(p)
		if occ, ok := u.data[p]; ok {
			out[root] = append(out[root], occ)
		}
	}
	return out
}
