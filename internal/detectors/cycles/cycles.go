// Package cycles implements the cycle detector (C8-cycles): Tarjan's
// strongly-connected-components algorithm over the dependency graph,
// clustered with hotspot and critical-edge selection, grounded on
// the original Rust CycleDetector's SCC-then-cluster shape.
package cycles

import (
	"fmt"
	"sort"
	"strings"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/depgraph"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "cyclic-dependency"

func init() {
	detect.Register(detect.Info{
		ID:             ID,
		Name:           "Cyclic dependency",
		Description:    "Detects clusters of files that import each other in a cycle.",
		DefaultEnabled: true,
		IsDeep:         true,
		Category:       detect.CategoryGraphBased,
	}, func(opts map[string]string) detect.Detector {
		return &Detector{}
	})
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{
		ID: ID, Name: "Cyclic dependency", DefaultEnabled: true, IsDeep: true,
		Category: detect.CategoryGraphBased,
	}
}

var testLikeSubstrings = []string{"/test/", "/tests/", "/__tests__/", "/__fixtures__/", "/__mocks__/"}
var testLikeFileSubstrings = []string{".test.", ".spec.", ".fixture.", ".mock."}

func isTestLike(path string) bool {
	for _, s := range testLikeSubstrings {
		if strings.Contains(path, s) {
			return true
		}
	}
	for _, s := range testLikeFileSubstrings {
		if strings.Contains(path, s) {
			return true
		}
	}
	return false
}

func (d *Detector) Detect(ctx *anctx.Context) []archmodel.ArchSmell {
	sccs := tarjanSCCs(ctx.Graph)

	var smells []archmodel.ArchSmell
	for _, scc := range sccs {
		if len(scc) < 2 {
			continue
		}

		members := make([]string, 0, len(scc))
		skip := false
		for _, n := range scc {
			path, ok := ctx.Graph.FilePath(n)
			if !ok {
				skip = true
				break
			}
			if isTestLike(path) {
				skip = true
				break
			}
			rule := ctx.RuleFor(ID, path)
			if !rule.Enabled {
				skip = true
				break
			}
			members = append(members, path)
		}
		if skip || len(members) < 2 {
			continue
		}

		smells = append(smells, buildClusterSmell(ctx.Graph, scc, members))
	}

	sort.Slice(smells, func(i, j int) bool {
		return strings.Join(smells[i].Files, ",") < strings.Join(smells[j].Files, ",")
	})
	return smells
}

func buildClusterSmell(g *depgraph.Graph, scc []depgraph.NodeID, members []string) archmodel.ArchSmell {
	sort.Strings(members)
	inSCC := make(map[depgraph.NodeID]struct{}, len(scc))
	for _, n := range scc {
		inSCC[n] = struct{}{}
	}

	hotspots := make([]archmodel.HotspotInfo, 0, len(scc))
	var internalEdges []archmodel.LocationDetail
	type edgeScore struct {
		from, to depgraph.NodeID
		score    int
	}
	var candidateEdges []edgeScore

	for _, n := range scc {
		path, _ := g.FilePath(n)
		inDeg, outDeg := 0, 0
		for _, dep := range g.Dependents(n) {
			if _, ok := inSCC[dep]; ok {
				inDeg++
			}
		}
		for _, dep := range g.Dependencies(n) {
			if _, ok := inSCC[dep]; ok {
				outDeg++

				toPath, _ := g.FilePath(dep)
				data, _ := g.EdgeData(n, dep)
				desc := fmt.Sprintf("imports from %q (%s)", toPath, strings.Join(data.ImportedSymbols, ", "))
				internalEdges = append(internalEdges, archmodel.LocationDetail{
					File: path, Line: data.ImportLine, Range: data.ImportRange, HasRange: data.HasRange,
					Description: desc,
				})

				score := g.FanIn(n) + g.FanOut(n) + g.FanIn(dep) + g.FanOut(dep)
				candidateEdges = append(candidateEdges, edgeScore{from: n, to: dep, score: score})
			}
		}
		hotspots = append(hotspots, archmodel.HotspotInfo{File: path, InDegree: inDeg, OutDegree: outDeg})
	}

	sort.Slice(hotspots, func(i, j int) bool {
		return hotspots[i].InDegree+hotspots[i].OutDegree > hotspots[j].InDegree+hotspots[j].OutDegree
	})
	sort.Slice(internalEdges, func(i, j int) bool {
		if internalEdges[i].File != internalEdges[j].File {
			return internalEdges[i].File < internalEdges[j].File
		}
		return internalEdges[i].Line < internalEdges[j].Line
	})

	sort.Slice(candidateEdges, func(i, j int) bool { return candidateEdges[i].score > candidateEdges[j].score })
	if len(candidateEdges) > 5 {
		candidateEdges = candidateEdges[:5]
	}
	criticalEdges := make([]archmodel.CriticalEdge, 0, len(candidateEdges))
	for _, e := range candidateEdges {
		fromPath, _ := g.FilePath(e.from)
		toPath, _ := g.FilePath(e.to)
		data, _ := g.EdgeData(e.from, e.to)
		impact := "Low centrality"
		switch {
		case e.score > 50:
			impact = "High centrality"
		case e.score > 20:
			impact = "Medium centrality"
		}
		criticalEdges = append(criticalEdges, archmodel.CriticalEdge{
			From: fromPath, To: toPath, Line: data.ImportLine, Range: data.ImportRange, HasRange: data.HasRange,
			Impact: impact,
		})
	}

	return archmodel.ArchSmell{
		Type:     archmodel.SmellCyclicDependencyCluster,
		Severity: sizeSeverity(len(members)),
		Files:    members,
		Metrics:  []archmodel.Metric{{Name: "sccSize", Value: float64(len(members))}},
		Cluster: &archmodel.CycleCluster{
			Files: members, Hotspots: hotspots, CriticalEdges: criticalEdges, InternalEdges: internalEdges,
		},
	}
}

func sizeSeverity(n int) archmodel.Severity {
	switch {
	case n <= 5:
		return archmodel.SeverityLow
	case n <= 15:
		return archmodel.SeverityMedium
	case n <= 30:
		return archmodel.SeverityHigh
	default:
		return archmodel.SeverityCritical
	}
}

// tarjanSCCs returns every strongly connected component of g, in the order
// Tarjan's algorithm discovers them (reverse topological order), as a
// slice of node-id slices.
func tarjanSCCs(g *depgraph.Graph) [][]depgraph.NodeID {
	nodes := g.Nodes()
	sort.Slice(nodes, func(i, j int) bool { return nodes[i] < nodes[j] })

	index := 0
	indices := make(map[depgraph.NodeID]int)
	lowlink := make(map[depgraph.NodeID]int)
	onStack := make(map[depgraph.NodeID]bool)
	var stack []depgraph.NodeID
	var sccs [][]depgraph.NodeID

	var strongconnect func(v depgraph.NodeID)
	strongconnect = func(v depgraph.NodeID) {
		indices[v] = index
		lowlink[v] = index
		index++
		stack = append(stack, v)
		onStack[v] = true

		deps := g.Dependencies(v)
		sort.Slice(deps, func(i, j int) bool { return deps[i] < deps[j] })
		for _, w := range deps {
			if _, seen := indices[w]; !seen {
				strongconnect(w)
				if lowlink[w] < lowlink[v] {
					lowlink[v] = lowlink[w]
				}
			} else if onStack[w] {
				if indices[w] < lowlink[v] {
					lowlink[v] = indices[w]
				}
			}
		}

		if lowlink[v] == indices[v] {
			var scc []depgraph.NodeID
			for {
				n := len(stack) - 1
				w := stack[n]
				stack = stack[:n]
				onStack[w] = false
				scc = append(scc, w)
				if w == v {
					break
				}
			}
			sccs = append(sccs, scc)
		}
	}

	for _, v := range nodes {
		if _, seen := indices[v]; !seen {
			strongconnect(v)
		}
	}
	return sccs
}
