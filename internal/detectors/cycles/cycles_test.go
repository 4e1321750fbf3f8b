package cycles

import (
	"testing"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/depgraph"
)

func buildCtx(g *depgraph.Graph) *anctx.Context {
	files := make(map[string]*anctx.FileInfo)
	for _, n := range g.Nodes() {
		p, _ := g.FilePath(n)
		files[p] = &anctx.FileInfo{Path: p}
	}
	return &anctx.Context{
		Graph: g,
		Files: files,
		Rules: map[string]map[string]anctx.ResolvedRule{
			ID: {},
		},
	}
}

// a.ts <-> b.ts forms a two-file cycle.
func TestDetect_TwoFileCycle(t *testing.T) {
	g := depgraph.New()
	a := g.AddFile("a.ts")
	b := g.AddFile("b.ts")
	g.AddDependency(a, b, depgraph.EdgeData{ImportLine: 1, ImportedSymbols: []string{"b"}})
	g.AddDependency(b, a, depgraph.EdgeData{ImportLine: 1, ImportedSymbols: []string{"a"}})

	ctx := buildCtx(g)
	det := &Detector{}
	smells := det.Detect(ctx)

	if len(smells) != 1 {
		t.Fatalf("got %d smells, want 1", len(smells))
	}
	s := smells[0]
	if s.Type != archmodel.SmellCyclicDependencyCluster {
		t.Fatalf("type = %v", s.Type)
	}
	if len(s.Files) != 2 || s.Files[0] != "a.ts" || s.Files[1] != "b.ts" {
		t.Fatalf("files = %v", s.Files)
	}
	if s.Severity != archmodel.SeverityLow {
		t.Fatalf("severity = %v, want Low", s.Severity)
	}
	if len(s.Cluster.Hotspots) != 2 {
		t.Fatalf("hotspots = %v", s.Cluster.Hotspots)
	}
	for _, h := range s.Cluster.Hotspots {
		if h.InDegree != 1 || h.OutDegree != 1 {
			t.Errorf("hotspot %+v, want in=1 out=1", h)
		}
	}
	if len(s.Cluster.InternalEdges) != 2 {
		t.Fatalf("internal edges = %d, want 2", len(s.Cluster.InternalEdges))
	}
}

func TestDetect_NoCycleNoSmell(t *testing.T) {
	g := depgraph.New()
	a := g.AddFile("a.ts")
	b := g.AddFile("b.ts")
	g.AddDependency(a, b, depgraph.EdgeData{ImportLine: 1})

	ctx := buildCtx(g)
	det := &Detector{}
	smells := det.Detect(ctx)
	if len(smells) != 0 {
		t.Fatalf("got %d smells, want 0", len(smells))
	}
}

func TestDetect_SkipsTestLikeMembers(t *testing.T) {
	g := depgraph.New()
	a := g.AddFile("src/__tests__/a.test.ts")
	b := g.AddFile("src/b.ts")
	g.AddDependency(a, b, depgraph.EdgeData{ImportLine: 1})
	g.AddDependency(b, a, depgraph.EdgeData{ImportLine: 1})

	ctx := buildCtx(g)
	det := &Detector{}
	smells := det.Detect(ctx)
	if len(smells) != 0 {
		t.Fatalf("got %d smells, want 0 (test-like member should suppress)", len(smells))
	}
}
