package depgraph

import "testing"

func TestAddFile_Idempotent(t *testing.T) {
	g := New()
	n1 := g.AddFile("src/a.ts")
	n2 := g.AddFile("src/a.ts")

	if n1 != n2 {
		t.Fatalf("expected same node id, got %v and %v", n1, n2)
	}
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount = %d, want 1", g.NodeCount())
	}
}

func TestAddDependency_FanInOut(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.ts")
	b := g.AddFile("src/b.ts")

	g.AddDependency(a, b, EdgeData{ImportLine: 10, ImportedSymbols: []string{"foo"}})

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	if g.FanOut(a) != 1 || g.FanIn(b) != 1 {
		t.Fatalf("fan out/in wrong: out=%d in=%d", g.FanOut(a), g.FanIn(b))
	}

	data, ok := g.EdgeData(a, b)
	if !ok || len(data.ImportedSymbols) != 1 || data.ImportedSymbols[0] != "foo" {
		t.Fatalf("unexpected edge data: %+v ok=%v", data, ok)
	}
}

func TestAddDependency_MergesSymbolsPreservingFirstOccurrence(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.ts")
	b := g.AddFile("src/b.ts")

	g.AddDependency(a, b, EdgeData{ImportLine: 10, ImportedSymbols: []string{"foo"}})
	g.AddDependency(a, b, EdgeData{ImportLine: 20, ImportedSymbols: []string{"foo", "bar"}})

	if g.EdgeCount() != 1 {
		t.Fatalf("EdgeCount = %d, want 1", g.EdgeCount())
	}
	data, _ := g.EdgeData(a, b)
	want := []string{"foo", "bar"}
	if len(data.ImportedSymbols) != len(want) {
		t.Fatalf("ImportedSymbols = %v, want %v", data.ImportedSymbols, want)
	}
	for i, s := range want {
		if data.ImportedSymbols[i] != s {
			t.Fatalf("ImportedSymbols = %v, want %v", data.ImportedSymbols, want)
		}
	}
}

func TestRemoveFile_RebuildsIndex(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.ts")
	b := g.AddFile("src/b.ts")
	g.AddDependency(a, b, EdgeData{ImportLine: 1})

	g.RemoveFile("src/a.ts")

	if _, ok := g.Node("src/a.ts"); ok {
		t.Fatalf("expected src/a.ts to be gone")
	}
	if g.NodeCount() != 1 {
		t.Fatalf("NodeCount = %d, want 1", g.NodeCount())
	}
	if g.EdgeCount() != 0 {
		t.Fatalf("EdgeCount = %d, want 0", g.EdgeCount())
	}
	if g.FanIn(b) != 0 {
		t.Fatalf("FanIn(b) = %d, want 0", g.FanIn(b))
	}
}

func TestRemoveOutgoing(t *testing.T) {
	g := New()
	a := g.AddFile("src/a.ts")
	b := g.AddFile("src/b.ts")
	c := g.AddFile("src/c.ts")
	g.AddDependency(a, b, EdgeData{})
	g.AddDependency(a, c, EdgeData{})

	g.RemoveOutgoing(a)

	if g.FanOut(a) != 0 {
		t.Fatalf("FanOut(a) = %d, want 0", g.FanOut(a))
	}
	if g.EdgeCount() != 0 {
		t.Fatalf("EdgeCount = %d, want 0", g.EdgeCount())
	}
}
