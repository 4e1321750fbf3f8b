package deadcode

import (
	"testing"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
)

func newFileInfo(path string) *anctx.FileInfo {
	return &anctx.FileInfo{Path: path, Symbols: archmodel.NewFileSymbols()}
}

func buildCtx(files map[string]*anctx.FileInfo) *anctx.Context {
	return &anctx.Context{
		Files: files,
		Rules: map[string]map[string]anctx.ResolvedRule{ID: {}},
	}
}

// a.ts has no importer and isn't an entry point -> dead.
func TestDetect_DeadFile(t *testing.T) {
	a := newFileInfo("a.ts")
	a.Symbols.Exports = []archmodel.ExportedSymbol{{Name: "a", Kind: archmodel.ExportVariable}}

	ctx := buildCtx(map[string]*anctx.FileInfo{"a.ts": a})
	det := &Detector{}
	smells := det.Detect(ctx)

	found := false
	for _, s := range smells {
		if s.Type == archmodel.SmellDeadCode && s.Files[0] == "a.ts" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a.ts to be reported dead, got %+v", smells)
	}
}

func TestDetect_NotDeadOnceImported(t *testing.T) {
	a := newFileInfo("a.ts")
	a.Symbols.Exports = []archmodel.ExportedSymbol{{Name: "a", Kind: archmodel.ExportVariable}}
	b := newFileInfo("b.ts")
	b.Symbols.Imports = []archmodel.ImportedSymbol{{Name: "a", Source: "a.ts"}}

	ctx := buildCtx(map[string]*anctx.FileInfo{"a.ts": a, "b.ts": b})
	det := &Detector{}
	smells := det.Detect(ctx)

	for _, s := range smells {
		if s.Type == archmodel.SmellDeadCode && s.Files[0] == "a.ts" {
			t.Fatalf("a.ts should not be dead once imported, got %+v", smells)
		}
	}
}

// svc.ts exports class S with used() and unused() methods;
// u.ts imports S and calls used(). Expect DeadSymbol for S.unused only.
func TestDetect_DeadMethod(t *testing.T) {
	svc := newFileInfo("svc.ts")
	svc.Symbols.Exports = []archmodel.ExportedSymbol{{Name: "S", Kind: archmodel.ExportClass}}
	svc.Symbols.Classes = []archmodel.ClassSymbol{
		{
			Name: "S",
			Methods: []archmodel.MethodSymbol{
				{Name: "used", Accessibility: archmodel.AccessibilityPublic},
				{Name: "unused", Accessibility: archmodel.AccessibilityPublic},
			},
		},
	}

	u := newFileInfo("u.ts")
	u.Symbols.Imports = []archmodel.ImportedSymbol{{Name: "S", Source: "svc.ts"}}
	u.Symbols.LocalUsages["used"] = struct{}{}
	u.Symbols.LocalUsages["S"] = struct{}{}

	ctx := buildCtx(map[string]*anctx.FileInfo{"svc.ts": svc, "u.ts": u})
	det := &Detector{}
	smells := det.Detect(ctx)

	var deadMethodNames []string
	for _, s := range smells {
		if s.Type == archmodel.SmellDeadSymbol && s.Files[0] == "svc.ts" {
			deadMethodNames = append(deadMethodNames, s.SymbolName)
		}
	}

	wantDead := "S.unused"
	foundUnused, foundUsed := false, false
	for _, n := range deadMethodNames {
		if n == wantDead {
			foundUnused = true
		}
		if n == "S.used" {
			foundUsed = true
		}
	}
	if !foundUnused {
		t.Fatalf("expected %s to be reported dead, got %v", wantDead, deadMethodNames)
	}
	if foundUsed {
		t.Fatalf("S.used should not be reported dead, got %v", deadMethodNames)
	}
}
