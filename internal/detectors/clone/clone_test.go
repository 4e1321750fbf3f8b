package clone

import (
	"testing"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
)

// makeTokens builds a synthetic token stream of n tokens spread one per
// line, matching the "identical token count at identical line count"
// shape of a minimal clone scenario.
func makeTokens(n int) []archmodel.Token {
	toks := make([]archmodel.Token, n)
	for i := 0; i < n; i++ {
		toks[i] = archmodel.Token{
			Normalized: "$ID", Line: i + 1, Col: 1, EndLine: i + 1, EndCol: 5, Seq: i,
		}
	}
	return toks
}

func TestDetect_IdenticalFunctionAcrossFiles(t *testing.T) {
	tokens := makeTokens(60)

	ctx := &anctx.Context{
		Files: map[string]*anctx.FileInfo{
			"a.ts": {Path: "a.ts", Tokens: tokens},
			"b.ts": {Path: "b.ts", Tokens: append([]archmodel.Token(nil), tokens...)},
		},
		Rules: map[string]map[string]anctx.ResolvedRule{ID: {}},
	}

	det := &Detector{}
	smells := det.Detect(ctx)

	if len(smells) != 1 {
		t.Fatalf("got %d smells, want 1: %+v", len(smells), smells)
	}
	s := smells[0]
	if s.Type != archmodel.SmellCodeClone {
		t.Fatalf("type = %v", s.Type)
	}
	if len(s.Files) != 2 {
		t.Fatalf("files = %v, want 2 occurrences", s.Files)
	}
	tc, _ := s.MetricValue("tokenCount")
	if tc < 60 {
		t.Fatalf("tokenCount = %v, want >= 60", tc)
	}
}

func TestDetect_BelowMinTokensIgnored(t *testing.T) {
	tokens := makeTokens(10)
	ctx := &anctx.Context{
		Files: map[string]*anctx.FileInfo{
			"a.ts": {Path: "a.ts", Tokens: tokens},
			"b.ts": {Path: "b.ts", Tokens: append([]archmodel.Token(nil), tokens...)},
		},
		Rules: map[string]map[string]anctx.ResolvedRule{ID: {}},
	}

	det := &Detector{}
	smells := det.Detect(ctx)
	if len(smells) != 0 {
		t.Fatalf("got %d smells, want 0 (below min_tokens)", len(smells))
	}
}
