package snapshot

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archlinter/archlint/internal/archmodel"
)

func TestIDFor_SingleFileSmellIsStableAcrossRepeatedCalls(t *testing.T) {
	s := archmodel.ArchSmell{
		Type: archmodel.SmellHighComplexity, Files: []string{"src/foo.ts"},
		SymbolName: "doWork", Locations: []archmodel.LocationDetail{{File: "src/foo.ts", Line: 42}},
	}
	assert.Equal(t, IDFor(s), IDFor(s))
	assert.Equal(t, "cmplx:src/foo.ts:doWork:42", IDFor(s))
}

func TestIDFor_CycleUsesJoinedFileHashRegardlessOfOrder(t *testing.T) {
	a := archmodel.ArchSmell{Type: archmodel.SmellCyclicDependencyCluster, Files: []string{"a.ts", "b.ts"}}
	b := archmodel.ArchSmell{Type: archmodel.SmellCyclicDependencyCluster, Files: []string{"b.ts", "a.ts"}}
	assert.Equal(t, IDFor(a), IDFor(b))
}

func TestIDFor_DifferentLinesProduceDifferentIDs(t *testing.T) {
	s1 := archmodel.ArchSmell{Type: archmodel.SmellDeadSymbol, Files: []string{"a.ts"}, SymbolName: "x", Locations: []archmodel.LocationDetail{{Line: 1}}}
	s2 := archmodel.ArchSmell{Type: archmodel.SmellDeadSymbol, Files: []string{"a.ts"}, SymbolName: "x", Locations: []archmodel.LocationDetail{{Line: 2}}}
	assert.NotEqual(t, IDFor(s1), IDFor(s2))
}
