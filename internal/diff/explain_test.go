package diff

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/snapshot"
)

func TestExplain_KnownTypeReturnsTableEntry(t *testing.T) {
	s := snapshot.Smell{Type: archmodel.SmellCyclicDependencyCluster}
	e := Explain(s)
	assert.Equal(t, "Circular Dependency", e.Problem)
	assert.NotEmpty(t, e.Risks)
	assert.NotEmpty(t, e.Recommendations)
}

func TestExplain_UnknownTypeFallsBackToGenericEntry(t *testing.T) {
	s := snapshot.Smell{Type: archmodel.SmellType("something_new")}
	e := Explain(s)
	assert.Equal(t, "something_new", e.Problem)
	assert.NotEmpty(t, e.Recommendations)
}
