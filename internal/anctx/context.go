// Package anctx defines AnalysisContext (C6): the immutable, shared view
// of one scan that every detector runs against. Detectors receive a
// *Context by reference and must not mutate it (see the
// invocation contract); the engine (internal/engine) is the only writer.
package anctx

import (
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/depgraph"
)

// FileInfo bundles everything known about one retained file.
type FileInfo struct {
	Path        string
	Symbols     *archmodel.FileSymbols
	Complexity  []archmodel.FunctionComplexity
	Tokens      []archmodel.Token
	ContentHash uint64
	Churn       int
	HasChurn    bool
}

// ResolvedRule is the per-detector, per-file rule computed by the merge
// order (defaults → preset → user config → matching overrides).
type ResolvedRule struct {
	Enabled      bool
	Severity     archmodel.Severity
	ExcludeGlobs []string
	Options      map[string]string
}

// Context is the read-only view detectors operate over.
type Context struct {
	Graph *depgraph.Graph
	Files map[string]*FileInfo // keyed by module path

	EntryPoints       func(path string) bool
	TestLike          func(path string) bool
	DynamicLoadGlobs  []string
	ContractMethods   map[string][]string // interface name -> method names

	// Layers orders architectural layers outer-to-inner (e.g. ui, domain,
	// infra); LayerIndex looks up which layer a path belongs to.
	Layers []LayerDef

	// Rules holds the resolved rule for every (detectorID, file) pair the
	// engine computed ahead of time, so detectors never re-derive config
	// merge order themselves.
	Rules map[string]map[string]ResolvedRule // detectorID -> path -> rule

	// AffectedFiles is non-nil only for incremental runs; detectors must
	// restrict their output to smells that reference at least one of these
	// paths (the engine also does this as a final filter, but detectors
	// may use it to skip work early).
	AffectedFiles map[string]struct{}
}

// LayerDef names one architectural layer and the globs that identify its
// files.
type LayerDef struct {
	Name  string
	Globs []string
}

// SortedPaths returns every retained file path in sorted order, the
// iteration order every phase after parsing must use for determinism.
func (c *Context) SortedPaths() []string {
	paths := make([]string, 0, len(c.Files))
	for p := range c.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// RuleFor looks up the resolved rule for detectorID on path, defaulting to
// an enabled rule at Medium severity when no rule
// was computed (should not happen once the engine wires Rules, but keeps
// detectors panic-free on malformed input).
func (c *Context) RuleFor(detectorID, path string) ResolvedRule {
	if byPath, ok := c.Rules[detectorID]; ok {
		if r, ok := byPath[path]; ok {
			return r
		}
	}
	return ResolvedRule{Enabled: true, Severity: archmodel.SeverityMedium}
}

// IsAffected reports whether path is in the affected-file set. On a full
// scan (AffectedFiles == nil) everything is considered affected.
func (c *Context) IsAffected(path string) bool {
	if c.AffectedFiles == nil {
		return true
	}
	_, ok := c.AffectedFiles[path]
	return ok
}

// SmellAffected reports whether any of smell's files intersects the
// affected-file set.
func (c *Context) SmellAffected(files []string) bool {
	if c.AffectedFiles == nil {
		return true
	}
	for _, f := range files {
		if _, ok := c.AffectedFiles[f]; ok {
			return true
		}
	}
	return false
}

// LayerIndex returns the index of the first LayerDef whose glob matches
// path, and ok=false if no layer claims it (unlayered files never
// participate in layer-violation checks).
func (c *Context) LayerIndex(path string) (int, bool) {
	for i, l := range c.Layers {
		for _, g := range l.Globs {
			if ok, _ := doublestar.Match(g, path); ok {
				return i, true
			}
		}
	}
	return 0, false
}
