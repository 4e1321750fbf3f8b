// Package archmodel holds the data model shared by every stage of the
// analysis pipeline: parsed symbols, complexity metrics, and the smell
// shapes detectors emit. Nothing in this package depends on the parser,
// the graph, or any detector — it is the vocabulary they all speak.
package archmodel

import (
	"encoding/json"
	"fmt"
)

// Range is a half-open source span expressed in 1-based line/column pairs,
// the same convention the tree-sitter point type uses.
type Range struct {
	StartLine int
	StartCol  int
	EndLine   int
	EndCol    int
}

// ExportKind classifies a top-level export.
type ExportKind string

const (
	ExportFunction  ExportKind = "function"
	ExportClass     ExportKind = "class"
	ExportVariable  ExportKind = "variable"
	ExportType      ExportKind = "type"
	ExportInterface ExportKind = "interface"
	ExportEnum      ExportKind = "enum"
	ExportUnknown   ExportKind = "unknown"
)

// Accessibility mirrors a TypeScript class member modifier.
type Accessibility string

const (
	AccessibilityNone      Accessibility = ""
	AccessibilityPublic    Accessibility = "public"
	AccessibilityProtected Accessibility = "protected"
	AccessibilityPrivate   Accessibility = "private"
)

// ImportedSymbol is one specifier of an import (or require/dynamic-import)
// statement.
type ImportedSymbol struct {
	Name        string // "*" for namespace/side-effect, "default" for the default slot
	Alias       string
	Source      string // raw specifier as written; resolved to an absolute path post-graph
	Line        int
	Col         int
	Range       Range
	IsTypeOnly  bool
	IsReexport  bool
	IsDynamic   bool
}

// ExportedSymbol is one top-level export.
type ExportedSymbol struct {
	Name        string
	Kind        ExportKind
	IsReexport  bool
	Source      string // non-empty for `export { x } from './y'` / `export * from './y'`
	Line        int
	Col         int
	Range       Range
	IsMutable   bool
	IsDefault   bool
	IsTypeOnly  bool
	// UsedSymbols holds identifiers referenced inside this export's
	// declaration body; it stays empty when one declaration exports several
	// names (`export const a = 1, b = 2`).
	UsedSymbols []string
}

// MethodSymbol is one method (or accessor) of a class.
type MethodSymbol struct {
	Name          string
	Accessibility Accessibility
	HasDecorators bool
	IsAccessor    bool
	IsAbstract    bool
	UsedFields    []string
	UsedMethods   []string
	Range         Range
}

// ClassSymbol is one class declaration.
type ClassSymbol struct {
	Name        string
	SuperClass  string // empty if none
	Implements  []string
	Fields      []string
	Methods     []MethodSymbol
	IsAbstract  bool
	Range       Range
}

// FileSymbols is everything the visitor (C2) extracts from one source file.
type FileSymbols struct {
	Imports         []ImportedSymbol
	Exports         []ExportedSymbol
	Classes         []ClassSymbol
	LocalDefs       []string
	LocalUsages     map[string]struct{}
	EnvVars         map[string]struct{}
	HasRuntimeCode  bool
	LinesCount      int
}

// NewFileSymbols returns a FileSymbols with initialized maps.
func NewFileSymbols() *FileSymbols {
	return &FileSymbols{
		LocalUsages: make(map[string]struct{}),
		EnvVars:     make(map[string]struct{}),
	}
}

// Token is one normalized token of the clone-detector's token stream
// a structural marker, a normalized identifier/literal placeholder,
// or (in Exact mode) the literal source text.
type Token struct {
	Normalized string
	Line       int
	Col        int
	EndLine    int
	EndCol     int
	Seq        int
}

// FunctionComplexity is the per-function complexity result of C3.
type FunctionComplexity struct {
	Name             string
	Line             int
	Range            Range
	Cyclomatic       int
	Cognitive        int
	MaxDepth         int
	ParamCount       int
	PrimitiveParams  int
	IsConstructor    bool
}

// Severity ranks a smell's importance. Order matters: it is used directly
// for comparisons ("severity rank rose").
type Severity int

const (
	SeverityLow Severity = iota
	SeverityMedium
	SeverityHigh
	SeverityCritical
)

func (s Severity) String() string {
	switch s {
	case SeverityLow:
		return "low"
	case SeverityMedium:
		return "medium"
	case SeverityHigh:
		return "high"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// MarshalJSON renders a Severity as its lowercase wire form ("high"),
// not the underlying int, so snapshots stay readable and stable across
// a future reordering of the Severity constants.
func (s Severity) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

// UnmarshalJSON parses a Severity from its lowercase wire form.
func (s *Severity) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	sev, ok := ParseSeverity(str)
	if !ok {
		return fmt.Errorf("unknown severity %q", str)
	}
	*s = sev
	return nil
}

// ParseSeverity parses the lowercase wire form back into a Severity.
func ParseSeverity(s string) (Severity, bool) {
	switch s {
	case "low":
		return SeverityLow, true
	case "medium":
		return SeverityMedium, true
	case "high":
		return SeverityHigh, true
	case "critical":
		return SeverityCritical, true
	default:
		return SeverityLow, false
	}
}

// SmellType discriminates the kind of architectural defect a smell reports.
type SmellType string

const (
	SmellCyclicDependencyCluster SmellType = "cyclic_dependency_cluster"
	SmellDeadCode                SmellType = "dead_code"
	SmellDeadSymbol              SmellType = "dead_symbol"
	SmellCodeClone               SmellType = "code_clone"
	SmellGodModule               SmellType = "god_module"
	SmellOrphanModule            SmellType = "orphan_module"
	SmellShotgunSurgery          SmellType = "shotgun_surgery"
	SmellHubLikeDependency       SmellType = "hub_like_dependency"
	SmellHighComplexity          SmellType = "high_complexity"
	SmellDeepNesting             SmellType = "deep_nesting"
	SmellLongParameterList       SmellType = "long_parameter_list"
	SmellPrimitiveObsession      SmellType = "primitive_obsession"
	SmellLayerViolation          SmellType = "layer_violation"
)

// LocationDetail pins one diagnostic to a concrete source position.
type LocationDetail struct {
	File        string
	Line        int
	Column      int
	HasColumn   bool
	Range       Range
	HasRange    bool
	Description string
}

// HotspotInfo reports a cluster member's intra-cluster connectivity.
type HotspotInfo struct {
	File     string
	InDegree int
	OutDegree int
}

// CriticalEdge is a high-centrality edge inside a cycle cluster.
type CriticalEdge struct {
	From   string
	To     string
	Line   int
	Range  Range
	HasRange bool
	Impact string // "High centrality" | "Medium centrality" | "Low centrality"
}

// CycleCluster is the detailed shape attached to a CyclicDependencyCluster
// smell.
type CycleCluster struct {
	Files         []string
	Hotspots      []HotspotInfo
	CriticalEdges []CriticalEdge
	InternalEdges []LocationDetail
}

// Metric is one named numeric measurement attached to a smell, used by the
// diff subsystem's metric-worsening comparisons.
type Metric struct {
	Name  string
	Value float64
}

// ArchSmell is one detected architectural defect.
type ArchSmell struct {
	Type      SmellType
	Severity  Severity
	Files     []string
	Metrics   []Metric
	Locations []LocationDetail
	Cluster   *CycleCluster

	// SymbolName, when set, names the specific symbol/method this smell is
	// about (dead symbol, long parameter list, ...). Used by canonical ID
	// derivation and by the fuzzy diff matcher.
	SymbolName string
}

// MetricValue looks up a metric by name.
func (s *ArchSmell) MetricValue(name string) (float64, bool) {
	for _, m := range s.Metrics {
		if m.Name == name {
			return m.Value, true
		}
	}
	return 0, false
}
