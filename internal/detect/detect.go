// Package detect is the detector registry and rule resolver (C7): every
// detector registers a constructor plus a metadata record at process
// init, and the registry resolves which detectors run and with what
// per-file rule. Grounded on a design note ("a set
// of constructors Fn(&Config) -> Detector with an accompanying metadata
// record... registration MAY be compile-time"); this module registers at
// compile time via each detector package's init().
package detect

import (
	"sort"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
)

// Category groups detectors by what state they need to run.
type Category string

const (
	CategoryFileLocal   Category = "file_local"
	CategoryImportBased Category = "import_based"
	CategoryGraphBased  Category = "graph_based"
	CategoryGlobal      Category = "global"
)

// Info is the metadata every detector declares.
type Info struct {
	ID             string
	Name           string
	Description    string
	DefaultEnabled bool
	IsDeep         bool
	Category       Category
}

// Detector is the polymorphic interface every rule implements.
type Detector interface {
	Info() Info
	Detect(ctx *anctx.Context) []archmodel.ArchSmell
}

// Constructor builds a Detector, optionally parameterized by resolved
// per-detector options (thresholds, ignore lists, ...).
type Constructor func(opts map[string]string) Detector

type registration struct {
	info Info
	ctor Constructor
}

var (
	registryMu sync.Mutex
	registry   []registration
)

// Register adds a detector constructor to the process-global registry.
// Called from each detector package's init().
func Register(info Info, ctor Constructor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = append(registry, registration{info: info, ctor: ctor})
}

// All returns every registered detector's metadata, sorted by id for
// deterministic listing (`archlint detectors`).
func All() []Info {
	registryMu.Lock()
	defer registryMu.Unlock()
	out := make([]Info, len(registry))
	for i, r := range registry {
		out[i] = r.info
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Build looks up id's constructor and builds a Detector with opts, or
// returns ok=false if no detector registered under that id.
func Build(id string, opts map[string]string) (Detector, bool) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, r := range registry {
		if r.info.ID == id {
			return r.ctor(opts), true
		}
	}
	return nil, false
}

// RuleConfig is one detector's entry from the merged config: preset,
// user config, or an override block.
type RuleConfig struct {
	Enabled      *bool
	Severity     *archmodel.Severity
	ExcludeGlobs []string
	Options      map[string]string
}

// Preset is a named bundle of rule adjustments.
type Preset struct {
	Name  string
	Rules map[string]RuleConfig // detector id -> adjustment
}

// Override applies Rules to every file matching any of Files (glob).
type Override struct {
	Files []string
	Rules map[string]RuleConfig
}

// SelectionInput is everything the selection algorithm needs.
type SelectionInput struct {
	ExplicitEnable []string // user supplied explicit enable list; nil/empty means "not supplied"
	Disabled       []string
	ActivePresets  []Preset
	AllDetectors   bool
}

// Select implements the four-step selection algorithm, returning the
// set of enabled detector ids.
func Select(in SelectionInput) map[string]bool {
	all := All()
	enabled := make(map[string]bool, len(all))

	if in.AllDetectors {
		for _, d := range all {
			enabled[d.ID] = true
		}
		return enabled
	}

	if len(in.ExplicitEnable) > 0 {
		set := toSet(in.ExplicitEnable)
		for _, d := range all {
			enabled[d.ID] = set[d.ID]
		}
		return enabled
	}

	disabled := toSet(in.Disabled)
	presetEnabled := make(map[string]bool)
	for _, p := range in.ActivePresets {
		for id, rc := range p.Rules {
			if rc.Enabled == nil || *rc.Enabled {
				presetEnabled[id] = true
			}
		}
	}

	for _, d := range all {
		on := d.DefaultEnabled || presetEnabled[d.ID]
		enabled[d.ID] = on && !disabled[d.ID]
	}
	return enabled
}

func toSet(ss []string) map[string]bool {
	m := make(map[string]bool, len(ss))
	for _, s := range ss {
		m[s] = true
	}
	return m
}

// ResolveRule implements the per-detector, per-file merge order:
// defaults -> framework preset rules -> user config rules -> matching
// overrides.
func ResolveRule(info Info, presets []Preset, userConfig RuleConfig, overrides []Override, file string) anctx.ResolvedRule {
	resolved := anctx.ResolvedRule{
		Enabled:  info.DefaultEnabled,
		Severity: archmodel.SeverityMedium,
		Options:  map[string]string{},
	}

	apply := func(rc RuleConfig) {
		if rc.Enabled != nil {
			resolved.Enabled = *rc.Enabled
		}
		if rc.Severity != nil {
			resolved.Severity = *rc.Severity
		}
		if len(rc.ExcludeGlobs) > 0 {
			resolved.ExcludeGlobs = rc.ExcludeGlobs
		}
		for k, v := range rc.Options {
			resolved.Options[k] = v
		}
	}

	for _, p := range presets {
		if rc, ok := p.Rules[info.ID]; ok {
			apply(rc)
		}
	}
	apply(userConfig)

	for _, o := range overrides {
		if rc, ok := o.Rules[info.ID]; !ok {
			continue
		} else if matchesAny(o.Files, file) {
			apply(rc)
		}
	}

	if matchesAny(resolved.ExcludeGlobs, file) {
		resolved.Enabled = false
	}

	return resolved
}

func matchesAny(globs []string, file string) bool {
	for _, g := range globs {
		if ok, _ := doublestar.Match(g, file); ok {
			return true
		}
	}
	return false
}
