package diff

import "github.com/archlinter/archlint/internal/snapshot"

// Explanation is the human-readable write-up attached to a smell: what it
// is, why it matters, and what to do about it. Grounded on the original
// explain.rs's static per-SmellType table.
type Explanation struct {
	Problem         string   `json:"problem"`
	Reason          string   `json:"reason"`
	Risks           []string `json:"risks"`
	Recommendations []string `json:"recommendations"`
}

type explainEntry struct {
	problem         string
	reason          string
	risks           []string
	recommendations []string
}

var explainTable = map[string]explainEntry{
	"cyclic_dependency_cluster": {
		problem: "Circular Dependency",
		reason:  "A group of files import each other in a cycle, so none of them can be understood, tested, or loaded independently of the rest of the cluster.",
		risks:   []string{"Hard to reason about load order", "Tests can't isolate one file", "Refactoring one file risks breaking the whole cluster"},
		recommendations: []string{
			"Extract the shared interface both sides depend on into a separate module",
			"Invert one of the edges so the dependency only flows one way",
		},
	},
	"dead_code": {
		problem:         "Dead Code",
		reason:          "This file has no importers and isn't reachable from any configured entry point.",
		risks:           []string{"Increases bundle size for no benefit", "Misleads readers into thinking it's used"},
		recommendations: []string{"Delete the file", "If it's a planned entry point, add it to entry_points"},
	},
	"dead_symbol": {
		problem:         "Dead Symbol",
		reason:          "This exported symbol has no importers and no local usage.",
		risks:           []string{"Increases bundle size for no benefit", "Misleads readers into thinking it's used"},
		recommendations: []string{"Remove the export", "If it's part of a public API, document why it's kept"},
	},
	"code_clone": {
		problem:         "Code Clone",
		reason:          "This block of tokens is near-duplicated elsewhere in the codebase.",
		risks:           []string{"Bug fixes applied to one copy are easy to forget in the other", "Behavior can silently drift between copies"},
		recommendations: []string{"Extract the shared logic into a function or module both sites call"},
	},
	"god_module": {
		problem:         "God Module",
		reason:          "This file exports far more symbols than a focused module should, suggesting it has taken on too many responsibilities.",
		risks:           []string{"Changes to unrelated features collide in the same file", "Hard to review, hard to test in isolation"},
		recommendations: []string{"Split by responsibility into smaller, cohesive modules"},
	},
	"orphan_module": {
		problem:         "Orphan Module",
		reason:          "This file has no incoming or outgoing dependencies inside the project.",
		risks:           []string{"Likely leftover or misconfigured", "May indicate a broken import path elsewhere"},
		recommendations: []string{"Confirm it's still needed and wire it in, or remove it"},
	},
	"shotgun_surgery": {
		problem:         "Shotgun Surgery",
		reason:          "Changes to this module's dependents tend to require touching many files at once.",
		risks:           []string{"Every small change ripples across the codebase", "Increases the chance of missing one of the call sites"},
		recommendations: []string{"Consolidate the duplicated call sites behind a single abstraction"},
	},
	"hub_like_dependency": {
		problem:         "Hub-Like Dependency",
		reason:          "This module has unusually high fan-in and fan-out at once, acting as a de facto hub the rest of the codebase routes through.",
		risks:           []string{"Becomes a bottleneck for review and testing", "Any change here has a wide blast radius"},
		recommendations: []string{"Split the hub into narrower modules aligned with its distinct responsibilities"},
	},
	"high_complexity": {
		problem:         "High Complexity",
		reason:          "This function's cyclomatic or cognitive complexity is high enough to make it hard to reason about every path through it.",
		risks:           []string{"Easy to introduce an untested branch", "Hard to review confidently"},
		recommendations: []string{"Extract guard clauses and branches into named helper functions"},
	},
	"deep_nesting": {
		problem:         "Deep Nesting",
		reason:          "This function nests control structures deeply enough that following the logic requires tracking many levels of indentation.",
		risks:           []string{"Hard to scan visually", "Easy to misplace a closing brace's matching condition"},
		recommendations: []string{"Use guard clauses / early returns to flatten the nesting"},
	},
	"long_parameter_list": {
		problem:         "Long Parameter List",
		reason:          "This function takes more parameters than can be easily kept straight at a call site.",
		risks:           []string{"Call sites are error-prone to read and write", "Easy to pass arguments in the wrong order"},
		recommendations: []string{"Group related parameters into an options object"},
	},
	"primitive_obsession": {
		problem:         "Primitive Obsession",
		reason:          "This function takes many same-typed primitive parameters instead of a small domain type.",
		risks:           []string{"Callers can pass values in the wrong order and the compiler won't notice", "The domain concept has no single place to validate or document it"},
		recommendations: []string{"Introduce a small type or object that groups the related primitives"},
	},
	"layer_violation": {
		problem:         "Layer Violation",
		reason:          "This module imports from a layer that the configured architecture says it shouldn't reach.",
		risks:           []string{"Erodes the layering the architecture was designed around", "Makes it harder to swap out or test the violated layer independently"},
		recommendations: []string{"Route the dependency through the layer that's allowed to bridge the two"},
	},
}

// Explain looks up s's write-up by smell type, falling back to a generic
// explanation for any type not in the table.
func Explain(s snapshot.Smell) Explanation {
	e, ok := explainTable[string(s.Type)]
	if !ok {
		e = explainEntry{
			problem:         string(s.Type),
			reason:          "This detector flagged an architectural concern.",
			risks:           []string{"Increased maintenance cost"},
			recommendations: []string{"Review the flagged location and refactor as appropriate"},
		}
	}
	return Explanation{Problem: e.problem, Reason: e.reason, Risks: e.risks, Recommendations: e.recommendations}
}
