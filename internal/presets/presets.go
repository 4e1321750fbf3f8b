// Package presets bundles the rule adjustments a known frontend/backend
// framework implies: which detectors to enable or disable by default,
// which file-path patterns count as entry points, which import sources
// are vendor code to ignore, and which lifecycle method names detectors
// should never flag as dead.
package presets

import "github.com/archlinter/archlint/internal/config"

// FileRule adjusts rule resolution for files matching Globs.
type FileRule struct {
	Globs         []string
	SkipDetectors []string
	IsEntryPoint  bool
}

// FrameworkPreset is one named bundle of rule adjustments.
type FrameworkPreset struct {
	Name               string
	EnabledDetectors   []string
	DisabledDetectors  []string
	FileRules          []FileRule
	VendorIgnore       []string
	IgnoreMethods      []string
}

var registry = map[string]*FrameworkPreset{
	"nestjs":  nestjsPreset(),
	"nextjs":  nextjsPreset(),
	"react":   reactPreset(),
	"oclif":   oclifPreset(),
}

// Get looks up a preset by its lowercase framework name.
func Get(framework string) (*FrameworkPreset, bool) {
	p, ok := registry[framework]
	return p, ok
}

// Names lists every known preset name, sorted for deterministic output.
func Names() []string {
	return []string{"nestjs", "nextjs", "oclif", "react"}
}

// ToConfig renders p as a config.Config fragment, suitable for merging
// into a user config via the same extends chain that merges named
// config presets.
func (p *FrameworkPreset) ToConfig() *config.Config {
	cfg := &config.Config{
		Ignore: append([]string(nil), p.VendorIgnore...),
		Rules:  map[string]config.RuleSpec{},
	}
	enabled := true
	disabled := false
	for _, id := range p.EnabledDetectors {
		cfg.Rules[id] = config.RuleSpec{Enabled: &enabled}
	}
	for _, id := range p.DisabledDetectors {
		cfg.Rules[id] = config.RuleSpec{Enabled: &disabled}
	}
	for _, fr := range p.FileRules {
		if fr.IsEntryPoint {
			cfg.EntryPoints = append(cfg.EntryPoints, fr.Globs...)
		}
		if len(fr.SkipDetectors) == 0 {
			continue
		}
		rules := map[string]config.RuleSpec{}
		for _, id := range fr.SkipDetectors {
			rules[id] = config.RuleSpec{Enabled: &disabled}
		}
		cfg.Overrides = append(cfg.Overrides, config.Override{Files: fr.Globs, Rules: rules})
	}
	return cfg
}

func nestjsPreset() *FrameworkPreset {
	return &FrameworkPreset{
		Name:              "NestJS",
		EnabledDetectors:  []string{"layer-violation"},
		DisabledDetectors: []string{"scattered-module"},
		FileRules: []FileRule{
			{Globs: []string{"**/*.controller.ts"}, SkipDetectors: []string{"lcom"}, IsEntryPoint: true},
			{Globs: []string{"**/*.module.ts"}, SkipDetectors: []string{"hub-like-dependency", "lcom", "scattered-module"}, IsEntryPoint: true},
			{Globs: []string{"**/*.entity.ts"}, SkipDetectors: []string{"cyclic-dependency", "lcom", "abstractness-violation"}},
			{Globs: []string{"**/*.dto.ts"}, SkipDetectors: []string{"abstractness-violation"}},
			{Globs: []string{"**/*.interface.ts"}, SkipDetectors: []string{"abstractness-violation"}},
			{Globs: []string{"**/*.config.ts"}, SkipDetectors: []string{"abstractness-violation"}},
			{Globs: []string{"**/*.guard.ts"}, SkipDetectors: []string{"lcom", "abstractness-violation"}},
			{Globs: []string{"**/*.pipe.ts"}, SkipDetectors: []string{"lcom", "abstractness-violation"}},
			{Globs: []string{"**/*.interceptor.ts"}, SkipDetectors: []string{"lcom", "abstractness-violation"}},
			{Globs: []string{"**/*.repository.ts"}, SkipDetectors: []string{"lcom", "hub-like-dependency"}},
		},
		VendorIgnore: []string{"@nestjs/*", "class-validator", "class-transformer", "typeorm", "@mikro-orm/*", "rxjs", "fastify", "@fastify/*", "reflect-metadata"},
		IgnoreMethods: []string{
			"onModuleInit", "onApplicationBootstrap", "onModuleDestroy", "beforeApplicationShutdown",
			"onApplicationShutdown", "intercept", "transform", "canActivate", "resolve", "validate",
		},
	}
}

func nextjsPreset() *FrameworkPreset {
	return &FrameworkPreset{
		Name:               "Next.js",
		DisabledDetectors:  []string{"layer-violation", "barrel-file-abuse"},
		FileRules: []FileRule{
			{Globs: []string{"**/pages/**/*.tsx", "**/app/**/page.tsx"}, SkipDetectors: []string{"lcom", "hub-like-dependency"}, IsEntryPoint: true},
			{Globs: []string{"**/pages/api/**/*.ts", "**/app/**/route.ts"}, SkipDetectors: []string{"lcom"}, IsEntryPoint: true},
		},
		VendorIgnore:  []string{"next/*"},
		IgnoreMethods: []string{"getServerSideProps", "getStaticProps", "getStaticPaths"},
	}
}

func reactPreset() *FrameworkPreset {
	return &FrameworkPreset{
		Name:               "React",
		DisabledDetectors:  []string{"lcom", "scattered-module", "layer-violation"},
		FileRules: []FileRule{
			{Globs: []string{"**/*.component.tsx", "**/components/**/*.tsx"}, SkipDetectors: []string{"abstractness-violation", "lcom"}},
			{Globs: []string{"**/use*.ts", "**/use*.tsx"}, SkipDetectors: []string{"lcom"}},
		},
		VendorIgnore: []string{"react/*"},
		IgnoreMethods: []string{
			"render", "componentDidMount", "componentDidUpdate", "componentWillUnmount", "shouldComponentUpdate",
		},
	}
}

func oclifPreset() *FrameworkPreset {
	return &FrameworkPreset{
		Name: "oclif",
		FileRules: []FileRule{
			{Globs: []string{"**/commands/**/*.ts"}, SkipDetectors: []string{"lcom", "abstractness-violation"}, IsEntryPoint: true},
			{Globs: []string{"**/hooks/**/*.ts"}, SkipDetectors: []string{"lcom"}, IsEntryPoint: true},
		},
		VendorIgnore:  []string{"@oclif/*"},
		IgnoreMethods: []string{"run", "init", "finally", "catch"},
	}
}
