// Package deadcode implements the dead-code / dead-symbol detector
// (C8-dead): cross-module reachability over the dependency graph, with
// re-export and inheritance closure. Grounded on the
// original Rust DeadCodeDetector's symbol_imports/reexport_map precomputed
// indices.
package deadcode

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/detect"
)

const ID = "dead-code"

func init() {
	detect.Register(detect.Info{
		ID: ID, Name: "Dead code", DefaultEnabled: true, IsDeep: true,
		Category: detect.CategoryGlobal,
	}, func(opts map[string]string) detect.Detector { return &Detector{} })
}

type Detector struct{}

func (d *Detector) Info() detect.Info {
	return detect.Info{ID: ID, Name: "Dead code", DefaultEnabled: true, IsDeep: true, Category: detect.CategoryGlobal}
}

var entryPointPatterns = []string{
	"**/index.ts", "**/index.js", "**/main.*", "**/app.*",
	"**/*.module.*", "**/*.controller.*", "**/*.config.*", "**/__tests__/**",
}

func isEntryPoint(path string) bool {
	base := filepath.Base(path)
	for _, pat := range entryPointPatterns {
		if ok, _ := doublestar.Match(pat, path); ok {
			return true
		}
		if b := filepath.Base(pat); b != "**" {
			if ok, _ := doublestar.Match(b, base); ok {
				return true
			}
		}
	}
	return false
}

// index bundles the two precomputed maps this pass needs.
type index struct {
	// symbolImports[(module, name)] = set of importer paths.
	symbolImports map[string]map[string]struct{}
	// reexportMap[module] = set of files that re-export from module.
	reexportMap map[string]map[string]struct{}
	// wholeImporters[module] = set of files importing it as a whole (default or namespace import).
	wholeImporters map[string]map[string]struct{}
}

func key(module, name string) string { return module + "\x00" + name }

func buildIndex(ctx *anctx.Context) *index {
	idx := &index{
		symbolImports:  make(map[string]map[string]struct{}),
		reexportMap:    make(map[string]map[string]struct{}),
		wholeImporters: make(map[string]map[string]struct{}),
	}

	addSymbolImporter := func(module, name, importer string) {
		k := key(module, name)
		if idx.symbolImports[k] == nil {
			idx.symbolImports[k] = make(map[string]struct{})
		}
		idx.symbolImports[k][importer] = struct{}{}
	}
	addReexporter := func(module, reexporter string) {
		if idx.reexportMap[module] == nil {
			idx.reexportMap[module] = make(map[string]struct{})
		}
		idx.reexportMap[module][reexporter] = struct{}{}
	}
	addWholeImporter := func(module, importer string) {
		if idx.wholeImporters[module] == nil {
			idx.wholeImporters[module] = make(map[string]struct{})
		}
		idx.wholeImporters[module][importer] = struct{}{}
	}

	for _, path := range ctx.SortedPaths() {
		fi := ctx.Files[path]
		if fi == nil || fi.Symbols == nil {
			continue
		}
		for _, imp := range fi.Symbols.Imports {
			module := imp.Source
			if module == "" {
				continue
			}
			if imp.IsReexport {
				addReexporter(module, path)
				continue
			}
			switch imp.Name {
			case "*", "default":
				addWholeImporter(module, path)
			default:
				addSymbolImporter(module, imp.Name, path)
			}
		}
	}
	return idx
}

// reexportReachable reports whether module is, transitively through the
// re-export map, imported by something that is itself reachable (an entry
// point or directly imported elsewhere).
func (idx *index) reexportReachable(module string, directlyImported map[string]bool, visited map[string]bool) bool {
	if visited[module] {
		return false
	}
	visited[module] = true
	for reexporter := range idx.reexportMap[module] {
		if isEntryPoint(reexporter) || directlyImported[reexporter] {
			return true
		}
		if idx.reexportReachable(reexporter, directlyImported, visited) {
			return true
		}
	}
	return false
}

func (d *Detector) Detect(ctx *anctx.Context) []archmodel.ArchSmell {
	idx := buildIndex(ctx)

	directlyImported := make(map[string]bool)
	for m := range idx.wholeImporters {
		directlyImported[m] = true
	}
	for k := range idx.symbolImports {
		parts := strings.SplitN(k, "\x00", 2)
		directlyImported[parts[0]] = true
	}

	var smells []archmodel.ArchSmell

	for _, path := range ctx.SortedPaths() {
		rule := ctx.RuleFor(ID, path)
		if !rule.Enabled {
			continue
		}
		fi := ctx.Files[path]
		if fi == nil || fi.Symbols == nil {
			continue
		}

		if isFileDead(path, fi, idx, directlyImported, ctx) {
			smells = append(smells, archmodel.ArchSmell{
				Type: archmodel.SmellDeadCode, Severity: rule.Severity, Files: []string{path},
				Locations: []archmodel.LocationDetail{{File: path, Line: 1, Description: "file is never imported"}},
			})
			continue // a dead file's symbols are not separately reported as dead
		}

		smells = append(smells, deadSymbolsOf(path, fi, idx, ctx, rule.Severity)...)
	}

	sort.Slice(smells, func(i, j int) bool {
		return strings.Join(smells[i].Files, ",")+smells[i].SymbolName < strings.Join(smells[j].Files, ",")+smells[j].SymbolName
	})
	return smells
}

func isFileDead(path string, fi *anctx.FileInfo, idx *index, directlyImported map[string]bool, ctx *anctx.Context) bool {
	if isEntryPoint(path) {
		return false
	}
	for _, g := range ctx.DynamicLoadGlobs {
		if ok, _ := doublestar.Match(g, path); ok {
			return false
		}
	}

	for _, exp := range fi.Symbols.Exports {
		if len(idx.symbolImports[key(path, exp.Name)]) > 0 {
			return false
		}
	}
	if len(idx.wholeImporters[path]) > 0 {
		return false
	}
	if idx.reexportReachable(path, directlyImported, map[string]bool{}) {
		return false
	}

	for _, exp := range fi.Symbols.Exports {
		for _, other := range ctx.Files {
			if other.Path == path || other.Symbols == nil {
				continue
			}
			if _, used := other.Symbols.LocalUsages[exp.Name]; used {
				return false
			}
		}
	}

	return true
}

func deadSymbolsOf(path string, fi *anctx.FileInfo, idx *index, ctx *anctx.Context, sev archmodel.Severity) []archmodel.ArchSmell {
	var out []archmodel.ArchSmell

	usedAnywhere := func(name string) bool {
		for _, other := range ctx.Files {
			if other.Symbols == nil {
				continue
			}
			if _, ok := other.Symbols.LocalUsages[name]; ok {
				return true
			}
		}
		return false
	}

	exported := make(map[string]struct{}, len(fi.Symbols.Exports))
	for _, exp := range fi.Symbols.Exports {
		exported[exp.Name] = struct{}{}
	}

	for _, d := range fi.Symbols.LocalDefs {
		if _, isExported := exported[d]; isExported {
			continue
		}
		if usedAnywhere(d) {
			continue
		}
		out = append(out, archmodel.ArchSmell{
			Type: archmodel.SmellDeadSymbol, Severity: sev, Files: []string{path}, SymbolName: d,
			Locations: []archmodel.LocationDetail{{File: path, Description: "unused local definition"}},
		})
	}

	if !isEntryPoint(path) {
		for _, exp := range fi.Symbols.Exports {
			if len(idx.symbolImports[key(path, exp.Name)]) > 0 {
				continue
			}
			if len(idx.wholeImporters[path]) > 0 {
				continue
			}
			if usedAnywhere(exp.Name) {
				continue
			}
			out = append(out, archmodel.ArchSmell{
				Type: archmodel.SmellDeadSymbol, Severity: sev, Files: []string{path}, SymbolName: exp.Name,
				Locations: []archmodel.LocationDetail{{File: path, Line: exp.Line, Description: "unused export"}},
			})
		}
	}

	for _, cls := range fi.Symbols.Classes {
		out = append(out, deadMethodsOf(path, fi, cls, ctx, sev)...)
	}

	return out
}

var defaultIgnoreMethods = map[string]struct{}{"constructor": {}}

func deadMethodsOf(path string, fi *anctx.FileInfo, cls archmodel.ClassSymbol, ctx *anctx.Context, sev archmodel.Severity) []archmodel.ArchSmell {
	var out []archmodel.ArchSmell

	contractMethods := make(map[string]struct{})
	for _, iface := range cls.Implements {
		for _, m := range ctx.ContractMethods[iface] {
			contractMethods[m] = struct{}{}
		}
	}

	localReferences := func(name string) bool {
		for _, m := range cls.Methods {
			for _, used := range m.UsedMethods {
				if used == name {
					return true
				}
			}
		}
		return false
	}

	importersOfClass := func() map[string]struct{} {
		set := make(map[string]struct{})
		for other, ofi := range ctx.Files {
			if ofi.Symbols == nil {
				continue
			}
			for _, imp := range ofi.Symbols.Imports {
				if imp.Source == path && (imp.Name == cls.Name || imp.Name == "*") {
					set[other] = struct{}{}
				}
			}
		}
		return set
	}

	for _, m := range cls.Methods {
		if _, ignored := defaultIgnoreMethods[m.Name]; ignored {
			continue
		}
		if m.HasDecorators || m.IsAccessor {
			continue
		}
		if _, isContract := contractMethods[m.Name]; isContract {
			continue
		}

		if localReferences(m.Name) {
			continue
		}

		if m.Accessibility != archmodel.AccessibilityPrivate {
			importers := importersOfClass()
			referenced := false
			for importer := range importers {
				ofi := ctx.Files[importer]
				if ofi == nil {
					continue
				}
				if _, used := ofi.Symbols.LocalUsages[m.Name]; used {
					referenced = true
					break
				}
				if isEntryPoint(importer) {
					referenced = true
					break
				}
			}
			if referenced {
				continue
			}
		}

		out = append(out, archmodel.ArchSmell{
			Type: archmodel.SmellDeadSymbol, Severity: sev, Files: []string{path},
			SymbolName: cls.Name + "." + m.Name,
			Locations:  []archmodel.LocationDetail{{File: path, Description: "unused method"}},
		})
	}

	return out
}
