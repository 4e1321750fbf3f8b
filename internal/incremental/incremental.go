// Package incremental holds the State a long-lived analyzer keeps
// across scans: the dependency graph, per-file symbols/metrics, and a
// reverse-dependency index, so that editing a handful of files only
// re-parses and re-resolves those files instead of the whole tree.
package incremental

import (
	"context"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/config"
	"github.com/archlinter/archlint/internal/depgraph"
	"github.com/archlinter/archlint/internal/detect"
	"github.com/archlinter/archlint/internal/resolver"
	"github.com/archlinter/archlint/internal/tsparse"
)

// State is the engine's persistent incremental-scan state, kept across
// calls so edits only touch the files they affect.
type State struct {
	Root       string
	Graph      *depgraph.Graph
	Files      map[string]*anctx.FileInfo
	ReverseDeps map[string]map[string]struct{} // target -> set of importers
	ConfigHash  uint64

	fileLocalCache map[string]map[string][]archmodel.ArchSmell // detectorID -> path -> cached smells
}

// New builds an empty State for a fresh analyzer instance.
func New(root string, configHash uint64) *State {
	return &State{
		Root:           root,
		Graph:          depgraph.New(),
		Files:          map[string]*anctx.FileInfo{},
		ReverseDeps:    map[string]map[string]struct{}{},
		ConfigHash:     configHash,
		fileLocalCache: map[string]map[string][]archmodel.ArchSmell{},
	}
}

// defaultParser is the default tsparse.Parser used to re-parse changed files;
// one instance is reused across Update calls since tsparse.Parser is
// safe for concurrent use.
var defaultParser = tsparse.New()

// Update applies update_files: for each changed path,
// drop its outgoing edges and reverse-dep entries, re-parse it from disk,
// and re-resolve its imports against the current file set. A config hash
// mismatch forces a full discard per step 1; the caller is responsible
// for re-running Scan over the whole tree in that case (Update returns
// ok=false without touching state).
func (s *State) Update(ctx context.Context, changed []string, currentConfigHash uint64, cfg *config.Config) (ok bool, err error) {
	return s.update(ctx, changed, currentConfigHash, cfg, nil)
}

// UpdateWithOverlay applies update_files_with_overlay: the same
// incremental re-parse and re-link as Update, except a path present in
// overlay is re-parsed from the in-memory source it maps to instead of
// being read from disk. This lets a caller (an editor's live-typing
// buffer, a language-server "didChange" notification) analyze unsaved
// edits without writing them to disk first; a changed path absent from
// overlay still falls back to a disk read, the same as Update.
func (s *State) UpdateWithOverlay(ctx context.Context, changed []string, currentConfigHash uint64, cfg *config.Config, overlay map[string][]byte) (ok bool, err error) {
	return s.update(ctx, changed, currentConfigHash, cfg, overlay)
}

func (s *State) update(ctx context.Context, changed []string, currentConfigHash uint64, cfg *config.Config, overlay map[string][]byte) (ok bool, err error) {
	if currentConfigHash != s.ConfigHash {
		return false, nil
	}

	for _, path := range changed {
		s.retract(path)

		content, readErr := readSource(path, overlay)
		if readErr != nil {
			delete(s.Files, path)
			continue
		}

		res, parseErr := defaultParser.Parse(path, content, tsparse.DefaultConfig())
		if parseErr != nil {
			delete(s.Files, path)
			continue
		}
		if !res.Symbols.HasRuntimeCode {
			delete(s.Files, path)
			continue
		}

		s.Files[path] = &anctx.FileInfo{
			Path: path, Symbols: res.Symbols, Complexity: res.Complexity, Tokens: res.Tokens,
			ContentHash: tsparse.Hash(content),
		}
		s.Graph.AddFile(path)
		s.invalidateDetectorCache(path)
	}

	s.relink(changed, cfg)
	return true, nil
}

// readSource returns overlay's in-memory source for path if present,
// falling back to a disk read otherwise.
func readSource(path string, overlay map[string][]byte) ([]byte, error) {
	if overlay != nil {
		if content, ok := overlay[path]; ok {
			return content, nil
		}
	}
	return os.ReadFile(path)
}

// retract removes path's outgoing edges and its entry from every
// target's reverse_deps set.
func (s *State) retract(path string) {
	node, ok := s.Graph.Node(path)
	if !ok {
		return
	}
	for _, dep := range s.Graph.Dependencies(node) {
		target, ok := s.Graph.FilePath(dep)
		if !ok {
			continue
		}
		if importers, ok := s.ReverseDeps[target]; ok {
			delete(importers, path)
		}
	}
	s.Graph.RemoveOutgoing(node)
}

// relink re-resolves imports for each changed file and adds fresh edges
// plus reverse_deps entries.
func (s *State) relink(changed []string, cfg *config.Config) {
	exists := func(p string) bool {
		_, ok := s.Files[p]
		return ok
	}
	var aliases []resolver.Alias
	if cfg != nil {
		for prefix, target := range cfg.Aliases {
			aliases = append(aliases, resolver.Alias{Prefix: prefix, Targets: []string{target}})
		}
	}

	for _, path := range changed {
		fi, ok := s.Files[path]
		if !ok {
			continue
		}
		r := resolver.New(filepath.Dir(path), aliases, exists)
		fromNode, _ := s.Graph.Node(path)

		for _, imp := range fi.Symbols.Imports {
			target, ok := r.Resolve(imp.Source, path)
			if !ok {
				continue
			}
			toNode := s.Graph.AddFile(target)
			s.Graph.AddDependency(fromNode, toNode, depgraph.EdgeData{
				ImportLine: imp.Line, ImportRange: imp.Range, HasRange: true, ImportedSymbols: []string{imp.Name},
			})
			if s.ReverseDeps[target] == nil {
				s.ReverseDeps[target] = map[string]struct{}{}
			}
			s.ReverseDeps[target][path] = struct{}{}
		}
	}
}

// invalidateDetectorCache drops every cached file-local detector result
// for path, per the FileLocal dispatch rule.
func (s *State) invalidateDetectorCache(path string) {
	for _, byPath := range s.fileLocalCache {
		delete(byPath, path)
	}
}

// AffectedFiles computes the transitive closure of changed files through
// ReverseDeps by reverse BFS, union changed itself, mirroring
// get_affected_files.
func (s *State) AffectedFiles(changed []string) map[string]struct{} {
	affected := map[string]struct{}{}
	queue := append([]string(nil), changed...)
	for _, c := range changed {
		affected[c] = struct{}{}
	}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		for importer := range s.ReverseDeps[cur] {
			if _, seen := affected[importer]; seen {
				continue
			}
			affected[importer] = struct{}{}
			queue = append(queue, importer)
		}
	}
	return affected
}

// Context builds an *anctx.Context over the state's files with
// AffectedFiles set to affected (nil for a full scan). It runs no
// detector itself; the caller dispatches them (file-local ones through
// RunFileLocal).
func (s *State) Context(cfg *config.Config, affected map[string]struct{}) *anctx.Context {
	entrySet := func(path string) bool {
		if cfg == nil {
			return false
		}
		for _, g := range cfg.EntryPoints {
			if ok, _ := doublestar.Match(g, path); ok {
				return true
			}
		}
		return false
	}

	rules := map[string]map[string]anctx.ResolvedRule{}
	for _, info := range detect.All() {
		byPath := map[string]anctx.ResolvedRule{}
		for path := range s.Files {
			byPath[path] = anctx.ResolvedRule{Enabled: info.DefaultEnabled, Severity: archmodel.SeverityMedium}
		}
		rules[info.ID] = byPath
	}

	return &anctx.Context{
		Graph:         s.Graph,
		Files:         s.Files,
		EntryPoints:   entrySet,
		TestLike:      func(string) bool { return false },
		Rules:         rules,
		AffectedFiles: affected,
	}
}

// RunFileLocal runs a file-local detector using and refreshing the
// per-(detector,file) cache, restricting output to affected files.
func (s *State) RunFileLocal(d detect.Detector, ctx *anctx.Context, affected map[string]struct{}) []archmodel.ArchSmell {
	id := d.Info().ID
	if s.fileLocalCache[id] == nil {
		s.fileLocalCache[id] = map[string][]archmodel.ArchSmell{}
	}
	byFile := s.fileLocalCache[id]

	// Affected files (or every file on a full scan) need a fresh detector
	// pass; unaffected files reuse whatever this detector computed for them
	// last time.
	needsFresh := affected == nil
	for path := range affected {
		if _, known := s.Files[path]; known {
			needsFresh = true
		}
	}
	if needsFresh {
		fresh := d.Detect(ctx)
		for path := range s.Files {
			if affected == nil || isAffected(affected, path) {
				byFile[path] = nil
			}
		}
		for _, sm := range fresh {
			for _, f := range sm.Files {
				if affected == nil || isAffected(affected, f) {
					byFile[f] = append(byFile[f], sm)
				}
			}
		}
	}

	paths := make([]string, 0, len(s.Files))
	for p := range s.Files {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	var out []archmodel.ArchSmell
	for _, path := range paths {
		out = append(out, byFile[path]...)
	}
	return out
}

func isAffected(affected map[string]struct{}, path string) bool {
	_, ok := affected[path]
	return ok
}
