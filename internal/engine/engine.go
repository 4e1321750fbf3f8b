// Package engine orchestrates one full scan: file enumeration, parallel
// parsing with content-hash caching, dependency-graph construction,
// detector selection and execution, and score-based sorting, following
// the nine-step sequence the teacher's indexing pipeline also follows
// (enumerate, classify, parse in a worker pool, then single-threaded
// graph/detector phases for deterministic output).
package engine

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"

	"github.com/archlinter/archlint/internal/anctx"
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/churn"
	"github.com/archlinter/archlint/internal/config"
	"github.com/archlinter/archlint/internal/depgraph"
	"github.com/archlinter/archlint/internal/detect"
	cfgerrors "github.com/archlinter/archlint/internal/errors"
	"github.com/archlinter/archlint/internal/diag"
	"github.com/archlinter/archlint/internal/filesafety"
	"github.com/archlinter/archlint/internal/resolver"
	"github.com/archlinter/archlint/internal/score"
	"github.com/archlinter/archlint/internal/tsparse"
)

// sourceExtensions lists the file extensions enumeration considers.
var sourceExtensions = map[string]bool{
	".ts": true, ".tsx": true, ".js": true, ".jsx": true, ".mts": true, ".cts": true, ".mjs": true, ".cjs": true,
}

// largeFileScreenThreshold is the file size above which parseAll screens
// a file's header with filesafety.Check before handing it to the
// parser; small files are cheap enough to let the parser itself reject.
const largeFileScreenThreshold = 256 * 1024

// ParsedFile is one cache entry: a parsed file's symbols, complexity,
// and content hash, keyed by (path, content-hash) at the cache's
// discretion.
type ParsedFile struct {
	Symbols     *archmodel.FileSymbols
	Complexity  []archmodel.FunctionComplexity
	Tokens      []archmodel.Token
	ContentHash uint64
}

// Cache is the consumed cache-service contract: get/insert keyed by
// (path, content-hash).
type Cache interface {
	Get(path string, contentHash uint64) (*ParsedFile, bool)
	Insert(path string, contentHash uint64, pf *ParsedFile)
}

// Options configures one Scan.
type Options struct {
	Config       *config.Config
	Cache        Cache // nil disables caching
	WorkerCount  int   // 0 selects a default
	Cancel       <-chan struct{}
	GitRepoRoot  string // empty disables churn
}

// Result is the outcome of one scan.
type Result struct {
	Graph   *depgraph.Graph
	Files   map[string]*anctx.FileInfo
	Smells  []archmodel.ArchSmell
	Score   score.Result
}

// Scan runs a full scan of root following a nine-step sequence.
func Scan(ctx context.Context, root string, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = &config.Config{}
	}

	paths, err := enumerate(root, cfg)
	if err != nil {
		return nil, err
	}

	parsed, err := parseAll(ctx, paths, opts)
	if err != nil {
		return nil, err
	}

	files := make(map[string]*anctx.FileInfo, len(parsed))
	for path, pf := range parsed {
		if !pf.Symbols.HasRuntimeCode {
			continue
		}
		files[path] = &anctx.FileInfo{
			Path:        path,
			Symbols:     pf.Symbols,
			Complexity:  pf.Complexity,
			Tokens:      pf.Tokens,
			ContentHash: pf.ContentHash,
		}
	}

	graph := buildGraph(files, cfg)
	resolveSourceStrings(files, graph)

	if opts.GitRepoRoot != "" && cfg.Git.Enabled {
		applyChurn(ctx, files, opts.GitRepoRoot, cfg.Git.HistoryPeriod)
	}

	actx := buildContext(graph, files, cfg)
	smells := runDetectors(actx)

	sc := score.Compute(smells, cfg.Scoring.Weights, cfg.Scoring.GradeThresholds)
	return &Result{Graph: graph, Files: files, Smells: smells, Score: sc}, nil
}

// enumerate walks root, collecting source file paths honoring Ignore
// globs and MaxFileSize.
func enumerate(root string, cfg *config.Config) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if d.Name() == "node_modules" || d.Name() == ".git" {
				return filepath.SkipDir
			}
			return nil
		}
		if !sourceExtensions[filepath.Ext(path)] {
			return nil
		}
		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)
		for _, g := range cfg.Ignore {
			if ok, _ := doublestar.Match(g, rel); ok {
				return nil
			}
		}
		if cfg.MaxFileSize > 0 {
			if info, statErr := d.Info(); statErr == nil && info.Size() > cfg.MaxFileSize {
				return nil
			}
		}
		paths = append(paths, path)
		return nil
	})
	if err != nil {
		return nil, cfgerrors.New(cfgerrors.KindPathResolution, "enumerate files", err).WithPath(root)
	}
	sort.Strings(paths)
	return paths, nil
}

// parseAll parses every path in a bounded worker pool, consulting opts.Cache
// by content hash and falling back to a fresh parse on miss. A per-file
// parse failure is skipped with a warning, not fatal.
func parseAll(ctx context.Context, paths []string, opts Options) (map[string]*ParsedFile, error) {
	workers := opts.WorkerCount
	if workers <= 0 {
		workers = 4
	}

	g, gctx := errgroup.WithContext(ctx)
	sem := make(chan struct{}, workers)
	results := make([]*ParsedFile, len(paths))

	for i, path := range paths {
		i, path := i, path
		select {
		case <-opts.Cancel:
			return nil, cfgerrors.Cancelled
		default:
		}
		g.Go(func() error {
			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-gctx.Done():
				return gctx.Err()
			}

			if err := filesafety.Check(path, largeFileScreenThreshold); err != nil {
				diag.ParseFailure(path, err)
				return nil
			}

			content, err := os.ReadFile(path)
			if err != nil {
				diag.ParseFailure(path, err)
				return nil
			}
			hash := tsparse.Hash(content)

			if opts.Cache != nil {
				if cached, ok := opts.Cache.Get(path, hash); ok {
					results[i] = cached
					return nil
				}
			}

			p := tsparse.New()
			defer p.Close()
			res, err := p.Parse(path, content, tsparse.DefaultConfig())
			if err != nil {
				diag.ParseFailure(path, err)
				return nil
			}

			pf := &ParsedFile{Symbols: res.Symbols, Complexity: res.Complexity, Tokens: res.Tokens, ContentHash: hash}
			if opts.Cache != nil {
				opts.Cache.Insert(path, hash, pf)
			}
			results[i] = pf
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make(map[string]*ParsedFile, len(paths))
	for i, path := range paths {
		if results[i] == nil {
			continue
		}
		out[path] = results[i]
	}
	return out, nil
}

// buildGraph resolves every retained file's imports via the path resolver
// and adds a dependency edge per resolved import.
func buildGraph(files map[string]*anctx.FileInfo, cfg *config.Config) *depgraph.Graph {
	exists := func(p string) bool {
		_, ok := files[p]
		return ok
	}
	var aliases []resolver.Alias
	for prefix, target := range cfg.Aliases {
		aliases = append(aliases, resolver.Alias{Prefix: prefix, Targets: []string{target}})
	}

	g := depgraph.New()
	for path := range files {
		g.AddFile(path)
	}

	for path, fi := range files {
		fromDir := filepath.Dir(path)
		r := resolver.New(fromDir, aliases, exists)
		fromNode, _ := g.Node(path)

		for _, imp := range fi.Symbols.Imports {
			target, ok := r.Resolve(imp.Source, path)
			if !ok {
				continue
			}
			toNode := g.AddFile(target)
			g.AddDependency(fromNode, toNode, depgraph.EdgeData{
				ImportLine: imp.Line, ImportRange: imp.Range, HasRange: true, ImportedSymbols: []string{imp.Name},
			})
		}
	}
	return g
}

// resolveSourceStrings rewrites every FileSymbols import/export source
// string to the absolute module path it resolved to,
// so cross-file indices (dead-code reachability) key on the same strings
// the graph does.
func resolveSourceStrings(files map[string]*anctx.FileInfo, g *depgraph.Graph) {
	exists := func(p string) bool {
		_, ok := files[p]
		return ok
	}
	for path, fi := range files {
		r := resolver.New(filepath.Dir(path), nil, exists)
		for i := range fi.Symbols.Imports {
			if target, ok := r.Resolve(fi.Symbols.Imports[i].Source, path); ok {
				fi.Symbols.Imports[i].Source = target
			}
		}
		for i := range fi.Symbols.Exports {
			if fi.Symbols.Exports[i].Source == "" {
				continue
			}
			if target, ok := r.Resolve(fi.Symbols.Exports[i].Source, path); ok {
				fi.Symbols.Exports[i].Source = target
			}
		}
	}
}

func applyChurn(ctx context.Context, files map[string]*anctx.FileInfo, repoRoot, historyPeriod string) {
	lookback, err := churn.ParseHistoryPeriod(historyPeriod)
	if err != nil {
		diag.GitDegraded(err)
		return
	}
	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	counts, err := churn.New(repoRoot).Calculate(ctx, paths, lookback)
	if err != nil {
		diag.GitDegraded(err)
		return
	}
	for path, n := range counts {
		if fi, ok := files[path]; ok {
			fi.Churn = n
			fi.HasChurn = true
		}
	}
}

// buildContext assembles the AnalysisContext (C6) and its per-detector,
// per-file resolved rules.
func buildContext(g *depgraph.Graph, files map[string]*anctx.FileInfo, cfg *config.Config) *anctx.Context {
	entrySet := func(path string) bool {
		rel := filepath.ToSlash(path)
		for _, glob := range cfg.EntryPoints {
			if ok, _ := doublestar.Match(glob, rel); ok {
				return true
			}
		}
		return false
	}

	userRules := map[string]detect.RuleConfig{}
	for id, rs := range cfg.Rules {
		sev := config.ParseSeverity(rs)
		userRules[id] = detect.RuleConfig{Enabled: rs.Enabled, Severity: &sev, ExcludeGlobs: rs.Exclude, Options: rs.Options}
	}

	var overrides []detect.Override
	for _, o := range cfg.Overrides {
		rules := map[string]detect.RuleConfig{}
		for id, rs := range o.Rules {
			sev := config.ParseSeverity(rs)
			rules[id] = detect.RuleConfig{Enabled: rs.Enabled, Severity: &sev, ExcludeGlobs: rs.Exclude, Options: rs.Options}
		}
		overrides = append(overrides, detect.Override{Files: o.Files, Rules: rules})
	}

	all := detect.All()
	selection := detect.Select(detect.SelectionInput{Disabled: disabledIDs(cfg)})

	rules := map[string]map[string]anctx.ResolvedRule{}
	for _, info := range all {
		byPath := map[string]anctx.ResolvedRule{}
		for path := range files {
			rc := userRules[info.ID]
			resolved := detect.ResolveRule(info, nil, rc, overrides, path)
			if !selection[info.ID] {
				resolved.Enabled = false
			}
			byPath[path] = resolved
		}
		rules[info.ID] = byPath
	}

	return &anctx.Context{
		Graph:       g,
		Files:       files,
		EntryPoints: entrySet,
		TestLike:    func(path string) bool { return false },
		Rules:       rules,
	}
}

func disabledIDs(cfg *config.Config) []string {
	var out []string
	for id, rs := range cfg.Rules {
		if rs.Enabled != nil && !*rs.Enabled {
			out = append(out, id)
		}
	}
	return out
}

// runDetectors runs every registered detector and sorts the combined
// output by severity descending, then smell type, then the joined file
// list.
func runDetectors(actx *anctx.Context) []archmodel.ArchSmell {
	var all []archmodel.ArchSmell
	for _, info := range detect.All() {
		d, ok := detect.Build(info.ID, nil)
		if !ok {
			continue
		}
		all = append(all, d.Detect(actx)...)
	}

	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Severity != all[j].Severity {
			return all[i].Severity > all[j].Severity
		}
		if string(all[i].Type) != string(all[j].Type) {
			return all[i].Type < all[j].Type
		}
		return joinFiles(all[i].Files) < joinFiles(all[j].Files)
	})
	return all
}

func joinFiles(files []string) string {
	out := ""
	for _, f := range files {
		out += f + "\x00"
	}
	return out
}

