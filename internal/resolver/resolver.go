// Package resolver implements the path resolver (C4): turning the raw
// specifier string of an import into an absolute, forward-slashed path
// inside the project, or reporting that it is unresolvable (and therefore
// external). It is grounded on the teacher's internal/symbollinker
// JSResolver, generalized from a FileID registry to a plain existence
// check so it has no dependency on the rest of this module's indexing.
package resolver

import (
	"path/filepath"
	"sort"
	"strings"
)

// candidateExtensions and indexFiles mirror the resolution order's final step.
var candidateExtensions = []string{".ts", ".tsx", ".js", ".jsx", ".mts", ".cts"}
var indexFiles = []string{"index.ts", "index.tsx", "index.js", "index.jsx"}

// Exists abstracts the filesystem so tests can resolve against an
// in-memory file set instead of touching disk.
type Exists func(path string) bool

// Alias is one entry of a config or tsconfig `paths` map, already expanded
// with `baseUrl` applied to its targets. Prefix may contain a single
// trailing "*" wildcard, matching tsconfig's own convention.
type Alias struct {
	Prefix  string
	Targets []string
}

// Resolver resolves import specifiers to absolute paths within root.
type Resolver struct {
	root    string
	aliases []Alias
	exists  Exists
}

// New builds a Resolver. aliases need not be sorted; New sorts them by
// descending prefix length so the longest match wins.
func New(root string, aliases []Alias, exists Exists) *Resolver {
	sorted := make([]Alias, len(aliases))
	copy(sorted, aliases)
	sort.Slice(sorted, func(i, j int) bool {
		return len(sorted[i].Prefix) > len(sorted[j].Prefix)
	})
	return &Resolver{root: root, aliases: sorted, exists: exists}
}

// Resolve implements the resolution order below. The returned path uses
// forward slashes regardless of OS, for a stable canonical form.
// ok is false when the specifier is unresolvable and should be treated as
// an external package (never a fatal error).
func (r *Resolver) Resolve(source, fromFile string) (string, bool) {
	if source == "" {
		return "", false
	}

	switch {
	case strings.HasPrefix(source, ".") || strings.HasPrefix(source, "/"):
		base := filepath.Join(filepath.Dir(fromFile), source)
		return r.tryCandidates(filepath.Clean(base))

	default:
		if target, ok := r.applyAlias(source); ok {
			return r.tryCandidates(filepath.Clean(target))
		}
		return "", false
	}
}

// applyAlias finds the longest-prefix alias match and substitutes its
// target, honoring a single "*" wildcard as literal substitution.
func (r *Resolver) applyAlias(source string) (string, bool) {
	for _, a := range r.aliases {
		if target, ok := matchAlias(a, source); ok {
			return target, true
		}
	}
	return "", false
}

func matchAlias(a Alias, source string) (string, bool) {
	prefix := a.Prefix
	if len(a.Targets) == 0 {
		return "", false
	}
	target := a.Targets[0]

	if strings.HasSuffix(prefix, "*") {
		stem := strings.TrimSuffix(prefix, "*")
		if !strings.HasPrefix(source, stem) {
			return "", false
		}
		wildcard := strings.TrimPrefix(source, stem)
		return strings.Replace(target, "*", wildcard, 1), true
	}

	if source == prefix {
		return target, true
	}
	if strings.HasPrefix(source, prefix+"/") {
		rest := strings.TrimPrefix(source, prefix+"/")
		return filepath.Join(target, rest), true
	}
	return "", false
}

// tryCandidates tries the path as-is, then with each
// candidate extension, then as a directory with an index file.
func (r *Resolver) tryCandidates(base string) (string, bool) {
	if r.exists(base) {
		return toForwardSlash(base), true
	}
	for _, ext := range candidateExtensions {
		candidate := base + ext
		if r.exists(candidate) {
			return toForwardSlash(candidate), true
		}
	}
	for _, idx := range indexFiles {
		candidate := filepath.Join(base, idx)
		if r.exists(candidate) {
			return toForwardSlash(candidate), true
		}
	}
	return "", false
}

func toForwardSlash(path string) string {
	return filepath.ToSlash(path)
}
