// Package churn computes a per-file change-frequency count by shelling
// out to git log --numstat, the same approach the teacher's
// internal/git package uses for its history providers, narrowed down to
// the single count-per-path the dependency graph needs to weight
// hotspots.
package churn

import (
	"bufio"
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	cfgerrors "github.com/archlinter/archlint/internal/errors"
)

// Provider computes churn counts for a git work tree rooted at RepoRoot.
type Provider struct {
	RepoRoot string
}

// New returns a Provider rooted at repoRoot.
func New(repoRoot string) *Provider {
	return &Provider{RepoRoot: repoRoot}
}

// Calculate returns, for each of files present in the commit history
// since lookback, the number of non-merge commits that touched it. Files
// absent from the result had zero matching commits. A git failure
// (missing binary, not a repository, shallow clone with no history) is
// wrapped in errors.KindGit so callers can degrade to "churn
// unavailable" per the error-handling policy rather than aborting the
// whole scan.
func (p *Provider) Calculate(ctx context.Context, files []string, lookback time.Duration) (map[string]int, error) {
	since := time.Now().Add(-lookback).Format("2006-01-02T15:04:05")

	args := []string{"log", "--numstat", "--format=%H", "--since=" + since, "--no-merges"}
	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = p.RepoRoot

	output, err := cmd.Output()
	if err != nil {
		return nil, cfgerrors.New(cfgerrors.KindGit, "git log --numstat", err)
	}

	counts := parseNumstatCounts(output)
	if files == nil {
		return counts, nil
	}

	wanted := make(map[string]struct{}, len(files))
	for _, f := range files {
		wanted[f] = struct{}{}
	}
	filtered := make(map[string]int, len(wanted))
	for path, n := range counts {
		if _, ok := wanted[path]; ok {
			filtered[path] = n
		}
	}
	return filtered, nil
}

// parseNumstatCounts counts, per path, how many commit blocks in output
// (a git log --numstat --format=%H stream) mention that path, so a file
// touched twice in the same commit (rare, but numstat can repeat a path
// under a rename) still only counts once per commit.
func parseNumstatCounts(output []byte) map[string]int {
	counts := map[string]int{}
	seenInCommit := map[string]struct{}{}

	flush := func() {
		for path := range seenInCommit {
			counts[path]++
		}
		seenInCommit = map[string]struct{}{}
	}

	scanner := bufio.NewScanner(bytes.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		if isCommitHash(line) {
			flush()
			continue
		}
		parts := strings.SplitN(line, "\t", 3)
		if len(parts) < 3 {
			continue
		}
		path := parts[2]
		if strings.Contains(path, " => ") {
			path = renamedTo(path)
		}
		seenInCommit[path] = struct{}{}
	}
	flush()
	return counts
}

func isCommitHash(s string) bool {
	if len(s) < 7 || len(s) > 40 {
		return false
	}
	for _, r := range s {
		if !strings.ContainsRune("0123456789abcdef", r) {
			return false
		}
	}
	return true
}

func renamedTo(path string) string {
	idx := strings.Index(path, " => ")
	if idx == -1 {
		return path
	}
	return strings.TrimSpace(path[idx+len(" => "):])
}

// parseLookback supports the config's git.history_period strings
// ("30d", "6m", "1y") alongside Go duration syntax.
func parseLookback(s string) (time.Duration, error) {
	if s == "" {
		return 90 * 24 * time.Hour, nil
	}
	unit := s[len(s)-1]
	n, err := strconv.Atoi(s[:len(s)-1])
	if err != nil {
		if d, derr := time.ParseDuration(s); derr == nil {
			return d, nil
		}
		return 0, fmt.Errorf("invalid history_period %q", s)
	}
	switch unit {
	case 'd':
		return time.Duration(n) * 24 * time.Hour, nil
	case 'm':
		return time.Duration(n) * 30 * 24 * time.Hour, nil
	case 'y':
		return time.Duration(n) * 365 * 24 * time.Hour, nil
	default:
		if d, derr := time.ParseDuration(s); derr == nil {
			return d, nil
		}
		return 0, fmt.Errorf("invalid history_period %q", s)
	}
}

// ParseHistoryPeriod is the exported form of parseLookback for the
// engine's config wiring.
func ParseHistoryPeriod(s string) (time.Duration, error) {
	return parseLookback(s)
}
