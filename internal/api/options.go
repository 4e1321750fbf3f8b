package api

import (
	"github.com/archlinter/archlint/internal/archmodel"
	"github.com/archlinter/archlint/internal/config"
	"github.com/archlinter/archlint/internal/engine"
)

// ScanOptions configures a new Analyzer. A host embedding archlint (the
// MCP surface, a future IDE plugin) fills this in instead of going
// through the CLI's flag parsing. Grounded on the original
// api::options::ScanOptions.
type ScanOptions struct {
	// Config, if set, is used as-is. Otherwise ConfigPath is loaded, and
	// if that too is empty the analyzer runs with defaults.
	Config     *config.Config
	ConfigPath string

	Detectors        []string
	ExcludeDetectors []string
	MinSeverity      *archmodel.Severity

	// Cache, if non-nil, is consulted and populated across Scan calls.
	Cache engine.Cache

	EnableGit   bool
	GitRepoRoot string

	WorkerCount int
}
