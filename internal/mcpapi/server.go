// Package mcpapi exposes archlint's scan/incremental/diff surface as
// MCP tools, so an editor or agent with an MCP client can run a scan or
// check what changed without shelling out to the CLI. Grounded on the
// teacher's internal/mcp package: the same mcp.NewServer +
// server.AddTool(&mcp.Tool{...}, handler) registration shape, the same
// createJSONResponse/createErrorResponse response convention, and the
// same Start(ctx) lifecycle, which runs until ctx is cancelled.
package mcpapi

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/archlinter/archlint/internal/api"
)

const serverName = "archlint-mcp-server"
const serverVersion = "0.1.0"

// Server is the MCP front end over a set of api.Analyzer instances, one
// per project root a client has scanned. Analyzers are created lazily
// on first use of a root and kept for the process lifetime so
// archlint_scan_incremental has state to build on.
type Server struct {
	server *mcp.Server

	mu        sync.Mutex
	analyzers map[string]*api.Analyzer
}

// NewServer builds a Server with every tool registered, ready for
// Start.
func NewServer() *Server {
	s := &Server{
		server:    mcp.NewServer(&mcp.Implementation{Name: serverName, Version: serverVersion}, nil),
		analyzers: map[string]*api.Analyzer{},
	}
	s.registerTools()
	return s
}

// Start runs the server over stdio until ctx is cancelled, the
// transport every MCP client (Claude Desktop, Claude Code, Cursor, ...)
// expects by default.
func (s *Server) Start(ctx context.Context) error {
	if pprofPort := os.Getenv("ARCHLINT_PPROF_PORT"); pprofPort != "" {
		go func() {
			_ = http.ListenAndServe(":"+pprofPort, nil)
		}()
	}
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// getOrCreateAnalyzer returns the cached Analyzer for root, building one
// with configPath (if non-empty) the first time root is seen.
func (s *Server) getOrCreateAnalyzer(root, configPath string) (*api.Analyzer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a, ok := s.analyzers[root]; ok {
		return a, nil
	}
	a, err := api.NewAnalyzer(root, api.ScanOptions{ConfigPath: configPath, EnableGit: true})
	if err != nil {
		return nil, err
	}
	s.analyzers[root] = a
	return a, nil
}

func stringSchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{Type: "string", Description: description}
}

func stringArraySchema(description string) *jsonschema.Schema {
	return &jsonschema.Schema{
		Type:        "array",
		Items:       &jsonschema.Schema{Type: "string"},
		Description: description,
	}
}

func (s *Server) registerTools() {
	s.server.AddTool(&mcp.Tool{
		Name:        "archlint_scan",
		Description: "Run a full architectural-smell scan of a TypeScript/JavaScript project and return every finding with its explanation.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":        stringSchema("Absolute path to the project root to scan"),
				"config_path": stringSchema("Optional path to an archlint.yml config file"),
			},
			Required: []string{"path"},
		},
	}, s.handleScan)

	s.server.AddTool(&mcp.Tool{
		Name:        "archlint_scan_incremental",
		Description: "Re-analyze only the files affected by a set of changed files, reusing the project's previously scanned state.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":    stringSchema("Absolute path to the project root (must have been scanned already via archlint_scan)"),
				"changed": stringArraySchema("Absolute paths of files that changed since the last scan"),
			},
			Required: []string{"path", "changed"},
		},
	}, s.handleScanIncremental)

	s.server.AddTool(&mcp.Tool{
		Name:        "archlint_scan_incremental_with_overlay",
		Description: "Re-analyze only the files affected by a set of changed files, reading unsaved edits from an in-memory overlay instead of disk for any changed path present in it.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":    stringSchema("Absolute path to the project root (must have been scanned already via archlint_scan)"),
				"changed": stringArraySchema("Absolute paths of files that changed since the last scan"),
				"overlay": &jsonschema.Schema{
					Type:        "object",
					Description: "Map of absolute file path to its current unsaved source text, for any changed path whose content hasn't been written to disk yet",
				},
			},
			Required: []string{"path", "changed"},
		},
	}, s.handleScanIncrementalWithOverlay)

	s.server.AddTool(&mcp.Tool{
		Name:        "archlint_diff",
		Description: "Compare a baseline snapshot (as produced by archlint_scan) against the project's most recent scan, classifying changes as regressions or improvements.",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path":     stringSchema("Absolute path to the project root (must have been scanned already via archlint_scan)"),
				"baseline": stringSchema("The baseline snapshot, as raw JSON text, to diff the latest scan against"),
			},
			Required: []string{"path", "baseline"},
		},
	}, s.handleDiff)

	s.server.AddTool(&mcp.Tool{
		Name:        "archlint_list_detectors",
		Description: "List every registered architectural-smell detector and whether it runs by default.",
		InputSchema: &jsonschema.Schema{Type: "object"},
	}, s.handleListDetectors)

	s.server.AddTool(&mcp.Tool{
		Name:        "archlint_get_state_stats",
		Description: "Report the size of a project's retained incremental scan state (file count, dependency graph size).",
		InputSchema: &jsonschema.Schema{
			Type: "object",
			Properties: map[string]*jsonschema.Schema{
				"path": stringSchema("Absolute path to the project root (must have been scanned already via archlint_scan)"),
			},
			Required: []string{"path"},
		},
	}, s.handleGetStateStats)
}

// analyzerFor returns the already-created Analyzer for root, if any,
// without creating one.
func (s *Server) analyzerFor(root string) (*api.Analyzer, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	a, ok := s.analyzers[root]
	return a, ok
}

func notScanned(path string) error {
	return fmt.Errorf("project %q has not been scanned yet; call archlint_scan first", path)
}
