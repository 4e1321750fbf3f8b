package mcpapi

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/archlinter/archlint/internal/detect"
	"github.com/archlinter/archlint/internal/snapshot"
)

type scanParams struct {
	Path       string `json:"path"`
	ConfigPath string `json:"config_path"`
}

func (s *Server) handleScan(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p scanParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("archlint_scan", err)
	}

	a, err := s.getOrCreateAnalyzer(p.Path, p.ConfigPath)
	if err != nil {
		return errorResponse("archlint_scan", err)
	}

	result, err := a.Scan(ctx)
	if err != nil {
		return errorResponse("archlint_scan", err)
	}
	return jsonResponse(result)
}

type scanIncrementalParams struct {
	Path    string   `json:"path"`
	Changed []string `json:"changed"`
}

func (s *Server) handleScanIncremental(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p scanIncrementalParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("archlint_scan_incremental", err)
	}

	a, ok := s.analyzerFor(p.Path)
	if !ok {
		return errorResponse("archlint_scan_incremental", notScanned(p.Path))
	}

	result, err := a.ScanIncremental(ctx, p.Changed)
	if err != nil {
		return errorResponse("archlint_scan_incremental", err)
	}
	return jsonResponse(result)
}

type scanIncrementalWithOverlayParams struct {
	Path    string            `json:"path"`
	Changed []string          `json:"changed"`
	Overlay map[string]string `json:"overlay"`
}

// handleScanIncrementalWithOverlay is the overlay-aware sibling of
// handleScanIncremental: a caller (an editor, a language server) hands
// over unsaved buffer contents for some or all of changed instead of
// requiring them to be written to disk first.
func (s *Server) handleScanIncrementalWithOverlay(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p scanIncrementalWithOverlayParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("archlint_scan_incremental_with_overlay", err)
	}

	a, ok := s.analyzerFor(p.Path)
	if !ok {
		return errorResponse("archlint_scan_incremental_with_overlay", notScanned(p.Path))
	}

	overlay := make(map[string][]byte, len(p.Overlay))
	for path, source := range p.Overlay {
		overlay[path] = []byte(source)
	}

	result, err := a.ScanIncrementalWithOverlay(ctx, p.Changed, overlay)
	if err != nil {
		return errorResponse("archlint_scan_incremental_with_overlay", err)
	}
	return jsonResponse(result)
}

type diffParams struct {
	Path     string `json:"path"`
	Baseline string `json:"baseline"`
}

func (s *Server) handleDiff(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p diffParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("archlint_diff", err)
	}

	a, ok := s.analyzerFor(p.Path)
	if !ok {
		return errorResponse("archlint_diff", notScanned(p.Path))
	}

	var baseline snapshot.Snapshot
	if err := json.Unmarshal([]byte(p.Baseline), &baseline); err != nil {
		return errorResponse("archlint_diff", err)
	}

	result, err := a.Diff(baseline)
	if err != nil {
		return errorResponse("archlint_diff", err)
	}
	return jsonResponse(result)
}

func (s *Server) handleListDetectors(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResponse(detect.All())
}

type stateStatsParams struct {
	Path string `json:"path"`
}

func (s *Server) handleGetStateStats(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var p stateStatsParams
	if err := json.Unmarshal(req.Params.Arguments, &p); err != nil {
		return errorResponse("archlint_get_state_stats", err)
	}

	a, ok := s.analyzerFor(p.Path)
	if !ok {
		return errorResponse("archlint_get_state_stats", notScanned(p.Path))
	}
	return jsonResponse(a.GetStateStats())
}
