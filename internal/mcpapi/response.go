package mcpapi

import (
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// jsonResponse renders data as the tool result's sole text content,
// matching the teacher's createJSONResponse convention.
func jsonResponse(data interface{}) (*mcp.CallToolResult, error) {
	content, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal response data: %w", err)
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(content)}},
	}, nil
}

// errorResponse renders err as a tool-level error result (IsError=true)
// rather than an MCP protocol error, so the calling model sees the
// failure and can self-correct instead of the transport just failing.
func errorResponse(operation string, err error) (*mcp.CallToolResult, error) {
	response, marshalErr := jsonResponse(map[string]interface{}{
		"success":   false,
		"error":     err.Error(),
		"operation": operation,
	})
	if marshalErr != nil {
		return nil, marshalErr
	}
	response.IsError = true
	return response, nil
}
