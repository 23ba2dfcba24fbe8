package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

// decode maps a tool call's loosely-typed argument map onto a request
// struct by round-tripping through JSON, so field types and snake_case
// names are enforced in one place instead of per-handler assertions.
func decode[T any](req mcp.CallToolRequest) (T, error) {
	var out T

	raw, err := json.Marshal(req.GetArguments())
	if err != nil {
		return out, fmt.Errorf("encode arguments: %w", err)
	}
	if err := json.Unmarshal(raw, &out); err != nil {
		return out, fmt.Errorf("decode arguments: %w", err)
	}
	return out, nil
}
