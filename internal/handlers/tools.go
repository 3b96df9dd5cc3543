package handlers

import (
	"net/http"

	"github.com/gi8lino/jirabridge/internal/tool"

	"github.com/mark3labs/mcp-go/mcp"
)

// Tools handles GET /tools and lists the capability as an MCP tool definition.
func Tools(capability tool.Capability) http.HandlerFunc {
	body := mcp.ListToolsResult{Tools: []mcp.Tool{capability.MCPTool()}}
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, body)
	}
}
