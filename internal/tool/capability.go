package tool

import (
	"github.com/gi8lino/jirabridge/internal/issue"

	"github.com/mark3labs/mcp-go/mcp"
)

// Name is the name under which issue creation is offered to tool callers.
const Name = "create_jira_ticket"

// DefaultDescription describes the tool to callers.
const DefaultDescription = "Create a Jira issue in the given project. Supports an optional estimate in hours, an assignee display name and a parent epic key."

// Parameter describes one tool argument.
type Parameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"` // "string" or "number"
	Description string `json:"description"`
	Required    bool   `json:"required"`
}

// Capability is the static descriptor of a callable tool.
type Capability struct {
	Name        string      `json:"name"`
	Description string      `json:"description"`
	Parameters  []Parameter `json:"parameters"`
}

// Metadata is the payload of the stream's tool_metadata event.
type Metadata struct {
	Tools []Capability `json:"tools"`
}

// NewCapability returns the create_jira_ticket descriptor. Parameters for disabled features
// are not advertised.
func NewCapability(description string, features issue.Features) Capability {
	if description == "" {
		description = DefaultDescription
	}

	params := []Parameter{
		{Name: "projectKey", Type: "string", Description: "Key of the Jira project, e.g. AAD", Required: true},
		{Name: "summary", Type: "string", Description: "Short title of the issue", Required: true},
		{Name: "description", Type: "string", Description: "Plain-text body of the issue", Required: true},
		{Name: "issueType", Type: "string", Description: "Issue type name; defaults to Task"},
	}
	if features.Estimate {
		params = append(params, Parameter{Name: "estimate", Type: "number", Description: "Original estimate in hours, e.g. 1.5"})
	}
	if features.Assignee {
		params = append(params, Parameter{Name: "assignee", Type: "string", Description: "Display name of the assignee"})
	}
	if features.Epic {
		params = append(params, Parameter{Name: "epic", Type: "string", Description: "Key of the parent epic, e.g. AAD-15"})
	}

	return Capability{
		Name:        Name,
		Description: description,
		Parameters:  params,
	}
}

// Metadata wraps the capability as a one-entry tool list.
func (c Capability) Metadata() Metadata {
	return Metadata{Tools: []Capability{c}}
}

// MCPTool renders the capability as an MCP tool definition.
func (c Capability) MCPTool() mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(c.Description)}
	for _, p := range c.Parameters {
		propOpts := []mcp.PropertyOption{mcp.Description(p.Description)}
		if p.Required {
			propOpts = append(propOpts, mcp.Required())
		}
		switch p.Type {
		case "number":
			opts = append(opts, mcp.WithNumber(p.Name, propOpts...))
		default:
			opts = append(opts, mcp.WithString(p.Name, propOpts...))
		}
	}
	return mcp.NewTool(c.Name, opts...)
}
