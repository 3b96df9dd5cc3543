package tool

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gi8lino/jirabridge/internal/issue"

	"github.com/mark3labs/mcp-go/mcp"
)

// ErrInvalidCall marks tool invocations that cannot be turned into an issue request.
var ErrInvalidCall = errors.New("invalid tool call")

// ParseCall decodes an MCP tools/call request and returns the issue request it describes.
func ParseCall(r io.Reader) (issue.Request, error) {
	var call mcp.CallToolRequest
	if err := json.NewDecoder(r).Decode(&call); err != nil {
		return issue.Request{}, fmt.Errorf("%w: decode: %v", ErrInvalidCall, err)
	}
	return RequestFromCall(call)
}

// RequestFromCall maps the arguments of a create_jira_ticket call to an issue request.
func RequestFromCall(call mcp.CallToolRequest) (issue.Request, error) {
	if name := call.Params.Name; name != "" && name != Name {
		return issue.Request{}, fmt.Errorf("%w: unknown tool %q", ErrInvalidCall, name)
	}
	if call.GetArguments() == nil {
		return issue.Request{}, fmt.Errorf("%w: missing arguments", ErrInvalidCall)
	}

	projectKey, err := call.RequireString("projectKey")
	if err != nil {
		return issue.Request{}, fmt.Errorf("%w: %v", ErrInvalidCall, err)
	}
	summary, err := call.RequireString("summary")
	if err != nil {
		return issue.Request{}, fmt.Errorf("%w: %v", ErrInvalidCall, err)
	}
	description, err := call.RequireString("description")
	if err != nil {
		return issue.Request{}, fmt.Errorf("%w: %v", ErrInvalidCall, err)
	}

	// A present but unparsable estimate is an error, not a silent zero.
	var estimate float64
	if v, ok := call.GetArguments()["estimate"]; ok && v != nil {
		if estimate, err = call.RequireFloat("estimate"); err != nil {
			return issue.Request{}, fmt.Errorf("%w: %v", ErrInvalidCall, err)
		}
	}

	req := issue.Request{
		ProjectKey:  strings.TrimSpace(projectKey),
		Summary:     summary,
		Description: description,
		IssueType:   call.GetString("issueType", ""),
		Estimate:    estimate,
		Assignee:    strings.TrimSpace(call.GetString("assignee", "")),
		Epic:        strings.TrimSpace(call.GetString("epic", "")),
	}
	if err := req.Validate(); err != nil {
		return issue.Request{}, fmt.Errorf("%w: %v", ErrInvalidCall, err)
	}
	return req, nil
}
