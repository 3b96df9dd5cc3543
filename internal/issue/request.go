package issue

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Request is one request to create a Jira issue.
type Request struct {
	ProjectKey  string  `json:"projectKey"`
	Summary     string  `json:"summary"`
	Description string  `json:"description"`
	IssueType   string  `json:"issueType,omitempty"`
	Estimate    float64 `json:"estimate,omitempty"` // hours; zero means no estimate
	Assignee    string  `json:"assignee,omitempty"` // display name
	Epic        string  `json:"epic,omitempty"`     // parent issue key
}

// Validate checks the fields that must be present before a request is sent.
func (r Request) Validate() error {
	var missing []string
	if strings.TrimSpace(r.ProjectKey) == "" {
		missing = append(missing, "projectKey")
	}
	if strings.TrimSpace(r.Summary) == "" {
		missing = append(missing, "summary")
	}
	if len(missing) > 0 {
		return fmt.Errorf("%s is required", strings.Join(missing, ", "))
	}
	return nil
}

// requestJSON mirrors Request with pointers so absent keys can be told apart from empty ones.
type requestJSON struct {
	ProjectKey  *string  `json:"projectKey"`
	Summary     *string  `json:"summary"`
	Description *string  `json:"description"`
	IssueType   *string  `json:"issueType"`
	Estimate    *float64 `json:"estimate"`
	Assignee    *string  `json:"assignee"`
	Epic        *string  `json:"epic"`
}

// toRequest converts the wire shape and reports missing required keys.
func (rj requestJSON) toRequest() (Request, error) {
	var missing []string
	if rj.ProjectKey == nil || strings.TrimSpace(*rj.ProjectKey) == "" {
		missing = append(missing, "projectKey")
	}
	if rj.Summary == nil || strings.TrimSpace(*rj.Summary) == "" {
		missing = append(missing, "summary")
	}
	if rj.Description == nil {
		missing = append(missing, "description")
	}
	if len(missing) > 0 {
		return Request{}, fmt.Errorf("%s is required", strings.Join(missing, ", "))
	}

	return Request{
		ProjectKey:  strings.TrimSpace(*rj.ProjectKey),
		Summary:     *rj.Summary,
		Description: *rj.Description,
		IssueType:   deref(rj.IssueType),
		Estimate:    derefFloat(rj.Estimate),
		Assignee:    strings.TrimSpace(deref(rj.Assignee)),
		Epic:        strings.TrimSpace(deref(rj.Epic)),
	}, nil
}

// DecodeRequests reads a single issue object or a list of issue objects.
// A single object is returned as a one-element batch.
func DecodeRequests(r io.Reader) ([]Request, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil, errors.New("empty body")
	}

	var items []requestJSON
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
	} else {
		var single requestJSON
		if err := json.Unmarshal(raw, &single); err != nil {
			return nil, fmt.Errorf("invalid JSON: %w", err)
		}
		items = []requestJSON{single}
	}

	reqs := make([]Request, 0, len(items))
	for i, item := range items {
		req, err := item.toRequest()
		if err != nil {
			return nil, fmt.Errorf("issue[%d]: %w", i, err)
		}
		reqs = append(reqs, req)
	}
	return reqs, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefFloat(f *float64) float64 {
	if f == nil {
		return 0
	}
	return *f
}
