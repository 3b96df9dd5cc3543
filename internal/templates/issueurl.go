package templates

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"
)

// DefaultIssueURLTemplate builds the classic Jira browse link.
const DefaultIssueURLTemplate = `{{ .BaseURL | trimSuffix "/" }}/browse/{{ .Key }}`

// IssueURLData is the data passed to an issue URL template.
type IssueURLData struct {
	BaseURL string
	Key     string
}

// IssueURL renders the browsable URL of a created issue.
type IssueURL struct {
	tmpl *template.Template
}

// ParseIssueURL compiles an issue URL template. An empty text selects DefaultIssueURLTemplate.
func ParseIssueURL(text string) (*IssueURL, error) {
	if strings.TrimSpace(text) == "" {
		text = DefaultIssueURLTemplate
	}
	tmpl, err := template.New("issue_url").
		Option("missingkey=error").
		Funcs(TemplateFuncMap()).
		Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parse issue url template: %w", err)
	}
	return &IssueURL{tmpl: tmpl}, nil
}

// Render returns the URL for key on the Jira site at baseURL.
func (u *IssueURL) Render(baseURL, key string) (string, error) {
	var buf bytes.Buffer
	if err := u.tmpl.Execute(&buf, IssueURLData{BaseURL: baseURL, Key: key}); err != nil {
		return "", fmt.Errorf("render issue url: %w", err)
	}
	return strings.TrimSpace(buf.String()), nil
}
