package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/gi8lino/jirabridge/internal/issue"
	"github.com/gi8lino/jirabridge/internal/templates"

	"gopkg.in/yaml.v3"
)

// Default values for optional settings
const (
	defaultEstimate    = true
	defaultAssignee    = true
	defaultEpic        = true
	defaultLogPayloads = false
)

// LoadConfig loads the settings file from path. An empty path yields the built-in defaults.
func LoadConfig(path string) (Settings, error) {
	cfg := Settings{}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// ValidateConfig checks the settings and fills in defaults for everything left unset.
func ValidateConfig(cfg *Settings) error {
	var errs []string

	cfg.DefaultIssueType = strings.TrimSpace(cfg.DefaultIssueType)
	if cfg.DefaultIssueType == "" {
		cfg.DefaultIssueType = issue.DefaultIssueType
	}

	if strings.TrimSpace(cfg.IssueURLTemplate) == "" {
		cfg.IssueURLTemplate = templates.DefaultIssueURLTemplate
	}
	tmpl, err := templates.ParseIssueURL(cfg.IssueURLTemplate)
	if err != nil {
		errs = append(errs, fmt.Sprintf("issueURLTemplate: %v", err))
	} else if _, err := tmpl.Render("https://example.atlassian.net", "ABC-1"); err != nil {
		errs = append(errs, fmt.Sprintf("issueURLTemplate: %v", err))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	setFeatureDefaults(&cfg.Features)

	return nil
}

// setDefault assigns dst to val only if *dst is unset.
func setDefault(dst **bool, val bool) {
	if *dst == nil {
		v := val
		*dst = &v
	}
}

// setFeatureDefaults fills in missing feature toggles with default values.
func setFeatureDefaults(f *FeatureSettings) {
	setDefault(&f.Estimate, defaultEstimate)
	setDefault(&f.Assignee, defaultAssignee)
	setDefault(&f.Epic, defaultEpic)
	setDefault(&f.LogPayloads, defaultLogPayloads)
}

// IssueFeatures converts the toggles into mapper features. Unset toggles use their defaults.
func (c Settings) IssueFeatures() issue.Features {
	f := c.Features
	setFeatureDefaults(&f)
	return issue.Features{
		Estimate:    *f.Estimate,
		Assignee:    *f.Assignee,
		Epic:        *f.Epic,
		LogPayloads: *f.LogPayloads,
	}
}
