package config

import (
	"path/filepath"
	"testing"

	"github.com/gi8lino/jirabridge/internal/issue"
	"github.com/gi8lino/jirabridge/internal/templates"
	"github.com/gi8lino/jirabridge/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boolPtr(b bool) *bool { return &b }

func TestLoadConfig(t *testing.T) {
	t.Parallel()

	t.Run("loads valid YAML file", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, `
defaultIssueType: Bug
issueURLTemplate: '{{ .BaseURL }}/browse/{{ .Key }}'
features:
  assignee: false
  logPayloads: true
tool:
  description: Create a ticket
`)

		cfg, err := LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "Bug", cfg.DefaultIssueType)
		assert.Equal(t, "{{ .BaseURL }}/browse/{{ .Key }}", cfg.IssueURLTemplate)
		assert.Nil(t, cfg.Features.Estimate)
		require.NotNil(t, cfg.Features.Assignee)
		assert.False(t, *cfg.Features.Assignee)
		require.NotNil(t, cfg.Features.LogPayloads)
		assert.True(t, *cfg.Features.LogPayloads)
		assert.Equal(t, "Create a ticket", cfg.Tool.Description)
	})

	t.Run("empty path returns defaults", func(t *testing.T) {
		t.Parallel()

		cfg, err := LoadConfig("")
		require.NoError(t, err)
		assert.Equal(t, Settings{}, cfg)
	})

	t.Run("empty file is accepted", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "empty.yaml")
		testutils.MustWriteFile(t, path, "")

		cfg, err := LoadConfig(path)
		require.NoError(t, err)
		assert.Equal(t, Settings{}, cfg)
	})

	t.Run("fails if file missing", func(t *testing.T) {
		t.Parallel()

		_, err := LoadConfig(filepath.Join(t.TempDir(), "does-not-exist.yaml"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "failed to read config file")
	})

	t.Run("rejects unknown keys", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, "features:\n  watchers: true\n")

		_, err := LoadConfig(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid config")
	})

	t.Run("rejects malformed YAML", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(t.TempDir(), "config.yaml")
		testutils.MustWriteFile(t, path, "features: [")

		_, err := LoadConfig(path)
		assert.Error(t, err)
	})
}

func TestValidateConfig(t *testing.T) {
	t.Parallel()

	t.Run("fills defaults", func(t *testing.T) {
		t.Parallel()

		cfg := Settings{}
		require.NoError(t, ValidateConfig(&cfg))

		assert.Equal(t, issue.DefaultIssueType, cfg.DefaultIssueType)
		assert.Equal(t, templates.DefaultIssueURLTemplate, cfg.IssueURLTemplate)
		assert.Equal(t, boolPtr(true), cfg.Features.Estimate)
		assert.Equal(t, boolPtr(true), cfg.Features.Assignee)
		assert.Equal(t, boolPtr(true), cfg.Features.Epic)
		assert.Equal(t, boolPtr(false), cfg.Features.LogPayloads)
	})

	t.Run("keeps explicit values", func(t *testing.T) {
		t.Parallel()

		cfg := Settings{
			DefaultIssueType: " Story ",
			Features:         FeatureSettings{Epic: boolPtr(false)},
		}
		require.NoError(t, ValidateConfig(&cfg))

		assert.Equal(t, "Story", cfg.DefaultIssueType)
		assert.Equal(t, boolPtr(false), cfg.Features.Epic)
	})

	t.Run("rejects unparsable template", func(t *testing.T) {
		t.Parallel()

		cfg := Settings{IssueURLTemplate: "{{ .BaseURL "}
		err := ValidateConfig(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "config validation failed")
		assert.Contains(t, err.Error(), "issueURLTemplate")
	})

	t.Run("rejects template with unknown field", func(t *testing.T) {
		t.Parallel()

		cfg := Settings{IssueURLTemplate: "{{ .Project }}/{{ .Key }}"}
		err := ValidateConfig(&cfg)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "issueURLTemplate")
	})
}

func TestSettingsIssueFeatures(t *testing.T) {
	t.Parallel()

	t.Run("defaults when unset", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, issue.AllFeatures(), Settings{}.IssueFeatures())
	})

	t.Run("explicit toggles", func(t *testing.T) {
		t.Parallel()

		cfg := Settings{Features: FeatureSettings{
			Estimate:    boolPtr(false),
			Assignee:    boolPtr(false),
			Epic:        boolPtr(true),
			LogPayloads: boolPtr(true),
		}}
		assert.Equal(t, issue.Features{Epic: true, LogPayloads: true}, cfg.IssueFeatures())
	})
}
