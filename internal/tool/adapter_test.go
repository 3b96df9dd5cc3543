package tool_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/gi8lino/jirabridge/internal/issue"
	"github.com/gi8lino/jirabridge/internal/tool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCall(t *testing.T) {
	t.Parallel()

	t.Run("full envelope", func(t *testing.T) {
		t.Parallel()

		body := `{
			"jsonrpc": "2.0",
			"id": 7,
			"method": "tools/call",
			"params": {
				"name": "create_jira_ticket",
				"arguments": {
					"projectKey": "AAD",
					"summary": "Fix bug",
					"description": "NPE on login",
					"issueType": "Bug",
					"estimate": 1.5,
					"assignee": "Jane Doe",
					"epic": "AAD-15"
				}
			}
		}`

		req, err := tool.ParseCall(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, issue.Request{
			ProjectKey:  "AAD",
			Summary:     "Fix bug",
			Description: "NPE on login",
			IssueType:   "Bug",
			Estimate:    1.5,
			Assignee:    "Jane Doe",
			Epic:        "AAD-15",
		}, req)
	})

	t.Run("tool name may be omitted", func(t *testing.T) {
		t.Parallel()

		body := `{"params":{"arguments":{"projectKey":"A","summary":"s","description":""}}}`
		req, err := tool.ParseCall(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, "A", req.ProjectKey)
		assert.Zero(t, req.Estimate)
	})

	t.Run("estimate as string is accepted", func(t *testing.T) {
		t.Parallel()

		body := `{"params":{"arguments":{"projectKey":"A","summary":"s","description":"d","estimate":"2"}}}`
		req, err := tool.ParseCall(strings.NewReader(body))
		require.NoError(t, err)
		assert.Equal(t, 2.0, req.Estimate)
	})

	t.Run("estimate that is not a number is rejected", func(t *testing.T) {
		t.Parallel()

		body := `{"params":{"arguments":{"projectKey":"A","summary":"s","description":"d","estimate":"two hours"}}}`
		_, err := tool.ParseCall(strings.NewReader(body))
		require.Error(t, err)
		assert.True(t, errors.Is(err, tool.ErrInvalidCall))
		assert.Contains(t, err.Error(), `"estimate"`)
	})

	t.Run("null estimate counts as absent", func(t *testing.T) {
		t.Parallel()

		body := `{"params":{"arguments":{"projectKey":"A","summary":"s","description":"d","estimate":null}}}`
		req, err := tool.ParseCall(strings.NewReader(body))
		require.NoError(t, err)
		assert.Zero(t, req.Estimate)
	})

	t.Run("errors", func(t *testing.T) {
		t.Parallel()

		cases := map[string]string{
			"not json":            `{"params":`,
			"unknown tool":        `{"params":{"name":"delete_everything","arguments":{"projectKey":"A","summary":"s","description":"d"}}}`,
			"missing arguments":   `{"params":{"name":"create_jira_ticket"}}`,
			"missing projectKey":  `{"params":{"arguments":{"summary":"s","description":"d"}}}`,
			"missing summary":     `{"params":{"arguments":{"projectKey":"A","description":"d"}}}`,
			"missing description": `{"params":{"arguments":{"projectKey":"A","summary":"s"}}}`,
			"empty summary":       `{"params":{"arguments":{"projectKey":"A","summary":"  ","description":"d"}}}`,
			"wrong type":          `{"params":{"arguments":{"projectKey":1,"summary":"s","description":"d"}}}`,
			"estimate as object":  `{"params":{"arguments":{"projectKey":"A","summary":"s","description":"d","estimate":{}}}}`,
		}
		for name, body := range cases {
			_, err := tool.ParseCall(strings.NewReader(body))
			require.Error(t, err, name)
			assert.True(t, errors.Is(err, tool.ErrInvalidCall), name)
		}
	})
}
