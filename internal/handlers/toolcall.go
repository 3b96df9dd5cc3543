package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gi8lino/jirabridge/internal/issue"
	"github.com/gi8lino/jirabridge/internal/tool"
)

// ToolCall handles POST /tool/create_jira_ticket with an MCP tools/call envelope.
// Responses match CreateIssues.
func ToolCall(creator IssueCreator, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		req, err := tool.ParseCall(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			logger.Debug("rejected tool call", "err", err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		respondWithResults(r.Context(), w, creator, []issue.Request{req}, logger)
	}
}
