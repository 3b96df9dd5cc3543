package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gi8lino/jirabridge/internal/issue"
	"github.com/gi8lino/jirabridge/internal/jira"
	"github.com/gi8lino/jirabridge/internal/middleware"
)

// CreateIssues handles POST /create-jira-issue. The body is one issue object or a list of them;
// the response is always a list of results in input order.
//
// Required keys are checked while decoding: a body that is not valid JSON, or where any item
// lacks projectKey, summary or description, is rejected as a whole with 400 and nothing is
// created. Per-item errors in the result list come from the creator and from Jira.
func CreateIssues(creator IssueCreator, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		reqs, err := issue.DecodeRequests(http.MaxBytesReader(w, r.Body, maxBodyBytes))
		if err != nil {
			logger.Debug("rejected create request", "err", err, "request_id", middleware.RequestIDFromContext(r.Context()))
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}

		respondWithResults(r.Context(), w, creator, reqs, logger)
	}
}

// respondWithResults runs the batch and writes the result list or the configuration error.
func respondWithResults(ctx context.Context, w http.ResponseWriter, creator IssueCreator, reqs []issue.Request, logger *slog.Logger) {
	// The server's WriteTimeout counts from the end of the request headers. A batch of slow
	// Jira calls can outlast it, so the deadline is lifted while the batch runs and re-armed
	// for the response write only. Each Jira call is bounded by the client timeout.
	rc := http.NewResponseController(w)
	_ = rc.SetWriteDeadline(time.Time{}) // nolint:errcheck

	results, err := creator.CreateIssues(ctx, reqs)
	_ = rc.SetWriteDeadline(time.Now().Add(responseWriteTimeout)) // nolint:errcheck
	if err != nil {
		if errors.Is(err, jira.ErrMissingCredentials) {
			logger.Error("jira is not configured", "err", err)
		} else {
			logger.Error("issue creation failed", "err", err)
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	failed := 0
	for _, res := range results {
		if res.Failed() {
			failed++
		}
	}
	logger.Info("processed issue requests",
		"total", len(results),
		"failed", failed,
		"request_id", middleware.RequestIDFromContext(ctx),
	)

	writeJSON(w, http.StatusOK, results)
}
