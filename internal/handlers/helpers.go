package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gi8lino/jirabridge/internal/issue"
)

const (
	// maxBodyBytes caps request bodies.
	maxBodyBytes = 1 << 20
	// responseWriteTimeout bounds writing a batch result once the batch is done.
	responseWriteTimeout = 30 * time.Second
)

// IssueCreator creates batches of issues.
type IssueCreator interface {
	CreateIssues(ctx context.Context, reqs []issue.Request) ([]issue.Result, error)
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error string `json:"error"`
}

// writeJSON encodes v as the response body. Encoding errors are ignored; the status is already sent.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) // nolint:errcheck
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorBody{Error: msg})
}
