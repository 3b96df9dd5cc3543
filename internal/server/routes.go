package server

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gi8lino/jirabridge/internal/handlers"
	"github.com/gi8lino/jirabridge/internal/middleware"
	"github.com/gi8lino/jirabridge/internal/tool"
)

// NewRouter creates a new HTTP router.
func NewRouter(
	creator handlers.IssueCreator,
	capability tool.Capability,
	heartbeat time.Duration,
	logger *slog.Logger,
	debug bool,
	routePrefix string,
) http.Handler {
	root := http.NewServeMux()

	// Health checks (no logging)
	root.Handle("GET /healthz", handlers.Healthz())
	root.Handle("POST /healthz", handlers.Healthz())

	api := http.NewServeMux()
	api.Handle("POST /create-jira-issue", handlers.CreateIssues(creator, logger))
	api.Handle("POST /tool/"+tool.Name, handlers.ToolCall(creator, logger))
	api.Handle("GET /tools", handlers.Tools(capability))
	api.Handle("GET /sse", handlers.SSE(capability, heartbeat, logger))

	mws := []middleware.Middleware{middleware.RequestID()}
	if debug {
		mws = append(mws, middleware.LoggingMiddleware(logger))
	}
	root.Handle("/", middleware.Chain(api, mws...))

	return mountUnderPrefix(root, routePrefix)
}
