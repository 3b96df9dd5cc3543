package issue

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"

	"github.com/gi8lino/jirabridge/internal/jira"
	"github.com/gi8lino/jirabridge/internal/templates"

	"golang.org/x/sync/errgroup"
)

// Tracker creates issues in Jira.
type Tracker interface {
	CreateIssue(ctx context.Context, fields jira.IssueFields) (jira.CreatedIssue, []byte, int, error)
}

// Result is the outcome of one creation attempt: either IssueKey+IssueURL or Error.
type Result struct {
	IssueKey string `json:"issueKey,omitempty"`
	IssueURL string `json:"issueUrl,omitempty"`
	Error    string `json:"error,omitempty"`
}

// Failed reports whether the attempt failed.
func (r Result) Failed() bool { return r.Error != "" }

// Creator maps and submits batches of issue requests.
type Creator struct {
	credentials jira.Credentials
	tracker     Tracker
	mapper      Mapper
	issueURL    *templates.IssueURL
	concurrency int
	logger      *slog.Logger
}

// NewCreator returns a Creator. tracker may be nil when credentials are incomplete;
// CreateIssues then fails before any call is made. concurrency < 1 means sequential.
func NewCreator(
	credentials jira.Credentials,
	tracker Tracker,
	mapper Mapper,
	issueURL *templates.IssueURL,
	concurrency int,
	logger *slog.Logger,
) *Creator {
	if concurrency < 1 {
		concurrency = 1
	}
	return &Creator{
		credentials: credentials,
		tracker:     tracker,
		mapper:      mapper,
		issueURL:    issueURL,
		concurrency: concurrency,
		logger:      logger,
	}
}

// CreateIssues creates every request independently and returns one result per request,
// in input order. The only error is jira.ErrMissingCredentials, returned before any call.
func (c *Creator) CreateIssues(ctx context.Context, reqs []Request) ([]Result, error) {
	if err := c.credentials.Validate(); err != nil {
		return nil, err
	}

	results := make([]Result, len(reqs))

	var g errgroup.Group
	g.SetLimit(c.concurrency)
	for i, req := range reqs {
		g.Go(func() error {
			results[i] = c.createOne(ctx, i, req)
			return nil
		})
	}
	_ = g.Wait() // createOne never returns an error

	return results, nil
}

// createOne runs mapper and tracker for a single request.
func (c *Creator) createOne(ctx context.Context, idx int, req Request) Result {
	if err := req.Validate(); err != nil {
		return Result{Error: err.Error()}
	}
	if c.tracker == nil {
		return Result{Error: "no jira client configured"}
	}

	fields, warnings := c.mapper.Map(ctx, req)
	for _, w := range warnings {
		c.logger.Warn("field omitted",
			"index", idx,
			"project", req.ProjectKey,
			"field", w.Field,
			"reason", w.Reason,
			"detail", w.Detail,
		)
	}

	if c.mapper.Features.LogPayloads {
		if raw, err := json.Marshal(jira.CreateIssueRequest{Fields: fields}); err == nil {
			c.logger.Debug("jira create payload", "index", idx, "payload", string(raw))
		}
	}

	created, body, status, err := c.tracker.CreateIssue(ctx, fields)
	if err != nil {
		msg := err.Error()
		if status >= 400 && len(body) > 0 {
			msg = string(body) // Jira's own error payload
		}
		c.logger.Warn("issue creation failed",
			"index", idx,
			"project", req.ProjectKey,
			"status", status,
			"error", err,
		)
		return Result{Error: msg}
	}

	c.logger.Info("issue created",
		"index", idx,
		"project", req.ProjectKey,
		"key", created.Key,
	)

	return Result{
		IssueKey: created.Key,
		IssueURL: c.browseURL(created.Key),
	}
}

// browseURL renders the issue link, falling back to base + "/browse/" + key.
func (c *Creator) browseURL(key string) string {
	if c.issueURL != nil {
		u, err := c.issueURL.Render(c.credentials.BaseURL, key)
		if err == nil {
			return u
		}
		c.logger.Error("issue url template failed", "key", key, "error", err)
	}
	return strings.TrimRight(c.credentials.BaseURL, "/") + "/browse/" + key
}
