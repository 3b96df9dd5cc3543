package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/gi8lino/jirabridge/internal/config"
	"github.com/gi8lino/jirabridge/internal/flag"
	"github.com/gi8lino/jirabridge/internal/issue"
	"github.com/gi8lino/jirabridge/internal/jira"
	"github.com/gi8lino/jirabridge/internal/logging"
	"github.com/gi8lino/jirabridge/internal/server"
	"github.com/gi8lino/jirabridge/internal/templates"
	"github.com/gi8lino/jirabridge/internal/tool"
	"github.com/gi8lino/jirabridge/internal/utils"

	"github.com/containeroo/resolver"
	"github.com/containeroo/tinyflags"
)

// Run starts the jirabridge application.
func Run(ctx context.Context, version, commit string, args []string, w io.Writer, getEnv func(string) string) error {
	// Create a new context that listens for interrupt signals
	ctx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Parse command-line flags
	flags, err := flag.ParseArgs(version, args, w, getEnv)
	if err != nil {
		if tinyflags.IsHelpRequested(err) || tinyflags.IsVersionRequested(err) {
			fmt.Fprint(w, err.Error()) // nolint:errcheck
			return nil
		}
		return fmt.Errorf("parsing error: %w", err)
	}

	// Setup logger
	logger := logging.SetupLogger(flags.LogFormat, flags.Debug, w)

	logger.Info("Starting jirabridge",
		"version", version,
		"commit", commit,
	)

	// Load and validate settings
	settings, err := config.LoadConfig(flags.Config)
	if err != nil {
		return fmt.Errorf("loading config error: %w", err)
	}
	if err := config.ValidateConfig(&settings); err != nil {
		return fmt.Errorf("validating config error: %w", err)
	}

	issueURL, err := templates.ParseIssueURL(settings.IssueURLTemplate)
	if err != nil {
		return fmt.Errorf("issue url template error: %w", err)
	}

	creds, err := resolveCredentials(flags)
	if err != nil {
		return fmt.Errorf("resolving credentials error: %w", err)
	}

	// Setup jira client. Incomplete credentials are reported per request.
	var tracker issue.Tracker
	var users issue.UserSearcher
	if creds.BaseURL != "" {
		if _, err := jira.APIURL(creds.BaseURL); err != nil {
			return fmt.Errorf("invalid jira base url: %w", err)
		}
	}
	if missing := creds.Missing(); len(missing) > 0 {
		logger.Warn("jira credentials incomplete, issue creation will fail",
			"missing", strings.Join(missing, ", "),
		)
	} else {
		auth, method, err := creds.Auth()
		if err != nil {
			return fmt.Errorf("jira auth error: %w", err)
		}
		apiURL, _ := jira.APIURL(creds.BaseURL) // validated above
		client := jira.NewClient(apiURL, auth, flags.JiraSkipTLSVerify, flags.JiraTimeout)
		tracker, users = client, client

		logger.Debug("jira auth",
			"method", method,
			"header", utils.ObfuscateHeader(utils.AuthorizationHeader(auth)),
			"api", apiURL.String(),
			"timeout", flags.JiraTimeout,
		)
	}

	features := settings.IssueFeatures()
	mapper := issue.Mapper{
		Features:         features,
		DefaultIssueType: settings.DefaultIssueType,
		Users:            users,
	}
	creator := issue.NewCreator(creds, tracker, mapper, issueURL, flags.BatchConcurrency, logger)
	capability := tool.NewCapability(settings.Tool.Description, features)

	logger.Debug("features",
		"estimate", features.Estimate,
		"assignee", features.Assignee,
		"epic", features.Epic,
		"logPayloads", features.LogPayloads,
	)

	// Setup Server and run forever
	router := server.NewRouter(
		creator,
		capability,
		flags.HeartbeatInterval,
		logger,
		flags.Debug,
		flags.RoutePrefix,
	)
	err = server.RunHTTPServer(ctx, router, flags.ListenAddr, logger)
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("HTTP server exited with error", "error", err)
		return err
	}

	return nil
}

// resolveCredentials expands env: and file: references in the Jira flags.
func resolveCredentials(flags flag.Config) (jira.Credentials, error) {
	var creds jira.Credentials
	fields := []struct {
		name string
		in   string
		out  *string
	}{
		{"jira-email", flags.JiraEmail, &creds.Email},
		{"jira-api-token", flags.JiraAPIToken, &creds.APIToken},
		{"jira-bearer-token", flags.JiraBearerToken, &creds.BearerToken},
		{"jira-base-url", flags.JiraBaseURL, &creds.BaseURL},
	}
	for _, f := range fields {
		v, err := resolver.ResolveVariable(f.in)
		if err != nil {
			return jira.Credentials{}, fmt.Errorf("%s: %w", f.name, err)
		}
		*f.out = strings.TrimSpace(v)
	}
	creds.BaseURL = strings.TrimRight(creds.BaseURL, "/")
	return creds, nil
}
