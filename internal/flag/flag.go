package flag

import (
	"errors"
	"io"
	"net"
	"strings"
	"time"

	"github.com/containeroo/tinyflags"
	"github.com/gi8lino/jirabridge/internal/logging"
	"github.com/gi8lino/jirabridge/internal/utils"
)

// Conventional environment variables read when the prefixed ones are unset.
const (
	envJiraEmail    = "JIRA_EMAIL"
	envJiraAPIToken = "JIRA_API_TOKEN"
	envJiraBaseURL  = "JIRA_BASE_URL"
)

// Config holds all application and Jira-specific configuration.
type Config struct {
	ListenAddr  string            // HTTP bind address (e.g. ":8080")
	Debug       bool              // Enables debug logging
	LogFormat   logging.LogFormat // Log output format (text or json)
	Config      string            // Path to the optional settings file
	RoutePrefix string            // Canonical path prefix ("" or "/jira")

	JiraEmail         string        // Basic auth identity
	JiraAPIToken      string        // Basic auth API token
	JiraBearerToken   string        // Bearer token, replaces email + API token
	JiraBaseURL       string        // Site root without trailing slash
	JiraSkipTLSVerify bool          // Skip TLS verification for Jira
	JiraTimeout       time.Duration // Per-request timeout for Jira calls

	HeartbeatInterval time.Duration // Interval between SSE heartbeats
	BatchConcurrency  int           // Parallel issue creations per request
}

// ParseArgs parses CLI arguments into Config, handling version/help flags.
func ParseArgs(version string, args []string, out io.Writer, getEnv func(string) string) (Config, error) {
	var cfg Config
	tf := tinyflags.NewFlagSet("jirabridge", tinyflags.ContinueOnError)
	tf.Version(version)
	tf.SetGetEnvFn(getEnv)
	tf.EnvPrefix("JIRABRIDGE")
	tf.SetOutput(out)

	// Server
	tf.StringVar(&cfg.Config, "config", "", "Path to settings file. Empty = built-in defaults").
		Placeholder("PATH").
		Value()

	route := tf.String("route-prefix", "", "Path prefix to mount the app (e.g., /jira). Empty = root.").
		Finalize(func(input string) string {
			return utils.NormalizeRoutePrefix(input) // canonical "" or "/jira"
		}).
		Placeholder("PATH").
		Value()

	listenAddr := tf.TCPAddr("listen-address", &net.TCPAddr{IP: nil, Port: 8080}, "HTTP server listen address").
		Placeholder("ADDR:PORT").
		Value()

	tf.DurationVar(&cfg.HeartbeatInterval, "heartbeat-interval", 15*time.Second, "Interval between SSE heartbeat events").
		Validate(func(d time.Duration) error {
			if d <= 0 {
				return errors.New("interval must be > 0")
			}
			return nil
		}).
		Value()

	tf.IntVar(&cfg.BatchConcurrency, "batch-concurrency", 1, "Issues created in parallel per request (1 = sequential)").
		Validate(func(n int) error {
			if n < 1 {
				return errors.New("concurrency must be >= 1")
			}
			return nil
		}).
		Value()

	// Jira
	tf.StringVar(&cfg.JiraEmail, "jira-email", "", "Jira account email (basic auth). Supports env: and file: references").
		Placeholder("EMAIL").
		Value()
	tf.StringVar(&cfg.JiraAPIToken, "jira-api-token", "", "Jira API token (basic auth). Supports env: and file: references").
		Placeholder("TOKEN").
		Value()
	tf.StringVar(&cfg.JiraBearerToken, "jira-bearer-token", "", "Jira bearer token, replaces email and API token").
		Placeholder("TOKEN").
		Value()
	tf.StringVar(&cfg.JiraBaseURL, "jira-base-url", "", "Jira site root (e.g., https://example.atlassian.net)").
		Finalize(func(s string) string {
			return strings.TrimRight(strings.TrimSpace(s), "/")
		}).
		Placeholder("URL").
		Value()
	tf.BoolVar(&cfg.JiraSkipTLSVerify, "jira-skip-tls-verify", false, "Skip TLS verification for Jira").Value()
	tf.DurationVar(&cfg.JiraTimeout, "jira-timeout", 15*time.Second, "Timeout for each Jira request").
		Validate(func(d time.Duration) error {
			if d <= 0 {
				return errors.New("timeout must be > 0")
			}
			return nil
		}).
		Value()

	// Logging
	tf.BoolVar(&cfg.Debug, "debug", false, "Enable debug logging").Value()
	logFormat := tf.String("log-format", "text", "Log format").Choices("text", "json").Short("l").Value()

	// Parse
	if err := tf.Parse(args); err != nil {
		return Config{}, err
	}

	// Post-parse
	cfg.LogFormat = logging.LogFormat(*logFormat)
	cfg.ListenAddr = (*listenAddr).String()
	cfg.RoutePrefix = *route

	if cfg.JiraEmail == "" {
		cfg.JiraEmail = strings.TrimSpace(getEnv(envJiraEmail))
	}
	if cfg.JiraAPIToken == "" {
		cfg.JiraAPIToken = strings.TrimSpace(getEnv(envJiraAPIToken))
	}
	if cfg.JiraBaseURL == "" {
		cfg.JiraBaseURL = strings.TrimRight(strings.TrimSpace(getEnv(envJiraBaseURL)), "/")
	}

	return cfg, nil
}
