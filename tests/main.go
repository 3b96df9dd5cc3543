package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/containeroo/tinyflags"
	"gopkg.in/yaml.v3"
)

// Config is the mock Jira configuration root.
type Config struct {
	Port           int      `yaml:"port"`
	RandomDelay    bool     `yaml:"randomDelay"`
	Users          []User   `yaml:"users"`
	RejectProjects []string `yaml:"rejectProjects"` // project keys answered with 400
	FailUserSearch bool     `yaml:"failUserSearch"` // answer user search with 500
}

// User is a Jira user returned by the user search.
type User struct {
	AccountID    string `yaml:"accountId" json:"accountId"`
	DisplayName  string `yaml:"displayName" json:"displayName"`
	EmailAddress string `yaml:"emailAddress" json:"emailAddress,omitempty"`
	Active       bool   `yaml:"active" json:"active"`
}

// mockJira holds issue counters per project.
type mockJira struct {
	cfg     Config
	baseURL string

	mu       sync.Mutex
	counters map[string]int
}

// main starts a mock of the two Jira endpoints jirabridge calls.
func main() {
	var (
		flagConfigPath string
		flagLogBody    bool
	)

	tf := tinyflags.NewFlagSet("mock-jira", tinyflags.ExitOnError)
	tf.StringVar(&flagConfigPath, "config", "", "Path to mock-jira config.yaml (optional)").Value()
	tf.BoolVar(&flagLogBody, "log-body", false, "Log JSON request bodies").Value()

	if err := tf.Parse(os.Args[1:]); err != nil {
		log.Fatal("flag parse error:", err)
	}

	cfg, err := loadConfig(flagConfigPath)
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	addr := ":" + strconv.Itoa(cfg.Port)
	m := &mockJira{
		cfg:      cfg,
		baseURL:  "http://localhost" + addr,
		counters: map[string]int{},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /rest/api/3/issue", m.wrap(flagLogBody, m.createIssue))
	mux.HandleFunc("GET /rest/api/3/user/search", m.wrap(flagLogBody, m.searchUsers))

	log.Printf("Mock Jira listening on %s (%d users)", addr, len(cfg.Users))
	log.Fatal(http.ListenAndServe(addr, mux))
}

// loadConfig reads the YAML configuration file. An empty path yields defaults.
func loadConfig(path string) (Config, error) {
	var cfg Config
	if strings.TrimSpace(path) != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, err
		}
		dec := yaml.NewDecoder(strings.NewReader(string(raw)))
		dec.KnownFields(true)
		if err := dec.Decode(&cfg); err != nil && err != io.EOF {
			return Config{}, err
		}
	}

	if cfg.Port == 0 {
		cfg.Port = 8081
	}
	if len(cfg.Users) == 0 {
		cfg.Users = []User{
			{AccountID: "5b10a2844c20165700ede21g", DisplayName: "Jane Doe", EmailAddress: "jane@example.com", Active: true},
			{AccountID: "5b10ac8d82e05b22cc7d4ef5", DisplayName: "John Smith", Active: true},
			{AccountID: "5b109f2e9729b51b54dc274d", DisplayName: "John Smithers", Active: true},
		}
	}
	return cfg, nil
}

// wrap adds delay and request logging.
func (m *mockJira) wrap(logBody bool, h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if m.cfg.RandomDelay {
			applyRandomDelay(100, 600)
		}
		logRequest(r, logBody)
		h(w, r)
	}
}

// createIssue emulates POST /rest/api/3/issue.
func (m *mockJira) createIssue(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Fields struct {
			Project struct {
				Key string `json:"key"`
			} `json:"project"`
			Summary   string `json:"summary"`
			IssueType struct {
				Name string `json:"name"`
			} `json:"issuetype"`
		} `json:"fields"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJiraError(w, http.StatusBadRequest, map[string]string{"body": "invalid JSON: " + err.Error()})
		return
	}

	errs := map[string]string{}
	project := strings.TrimSpace(body.Fields.Project.Key)
	if project == "" {
		errs["project"] = "Specify a valid project ID or key"
	}
	if strings.TrimSpace(body.Fields.Summary) == "" {
		errs["summary"] = "You must specify a summary of the issue."
	}
	if body.Fields.IssueType.Name == "" {
		errs["issuetype"] = "Specify an issue type"
	}
	for _, p := range m.cfg.RejectProjects {
		if strings.EqualFold(p, project) {
			errs["project"] = "Specify a valid project ID or key"
		}
	}
	if len(errs) > 0 {
		writeJiraError(w, http.StatusBadRequest, errs)
		return
	}

	m.mu.Lock()
	m.counters[project]++
	n := m.counters[project]
	m.mu.Unlock()

	id := strconv.Itoa(10000 + n)
	writeJSON(w, http.StatusCreated, map[string]string{
		"id":   id,
		"key":  fmt.Sprintf("%s-%d", project, n),
		"self": m.baseURL + "/rest/api/3/issue/" + id,
	})
}

// searchUsers emulates GET /rest/api/3/user/search?query=.
func (m *mockJira) searchUsers(w http.ResponseWriter, r *http.Request) {
	if m.cfg.FailUserSearch {
		writeJiraError(w, http.StatusInternalServerError, nil)
		return
	}

	query := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("query")))
	if query == "" {
		writeJiraError(w, http.StatusBadRequest, map[string]string{"query": "query is required"})
		return
	}

	matches := []User{}
	for _, u := range m.cfg.Users {
		if strings.Contains(strings.ToLower(u.DisplayName), query) ||
			strings.Contains(strings.ToLower(u.EmailAddress), query) {
			matches = append(matches, u)
		}
	}
	writeJSON(w, http.StatusOK, matches)
}

// writeJiraError writes Jira's error collection shape.
func writeJiraError(w http.ResponseWriter, status int, errs map[string]string) {
	if errs == nil {
		errs = map[string]string{}
	}
	writeJSON(w, status, map[string]any{
		"errorMessages": []string{},
		"errors":        errs,
	})
}

// writeJSON writes v as JSON with status.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// applyRandomDelay sleeps for a random duration between minMs and maxMs.
func applyRandomDelay(minMs, maxMs int) {
	if maxMs <= minMs {
		maxMs = minMs + 1
	}
	time.Sleep(time.Duration(rand.Intn(maxMs-minMs)+minMs) * time.Millisecond)
}

// logRequest logs method, path, query and optionally the body, with credentials redacted.
func logRequest(r *http.Request, logBody bool) {
	auth := "none"
	if v := r.Header.Get("Authorization"); v != "" {
		scheme, _, _ := strings.Cut(v, " ")
		auth = scheme + " <redacted>"
	}

	var bodyPreview string
	if logBody && r.Body != nil {
		b, _ := io.ReadAll(r.Body)
		bodyPreview = string(b)
		r.Body = io.NopCloser(strings.NewReader(bodyPreview))
	}

	log.Printf("REQ %s %s?%s auth=%s body=%s", r.Method, r.URL.Path, r.URL.RawQuery, auth, truncate(bodyPreview, 2048))
}

// truncate returns at most n bytes of s.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
