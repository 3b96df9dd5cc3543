package jira

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrMissingCredentials is returned when the Jira identity, token or base URL is not configured.
var ErrMissingCredentials = errors.New("missing jira credentials")

// AuthFunc applies authentication to an outgoing request.
type AuthFunc func(r *http.Request)

// NewBasicAuth returns an AuthFunc using email + API token basic auth.
func NewBasicAuth(email, token string) AuthFunc {
	email = strings.TrimSpace(email)
	token = strings.TrimSpace(token)
	return func(r *http.Request) {
		r.SetBasicAuth(email, token)
	}
}

// NewBearerAuth returns an AuthFunc using a bearer token.
func NewBearerAuth(token string) AuthFunc {
	token = strings.TrimSpace(token)
	return func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	}
}

// ResolveAuth returns the appropriate AuthFunc based on provided credentials.
// It supports either Bearer token or Basic (email + API token) authentication.
func ResolveAuth(bearerToken, email, token string) (auth AuthFunc, method string, err error) {
	switch {
	case bearerToken != "":
		return NewBearerAuth(bearerToken), "Bearer", nil
	case email != "" && token != "":
		return NewBasicAuth(email, token), "Basic", nil
	default:
		return nil, "", fmt.Errorf("no valid auth method configured: must provide either bearer token or email+token")
	}
}

// Credentials holds the static values needed to talk to Jira.
type Credentials struct {
	Email       string // account identity for basic auth
	APIToken    string // API token for basic auth
	BearerToken string // alternative to Email+APIToken
	BaseURL     string // site root, e.g. https://example.atlassian.net
}

// Missing lists the names of required values that are empty.
func (c Credentials) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.BearerToken) == "" {
		if strings.TrimSpace(c.Email) == "" {
			missing = append(missing, "email")
		}
		if strings.TrimSpace(c.APIToken) == "" {
			missing = append(missing, "api token")
		}
	}
	if strings.TrimSpace(c.BaseURL) == "" {
		missing = append(missing, "base url")
	}
	return missing
}

// Validate returns ErrMissingCredentials when any required value is empty.
func (c Credentials) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingCredentials, strings.Join(missing, ", "))
	}
	return nil
}

// Auth returns the AuthFunc matching the configured credentials.
func (c Credentials) Auth() (AuthFunc, string, error) {
	return ResolveAuth(c.BearerToken, c.Email, c.APIToken)
}
