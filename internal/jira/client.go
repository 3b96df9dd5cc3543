package jira

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

// Client handles communication with the Jira REST API.
type Client struct {
	APIURL *url.URL     // Base API URL (ends with /rest/api/3/)
	Client *http.Client // Underlying HTTP client
	auth   AuthFunc
}

// APIURL derives the REST v3 API URL from a Jira site root.
func APIURL(base string) (*url.URL, error) {
	u, err := url.Parse(strings.TrimSpace(base))
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base url %q: must be absolute", base)
	}
	u.Path = strings.TrimRight(u.Path, "/") + "/rest/api/3/"
	u.RawPath = ""
	u.RawQuery = ""
	u.Fragment = ""
	return u, nil
}

// NewClient returns a Jira client with the given API URL, authentication function and request timeout.
func NewClient(apiURL *url.URL, auth AuthFunc, skipVerify bool, timeout time.Duration) *Client {
	return &Client{
		APIURL: apiURL,
		Client: newHTTPClient(skipVerify, timeout),
		auth:   auth,
	}
}

// CreateIssue posts a new issue. The raw response body and status are returned in every case
// so callers can surface Jira's own error payload.
func (c *Client) CreateIssue(ctx context.Context, fields IssueFields) (created CreatedIssue, response []byte, statusCode int, err error) {
	response, statusCode, err = c.doRequest(ctx, http.MethodPost, "issue", CreateIssueRequest{Fields: fields})
	if err != nil {
		return CreatedIssue{}, response, statusCode, err
	}
	if err := json.Unmarshal(response, &created); err != nil {
		return CreatedIssue{}, response, statusCode, fmt.Errorf("decode created issue: %w", err)
	}
	if created.Key == "" {
		return CreatedIssue{}, response, statusCode, fmt.Errorf("created issue response has no key")
	}
	return created, response, statusCode, nil
}

// SearchUsers looks up users whose display name or email matches query.
func (c *Client) SearchUsers(ctx context.Context, query string) ([]User, int, error) {
	if strings.TrimSpace(query) == "" {
		return nil, http.StatusBadRequest, fmt.Errorf("missing user query")
	}

	params := url.Values{}
	params.Set("query", query)

	body, status, err := c.doRequest(ctx, http.MethodGet, "user/search?"+params.Encode(), nil)
	if err != nil {
		return nil, status, err
	}

	var users []User
	if err := json.Unmarshal(body, &users); err != nil {
		return nil, status, fmt.Errorf("decode users: %w", err)
	}
	return users, status, nil
}

// maxResponseBytes caps how much of a Jira response is read.
const maxResponseBytes = 4 << 20

// APIError is returned for Jira responses with status >= 400.
type APIError struct {
	StatusCode int
	Body       []byte
}

func (e *APIError) Error() string {
	return fmt.Sprintf("jira error: %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

// doRequest performs an authenticated request against the API URL and returns the response body
// and status. Transport failures report 502.
func (c *Client) doRequest(ctx context.Context, method, path string, body any) (response []byte, statusCode int, err error) {
	var bodyReader io.Reader
	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, http.StatusBadRequest, fmt.Errorf("marshal body: %w", err)
		}
		bodyReader = bytes.NewReader(jsonData)
	}

	relURL, err := url.Parse(path)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("parse path: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.APIURL.ResolveReference(relURL).String(), bodyReader)
	if err != nil {
		return nil, http.StatusBadRequest, fmt.Errorf("create request: %w", err)
	}
	if c.auth != nil {
		c.auth(req)
	}
	if bodyReader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return nil, http.StatusBadGateway, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() // nolint:errcheck

	respBody, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, resp.StatusCode, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return respBody, resp.StatusCode, &APIError{StatusCode: resp.StatusCode, Body: respBody}
	}
	return respBody, resp.StatusCode, nil
}
