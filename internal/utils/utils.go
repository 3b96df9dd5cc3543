package utils

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gi8lino/jirabridge/internal/jira"
)

// MaskSecret keeps the first and last two characters of s and replaces the rest with '*'.
// Values of four characters or fewer are fully masked.
func MaskSecret(s string) string {
	n := len(s)
	if n <= 4 {
		return strings.Repeat("*", n)
	}
	return s[:2] + strings.Repeat("*", n-4) + s[n-2:]
}

// ObfuscateHeader masks the credential part of an Authorization header value.
// Example: "Basic dZ*********X1" or "Bearer ab******yz"
func ObfuscateHeader(auth string) string {
	if auth == "" {
		return ""
	}

	scheme, token, ok := strings.Cut(auth, " ")
	if !ok {
		return "[invalid header]"
	}
	return scheme + " " + MaskSecret(strings.TrimSpace(token))
}

// AuthorizationHeader returns the Authorization header the AuthFunc would set.
func AuthorizationHeader(auth jira.AuthFunc) string {
	if auth == nil {
		return ""
	}
	req, _ := http.NewRequest(http.MethodGet, "https://jira.invalid", nil)
	auth(req)
	return req.Header.Get("Authorization")
}

// NormalizeRoutePrefix returns "" or "/prefix" from input, accepting raw paths or full URLs.
func NormalizeRoutePrefix(input string) string {
	s := strings.TrimSpace(input)
	if strings.Contains(s, "://") {
		if u, err := url.Parse(s); err == nil {
			s = u.Path
		}
	}
	s = strings.Trim(strings.TrimSpace(s), "/")
	if s == "" {
		return ""
	}
	return "/" + s
}
