package jira

import (
	"crypto/tls"
	"net/http"
	"time"
)

// newHTTPClient clones the default transport so proxy and HTTP/2 settings stay intact.
// timeout caps each request including reading the body.
func newHTTPClient(skipVerify bool, timeout time.Duration) *http.Client {
	tr := http.DefaultTransport.(*http.Transport).Clone()
	tr.MaxIdleConnsPerHost = 10
	tr.ResponseHeaderTimeout = timeout
	if skipVerify {
		tr.TLSClientConfig = &tls.Config{InsecureSkipVerify: true} // nolint:gosec
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}
