package jira

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewHTTPClient(t *testing.T) {
	t.Parallel()

	t.Run("verifies TLS by default", func(t *testing.T) {
		t.Parallel()

		c := newHTTPClient(false, 3*time.Second)
		assert.Equal(t, 3*time.Second, c.Timeout)

		tr, ok := c.Transport.(*http.Transport)
		require.True(t, ok)
		assert.Equal(t, 3*time.Second, tr.ResponseHeaderTimeout)
		if tr.TLSClientConfig != nil {
			assert.False(t, tr.TLSClientConfig.InsecureSkipVerify)
		}
	})

	t.Run("skip verify", func(t *testing.T) {
		t.Parallel()

		tr, ok := newHTTPClient(true, time.Second).Transport.(*http.Transport)
		require.True(t, ok)
		require.NotNil(t, tr.TLSClientConfig)
		assert.True(t, tr.TLSClientConfig.InsecureSkipVerify)
	})

	t.Run("does not share the default transport", func(t *testing.T) {
		t.Parallel()

		c := newHTTPClient(true, time.Second)
		assert.NotSame(t, http.DefaultTransport, c.Transport)
	})
}
