package testutils_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gi8lino/jirabridge/internal/testutils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustWriteFile(t *testing.T) {
	t.Parallel()

	t.Run("creates file with content", func(t *testing.T) {
		t.Parallel()

		filePath := filepath.Join(t.TempDir(), "subdir", "token")
		testutils.MustWriteFile(t, filePath, "secret")

		data, err := os.ReadFile(filePath)
		require.NoError(t, err)
		assert.Equal(t, "secret", string(data))

		info, err := os.Stat(filePath)
		require.NoError(t, err)
		assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())
	})
}

func TestNewTestLogger(t *testing.T) {
	t.Parallel()

	logger, buf := testutils.NewTestLogger()
	logger.Debug("field omitted", "field", "assignee")

	assert.Contains(t, buf.String(), "level=DEBUG")
	assert.Contains(t, buf.String(), "field=assignee")
}
