package cli

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("paths from flags and arguments", func(t *testing.T) {
		t.Parallel()

		cfg, exit, err := Parse([]string{"-f", "a.hcl", "-interval", "5s", "-libraries", "base, contextual", "b", "c"}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.False(t, exit)
		assert.Equal(t, []string{"a.hcl", "b", "c"}, cfg.FormulaPaths)
		assert.Equal(t, 5*time.Second, cfg.Interval)
		assert.Equal(t, []string{"base", "contextual"}, cfg.Libraries)
		assert.Equal(t, "text", cfg.LogFormat)
		assert.Equal(t, "info", cfg.LogLevel)
	})

	t.Run("expression", func(t *testing.T) {
		t.Parallel()

		cfg, exit, err := Parse([]string{"-e", "1 + 1", "-log-level", "DEBUG"}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.False(t, exit)
		assert.Equal(t, "1 + 1", cfg.Expression)
		assert.Equal(t, "debug", cfg.LogLevel)
	})

	t.Run("docs", func(t *testing.T) {
		t.Parallel()

		cfg, _, err := Parse([]string{"-docs", "-docs-format", "hcl"}, &bytes.Buffer{})

		require.NoError(t, err)
		assert.True(t, cfg.Docs)
		assert.Equal(t, "hcl", cfg.DocsFormat)
	})

	t.Run("nothing to do prints usage", func(t *testing.T) {
		t.Parallel()
		var out bytes.Buffer

		cfg, exit, err := Parse(nil, &out)

		require.NoError(t, err)
		assert.True(t, exit)
		assert.Nil(t, cfg)
		assert.Contains(t, out.String(), "Usage:")
	})

	t.Run("invalid values exit with code 2", func(t *testing.T) {
		t.Parallel()

		testCases := [][]string{
			{"-e", "1", "-log-format", "xml"},
			{"-e", "1", "-log-level", "trace"},
			{"-docs", "-docs-format", "yaml"},
			{"-e", "1", "-interval", "-1s"},
			{"-unknown"},
		}
		for _, args := range testCases {
			_, exit, err := Parse(args, &bytes.Buffer{})

			require.Error(t, err, "args %v", args)
			assert.False(t, exit)
			var exitErr *ExitError
			require.ErrorAs(t, err, &exitErr)
			assert.Equal(t, 2, exitErr.Code)
		}
	})
}
