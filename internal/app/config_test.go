package app

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{name: "formula path", cfg: Config{FormulaPaths: []string{"formulas"}}},
		{name: "expression", cfg: Config{Expression: "1 + 1", LogLevel: "debug", LogFormat: "json"}},
		{name: "docs need no input", cfg: Config{Docs: true}},
		{name: "no input", cfg: Config{}, wantErr: "a formula path or an expression is required"},
		{name: "bad docs format", cfg: Config{Docs: true, DocsFormat: "yaml"}, wantErr: `invalid docs format "yaml"`},
		{name: "negative interval", cfg: Config{Expression: "1", Interval: -time.Second}, wantErr: "invalid interval"},
		{name: "bad log level", cfg: Config{Expression: "1", LogLevel: "trace"}, wantErr: `invalid log level "trace"`},
		{name: "bad log format", cfg: Config{Expression: "1", LogFormat: "xml"}, wantErr: `invalid log format "xml"`},
		{name: "bad port", cfg: Config{Expression: "1", HealthcheckPort: 70000}, wantErr: "invalid healthcheck port"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got, err := NewConfig(tc.cfg)

			if tc.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, got)
		})
	}

	t.Run("docs format defaults to json", func(t *testing.T) {
		t.Parallel()

		got, err := NewConfig(Config{Docs: true})

		require.NoError(t, err)
		assert.Equal(t, "json", got.DocsFormat)
	})
}
