package integration_tests

import (
	"testing"

	"github.com/specialistvlad/burstdsl/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoading_StartupErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name    string
		files   map[string]string
		wantErr []string
	}{
		{
			name: "duplicate names across files",
			files: map[string]string{
				"a.hcl": `formula "x" { expression = "1" }`,
				"b.hcl": `feed "x" { value = 2 }`,
			},
			wantErr: []string{"application startup panicked", "conflicts with"},
		},
		{
			name: "unknown operator with suggestion",
			files: map[string]string{
				"main.hcl": `formula "x" { expression = "maxx(1, 2)" }`,
			},
			wantErr: []string{`formula "x"`, `did you mean "max"`},
		},
		{
			name: "unknown block",
			files: map[string]string{
				"main.hcl": `step "print" "a" {}`,
			},
			wantErr: []string{"failed to decode HCL file"},
		},
		{
			name: "arity violation",
			files: map[string]string{
				"main.hcl": `formula "x" { expression = "time_frame_to_seconds('1h', '2h')" }`,
			},
			wantErr: []string{`formula "x"`, "time_frame_to_seconds"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			result := testutil.RunIntegrationTest(t, testutil.Harness{Files: tc.files})

			require.Error(t, result.Err)
			for _, want := range tc.wantErr {
				assert.Contains(t, result.Err.Error(), want)
			}
		})
	}
}

func TestLoading_RuntimeFailureIsReported(t *testing.T) {
	t.Parallel()

	// Arrange
	files := map[string]string{
		"main.hcl": `
formula "bad_frame" {
  expression = "time_frame_to_seconds('7m')"
}

formula "good_frame" {
  expression = "time_frame_to_seconds('15m')"
}
`,
	}

	// Act
	result := testutil.RunIntegrationTest(t, testutil.Harness{Files: files})

	// Assert
	require.Error(t, result.Err)
	assert.Contains(t, result.Err.Error(), "1 of 2 formulas failed")
	assert.Contains(t, result.Output, "# bad_frame failed:")
	testutil.AssertResult(t, result, "good_frame", "900")
}
