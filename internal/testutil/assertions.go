package testutil

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// AssertResult checks that the run printed `name = literal`.
func AssertResult(t *testing.T, result *HarnessResult, name, literal string) {
	t.Helper()

	line := fmt.Sprintf("%s = %s", name, literal)
	require.True(t,
		containsLine(result.Output, line),
		"expected result line %q, got output:\n%s", line, result.Output,
	)
}

// AssertPending checks that the run reported name as pending.
func AssertPending(t *testing.T, result *HarnessResult, name string) {
	t.Helper()

	prefix := fmt.Sprintf("# %s pending:", name)
	require.True(t,
		strings.Contains(result.Output, prefix),
		"expected formula %q to be pending, got output:\n%s", name, result.Output,
	)
}

func containsLine(output, line string) bool {
	for _, l := range strings.Split(output, "\n") {
		if l == line {
			return true
		}
	}
	return false
}
