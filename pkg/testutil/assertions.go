package testutil

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// AssertSingleJSONLine checks that out holds exactly one newline-terminated
// line equal to the expected JSON document.
func AssertSingleJSONLine(t *testing.T, expected, out string) {
	t.Helper()
	require.True(t, strings.HasSuffix(out, "\n"), "output must end with a newline: %q", out)
	assert.Equal(t, 1, strings.Count(out, "\n"), "output must be a single line: %q", out)
	assert.JSONEq(t, expected, strings.TrimSuffix(out, "\n"))
}
