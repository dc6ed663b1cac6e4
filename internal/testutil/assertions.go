package testutil

import (
	"os"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

var summaryPattern = regexp.MustCompile(`^([0-9]+),([0-9]\.[0-9]{10}e[+-][0-9]{2,}),([0-9]\.[0-9]{10}e[+-][0-9]{2,})\n$`)

// AssertSummary checks that out is exactly one "iterations,wall_ms,cpu_ms"
// record and returns the iteration count.
func AssertSummary(t *testing.T, out string) int {
	t.Helper()
	m := summaryPattern.FindStringSubmatch(out)
	require.NotNil(t, m, "summary record %q is malformed", out)
	iterations, err := strconv.Atoi(m[1])
	require.NoError(t, err)
	require.Positive(t, iterations)
	return iterations
}

// ReadGridLines reads a saved grid file and returns its rows, each split
// into fields.
func ReadGridLines(t *testing.T, path string) [][]string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var rows [][]string
	for _, line := range strings.Split(strings.TrimSuffix(string(data), "\n"), "\n") {
		rows = append(rows, strings.Split(line, " "))
	}
	return rows
}
