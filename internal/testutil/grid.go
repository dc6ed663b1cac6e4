// Package testutil holds fixtures and assertions shared by the package and
// command tests.
package testutil

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// WriteFile writes body to dir/name and returns the path.
func WriteFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600), "failed to set up test file")
	return path
}

// GridText renders a rows×cols grid file whose cells are value(r, c).
func GridText(rows, cols int, value func(r, c int) float64) string {
	var b strings.Builder
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c > 0 {
				b.WriteByte(' ')
			}
			b.WriteString(strconv.FormatFloat(value(r, c), 'g', -1, 64))
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// HotTop is 1 along the first row and 0 elsewhere.
func HotTop(r, _ int) float64 {
	if r == 0 {
		return 1
	}
	return 0
}

// WriteGrid writes a rows×cols grid file built from value to dir/name.
func WriteGrid(t *testing.T, dir, name string, rows, cols int, value func(r, c int) float64) string {
	t.Helper()
	return WriteFile(t, dir, name, GridText(rows, cols, value))
}
