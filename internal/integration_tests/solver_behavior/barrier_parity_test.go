package integration_tests

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vk/gridrelax/internal/app"
	"github.com/vk/gridrelax/internal/barrier"
	"github.com/vk/gridrelax/internal/config"
	"github.com/vk/gridrelax/internal/hcl"
	"github.com/vk/gridrelax/internal/testutil"
)

// TestBarrierParity runs the same input through every barrier and partition
// combination and expects byte-identical output files and iteration counts.
func TestBarrierParity(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	input := testutil.WriteGrid(t, dir, "input.txt", 18, 14, func(r, c int) float64 {
		switch {
		case r == 0:
			return 1
		case c == 13:
			return 0.5
		}
		return 0
	})
	loader := config.ByExtension{".hcl": hcl.NewDecoder()}

	type run struct {
		iterations int
		output     []byte
	}
	var runs []run
	var names []string

	for _, partition := range []string{"rows", "blocks"} {
		settings := testutil.WriteFile(t, dir, partition+".hcl", fmt.Sprintf(`
partition = %q
epsilon   = 0.0001
grid {
  rows = 18
  cols = 14
}
`, partition))

		for _, kind := range []barrier.Kind{barrier.Tree, barrier.Cond, barrier.Native} {
			name := partition + "-" + kind.String()
			cfg := &app.Config{
				Barrier:      kind,
				Input:        input,
				Output:       filepath.Join(dir, name+".out"),
				Subtasks:     4,
				SettingsPath: settings,
				LogLevel:     "warn",
			}
			a, out, _ := app.SetupAppTest(t, cfg, loader)

			// --- Act ---
			require.NoError(t, a.Run(context.Background()), name)

			iterations := testutil.AssertSummary(t, out.String())
			data, err := os.ReadFile(cfg.Output)
			require.NoError(t, err)
			runs = append(runs, run{iterations: iterations, output: data})
			names = append(names, name)
		}
	}

	// --- Assert ---
	for i := 1; i < len(runs); i++ {
		require.Equal(t, runs[0].iterations, runs[i].iterations, "%s vs %s", names[0], names[i])
		require.Equal(t, string(runs[0].output), string(runs[i].output), "%s vs %s", names[0], names[i])
	}
}
