package integration_tests

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vk/gridrelax/internal/app"
	"github.com/vk/gridrelax/internal/cli"
	"github.com/vk/gridrelax/internal/config"
	"github.com/vk/gridrelax/internal/hcl"
	"github.com/vk/gridrelax/internal/testutil"
	"github.com/vk/gridrelax/internal/yamlcfg"
)

// TestCLI_MergesSettings_FromDirectoryPath validates that a --config
// directory applies every HCL and YAML file in lexical order.
func TestCLI_MergesSettings_FromDirectoryPath(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "01-grid.hcl", "grid {\n  rows = min(64, cpus * 0 + 48)\n  cols = 40\n}\n")
	testutil.WriteFile(t, dir, "02-solver.yaml", "epsilon: 0.005\npartition: blocks\n")
	testutil.WriteFile(t, dir, "03-log.yml", "log:\n  format: json\n")

	cfg, shouldExit, err := cli.Parse([]string{
		"--barrier", "2", "--input", "in.txt", "--output", "out.txt", "--subtasks", "4", "--config", dir,
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	loader := config.ByExtension{".hcl": hcl.NewDecoder(), ".yaml": yamlcfg.NewDecoder(), ".yml": yamlcfg.NewDecoder()}

	// --- Act ---
	a, err := app.NewApp(&app.SafeBuffer{}, &app.SafeBuffer{}, cfg, loader)

	// --- Assert ---
	require.NoError(t, err)
	got := a.Settings()
	assert.Equal(t, config.GridSettings{Rows: 48, Cols: 40}, got.Grid)
	assert.Equal(t, 0.005, got.Epsilon)
	assert.Equal(t, "blocks", got.Partition)
	assert.Equal(t, "json", got.Log.Format)
	assert.Equal(t, "info", got.Log.Level)
}
