package config

import (
	"fmt"
	"math"

	"github.com/vk/gridrelax/internal/fault"
	"github.com/vk/gridrelax/internal/partition"
)

const subsystem = "config"

// Model holds every setting that is not a mandatory command-line option.
type Model struct {
	Epsilon   float64         `yaml:"epsilon"`
	Partition string          `yaml:"partition"`
	Grid      GridSettings    `yaml:"grid"`
	Log       LogSettings     `yaml:"log"`
	Monitor   MonitorSettings `yaml:"monitor"`
	Report    ReportSettings  `yaml:"report"`
}

// GridSettings is the target resolution the input file is loaded at.
type GridSettings struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// LogSettings configures the slog handler.
type LogSettings struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MonitorSettings enables the progress monitor when Address is set.
type MonitorSettings struct {
	Address string `yaml:"address"`
}

// ReportSettings enables the run report when Path is set.
type ReportSettings struct {
	Path string `yaml:"path"`
}

// Default returns the settings used when no file overrides them.
func Default() *Model {
	return &Model{
		Epsilon:   0.001,
		Partition: partition.Rows.String(),
		Grid:      GridSettings{Rows: 1024, Cols: 1024},
		Log:       LogSettings{Level: "info", Format: "text"},
	}
}

// Strategy returns the parsed partition strategy.
func (m *Model) Strategy() (partition.Strategy, error) {
	return partition.ParseStrategy(m.Partition)
}

// Validate checks every field and reports the first problem as
// InvalidConfiguration.
func (m *Model) Validate() error {
	if !(m.Epsilon > 0) || math.IsInf(m.Epsilon, 1) {
		return invalid("epsilon must be a positive number, got %v", m.Epsilon)
	}
	if _, err := m.Strategy(); err != nil {
		return err
	}
	if m.Grid.Rows < 3 || m.Grid.Cols < 3 {
		return invalid("grid resolution %dx%d is below 3x3", m.Grid.Rows, m.Grid.Cols)
	}
	switch m.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return invalid("log level must be 'debug', 'info', 'warn' or 'error', got %q", m.Log.Level)
	}
	switch m.Log.Format {
	case "text", "json":
	default:
		return invalid("log format must be 'text' or 'json', got %q", m.Log.Format)
	}
	return nil
}

func invalid(format string, args ...any) error {
	return fault.New(fault.InvalidConfiguration, subsystem, fmt.Errorf(format, args...))
}
