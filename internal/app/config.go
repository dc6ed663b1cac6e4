package app

import (
	"github.com/vk/gridrelax/internal/barrier"
	"github.com/vk/gridrelax/internal/fault"
)

// Config holds the per-run options taken from the command line.
type Config struct {
	Barrier  barrier.Kind
	Input    string
	Output   string
	Subtasks int

	// SettingsPath is an optional HCL or YAML settings file.
	SettingsPath string
	// LogLevel and LogFormat override the settings file when non-empty.
	LogLevel  string
	LogFormat string
}

// NewConfig validates the mandatory fields of cfg.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.Input == "" {
		return nil, fault.Newf(fault.InvalidConfiguration, "app", "input path is required")
	}
	if cfg.Output == "" {
		return nil, fault.Newf(fault.InvalidConfiguration, "app", "output path is required")
	}
	if cfg.Subtasks < 1 {
		return nil, fault.Newf(fault.InvalidConfiguration, "app", "subtask count must be at least 1, got %d", cfg.Subtasks)
	}
	if _, err := barrier.ParseKind(int(cfg.Barrier)); err != nil {
		return nil, err
	}
	return &cfg, nil
}
