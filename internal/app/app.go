package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/vk/gridrelax/internal/config"
	"github.com/vk/gridrelax/internal/ctxlog"
	"github.com/vk/gridrelax/internal/engine"
	"github.com/vk/gridrelax/internal/fault"
	"github.com/vk/gridrelax/internal/fsutil"
)

// extensionLister is implemented by loaders that know which file
// extensions they read.
type extensionLister interface {
	Extensions() []string
}

// App encapsulates the application's dependencies, configuration, and lifecycle.
type App struct {
	outW       io.Writer
	logger     *slog.Logger
	config     *Config
	settings   *config.Model
	solverOpts []engine.Option
}

// NewApp loads the settings file (if any), applies the command-line
// overrides and builds the App's own logger on errW. outW receives only the
// run summary. solverOpts are passed to every engine.Solver the App creates.
func NewApp(outW, errW io.Writer, cfg *Config, loader config.Loader, solverOpts ...engine.Option) (*App, error) {
	// Settings are loaded with a provisional logger since they decide the
	// final one.
	bootLogger := newLogger(cfg.LogLevel, cfg.LogFormat, errW)
	ctx := ctxlog.WithLogger(context.Background(), bootLogger)

	paths, err := settingsFiles(cfg.SettingsPath, loader)
	if err != nil {
		return nil, err
	}
	settings, err := loader.Load(ctx, paths...)
	if err != nil {
		return nil, fmt.Errorf("failed to load settings: %w", err)
	}

	if cfg.LogLevel != "" {
		settings.Log.Level = cfg.LogLevel
	}
	if cfg.LogFormat != "" {
		settings.Log.Format = cfg.LogFormat
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	logger := newLogger(settings.Log.Level, settings.Log.Format, errW)
	logger.Debug("Logger configured successfully.",
		"level", settings.Log.Level,
		"format", settings.Log.Format,
		"rows", settings.Grid.Rows,
		"cols", settings.Grid.Cols,
	)

	return &App{
		outW:       outW,
		logger:     logger,
		config:     cfg,
		settings:   settings,
		solverOpts: solverOpts,
	}, nil
}

// Settings returns the effective settings. This is primarily for testing.
func (a *App) Settings() *config.Model {
	return a.settings
}

// settingsFiles expands path into the settings files to apply. A directory
// contributes every file the loader can read, in lexical order.
func settingsFiles(path string, loader config.Loader) ([]string, error) {
	if path == "" {
		return nil, nil
	}
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		// Missing files are reported by the decoder.
		return []string{path}, nil
	}
	lister, ok := loader.(extensionLister)
	if !ok {
		return nil, fault.Newf(fault.InvalidConfiguration, "app", "settings path %s is a directory", path)
	}
	files, err := fsutil.FindFilesByExtension(path, lister.Extensions()...)
	if err != nil {
		return nil, fault.New(fault.FileOpenFailed, "app", err)
	}
	return files, nil
}
