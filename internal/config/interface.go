package config

import (
	"context"
	"path/filepath"
	"slices"
	"strings"

	"github.com/vk/gridrelax/internal/ctxlog"
	"github.com/vk/gridrelax/internal/fault"
)

// Loader produces a validated Model.
type Loader interface {
	// Load applies the settings files at paths, in order, over Default()
	// and validates the result.
	Load(ctx context.Context, paths ...string) (*Model, error)
}

// Decoder is a format-specific reader that overwrites only the settings a
// file actually contains.
type Decoder interface {
	Decode(ctx context.Context, path string, into *Model) error
}

// ByExtension is a Loader that dispatches each file to the Decoder registered
// for its extension (including the dot, lower case).
type ByExtension map[string]Decoder

// Load implements Loader.
func (b ByExtension) Load(ctx context.Context, paths ...string) (*Model, error) {
	logger := ctxlog.FromContext(ctx)
	m := Default()
	for _, path := range paths {
		ext := strings.ToLower(filepath.Ext(path))
		dec, ok := b[ext]
		if !ok {
			return nil, invalid("no settings decoder for %q files (%s)", ext, path)
		}
		logger.Debug("Decoding settings file.", "path", path, "format", ext)
		if err := dec.Decode(ctx, path, m); err != nil {
			if fault.KindOf(err) == 0 {
				err = fault.New(fault.InvalidConfiguration, subsystem, err)
			}
			return nil, err
		}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	logger.Debug("Settings loaded.", "files", len(paths), "epsilon", m.Epsilon, "partition", m.Partition)
	return m, nil
}

// Extensions lists the registered extensions in sorted order.
func (b ByExtension) Extensions() []string {
	exts := make([]string, 0, len(b))
	for ext := range b {
		exts = append(exts, ext)
	}
	slices.Sort(exts)
	return exts
}
