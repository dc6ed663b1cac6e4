// Package yamlcfg provides the YAML implementation of config.Decoder.
package yamlcfg

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vk/gridrelax/internal/config"
	"github.com/vk/gridrelax/internal/ctxlog"
	"github.com/vk/gridrelax/internal/fault"
)

const subsystem = "yaml"

// Decoder reads settings from a YAML document. Keys absent from the file leave
// the model untouched; unknown keys are rejected.
type Decoder struct{}

// NewDecoder creates a new YAML settings decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// Decode implements config.Decoder.
func (d *Decoder) Decode(ctx context.Context, path string, into *config.Model) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fault.New(fault.FileOpenFailed, subsystem, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(into); err != nil {
		if errors.Is(err, io.EOF) {
			ctxlog.FromContext(ctx).Debug("Empty YAML settings file.", "path", path)
			return nil
		}
		return fault.New(fault.InvalidConfiguration, subsystem, err)
	}
	return nil
}
