// Package config defines the format-agnostic solver settings model and the
// interfaces for loading it from settings files.
//
// Concrete decoders live in separate packages (internal/hcl for .hcl files,
// internal/yamlcfg for .yaml/.yml files); ByExtension picks one per file.
// Settings files are optional: the four mandatory command-line options are
// never read from them.
package config
