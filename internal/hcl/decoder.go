package hcl

import (
	"context"
	"os"
	"runtime"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/function"
	"github.com/zclconf/go-cty/cty/function/stdlib"

	"github.com/vk/gridrelax/internal/config"
	"github.com/vk/gridrelax/internal/ctxlog"
	"github.com/vk/gridrelax/internal/fault"
)

const subsystem = "hcl"

// Decoder is the HCL implementation of config.Decoder.
type Decoder struct{}

// NewDecoder creates a new HCL settings decoder.
func NewDecoder() *Decoder {
	return &Decoder{}
}

// fileRoot mirrors config.Model with every setting optional, so only what a
// file states overrides the model.
type fileRoot struct {
	Epsilon   *float64      `hcl:"epsilon,optional"`
	Partition *string       `hcl:"partition,optional"`
	Grid      *gridBlock    `hcl:"grid,block"`
	Log       *logBlock     `hcl:"log,block"`
	Monitor   *monitorBlock `hcl:"monitor,block"`
	Report    *reportBlock  `hcl:"report,block"`
}

type gridBlock struct {
	Rows *int `hcl:"rows,optional"`
	Cols *int `hcl:"cols,optional"`
}

type logBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}

type monitorBlock struct {
	Address string `hcl:"address"`
}

type reportBlock struct {
	Path string `hcl:"path"`
}

// Decode implements config.Decoder.
func (d *Decoder) Decode(ctx context.Context, path string, into *config.Model) error {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("HCL decoder started.", "path", path)

	if _, err := os.Stat(path); err != nil {
		return fault.New(fault.FileOpenFailed, subsystem, err)
	}

	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return fault.New(fault.InvalidConfiguration, subsystem, diags)
	}

	var root fileRoot
	if diags := gohcl.DecodeBody(file.Body, evalContext(), &root); diags.HasErrors() {
		return fault.New(fault.InvalidConfiguration, subsystem, diags)
	}

	root.apply(into)
	logger.Debug("HCL decoding complete.", "path", path)
	return nil
}

func (r *fileRoot) apply(m *config.Model) {
	setIf(&m.Epsilon, r.Epsilon)
	setIf(&m.Partition, r.Partition)
	if r.Grid != nil {
		setIf(&m.Grid.Rows, r.Grid.Rows)
		setIf(&m.Grid.Cols, r.Grid.Cols)
	}
	if r.Log != nil {
		setIf(&m.Log.Level, r.Log.Level)
		setIf(&m.Log.Format, r.Log.Format)
	}
	if r.Monitor != nil {
		m.Monitor.Address = r.Monitor.Address
	}
	if r.Report != nil {
		m.Report.Path = r.Report.Path
	}
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

func evalContext() *hcl.EvalContext {
	return &hcl.EvalContext{
		Variables: map[string]cty.Value{
			"cpus": cty.NumberIntVal(int64(runtime.NumCPU())),
		},
		Functions: map[string]function.Function{
			"min":   stdlib.MinFunc,
			"max":   stdlib.MaxFunc,
			"pow":   stdlib.PowFunc,
			"floor": stdlib.FloorFunc,
		},
	}
}
