package hcl

import (
	"os"

	"github.com/hashicorp/hcl/v2/hclwrite"
	"github.com/zclconf/go-cty/cty"
	"github.com/zclconf/go-cty/cty/gocty"

	"github.com/vk/gridrelax/internal/fault"
)

// Report describes one finished run.
type Report struct {
	Input      string  `cty:"input"`
	Output     string  `cty:"output"`
	Barrier    string  `cty:"barrier"`
	Partition  string  `cty:"partition"`
	Subtasks   int     `cty:"subtasks"`
	Epsilon    float64 `cty:"epsilon"`
	Iterations int     `cty:"iterations"`
	WallMillis float64 `cty:"wall_ms"`
	CPUMillis  float64 `cty:"cpu_ms"`
}

// reportOrder fixes the attribute order of the written block.
var reportOrder = []string{
	"input", "output", "barrier", "partition", "subtasks",
	"epsilon", "iterations", "wall_ms", "cpu_ms",
}

// Encode renders r as an HCL document with a single run block.
func (r Report) Encode() ([]byte, error) {
	ty, err := gocty.ImpliedType(r)
	if err != nil {
		return nil, err
	}
	val, err := gocty.ToCtyValue(r, ty)
	if err != nil {
		return nil, err
	}

	f := hclwrite.NewEmptyFile()
	body := f.Body().AppendNewBlock("run", nil).Body()
	attrs := val.AsValueMap()
	for _, name := range reportOrder {
		v, ok := attrs[name]
		if !ok {
			v = cty.NullVal(cty.DynamicPseudoType)
		}
		body.SetAttributeValue(name, v)
	}
	return f.Bytes(), nil
}

// WriteReport writes r to path.
func WriteReport(path string, r Report) error {
	data, err := r.Encode()
	if err != nil {
		return fault.New(fault.FileWriteFailed, subsystem, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fault.New(fault.FileWriteFailed, subsystem, err)
	}
	return nil
}
