// Package partition splits the interior of a grid into disjoint rectangular
// regions, one per worker. Two strategies exist: horizontal row slices, and
// a power-of-two block tiling. Both hand the leftover rows (or columns) of an
// uneven division to the first regions, one each.
package partition

import (
	"fmt"
	"math/bits"
	"strings"

	"github.com/vk/gridrelax/internal/fault"
)

const subsystem = "partition"

// Region is a half-open rectangle of grid coordinates.
type Region struct {
	RowStart int
	RowEnd   int
	ColStart int
	ColEnd   int
}

// Cells returns the number of cells covered.
func (r Region) Cells() int {
	return (r.RowEnd - r.RowStart) * (r.ColEnd - r.ColStart)
}

// String implements fmt.Stringer.
func (r Region) String() string {
	return fmt.Sprintf("[%d,%d)x[%d,%d)", r.RowStart, r.RowEnd, r.ColStart, r.ColEnd)
}

// Strategy selects how the interior is split.
type Strategy int

const (
	Rows Strategy = iota
	Blocks
)

// String implements fmt.Stringer.
func (s Strategy) String() string {
	switch s {
	case Rows:
		return "rows"
	case Blocks:
		return "blocks"
	default:
		return fmt.Sprintf("strategy(%d)", int(s))
	}
}

// ParseStrategy maps a configuration value onto a Strategy.
func ParseStrategy(s string) (Strategy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "rows":
		return Rows, nil
	case "blocks":
		return Blocks, nil
	}
	return 0, fault.Newf(fault.InvalidConfiguration, subsystem, "unknown partition strategy %q", s)
}

// Split divides the interior of a rows × cols grid into n regions.
func Split(s Strategy, rows, cols, n int) ([]Region, error) {
	switch s {
	case Rows:
		return RowSlices(rows, cols, n)
	case Blocks:
		return Squares(rows, cols, n)
	}
	return nil, fault.Newf(fault.InvalidConfiguration, subsystem, "unknown partition strategy %d", int(s))
}

// RowSlices gives each of n regions a contiguous band of interior rows
// spanning every interior column.
func RowSlices(rows, cols, n int) ([]Region, error) {
	if n < 1 {
		return nil, fault.Newf(fault.InvalidConfiguration, subsystem, "need at least one region, got %d", n)
	}
	bands, err := spans(rows-2, n, "rows")
	if err != nil {
		return nil, err
	}
	regions := make([]Region, 0, n)
	for _, b := range bands {
		regions = append(regions, Region{RowStart: b[0], RowEnd: b[1], ColStart: 1, ColEnd: cols - 1})
	}
	return regions, nil
}

// Squares tiles the interior with n blocks. n must be a power of two; it is
// factored as 2^(k/2) block rows by 2^(k/2 + k%2) block columns. Regions are
// ordered row-major over the block layout.
func Squares(rows, cols, n int) ([]Region, error) {
	if n < 1 || n&(n-1) != 0 {
		return nil, fault.Newf(fault.InvalidConfiguration, subsystem,
			"block partitioning needs a power-of-two region count, got %d", n)
	}
	pow := bits.TrailingZeros(uint(n))
	rowParts := 1 << (pow / 2)
	colParts := 1 << (pow/2 + pow%2)

	rowBands, err := spans(rows-2, rowParts, "rows")
	if err != nil {
		return nil, err
	}
	colBands, err := spans(cols-2, colParts, "columns")
	if err != nil {
		return nil, err
	}

	regions := make([]Region, 0, n)
	for _, rb := range rowBands {
		for _, cb := range colBands {
			regions = append(regions, Region{RowStart: rb[0], RowEnd: rb[1], ColStart: cb[0], ColEnd: cb[1]})
		}
	}
	return regions, nil
}

// spans cuts the interior range [1, length+1) into parts bands. The first
// length%parts bands are one longer.
func spans(length, parts int, axis string) ([][2]int, error) {
	div, rem := length/parts, length%parts
	if div < 1 {
		return nil, fault.Newf(fault.InvalidConfiguration, subsystem,
			"cannot split %d interior %s into %d parts", length, axis, parts)
	}
	out := make([][2]int, parts)
	cur := 1
	for i := range out {
		start := cur
		cur += div
		if i < rem {
			cur++
		}
		out[i] = [2]int{start, cur}
	}
	return out, nil
}
