package grid

import (
	"math"

	"github.com/vk/gridrelax/internal/fault"
)

const subsystem = "grid"

// MinSide is the smallest resolution with a non-empty interior.
const MinSide = 3

// Grid is a rows × cols block of cells stored row-major.
type Grid struct {
	Rows  int
	Cols  int
	cells []float64
}

// Allocate returns a zeroed grid. A resolution that cannot be represented, or
// that the runtime refuses to allocate, is reported as OutOfMemory.
func Allocate(rows, cols int) (g *Grid, err error) {
	if rows < MinSide || cols < MinSide {
		return nil, fault.Newf(fault.InvalidConfiguration, subsystem,
			"resolution %dx%d is below the %dx%d minimum", rows, cols, MinSide, MinSide)
	}
	if rows > math.MaxInt/cols {
		return nil, fault.Newf(fault.OutOfMemory, subsystem, "resolution %dx%d overflows", rows, cols)
	}

	defer func() {
		if r := recover(); r != nil {
			g = nil
			err = fault.Newf(fault.OutOfMemory, subsystem, "allocate %dx%d: %v", rows, cols, r)
		}
	}()
	return &Grid{Rows: rows, Cols: cols, cells: make([]float64, rows*cols)}, nil
}

// Clone allocates a grid of the same shape as src and copies its values.
func Clone(src *Grid) (*Grid, error) {
	g, err := Allocate(src.Rows, src.Cols)
	if err != nil {
		return nil, err
	}
	copy(g.cells, src.cells)
	return g, nil
}

// Release drops the cell storage. The grid must not be used afterwards.
func (g *Grid) Release() {
	g.cells = nil
}

// At returns the value at (r, c).
func (g *Grid) At(r, c int) float64 {
	return g.cells[r*g.Cols+c]
}

// Set stores v at (r, c).
func (g *Grid) Set(r, c int, v float64) {
	g.cells[r*g.Cols+c] = v
}

// Row returns row r as a slice aliasing the grid storage.
func (g *Grid) Row(r int) []float64 {
	return g.cells[r*g.Cols : (r+1)*g.Cols]
}

// Compare returns the smallest and largest absolute cell difference between
// two grids of the same shape.
func Compare(a, b *Grid) (minDelta, maxDelta float64, err error) {
	if a.Rows != b.Rows || a.Cols != b.Cols {
		return 0, 0, fault.Newf(fault.InvalidConfiguration, subsystem,
			"cannot compare %dx%d with %dx%d", a.Rows, a.Cols, b.Rows, b.Cols)
	}
	minDelta = math.Inf(1)
	for i := range a.cells {
		d := math.Abs(a.cells[i] - b.cells[i])
		if d > maxDelta {
			maxDelta = d
		}
		if d < minDelta {
			minDelta = d
		}
	}
	return minDelta, maxDelta, nil
}
