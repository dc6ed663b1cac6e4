package engine

import (
	"math"

	"github.com/vk/gridrelax/internal/grid"
	"github.com/vk/gridrelax/internal/partition"
)

// relax writes the four-neighbour average of cur into next for every cell of
// reg and returns the largest absolute change.
func relax(cur, next *grid.Grid, reg partition.Region) float64 {
	maxDelta := 0.0
	for r := reg.RowStart; r < reg.RowEnd; r++ {
		up, row, down := cur.Row(r-1), cur.Row(r), cur.Row(r+1)
		out := next.Row(r)
		for c := reg.ColStart; c < reg.ColEnd; c++ {
			v := (row[c+1] + row[c-1] + down[c] + up[c]) / 4.0
			out[c] = v
			if d := math.Abs(row[c] - v); d > maxDelta {
				maxDelta = d
			}
		}
	}
	return maxDelta
}
