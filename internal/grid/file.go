package grid

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/vk/gridrelax/internal/fault"
)

// Precision is the number of fractional digits written per value.
const Precision = 10

// maxLine bounds a single row of text; a 1024-column row is about 13KB.
const maxLine = 64 << 20

// Load fills g from the grid file at path, subsampling if the file holds a
// larger resolution.
func (g *Grid) Load(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fault.New(fault.FileOpenFailed, subsystem, err)
	}
	defer f.Close()
	return g.Decode(f)
}

// Decode fills g from a grid stream.
func (g *Grid) Decode(r io.Reader) error {
	lines, err := readLines(r)
	if err != nil {
		return fault.New(fault.FileReadMalformed, subsystem, err)
	}
	if len(lines) < g.Rows {
		return fault.Newf(fault.FileReadMalformed, subsystem,
			"source has %d rows, need at least %d", len(lines), g.Rows)
	}
	srcCols := len(strings.Fields(lines[0]))
	if srcCols < g.Cols {
		return fault.Newf(fault.FileReadMalformed, subsystem,
			"source has %d columns, need at least %d", srcCols, g.Cols)
	}

	rowIdx := sampleIndices(len(lines), g.Rows)
	colIdx := sampleIndices(srcCols, g.Cols)

	// Every line is checked, including the ones the stride skips.
	nextRow := 0
	for src, line := range lines {
		fields := strings.Fields(line)
		if len(fields) != srcCols {
			return fault.Newf(fault.FileReadMalformed, subsystem,
				"line %d has %d fields, expected %d", src+1, len(fields), srcCols)
		}

		var dst []float64
		if nextRow < len(rowIdx) && rowIdx[nextRow] == src {
			dst = g.Row(nextRow)
			nextRow++
		}
		nextCol := 0
		for sc, field := range fields {
			v, err := parseCell(field)
			if err != nil {
				return fault.Newf(fault.FileReadMalformed, subsystem, "line %d field %d: %w", src+1, sc+1, err)
			}
			if dst != nil && nextCol < len(colIdx) && colIdx[nextCol] == sc {
				dst[nextCol] = v
				nextCol++
			}
		}
	}
	return nil
}

// parseCell parses one value. NaN and infinities are rejected since a
// non-finite cell never registers as a change and would pass convergence.
func parseCell(field string) (float64, error) {
	v, err := strconv.ParseFloat(field, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite value %q", field)
	}
	return v, nil
}

// Save writes g to path. The file is removed again if writing fails part way.
func (g *Grid) Save(path string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fault.New(fault.FileOpenFailed, subsystem, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fault.New(fault.FileWriteFailed, subsystem, cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()
	return g.Encode(f)
}

// Encode writes g in the grid text format.
func (g *Grid) Encode(w io.Writer) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for r := 0; r < g.Rows; r++ {
		for c, v := range g.Row(r) {
			buf = buf[:0]
			if c > 0 {
				buf = append(buf, ' ')
			}
			buf = strconv.AppendFloat(buf, v, 'f', Precision, 64)
			if _, err := bw.Write(buf); err != nil {
				return fault.New(fault.FileWriteFailed, subsystem, err)
			}
		}
		if err := bw.WriteByte('\n'); err != nil {
			return fault.New(fault.FileWriteFailed, subsystem, err)
		}
	}
	if err := bw.Flush(); err != nil {
		return fault.New(fault.FileWriteFailed, subsystem, err)
	}
	return nil
}

// readLines returns the non-blank lines of r.
func readLines(r io.Reader) ([]string, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64<<10), maxLine)
	var lines []string
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, fmt.Errorf("line longer than %d bytes", maxLine)
		}
		return nil, err
	}
	return lines, nil
}

// sampleIndices picks dst of src positions, keeping 0 and src-1. The src-dst
// skipped positions are spread over the dst-1 gaps; the first remainder gaps
// skip one more.
func sampleIndices(src, dst int) []int {
	idx := make([]int, dst)
	if dst == 1 {
		return idx
	}
	skip := (src - dst) / (dst - 1)
	rem := (src - dst) % (dst - 1)
	pos := 0
	for j := range idx {
		idx[j] = pos
		pos += 1 + skip
		if j < rem {
			pos++
		}
	}
	return idx
}
