// Package grid is the solver's storage layer: a row-major rectangular array of
// float64 cells with a fixed boundary, the double buffer the relaxation engine
// alternates between, and the text file format the grids are exchanged in.
//
// # File format
//
// One grid row per line, values separated by single spaces, written with
// exactly ten fractional digits. On read the source resolution is taken from
// the file itself (line count and per-line field count). A source larger than
// the target grid is subsampled on a fixed stride per axis that always keeps
// both endpoints; when the stride does not divide evenly the first gaps take
// one extra skipped line or column, so spacing never differs by more than one.
// Skipped lines are still validated: every line must have the same field
// count and hold only finite numbers.
package grid
