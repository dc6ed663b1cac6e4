// Package clock measures the wall-clock and process CPU time of a run.
package clock

import "time"

// Stopwatch records a starting point for both clocks.
type Stopwatch struct {
	wall time.Time
	cpu  time.Duration
}

// Start begins measuring.
func Start() Stopwatch {
	return Stopwatch{wall: time.Now(), cpu: ProcessCPU()}
}

// Elapsed returns the wall-clock and process CPU time since Start.
func (s Stopwatch) Elapsed() (wall, cpu time.Duration) {
	return time.Since(s.wall), ProcessCPU() - s.cpu
}

// Millis converts d to fractional milliseconds.
func Millis(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
