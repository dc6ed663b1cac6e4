package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStopwatch_MeasuresBusyWork(t *testing.T) {
	sw := Start()

	deadline := time.Now().Add(20 * time.Millisecond)
	x := 0
	for time.Now().Before(deadline) {
		x++
	}

	wall, cpu := sw.Elapsed()
	assert.GreaterOrEqual(t, wall, 20*time.Millisecond)
	assert.GreaterOrEqual(t, cpu, time.Duration(0))
	assert.Positive(t, x)
}

func TestMillis(t *testing.T) {
	assert.Equal(t, 1.5, Millis(1500*time.Microsecond))
}
