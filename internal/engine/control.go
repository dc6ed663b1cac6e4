package engine

// slotError keeps each worker's reported change on its own cache line.
type slotError struct {
	v float64
	_ [56]byte
}

// control is the state shared between coordinator and workers. Only the
// coordinator writes proceed, readA and iterations, and only between the
// done and go barriers. Worker k writes errs[k] before the done barrier.
type control struct {
	proceed    bool
	readA      bool
	iterations int
	errs       []slotError
}

func newControl(workers int) *control {
	return &control{
		proceed: true,
		readA:   true,
		errs:    make([]slotError, workers),
	}
}

// maxError reduces the per-worker changes of the last generation.
func (c *control) maxError() float64 {
	m := 0.0
	for i := range c.errs {
		if c.errs[i].v > m {
			m = c.errs[i].v
		}
	}
	return m
}
