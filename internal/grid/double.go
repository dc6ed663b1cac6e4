package grid

// Double is the pair of same-shaped buffers the relaxation engine alternates
// between. Which one is current is decided by the caller's selector and never
// stored here.
type Double struct {
	A *Grid
	B *Grid
}

// NewDouble clones src into both buffers, so the fixed boundary is present in
// whichever buffer ends up holding the result.
func NewDouble(src *Grid) (*Double, error) {
	a, err := Clone(src)
	if err != nil {
		return nil, err
	}
	b, err := Clone(src)
	if err != nil {
		a.Release()
		return nil, err
	}
	return &Double{A: a, B: b}, nil
}

// Buffers returns the read and write buffers for one generation.
func (d *Double) Buffers(readA bool) (current, next *Grid) {
	if readA {
		return d.A, d.B
	}
	return d.B, d.A
}

// Keep returns the buffer written last under readA and releases the other.
func (d *Double) Keep(readA bool) *Grid {
	current, next := d.Buffers(readA)
	current.Release()
	return next
}

// Release drops both buffers.
func (d *Double) Release() {
	d.A.Release()
	d.B.Release()
}
