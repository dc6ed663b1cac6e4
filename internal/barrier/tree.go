package barrier

// treeBarrier maps slot i to heap node i, with children 2i+1 and 2i+2.
// A child exists only when its index is below n; index 0 is never a child,
// so the root needs no special marker.
type treeBarrier struct {
	n       int
	arrived []chan struct{}
	goAhead []chan struct{}
}

func newTree(n int) *treeBarrier {
	b := &treeBarrier{
		n:       n,
		arrived: make([]chan struct{}, n),
		goAhead: make([]chan struct{}, n),
	}
	// Capacity one: a node cannot post twice before its parent consumes,
	// because it blocks on goAhead in between.
	for i := 0; i < n; i++ {
		b.arrived[i] = make(chan struct{}, 1)
		b.goAhead[i] = make(chan struct{}, 1)
	}
	return b
}

func (b *treeBarrier) Wait(slot int) {
	checkSlot(slot, b.n)
	left, right := 2*slot+1, 2*slot+2
	hasLeft, hasRight := left < b.n, right < b.n

	if hasLeft {
		<-b.arrived[left]
	}
	if hasRight {
		<-b.arrived[right]
	}
	if slot > 0 {
		b.arrived[slot] <- struct{}{}
		<-b.goAhead[slot]
	}
	if hasLeft {
		b.goAhead[left] <- struct{}{}
	}
	if hasRight {
		b.goAhead[right] <- struct{}{}
	}
}

func (b *treeBarrier) Participants() int { return b.n }

func (b *treeBarrier) Close() {
	b.arrived = nil
	b.goAhead = nil
}
