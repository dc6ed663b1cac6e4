package barrier

import "sync"

type condBarrier struct {
	mu    sync.Mutex
	ready *sync.Cond
	n     int
	count int
	gen   uint64
}

func newCond(n int) *condBarrier {
	b := &condBarrier{n: n}
	b.ready = sync.NewCond(&b.mu)
	return b
}

// Wait wakes the other n-1 participants with one Signal each. All of them are
// already parked on ready when the last arrival holds the lock, and none of
// the next generation can park before it unlocks, so every Signal lands on a
// waiter of this generation. Waiters still re-check the generation.
func (b *condBarrier) Wait(slot int) {
	checkSlot(slot, b.n)
	b.mu.Lock()
	defer b.mu.Unlock()

	gen := b.gen
	b.count++
	if b.count < b.n {
		for gen == b.gen {
			b.ready.Wait()
		}
		return
	}

	b.count = 0
	b.gen++
	for i := 0; i < b.n-1; i++ {
		b.ready.Signal()
	}
}

func (b *condBarrier) Participants() int { return b.n }

func (b *condBarrier) Close() {}
