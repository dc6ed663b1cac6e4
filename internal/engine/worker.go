package engine

import (
	"context"

	"golang.org/x/sync/semaphore"

	"github.com/vk/gridrelax/internal/barrier"
	"github.com/vk/gridrelax/internal/grid"
	"github.com/vk/gridrelax/internal/partition"
)

type worker struct {
	slot    int
	region  partition.Region
	bufs    *grid.Double
	ctl     *control
	gate    *semaphore.Weighted
	done    barrier.Barrier
	goAhead barrier.Barrier
}

func (w *worker) run() {
	// Acquire cannot fail with a background context.
	_ = w.gate.Acquire(context.Background(), 1)

	for w.ctl.proceed {
		cur, next := w.bufs.Buffers(w.ctl.readA)
		w.ctl.errs[w.slot].v = relax(cur, next, w.region)
		w.done.Wait(w.slot)
		w.goAhead.Wait(w.slot)
	}
}
