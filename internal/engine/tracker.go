package engine

import "sync/atomic"

// Counts is a snapshot of the engine resources currently alive.
type Counts struct {
	Workers  int64
	Barriers int64
	Gates    int64
}

// Tracker counts live engine resources. A nil *Tracker ignores updates.
type Tracker struct {
	workers  atomic.Int64
	barriers atomic.Int64
	gates    atomic.Int64
}

// Snapshot returns the current counts, all zero for a nil *Tracker.
func (t *Tracker) Snapshot() Counts {
	if t == nil {
		return Counts{}
	}
	return Counts{
		Workers:  t.workers.Load(),
		Barriers: t.barriers.Load(),
		Gates:    t.gates.Load(),
	}
}

func (t *Tracker) addWorkers(n int64) {
	if t != nil {
		t.workers.Add(n)
	}
}

func (t *Tracker) addBarriers(n int64) {
	if t != nil {
		t.barriers.Add(n)
	}
}

func (t *Tracker) addGates(n int64) {
	if t != nil {
		t.gates.Add(n)
	}
}
