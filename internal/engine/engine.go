package engine

import (
	"context"
	"fmt"
	"math"
	"time"

	"golang.org/x/sync/semaphore"

	"github.com/vk/gridrelax/internal/barrier"
	"github.com/vk/gridrelax/internal/clock"
	"github.com/vk/gridrelax/internal/ctxlog"
	"github.com/vk/gridrelax/internal/fault"
	"github.com/vk/gridrelax/internal/grid"
	"github.com/vk/gridrelax/internal/partition"
)

const subsystem = "engine"

// DefaultEpsilon is the convergence threshold on the largest cell change.
const DefaultEpsilon = 0.001

// Config selects the algorithms and sizes of a solve.
type Config struct {
	Barrier   barrier.Kind
	Partition partition.Strategy
	Workers   int
	Epsilon   float64
}

// Result is the outcome of a converged solve.
type Result struct {
	Grid       *grid.Grid
	Iterations int
	Wall       time.Duration
	CPU        time.Duration
}

// Solver runs relaxation solves with a fixed configuration.
type Solver struct {
	cfg         Config
	spawner     Spawner
	tracker     *Tracker
	observer    Observer
	makeBarrier func(barrier.Kind, int) (barrier.Barrier, error)
}

// Option customises a Solver.
type Option func(*Solver)

// WithSpawner replaces the goroutine spawner. A nil sp is ignored.
func WithSpawner(sp Spawner) Option {
	return func(s *Solver) {
		if sp != nil {
			s.spawner = sp
		}
	}
}

// WithTracker counts live resources into t. A nil t is ignored.
func WithTracker(t *Tracker) Option {
	return func(s *Solver) {
		if t != nil {
			s.tracker = t
		}
	}
}

// WithObserver registers o for lifecycle and progress notifications. A nil o
// is ignored.
func WithObserver(o Observer) Option {
	return func(s *Solver) {
		if o != nil {
			s.observer = o
		}
	}
}

// New validates cfg and returns a Solver.
func New(cfg Config, opts ...Option) (*Solver, error) {
	if cfg.Workers < 1 {
		return nil, fault.Newf(fault.InvalidConfiguration, subsystem, "subtask count must be at least 1, got %d", cfg.Workers)
	}
	if !(cfg.Epsilon > 0) || math.IsInf(cfg.Epsilon, 1) {
		return nil, fault.Newf(fault.InvalidConfiguration, subsystem, "epsilon must be a positive number, got %v", cfg.Epsilon)
	}
	if _, err := barrier.ParseKind(int(cfg.Barrier)); err != nil {
		return nil, err
	}

	s := &Solver{
		cfg:         cfg,
		spawner:     Goroutines,
		tracker:     new(Tracker),
		observer:    nopObserver{},
		makeBarrier: barrier.New,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Resources reports the engine resources currently alive.
func (s *Solver) Resources() Counts {
	return s.tracker.Snapshot()
}

// Solve relaxes input to convergence and returns the last written buffer.
// input itself is not modified. There is no cancellation: ctx only carries
// the logger.
func (s *Solver) Solve(ctx context.Context, input *grid.Grid) (*Result, error) {
	ctx = ctxlog.With(ctx, "barrier", s.cfg.Barrier.String(), "subtasks", s.cfg.Workers)
	logger := ctxlog.FromContext(ctx)
	s.enter(ctx, Creating)

	var cleanup releaser
	defer cleanup.release()

	fail := func(err error) (*Result, error) {
		s.enter(ctx, Failed)
		logger.Debug("Solve aborted during startup.", "error", err)
		return nil, err
	}

	regions, err := partition.Split(s.cfg.Partition, input.Rows, input.Cols, s.cfg.Workers)
	if err != nil {
		return fail(err)
	}
	logger.Debug("Interior partitioned.", "strategy", s.cfg.Partition.String(), "regions", len(regions))

	bufs, err := grid.NewDouble(input)
	if err != nil {
		return fail(err)
	}
	var result *grid.Grid
	cleanup.add(func() {
		if result == nil {
			bufs.Release()
		}
	})

	participants := s.cfg.Workers + 1
	done, err := s.openBarrier(&cleanup, participants)
	if err != nil {
		return fail(err)
	}
	goAhead, err := s.openBarrier(&cleanup, participants)
	if err != nil {
		return fail(err)
	}

	ctl := newControl(s.cfg.Workers)
	gate := semaphore.NewWeighted(int64(s.cfg.Workers))
	gate.TryAcquire(int64(s.cfg.Workers))
	s.tracker.addGates(1)
	cleanup.add(func() { s.tracker.addGates(-1) })

	sw := clock.Start()
	handles, err := s.start(ctx, ctl, gate, func(slot int) {
		w := &worker{
			slot:    slot,
			region:  regions[slot],
			bufs:    bufs,
			ctl:     ctl,
			gate:    gate,
			done:    done,
			goAhead: goAhead,
		}
		w.run()
	})
	if err != nil {
		return fail(err)
	}

	s.enter(ctx, Running)
	s.coordinate(ctl, done, goAhead)
	s.enter(ctx, Converged)

	s.enter(ctx, Joining)
	for _, h := range handles {
		h.Join()
	}
	wall, cpu := sw.Elapsed()

	result = bufs.Keep(ctl.readA)
	s.enter(ctx, Done)
	logger.Info("Relaxation converged.", "iterations", ctl.iterations, "wall", wall, "cpu", cpu)

	return &Result{Grid: result, Iterations: ctl.iterations, Wall: wall, CPU: cpu}, nil
}

// openBarrier creates one barrier and registers its release.
func (s *Solver) openBarrier(cleanup *releaser, participants int) (barrier.Barrier, error) {
	b, err := s.makeBarrier(s.cfg.Barrier, participants)
	if err != nil {
		if fault.KindOf(err) == 0 {
			err = fault.New(fault.BarrierInitFailed, subsystem, err)
		}
		return nil, err
	}
	s.tracker.addBarriers(1)
	cleanup.add(func() {
		b.Close()
		s.tracker.addBarriers(-1)
	})
	return b, nil
}

// start spawns the workers behind the closed gate and opens it once all of
// them exist. On a spawn failure the workers already running are let through
// the gate with proceed cleared, and joined.
func (s *Solver) start(ctx context.Context, ctl *control, gate *semaphore.Weighted, body func(slot int)) ([]Handle, error) {
	logger := ctxlog.FromContext(ctx)
	handles := make([]Handle, 0, s.cfg.Workers)

	for slot := 0; slot < s.cfg.Workers; slot++ {
		s.tracker.addWorkers(1)
		h, err := s.spawner.Spawn(slot, func() {
			defer s.tracker.addWorkers(-1)
			body(slot)
		})
		if err != nil {
			s.tracker.addWorkers(-1)
			logger.Warn("Worker creation failed, unwinding.", "slot", slot, "started", len(handles), "error", err)

			ctl.proceed = false
			gate.Release(int64(len(handles)))
			for _, started := range handles {
				started.Join()
			}
			return nil, fault.New(fault.ThreadCreateFailed, subsystem, fmt.Errorf("worker %d: %w", slot, err))
		}
		handles = append(handles, h)
	}

	gate.Release(int64(s.cfg.Workers))
	logger.Debug("All workers created.", "count", len(handles))
	return handles, nil
}

// coordinate drives generations until the largest change drops to epsilon.
// The coordinator occupies the last barrier slot.
func (s *Solver) coordinate(ctl *control, done, goAhead barrier.Barrier) {
	slot := s.cfg.Workers
	for ctl.proceed {
		done.Wait(slot)

		maxErr := ctl.maxError()
		ctl.proceed = maxErr > s.cfg.Epsilon
		if ctl.proceed {
			ctl.readA = !ctl.readA
		}
		ctl.iterations++
		s.observer.Generation(Progress{Iteration: ctl.iterations, MaxError: maxErr, Continue: ctl.proceed})

		goAhead.Wait(slot)
	}
}

func (s *Solver) enter(ctx context.Context, p Phase) {
	ctxlog.FromContext(ctx).Debug("Engine phase.", "phase", p.String())
	s.observer.PhaseChanged(p)
}

// releaser runs registered release functions in reverse order.
type releaser []func()

func (r *releaser) add(f func()) {
	*r = append(*r, f)
}

func (r *releaser) release() {
	for i := len(*r) - 1; i >= 0; i-- {
		(*r)[i]()
	}
	*r = nil
}
