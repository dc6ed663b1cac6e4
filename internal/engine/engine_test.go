package engine

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/gridrelax/internal/barrier"
	"github.com/vk/gridrelax/internal/fault"
	"github.com/vk/gridrelax/internal/grid"
	"github.com/vk/gridrelax/internal/partition"
)

var allKinds = []barrier.Kind{barrier.Tree, barrier.Cond, barrier.Native}

// boundaryGrid returns a rows × cols grid with a non-uniform fixed boundary
// and a zero interior.
func boundaryGrid(t *testing.T, rows, cols int) *grid.Grid {
	t.Helper()
	g, err := grid.Allocate(rows, cols)
	require.NoError(t, err)
	for c := 0; c < cols; c++ {
		g.Set(0, c, float64(c+1))
		g.Set(rows-1, c, float64(2*c))
	}
	for r := 0; r < rows; r++ {
		g.Set(r, 0, float64(r)*1.5)
		g.Set(r, cols-1, 10)
	}
	return g
}

// referenceSolve is a single-threaded Jacobi loop with the same update rule.
func referenceSolve(t *testing.T, input *grid.Grid, eps float64) (*grid.Grid, int) {
	t.Helper()
	cur, err := grid.Clone(input)
	require.NoError(t, err)
	next, err := grid.Clone(input)
	require.NoError(t, err)
	whole := partition.Region{RowStart: 1, RowEnd: input.Rows - 1, ColStart: 1, ColEnd: input.Cols - 1}

	iterations := 0
	for {
		delta := relax(cur, next, whole)
		iterations++
		if delta <= eps {
			return next, iterations
		}
		cur, next = next, cur
	}
}

func requireSameGrid(t *testing.T, want, got *grid.Grid, msg string) {
	t.Helper()
	require.Equal(t, want.Rows, got.Rows, msg)
	require.Equal(t, want.Cols, got.Cols, msg)
	for r := 0; r < want.Rows; r++ {
		for c := 0; c < want.Cols; c++ {
			require.InDelta(t, want.At(r, c), got.At(r, c), 1e-10, "%s: cell (%d,%d)", msg, r, c)
		}
	}
}

func TestSolve_AllVariantsAgreeOnSmallGrid(t *testing.T) {
	t.Parallel()

	input := boundaryGrid(t, 5, 5)
	want, wantIters := referenceSolve(t, input, DefaultEpsilon)

	layouts := []struct {
		workers  int
		strategy partition.Strategy
	}{
		{workers: 1, strategy: partition.Rows},
		{workers: 4, strategy: partition.Blocks},
	}

	for _, kind := range allKinds {
		for _, layout := range layouts {
			name := fmt.Sprintf("%s/%d-%s", kind, layout.workers, layout.strategy)
			t.Run(name, func(t *testing.T) {
				t.Parallel()

				tracker := new(Tracker)
				s, err := New(Config{
					Barrier:   kind,
					Partition: layout.strategy,
					Workers:   layout.workers,
					Epsilon:   DefaultEpsilon,
				}, WithTracker(tracker))
				require.NoError(t, err)

				res, err := s.Solve(context.Background(), input)
				require.NoError(t, err)

				assert.Equal(t, wantIters, res.Iterations)
				requireSameGrid(t, want, res.Grid, name)
				assert.Equal(t, Counts{}, tracker.Snapshot(), "resources left alive")
			})
		}
	}
}

func TestSolve_LargerGridManyWorkers(t *testing.T) {
	t.Parallel()

	input := boundaryGrid(t, 18, 22)
	want, wantIters := referenceSolve(t, input, DefaultEpsilon)

	for _, kind := range allKinds {
		for _, strategy := range []partition.Strategy{partition.Rows, partition.Blocks} {
			t.Run(kind.String()+"/"+strategy.String(), func(t *testing.T) {
				t.Parallel()

				s, err := New(Config{Barrier: kind, Partition: strategy, Workers: 8, Epsilon: DefaultEpsilon})
				require.NoError(t, err)

				res, err := s.Solve(context.Background(), input)
				require.NoError(t, err)
				assert.Equal(t, wantIters, res.Iterations)
				requireSameGrid(t, want, res.Grid, kind.String())
			})
		}
	}
}

func TestSolve_KeepsBoundaryAndInput(t *testing.T) {
	t.Parallel()

	input := boundaryGrid(t, 6, 7)
	before, err := grid.Clone(input)
	require.NoError(t, err)

	s, err := New(Config{Barrier: barrier.Native, Workers: 2, Epsilon: DefaultEpsilon})
	require.NoError(t, err)
	res, err := s.Solve(context.Background(), input)
	require.NoError(t, err)

	requireSameGrid(t, before, input, "input must not be modified")
	for c := 0; c < input.Cols; c++ {
		assert.Equal(t, input.At(0, c), res.Grid.At(0, c))
		assert.Equal(t, input.At(input.Rows-1, c), res.Grid.At(input.Rows-1, c))
	}
	for r := 0; r < input.Rows; r++ {
		assert.Equal(t, input.At(r, 0), res.Grid.At(r, 0))
		assert.Equal(t, input.At(r, input.Cols-1), res.Grid.At(r, input.Cols-1))
	}
}

// recordingObserver captures every notification.
type recordingObserver struct {
	mu       sync.Mutex
	phases   []Phase
	progress []Progress
}

func (o *recordingObserver) PhaseChanged(p Phase) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.phases = append(o.phases, p)
}

func (o *recordingObserver) Generation(p Progress) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.progress = append(o.progress, p)
}

func TestSolve_ReportsLifecycleAndProgress(t *testing.T) {
	t.Parallel()

	obs := &recordingObserver{}
	s, err := New(Config{Barrier: barrier.Tree, Workers: 3, Epsilon: DefaultEpsilon}, WithObserver(obs))
	require.NoError(t, err)

	res, err := s.Solve(context.Background(), boundaryGrid(t, 8, 8))
	require.NoError(t, err)

	assert.Equal(t, []Phase{Creating, Running, Converged, Joining, Done}, obs.phases)
	require.Len(t, obs.progress, res.Iterations)
	for i, p := range obs.progress {
		assert.Equal(t, i+1, p.Iteration)
		assert.Equal(t, i < res.Iterations-1, p.Continue, "generation %d", p.Iteration)
	}
	assert.LessOrEqual(t, obs.progress[len(obs.progress)-1].MaxError, DefaultEpsilon)
}

// failingSpawner starts real goroutines but refuses the given slot, and
// counts how many of its handles were joined.
type failingSpawner struct {
	failAt  int
	started atomic.Int64
	joined  atomic.Int64
}

type countedHandle struct {
	inner Handle
	owner *failingSpawner
}

func (h countedHandle) Join() {
	h.inner.Join()
	h.owner.joined.Add(1)
}

func (f *failingSpawner) Spawn(slot int, fn func()) (Handle, error) {
	if slot == f.failAt {
		return nil, errors.New("resource temporarily unavailable")
	}
	h, err := Goroutines.Spawn(slot, fn)
	if err != nil {
		return nil, err
	}
	f.started.Add(1)
	return countedHandle{inner: h, owner: f}, nil
}

func TestSolve_ThreadCreateFailureUnwinds(t *testing.T) {
	for _, kind := range allKinds {
		t.Run(kind.String(), func(t *testing.T) {
			t.Parallel()

			// --- Arrange ---
			spawner := &failingSpawner{failAt: 2}
			tracker := new(Tracker)
			obs := &recordingObserver{}
			s, err := New(Config{Barrier: kind, Workers: 4, Epsilon: DefaultEpsilon},
				WithSpawner(spawner), WithTracker(tracker), WithObserver(obs))
			require.NoError(t, err)

			// --- Act ---
			res, err := s.Solve(context.Background(), boundaryGrid(t, 10, 10))

			// --- Assert ---
			require.Error(t, err)
			assert.Nil(t, res)
			assert.True(t, errors.Is(err, fault.ThreadCreateFailed))
			assert.Contains(t, err.Error(), "resource temporarily unavailable")

			assert.Equal(t, int64(2), spawner.started.Load())
			assert.Equal(t, int64(2), spawner.joined.Load(), "every started worker is joined")
			assert.Equal(t, Counts{}, tracker.Snapshot(), "no live workers, barriers or gates")
			assert.Equal(t, []Phase{Creating, Failed}, obs.phases)
		})
	}
}

func TestSolve_FirstWorkerFailsToSpawn(t *testing.T) {
	t.Parallel()

	spawner := &failingSpawner{failAt: 0}
	s, err := New(Config{Barrier: barrier.Cond, Workers: 4, Epsilon: DefaultEpsilon}, WithSpawner(spawner))
	require.NoError(t, err)

	_, err = s.Solve(context.Background(), boundaryGrid(t, 10, 10))
	require.Error(t, err)
	assert.Equal(t, fault.ThreadCreateFailed, fault.KindOf(err))
	assert.Equal(t, Counts{}, s.Resources())
}

func TestSolve_BarrierInitFailureReleasesFirstBarrier(t *testing.T) {
	t.Parallel()

	tracker := new(Tracker)
	s, err := New(Config{Barrier: barrier.Tree, Workers: 2, Epsilon: DefaultEpsilon}, WithTracker(tracker))
	require.NoError(t, err)

	calls := 0
	s.makeBarrier = func(kind barrier.Kind, n int) (barrier.Barrier, error) {
		calls++
		if calls == 2 {
			return nil, errors.New("cannot allocate semaphores")
		}
		return barrier.New(kind, n)
	}

	_, err = s.Solve(context.Background(), boundaryGrid(t, 6, 6))
	require.Error(t, err)
	assert.True(t, errors.Is(err, fault.BarrierInitFailed))
	assert.Equal(t, Counts{}, tracker.Snapshot())
}

func TestSolve_PartitionErrorsAreConfigurationErrors(t *testing.T) {
	t.Parallel()

	s, err := New(Config{Barrier: barrier.Native, Partition: partition.Blocks, Workers: 3, Epsilon: DefaultEpsilon})
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), boundaryGrid(t, 10, 10))
	assert.True(t, errors.Is(err, fault.InvalidConfiguration))

	s, err = New(Config{Barrier: barrier.Native, Partition: partition.Rows, Workers: 9, Epsilon: DefaultEpsilon})
	require.NoError(t, err)
	_, err = s.Solve(context.Background(), boundaryGrid(t, 5, 5))
	assert.True(t, errors.Is(err, fault.InvalidConfiguration))
}

func TestNew_RejectsBadConfig(t *testing.T) {
	t.Parallel()

	bad := []Config{
		{Barrier: barrier.Tree, Workers: 0, Epsilon: DefaultEpsilon},
		{Barrier: barrier.Tree, Workers: 1, Epsilon: 0},
		{Barrier: barrier.Tree, Workers: 1, Epsilon: -1},
		{Barrier: barrier.Kind(5), Workers: 1, Epsilon: DefaultEpsilon},
	}
	for i, cfg := range bad {
		_, err := New(cfg)
		assert.True(t, errors.Is(err, fault.InvalidConfiguration), "case %d", i)
	}
}

func TestRelax_AveragesNeighbours(t *testing.T) {
	t.Parallel()

	cur, err := grid.Allocate(3, 3)
	require.NoError(t, err)
	cur.Set(0, 1, 4)
	cur.Set(1, 0, 8)
	cur.Set(1, 2, 12)
	cur.Set(2, 1, 16)
	cur.Set(1, 1, 1)
	next, err := grid.Clone(cur)
	require.NoError(t, err)

	delta := relax(cur, next, partition.Region{RowStart: 1, RowEnd: 2, ColStart: 1, ColEnd: 2})

	assert.Equal(t, 10.0, next.At(1, 1))
	assert.Equal(t, 9.0, delta)
	assert.Equal(t, 4.0, next.At(0, 1), "boundary untouched")
}

func TestOptions_IgnoreNil(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	s, err := New(Config{Barrier: barrier.Native, Workers: 2, Epsilon: DefaultEpsilon},
		WithTracker(nil), WithObserver(nil), WithSpawner(nil))
	require.NoError(t, err)

	// --- Act ---
	res, err := s.Solve(context.Background(), boundaryGrid(t, 6, 6))

	// --- Assert ---
	require.NoError(t, err)
	assert.Positive(t, res.Iterations)
	assert.Equal(t, Counts{}, s.Resources())
}

func TestTracker_NilSnapshot(t *testing.T) {
	t.Parallel()
	var tr *Tracker
	assert.NotPanics(t, func() { tr.addWorkers(1) })
	assert.Equal(t, Counts{}, tr.Snapshot())
}
