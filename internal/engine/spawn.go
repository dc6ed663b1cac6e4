package engine

// Handle is a started worker that can be joined.
type Handle interface {
	Join()
}

// Spawner starts worker bodies. A real goroutine cannot fail to start, but
// the engine treats spawning as fallible so a substitute can refuse.
type Spawner interface {
	Spawn(slot int, fn func()) (Handle, error)
}

// SpawnFunc adapts a function to Spawner.
type SpawnFunc func(slot int, fn func()) (Handle, error)

// Spawn implements Spawner.
func (f SpawnFunc) Spawn(slot int, fn func()) (Handle, error) {
	return f(slot, fn)
}

type joinHandle chan struct{}

func (h joinHandle) Join() { <-h }

// Goroutines is the default Spawner.
var Goroutines Spawner = SpawnFunc(func(_ int, fn func()) (Handle, error) {
	h := make(joinHandle)
	go func() {
		defer close(h)
		fn()
	}()
	return h, nil
})
