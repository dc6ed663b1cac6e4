package barrier

import (
	"fmt"

	"github.com/vk/gridrelax/internal/fault"
)

const subsystem = "barrier"

// Kind selects a barrier algorithm. The set is closed.
type Kind int

const (
	Tree Kind = iota
	Cond
	Native
	kindCount
)

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case Tree:
		return "tree"
	case Cond:
		return "cond"
	case Native:
		return "native"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// ParseKind maps the numeric command-line tag onto a Kind.
func ParseKind(tag int) (Kind, error) {
	if tag < 0 || tag >= int(kindCount) {
		return 0, fault.Newf(fault.InvalidConfiguration, subsystem,
			"barrier kind %d outside [0,%d]", tag, int(kindCount)-1)
	}
	return Kind(tag), nil
}

// Barrier is a reusable rendezvous point.
type Barrier interface {
	// Wait blocks the participant in slot until all participants of the
	// current generation have arrived.
	Wait(slot int)
	// Participants reports the configured participant count.
	Participants() int
	// Close releases the barrier. It must not be called while any
	// participant is still inside Wait.
	Close()
}

// New creates a barrier for the given number of participants. An unknown kind
// is a programming error and panics.
func New(kind Kind, participants int) (Barrier, error) {
	if participants < 1 {
		return nil, fault.Newf(fault.BarrierInitFailed, subsystem,
			"%s barrier needs at least one participant, got %d", kind, participants)
	}
	switch kind {
	case Tree:
		return newTree(participants), nil
	case Cond:
		return newCond(participants), nil
	case Native:
		return newNative(participants), nil
	}
	panic(fmt.Sprintf("barrier: unknown kind %d", int(kind)))
}

func checkSlot(slot, n int) {
	if slot < 0 || slot >= n {
		panic(fmt.Sprintf("barrier: slot %d outside [0,%d)", slot, n))
	}
}
