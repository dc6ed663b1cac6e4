package engine

// Phase is a step of the solve lifecycle.
type Phase int

const (
	Creating Phase = iota
	Running
	Converged
	Failed
	Joining
	Done
)

func (p Phase) String() string {
	switch p {
	case Creating:
		return "CREATING"
	case Running:
		return "RUNNING"
	case Converged:
		return "CONVERGED"
	case Failed:
		return "FAILED"
	case Joining:
		return "JOINING"
	case Done:
		return "DONE"
	}
	return "UNKNOWN"
}

// Progress describes one finished generation.
type Progress struct {
	Iteration int     `json:"iteration"`
	MaxError  float64 `json:"max_error"`
	Continue  bool    `json:"continue"`
}

// Observer receives lifecycle and per-generation notifications. Generation is
// called by the coordinator while every worker is parked at a barrier, so it
// must return promptly and never block.
type Observer interface {
	PhaseChanged(p Phase)
	Generation(p Progress)
}

type nopObserver struct{}

func (nopObserver) PhaseChanged(Phase)   {}
func (nopObserver) Generation(Progress) {}
