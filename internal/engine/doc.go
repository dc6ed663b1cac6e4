// Package engine runs the parallel relaxation solve: one coordinator and N
// workers, each worker bound to one partition region of a double-buffered
// grid.
//
// # Protocol
//
// Every generation each worker relaxes its region from the current buffer
// into the next one, records its largest cell change, and waits at the
// "done" barrier. The coordinator waits there too; once released it reduces
// the per-worker changes, decides whether to continue, flips the buffer
// selector if so, counts the generation, and waits at the "go" barrier,
// releasing all workers together. Workers then loop or exit.
//
// The control state (continue flag, selector, counter, per-worker change) is
// written only by the coordinator between the two barriers, and read by
// workers only after "go". The barrier release is the only synchronization
// edge; no lock guards the grid. Regions are disjoint and the read/write
// roles alternate strictly, so no cell is read and written in the same
// generation.
//
// # Startup
//
// Workers are spawned one at a time behind a creation gate and do nothing
// until the gate opens. If spawning worker k fails, the coordinator clears the
// continue flag, opens the gate for the k workers already running, joins
// them and releases everything before reporting ThreadCreateFailed.
package engine
