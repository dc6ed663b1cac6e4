// Package barrier provides a reusable rendezvous for a fixed number of
// participants, with three interchangeable algorithms behind one interface.
//
// A call to Wait for a generation does not return to any participant until
// every participant has called Wait for that same generation; the barrier
// then opens the next generation on its own. Participants are identified by
// a dense integer slot in [0, Participants()), assigned once by the caller.
//
// # Variants
//
//   - Tree: participants sit in a complete binary tree by slot (slot 0 is the
//     root). Each node collects "arrived" from its children, reports to its
//     parent, waits for "go" and passes it down. Signalling depth is
//     O(log P) instead of P goroutines contending on one counter. Each slot
//     owns two one-element channels used as semaphores.
//   - Cond: a mutex-guarded counter and a sync.Cond. The last arrival resets
//     the counter and issues P-1 individual Signal calls.
//   - Native: the Go runtime's own broadcast, a channel closed once per
//     generation.
package barrier
