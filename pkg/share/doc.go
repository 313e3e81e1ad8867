// Package share provides the data exchange primitives used between
// cooperative tasks: a single-slot Cell and a bounded FIFO Queue.
package share

// Tasks are stepped one at a time on a single goroutine and a step is never
// interrupted, so neither primitive needs a lock to stay consistent.
//
// Cell still keeps its value in one 64-bit word accessed atomically. A Cell
// may be written by a periodic task and read by an aperiodic one, and when
// a value is set from a goroutine outside the scheduler (e.g. a watcher) the
// reader must never observe a half written value.
//
// Queue has no such protection: only tasks on the scheduler goroutine may
// touch it.
