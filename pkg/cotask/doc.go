// Package cotask implements a cooperative, priority based scheduler.
//
// A Task wraps a Machine: an explicit state machine whose Step performs one
// transition and returns. Steps never block; a Machine waiting for a
// condition polls it and returns, to be retried on a later pass.
//
// Exactly one Step runs at a time and it is never interrupted, which is
// what makes the primitives in package share safe without locks.
package cotask
