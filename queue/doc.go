// Package queue provides a growable FIFO queue built as a circular buffer over a list.List.
//
// Key Features:
//   - Generic Queue[T] storing items by value, with O(1) Add, Remove and Peek.
//   - Amortized O(1) growth: a full queue doubles its capacity and relinearizes its items
//     so that the head moves to slot 0. Growth never drops or reorders items.
//   - Explicit capacity control with SetCapacity and Reclaim, which release the slack left
//     behind by bursts of traffic.
//   - Independent copies with Clone and CloneWith.
//   - Fixed, a type-erased queue of fixed-size byte records.
//   - Synced, a mutex wrapper for queues shared between goroutines. Queue and Fixed themselves
//     do no locking.
//
// Usage Example:
//
//	q, _ := queue.New[int](2)
//	for i := 0; i < 10; i++ {
//	    _ = q.Add(i) // grows 2 -> 4 -> 8 -> 16
//	}
//
//	v, _ := q.Remove() // 0
//	_ = q.Reclaim()    // capacity is now 9
//
//	_, err := q.Peek()
//	if errors.Is(err, queue.ErrEmptyQueue) {
//	    // nothing queued
//	}
//
// Validate and SanityCheck verify the internal invariants of a queue. A failure is a defect of this
// package and SanityCheck panics on it, so they belong in tests and debug builds.
package queue
