package queue

import (
	"errors"

	"github.com/arloliu/ringq/list"
)

var (
	// ErrInvalidCapacity indicates that a negative capacity was provided.
	ErrInvalidCapacity = list.ErrInvalidCapacity

	// ErrCapacityOverflow indicates that the queue cannot allocate the capacity it needs.
	// The queue is left in the state it had before the failing call.
	ErrCapacityOverflow = list.ErrCapacityOverflow

	// ErrInvalidItemSize indicates that a fixed-size queue was created with an item size <= 0.
	ErrInvalidItemSize = errors.New("invalid item size, should be > 0")

	// ErrItemSize indicates that a buffer passed to a fixed-size queue does not match its item size.
	ErrItemSize = errors.New("buffer size does not match the queue item size")

	// ErrInvalidGrowFloor indicates that the growth floor is smaller than 1.
	ErrInvalidGrowFloor = errors.New("invalid grow floor, should be >= 1")
)

var (
	// ErrEmptyQueue is returned by Remove and Peek when the queue holds no items.
	ErrEmptyQueue = errors.New("queue is empty")

	// ErrCapacityTooSmall is returned by SetCapacity when the requested capacity
	// is smaller than the number of items in the queue.
	ErrCapacityTooSmall = errors.New("capacity is smaller than queue length")

	// ErrQueueFreed is returned by operations on a queue that has been freed.
	ErrQueueFreed = errors.New("queue has been freed")
)

// ErrInvariantViolation indicates that the internal state of a queue is inconsistent.
// It always points to a defect in the queue implementation.
var ErrInvariantViolation = errors.New("queue invariant violated")
