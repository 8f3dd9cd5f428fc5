package registry

import "errors"

var (
	// ErrQueueNotFound indicates that no queue is registered under the given name.
	ErrQueueNotFound = errors.New("queue not found")

	// ErrQueueExists indicates that a queue is already registered under the given name.
	ErrQueueExists = errors.New("queue already exists")

	// ErrInvalidName indicates that a queue name is empty, too long or contains '/'.
	ErrInvalidName = errors.New("invalid queue name")

	// ErrInvalidInitialCapacity indicates a negative initial queue capacity.
	ErrInvalidInitialCapacity = errors.New("invalid initial capacity, should be >= 0")
)
