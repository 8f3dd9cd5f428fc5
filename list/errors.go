package list

import "errors"

var (
	// ErrInvalidCapacity indicates that a negative capacity was requested.
	ErrInvalidCapacity = errors.New("invalid capacity, should be >= 0")

	// ErrCapacityOverflow indicates that the requested capacity cannot be allocated.
	ErrCapacityOverflow = errors.New("capacity exceeds the maximum list capacity")

	// ErrIndexOutOfRange indicates that an index is outside of the allocated slots.
	ErrIndexOutOfRange = errors.New("index out of range")
)
