package queue

// State is the macro state of a queue.
type State uint8

const (
	// EmptyState means the queue holds no items; Remove and Peek fail with ErrEmptyQueue.
	EmptyState State = iota
	// NonEmptyState means the queue holds at least one item.
	NonEmptyState
	// FreedState means the queue released its storage and must be Reset before reuse.
	FreedState
)

func (s State) String() string {
	switch s {
	case EmptyState:
		return "Empty"
	case NonEmptyState:
		return "NonEmpty"
	case FreedState:
		return "Freed"
	default:
		return "Unknown"
	}
}
