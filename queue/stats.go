package queue

import (
	"fmt"

	"github.com/arloliu/ringq/logger"
)

// Stats is a point-in-time snapshot of a queue's size counters.
type Stats struct {
	Name     string `json:"name,omitempty"`
	Length   int    `json:"length"`
	Capacity int    `json:"capacity"`
	ItemSize int    `json:"item_size"`
	State    string `json:"state"`
}

// Stats returns the current length, capacity and item size of the queue.
func (q *Queue[T]) Stats() Stats {
	return Stats{
		Name:     q.cfg.name,
		Length:   q.length,
		Capacity: q.Capacity(),
		ItemSize: q.ItemSize(),
		State:    q.state.String(),
	}
}

// PrintStats logs the queue statistics at info level.
func (q *Queue[T]) PrintStats() {
	logStats(q.cfg.logger, q.Stats())
}

func logStats(l logger.Logger, s Stats) {
	l.Info("queue stats",
		"name", s.Name,
		"length", s.Length,
		"capacity", s.Capacity,
		"item_size", s.ItemSize,
		"state", s.State,
	)
}

// Validate checks the internal invariants of the queue and returns an error wrapping
// ErrInvariantViolation describing the first violation found.
func (q *Queue[T]) Validate() error {
	if q.state == FreedState {
		if q.items != nil || q.length != 0 || q.read != emptyRead {
			return violation("freed queue still holds state: length=%d read=%d", q.length, q.read)
		}
		return nil
	}

	if q.items == nil {
		return violation("backing list is nil in state %s", q.state)
	}

	capacity := q.items.Cap()
	if q.length < 0 || q.length > capacity {
		return violation("length %d out of range [0, %d]", q.length, capacity)
	}

	if capacity == 0 {
		if q.write != 0 {
			return violation("write cursor %d on zero capacity", q.write)
		}
	} else if q.write < 0 || q.write >= capacity {
		return violation("write cursor %d out of range [0, %d)", q.write, capacity)
	}

	if q.length == 0 {
		if q.read != emptyRead {
			return violation("empty queue has read cursor %d", q.read)
		}
		if q.state != EmptyState {
			return violation("empty queue in state %s", q.state)
		}
		return nil
	}

	if q.state != NonEmptyState {
		return violation("queue with %d items in state %s", q.length, q.state)
	}
	if q.read < 0 || q.read >= capacity {
		return violation("read cursor %d out of range [0, %d)", q.read, capacity)
	}
	if want := (q.read + q.length) % capacity; q.write != want {
		return violation("write cursor %d, expected %d (read=%d length=%d capacity=%d)",
			q.write, want, q.read, q.length, capacity)
	}

	return nil
}

// SanityCheck validates the queue invariants and panics if any of them is violated.
//
// It is meant for tests and debug builds; a violation always indicates a defect in this package.
func (q *Queue[T]) SanityCheck() {
	if err := q.Validate(); err != nil {
		q.cfg.logger.Error("queue sanity check failed", "name", q.cfg.name, "error", err)
		panic(err)
	}
}

func violation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvariantViolation, fmt.Sprintf(format, args...))
}
