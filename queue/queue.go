package queue

import (
	"fmt"
	"unsafe"

	"github.com/arloliu/ringq/internal/util"
	"github.com/arloliu/ringq/list"
)

// emptyRead is the read cursor of a queue without items.
const emptyRead = -1

// Queue is a FIFO queue implemented as a circular buffer over a list.List.
//
// Items are stored by value. The capacity grows by doubling when an item is added to a full queue,
// and only shrinks through SetCapacity or Reclaim.
//
// Queue is not safe for concurrent use; see Synced for a locked wrapper.
type Queue[T any] struct {
	items  *list.List[T]
	read   int // next slot to remove from, emptyRead when the queue is empty
	write  int // next slot to add to
	length int
	state  State
	cfg    config
}

// New creates a queue with the given initial capacity.
//
// It returns ErrInvalidCapacity if capacity is negative, ErrCapacityOverflow if the capacity
// cannot be allocated, or an option error.
func New[T any](capacity int, opts ...Option) (*Queue[T], error) {
	cfg, err := newConfig(opts)
	if err != nil {
		return nil, err
	}

	q := &Queue[T]{cfg: cfg}
	if err := q.init(capacity); err != nil {
		return nil, err
	}

	return q, nil
}

func (q *Queue[T]) init(capacity int) error {
	items, err := list.New[T](capacity)
	if err != nil {
		return err
	}

	q.items = items
	q.read = emptyRead
	q.write = 0
	q.length = 0
	q.state = EmptyState

	return nil
}

// Reset reinitializes the queue with the given capacity, discarding all items.
// A freed queue can be reused after Reset. On error the queue is left unchanged.
func (q *Queue[T]) Reset(capacity int) error {
	return q.init(capacity)
}

// Free releases the backing storage. Every later operation except Reset fails with ErrQueueFreed,
// including a second Free.
func (q *Queue[T]) Free() error {
	if q.state == FreedState {
		return ErrQueueFreed
	}

	q.items.Release()
	q.items = nil
	q.read = emptyRead
	q.write = 0
	q.length = 0
	q.state = FreedState

	return nil
}

// Clone returns an independent copy of the queue.
//
// The copy has its own backing storage, the same capacity, cursors and items. Items are copied
// by value: if T holds pointers, slices or maps, both queues refer to the same underlying data.
// Use CloneWith to deep copy such items.
func (q *Queue[T]) Clone() (*Queue[T], error) {
	if q.state == FreedState {
		return nil, ErrQueueFreed
	}

	return &Queue[T]{
		items:  q.items.Clone(),
		read:   q.read,
		write:  q.write,
		length: q.length,
		state:  q.state,
		cfg:    q.cfg,
	}, nil
}

// CloneWith returns an independent copy of the queue where every item is duplicated by copyItem.
func (q *Queue[T]) CloneWith(copyItem func(T) T) (*Queue[T], error) {
	c, err := q.Clone()
	if err != nil {
		return nil, err
	}

	c.forEach(func(idx int, item T) {
		_ = c.items.Set(idx, copyItem(item))
	})

	return c, nil
}

// Add appends item to the tail of the queue, growing the capacity if the queue is full.
//
// It only fails if the queue was freed or the grown capacity cannot be allocated, in which case
// the queue is unchanged.
func (q *Queue[T]) Add(item T) error {
	if q.state == FreedState {
		return ErrQueueFreed
	}

	if q.length == q.items.Cap() {
		if err := q.grow(); err != nil {
			return err
		}
	}

	if err := q.items.Set(q.write, item); err != nil {
		return err
	}
	if q.length == 0 {
		q.read = q.write
		q.state = NonEmptyState
	}
	q.write = util.WrapIndex(q.write, 1, q.items.Cap())
	q.length++

	return nil
}

func (q *Queue[T]) grow() error {
	capacity := q.items.Cap()
	next, ok := util.GrowCapacity(capacity, q.cfg.growFloor, q.cfg.maxCapacity)
	if !ok {
		return ErrCapacityOverflow
	}

	if err := q.SetCapacity(next); err != nil {
		return err
	}
	q.cfg.logger.Debug("queue grown", "name", q.cfg.name, "from", capacity, "to", next, "length", q.length)

	return nil
}

// Remove removes and returns the item at the head of the queue.
// It returns ErrEmptyQueue and the zero value if the queue is empty.
func (q *Queue[T]) Remove() (T, error) {
	var zero T
	if q.state == FreedState {
		return zero, ErrQueueFreed
	}
	if q.length == 0 {
		return zero, ErrEmptyQueue
	}

	item, err := q.items.Get(q.read)
	if err != nil {
		return zero, err
	}
	// drop the reference held by the vacated slot
	_ = q.items.Set(q.read, zero)

	q.length--
	if q.length == 0 {
		q.read = emptyRead
		q.state = EmptyState
	} else {
		q.read = util.WrapIndex(q.read, 1, q.items.Cap())
	}

	return item, nil
}

// Peek returns the item at the head of the queue without removing it.
// It returns ErrEmptyQueue and the zero value if the queue is empty.
func (q *Queue[T]) Peek() (T, error) {
	var zero T
	if q.state == FreedState {
		return zero, ErrQueueFreed
	}
	if q.length == 0 {
		return zero, ErrEmptyQueue
	}

	return q.items.Get(q.read)
}

// Length returns the number of items in the queue.
func (q *Queue[T]) Length() int {
	return q.length
}

// Capacity returns the number of allocated slots. A freed queue has zero capacity.
func (q *Queue[T]) Capacity() int {
	if q.items == nil {
		return 0
	}

	return q.items.Cap()
}

// IsEmpty returns true if the queue holds no items.
func (q *Queue[T]) IsEmpty() bool {
	return q.length == 0
}

// State returns the macro state of the queue.
func (q *Queue[T]) State() State {
	return q.state
}

// ItemSize returns the size in bytes of a single item.
func (q *Queue[T]) ItemSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Name returns the name set by WithName or SetName.
func (q *Queue[T]) Name() string {
	return q.cfg.name
}

// SetName changes the name reported by Stats and log records.
func (q *Queue[T]) SetName(name string) {
	q.cfg.name = name
}

// SetCapacity reallocates the queue to exactly capacity slots.
//
// It returns ErrCapacityTooSmall if capacity is smaller than the queue length. The items are moved
// into a contiguous run starting at slot 0. A capacity of 0 on an empty queue is raised to 1.
// On error the queue is left unchanged.
func (q *Queue[T]) SetCapacity(capacity int) error {
	if q.state == FreedState {
		return ErrQueueFreed
	}
	if capacity < 0 {
		return ErrInvalidCapacity
	}
	if capacity < q.length {
		return fmt.Errorf("%w: requested %d, length %d", ErrCapacityTooSmall, capacity, q.length)
	}
	if capacity < minCapacity {
		capacity = minCapacity
	}
	if capacity > q.cfg.maxCapacity {
		return ErrCapacityOverflow
	}

	items, err := list.New[T](capacity)
	if err != nil {
		return err
	}

	n := 0
	q.forEach(func(_ int, item T) {
		_ = items.Set(n, item)
		n++
	})

	q.items = items
	q.write = q.length % capacity
	if q.length == 0 {
		q.read = emptyRead
	} else {
		q.read = 0
	}

	return nil
}

// Reclaim shrinks the capacity to the queue length, or to 1 if the queue is empty.
func (q *Queue[T]) Reclaim() error {
	return q.SetCapacity(max(q.length, minCapacity))
}

// Clear removes all items while keeping the capacity.
func (q *Queue[T]) Clear() error {
	if q.state == FreedState {
		return ErrQueueFreed
	}

	var zero T
	q.forEach(func(idx int, _ T) {
		_ = q.items.Set(idx, zero)
	})
	q.read = emptyRead
	q.write = 0
	q.length = 0
	q.state = EmptyState

	return nil
}

// Values returns the items in FIFO order without removing them.
func (q *Queue[T]) Values() []T {
	values := make([]T, 0, q.length)
	q.forEach(func(_ int, item T) {
		values = append(values, item)
	})

	return values
}

// forEach calls fn with the slot index and item of every queued item, head first.
func (q *Queue[T]) forEach(fn func(idx int, item T)) {
	if q.length == 0 {
		return
	}

	capacity := q.items.Cap()
	for i := 0; i < q.length; i++ {
		idx := util.WrapIndex(q.read, i, capacity)
		item, _ := q.items.Get(idx)
		fn(idx, item)
	}
}
