package list

import (
	"unsafe"

	"github.com/arloliu/ringq/internal/util"
)

// MaxCapacity is the largest number of slots a List can hold.
const MaxCapacity = 1<<31 - 1

// List is a resizable, contiguous store of fixed-size items.
//
// A List has a capacity, the number of allocated slots, and a length, the number of items
// appended so far. Get and Set operate on any slot in [0, Cap()) regardless of the length,
// which makes a List usable as raw backing storage for other containers.
//
// List is not safe for concurrent use.
type List[T any] struct {
	slots  []T
	length int
}

// New creates a List with the given capacity.
//
// It returns ErrInvalidCapacity if capacity is negative, and ErrCapacityOverflow if capacity
// exceeds MaxCapacity.
func New[T any](capacity int) (*List[T], error) {
	if err := checkCapacity(capacity); err != nil {
		return nil, err
	}

	return &List[T]{slots: make([]T, capacity)}, nil
}

// Len returns the number of items appended to the list.
func (l *List[T]) Len() int {
	return l.length
}

// Cap returns the number of allocated slots.
func (l *List[T]) Cap() int {
	return len(l.slots)
}

// ItemSize returns the size in bytes of a single item.
func (l *List[T]) ItemSize() int {
	var zero T
	return int(unsafe.Sizeof(zero))
}

// Get returns the item stored in slot idx.
func (l *List[T]) Get(idx int) (T, error) {
	if idx < 0 || idx >= len(l.slots) {
		var zero T
		return zero, ErrIndexOutOfRange
	}

	return l.slots[idx], nil
}

// Set stores item into slot idx.
//
// Setting a slot at or beyond Len() does not change the length.
func (l *List[T]) Set(idx int, item T) error {
	if idx < 0 || idx >= len(l.slots) {
		return ErrIndexOutOfRange
	}
	l.slots[idx] = item

	return nil
}

// Append stores item in the slot after the last appended item, doubling the capacity when the list is full.
func (l *List[T]) Append(item T) error {
	if l.length == len(l.slots) {
		next, ok := util.GrowCapacity(len(l.slots), 1, MaxCapacity)
		if !ok {
			return ErrCapacityOverflow
		}
		if err := l.Resize(next); err != nil {
			return err
		}
	}
	l.slots[l.length] = item
	l.length++

	return nil
}

// Truncate shortens the length of the list to n. The capacity is unchanged.
func (l *List[T]) Truncate(n int) error {
	if n < 0 || n > l.length {
		return ErrIndexOutOfRange
	}

	var zero T
	for i := n; i < l.length; i++ {
		l.slots[i] = zero
	}
	l.length = n

	return nil
}

// Resize reallocates the list to exactly capacity slots.
//
// The first min(Cap(), capacity) slots are preserved. If the length exceeds the new capacity,
// the length is truncated to it. On error the list is left unchanged.
func (l *List[T]) Resize(capacity int) error {
	if err := checkCapacity(capacity); err != nil {
		return err
	}
	if capacity == len(l.slots) {
		return nil
	}

	slots := make([]T, capacity)
	copy(slots, l.slots)
	l.slots = slots
	if l.length > capacity {
		l.length = capacity
	}

	return nil
}

// Clone returns a deep copy of the list's slots. Items are copied by value.
func (l *List[T]) Clone() *List[T] {
	return &List[T]{
		slots:  util.CloneSlice(l.slots, len(l.slots)),
		length: l.length,
	}
}

// Release drops the backing storage. The list has zero capacity afterwards.
func (l *List[T]) Release() {
	l.slots = nil
	l.length = 0
}

// Slots returns a copy of all slots, including slots beyond Len().
func (l *List[T]) Slots() []T {
	return util.CloneSlice(l.slots, len(l.slots))
}

func checkCapacity(capacity int) error {
	if capacity < 0 {
		return ErrInvalidCapacity
	}
	if capacity > MaxCapacity {
		return ErrCapacityOverflow
	}

	return nil
}
