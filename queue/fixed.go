package queue

import (
	"fmt"

	"github.com/arloliu/ringq/internal/util"
)

// Fixed is a FIFO queue of opaque byte records of a fixed item size.
//
// Records are copied in on Add and copied out on Remove and Peek, so callers may reuse their
// buffers. To queue pointers, encode them into records of pointer size.
type Fixed struct {
	q        *Queue[[]byte]
	itemSize int
}

// NewFixed creates a queue of records of itemSize bytes with the given initial capacity.
//
// It returns ErrInvalidItemSize if itemSize <= 0 and ErrInvalidCapacity if capacity is negative.
func NewFixed(capacity int, itemSize int, opts ...Option) (*Fixed, error) {
	if itemSize <= 0 {
		return nil, ErrInvalidItemSize
	}

	q, err := New[[]byte](capacity, opts...)
	if err != nil {
		return nil, err
	}

	return &Fixed{q: q, itemSize: itemSize}, nil
}

// Reset reinitializes the queue with a new capacity and item size, discarding all records.
// On error the queue is left unchanged.
func (f *Fixed) Reset(capacity int, itemSize int) error {
	if itemSize <= 0 {
		return ErrInvalidItemSize
	}
	if err := f.q.Reset(capacity); err != nil {
		return err
	}
	f.itemSize = itemSize

	return nil
}

// Free releases the backing storage; see Queue.Free.
func (f *Fixed) Free() error {
	return f.q.Free()
}

// Clone returns an independent copy of the queue. Records are duplicated, no buffer is shared.
func (f *Fixed) Clone() (*Fixed, error) {
	q, err := f.q.CloneWith(cloneRecord)
	if err != nil {
		return nil, err
	}

	return &Fixed{q: q, itemSize: f.itemSize}, nil
}

// Add copies item to the tail of the queue. The length of item must equal ItemSize.
func (f *Fixed) Add(item []byte) error {
	if len(item) != f.itemSize {
		return fmt.Errorf("%w: got %d bytes, item size %d", ErrItemSize, len(item), f.itemSize)
	}

	return f.q.Add(util.CloneSlice(item, f.itemSize))
}

// Remove copies the record at the head of the queue into out and removes it.
//
// out must be at least ItemSize bytes long. On ErrEmptyQueue out is not modified.
func (f *Fixed) Remove(out []byte) error {
	if len(out) < f.itemSize {
		return fmt.Errorf("%w: buffer of %d bytes, item size %d", ErrItemSize, len(out), f.itemSize)
	}

	rec, err := f.q.Remove()
	if err != nil {
		return err
	}
	copy(out, rec)

	return nil
}

// Peek copies the record at the head of the queue into out without removing it.
//
// out must be at least ItemSize bytes long. On ErrEmptyQueue out is not modified.
func (f *Fixed) Peek(out []byte) error {
	if len(out) < f.itemSize {
		return fmt.Errorf("%w: buffer of %d bytes, item size %d", ErrItemSize, len(out), f.itemSize)
	}

	rec, err := f.q.Peek()
	if err != nil {
		return err
	}
	copy(out, rec)

	return nil
}

func (f *Fixed) Length() int {
	return f.q.Length()
}

func (f *Fixed) Capacity() int {
	return f.q.Capacity()
}

func (f *Fixed) ItemSize() int {
	return f.itemSize
}

func (f *Fixed) IsEmpty() bool {
	return f.q.IsEmpty()
}

func (f *Fixed) State() State {
	return f.q.State()
}

// SetCapacity reallocates the queue; see Queue.SetCapacity.
func (f *Fixed) SetCapacity(capacity int) error {
	return f.q.SetCapacity(capacity)
}

// Reclaim shrinks the capacity to the queue length; see Queue.Reclaim.
func (f *Fixed) Reclaim() error {
	return f.q.Reclaim()
}

func (f *Fixed) Stats() Stats {
	s := f.q.Stats()
	s.ItemSize = f.itemSize

	return s
}

func (f *Fixed) PrintStats() {
	logStats(f.q.cfg.logger, f.Stats())
}

// Validate checks the queue invariants and that every stored record has the item size.
func (f *Fixed) Validate() error {
	if err := f.q.Validate(); err != nil {
		return err
	}
	if f.itemSize <= 0 {
		return violation("item size %d", f.itemSize)
	}

	var err error
	f.q.forEach(func(idx int, rec []byte) {
		if err == nil && len(rec) != f.itemSize {
			err = violation("record in slot %d has %d bytes, item size %d", idx, len(rec), f.itemSize)
		}
	})

	return err
}

// SanityCheck panics if Validate reports a violation.
func (f *Fixed) SanityCheck() {
	if err := f.Validate(); err != nil {
		f.q.cfg.logger.Error("queue sanity check failed", "name", f.q.cfg.name, "error", err)
		panic(err)
	}
}

func cloneRecord(rec []byte) []byte {
	return util.CloneSlice(rec, len(rec))
}
