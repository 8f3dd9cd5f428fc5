package queue

import "sync"

// Synced wraps a Queue with a mutex so that it can be shared between goroutines.
//
// Each method holds the lock for the duration of the underlying Queue operation. Use Do to run
// several operations atomically.
type Synced[T any] struct {
	mu sync.Mutex
	q  *Queue[T]
}

// NewSynced creates a locked queue with the given initial capacity.
func NewSynced[T any](capacity int, opts ...Option) (*Synced[T], error) {
	q, err := New[T](capacity, opts...)
	if err != nil {
		return nil, err
	}

	return &Synced[T]{q: q}, nil
}

// Wrap takes ownership of q. The caller must not use q directly afterwards.
func Wrap[T any](q *Queue[T]) *Synced[T] {
	return &Synced[T]{q: q}
}

// Do calls fn with the underlying queue while holding the lock.
// fn must not retain q after it returns.
func (s *Synced[T]) Do(fn func(q *Queue[T]) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return fn(s.q)
}

func (s *Synced[T]) Add(item T) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Add(item)
}

func (s *Synced[T]) Remove() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Remove()
}

func (s *Synced[T]) Peek() (T, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Peek()
}

func (s *Synced[T]) Length() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Length()
}

func (s *Synced[T]) Capacity() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Capacity()
}

func (s *Synced[T]) IsEmpty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.IsEmpty()
}

func (s *Synced[T]) SetCapacity(capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.SetCapacity(capacity)
}

func (s *Synced[T]) Reclaim() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Reclaim()
}

func (s *Synced[T]) Reset(capacity int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Reset(capacity)
}

func (s *Synced[T]) Free() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Free()
}

// Clone returns an independent, separately locked copy of the queue.
func (s *Synced[T]) Clone() (*Synced[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.q.Clone()
	if err != nil {
		return nil, err
	}

	return &Synced[T]{q: q}, nil
}

// CloneWith is like Clone but duplicates every item with copyItem.
func (s *Synced[T]) CloneWith(copyItem func(T) T) (*Synced[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	q, err := s.q.CloneWith(copyItem)
	if err != nil {
		return nil, err
	}

	return &Synced[T]{q: q}, nil
}

func (s *Synced[T]) Values() []T {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Values()
}

func (s *Synced[T]) Stats() Stats {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Stats()
}

func (s *Synced[T]) PrintStats() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.q.PrintStats()
}

func (s *Synced[T]) Validate() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.q.Validate()
}
