// Package registry keeps named byte-message queues that can be shared between goroutines.
//
// Each registered queue is a queue.Synced[[]byte]. Messages are copied on the way in, so callers
// may reuse their buffers.
package registry

import (
	"fmt"
	"sort"
	"strings"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/arloliu/ringq/internal/util"
	"github.com/arloliu/ringq/logger"
	"github.com/arloliu/ringq/queue"
)

// MaxNameLength is the longest accepted queue name.
const MaxNameLength = 128

// Registry maps queue names to queues.
type Registry struct {
	queues *xsync.MapOf[string, *queue.Synced[[]byte]]
	cfg    config
}

type config struct {
	initialCapacity int
	queueOpts       []queue.Option
	logger          logger.Logger
}

// Option represents a functional option for configuring a Registry.
type Option interface {
	apply(*config) error
}

type optFunc func(*config) error

func (f optFunc) apply(cfg *config) error { return f(cfg) }

// WithInitialCapacity sets the capacity of newly created queues. Defaults to 16.
func WithInitialCapacity(n int) Option {
	return optFunc(func(cfg *config) error {
		if n < 0 {
			return ErrInvalidInitialCapacity
		}
		cfg.initialCapacity = n
		return nil
	})
}

// WithLogger sets the logger of the registry and of the queues it creates.
func WithLogger(l logger.Logger) Option {
	return optFunc(func(cfg *config) error {
		if l != nil {
			cfg.logger = l
		}
		return nil
	})
}

// WithQueueOptions appends options applied to every queue the registry creates.
func WithQueueOptions(opts ...queue.Option) Option {
	return optFunc(func(cfg *config) error {
		cfg.queueOpts = append(cfg.queueOpts, opts...)
		return nil
	})
}

// New creates an empty registry.
func New(opts ...Option) (*Registry, error) {
	cfg := config{
		initialCapacity: 16,
		logger:          logger.GetLogger(),
	}
	for _, opt := range opts {
		if err := opt.apply(&cfg); err != nil {
			return nil, err
		}
	}

	return &Registry{
		queues: xsync.NewMapOf[string, *queue.Synced[[]byte]](),
		cfg:    cfg,
	}, nil
}

// ValidateName checks that name can be used as a queue name.
func ValidateName(name string) error {
	if name == "" || len(name) > MaxNameLength || strings.Contains(name, "/") {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}

	return nil
}

func (r *Registry) newQueue(name string) (*queue.Synced[[]byte], error) {
	opts := make([]queue.Option, 0, len(r.cfg.queueOpts)+2)
	opts = append(opts, queue.WithLogger(r.cfg.logger), queue.WithName(name))
	opts = append(opts, r.cfg.queueOpts...)

	return queue.NewSynced[[]byte](r.cfg.initialCapacity, opts...)
}

// GetOrCreate returns the queue registered under name, creating it if needed.
func (r *Registry) GetOrCreate(name string) (*queue.Synced[[]byte], error) {
	if err := ValidateName(name); err != nil {
		return nil, err
	}

	var createErr error
	q, ok := r.queues.Compute(name, func(old *queue.Synced[[]byte], loaded bool) (*queue.Synced[[]byte], bool) {
		if loaded {
			return old, false
		}
		q, err := r.newQueue(name)
		if err != nil {
			createErr = err
			return nil, true
		}
		r.cfg.logger.Debug("queue created", "name", name)
		return q, false
	})
	if createErr != nil {
		return nil, createErr
	}
	if !ok {
		return nil, ErrQueueNotFound
	}

	return q, nil
}

// Get returns the queue registered under name.
func (r *Registry) Get(name string) (*queue.Synced[[]byte], error) {
	q, ok := r.queues.Load(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrQueueNotFound, name)
	}

	return q, nil
}

// Enqueue appends a copy of msg to the queue registered under name, creating the queue if needed.
func (r *Registry) Enqueue(name string, msg []byte) error {
	q, err := r.GetOrCreate(name)
	if err != nil {
		return err
	}

	return q.Add(util.CloneSlice(msg, len(msg)))
}

// Dequeue removes and returns the oldest message of the named queue.
//
// It returns ErrQueueNotFound for unknown names and queue.ErrEmptyQueue for empty queues.
func (r *Registry) Dequeue(name string) ([]byte, error) {
	q, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	return q.Remove()
}

// Peek returns the oldest message of the named queue without removing it.
// The returned slice must not be modified.
func (r *Registry) Peek(name string) ([]byte, error) {
	q, err := r.Get(name)
	if err != nil {
		return nil, err
	}

	return q.Peek()
}

// Stats returns the statistics of the named queue.
func (r *Registry) Stats(name string) (queue.Stats, error) {
	q, err := r.Get(name)
	if err != nil {
		return queue.Stats{}, err
	}

	return q.Stats(), nil
}

// SetCapacity changes the capacity of the named queue; see queue.Queue.SetCapacity.
func (r *Registry) SetCapacity(name string, capacity int) error {
	q, err := r.Get(name)
	if err != nil {
		return err
	}

	return q.SetCapacity(capacity)
}

// Reclaim shrinks the named queue to its length; see queue.Queue.Reclaim.
func (r *Registry) Reclaim(name string) error {
	q, err := r.Get(name)
	if err != nil {
		return err
	}

	return q.Reclaim()
}

// ReclaimAll reclaims every queue with at least minSlack unused slots and returns how many
// queues were shrunk.
func (r *Registry) ReclaimAll(minSlack int) int {
	count := 0
	r.queues.Range(func(name string, q *queue.Synced[[]byte]) bool {
		err := q.Do(func(q *queue.Queue[[]byte]) error {
			if q.Capacity()-q.Length() < minSlack || q.Capacity() <= max(q.Length(), 1) {
				return nil
			}
			before := q.Capacity()
			if err := q.Reclaim(); err != nil {
				return err
			}
			count++
			r.cfg.logger.Debug("queue reclaimed", "name", name, "from", before, "to", q.Capacity())
			return nil
		})
		if err != nil {
			r.cfg.logger.Warn("failed to reclaim queue", "name", name, "error", err)
		}
		return true
	})

	return count
}

// Copy registers an independent copy of the queue src under the name dst.
func (r *Registry) Copy(src string, dst string) error {
	if err := ValidateName(dst); err != nil {
		return err
	}

	q, err := r.Get(src)
	if err != nil {
		return err
	}

	clone, err := q.CloneWith(func(msg []byte) []byte { return util.CloneSlice(msg, len(msg)) })
	if err != nil {
		return err
	}

	_ = clone.Do(func(q *queue.Queue[[]byte]) error {
		q.SetName(dst)
		return nil
	})

	if _, loaded := r.queues.LoadOrStore(dst, clone); loaded {
		_ = clone.Free()
		return fmt.Errorf("%w: %q", ErrQueueExists, dst)
	}
	r.cfg.logger.Debug("queue copied", "src", src, "dst", dst)

	return nil
}

// Delete unregisters the named queue and frees it.
func (r *Registry) Delete(name string) error {
	q, ok := r.queues.LoadAndDelete(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrQueueNotFound, name)
	}
	r.cfg.logger.Debug("queue deleted", "name", name)

	return q.Free()
}

// Names returns the sorted names of all registered queues.
func (r *Registry) Names() []string {
	names := make([]string, 0, r.queues.Size())
	r.queues.Range(func(name string, _ *queue.Synced[[]byte]) bool {
		names = append(names, name)
		return true
	})
	sort.Strings(names)

	return names
}

// Len returns the number of registered queues.
func (r *Registry) Len() int {
	return r.queues.Size()
}

// PrintStats logs the statistics of every registered queue.
func (r *Registry) PrintStats() {
	r.queues.Range(func(_ string, q *queue.Synced[[]byte]) bool {
		q.PrintStats()
		return true
	})
}
