package registry

import (
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/arloliu/ringq/logger"
	"github.com/arloliu/ringq/queue"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRegistry(t *testing.T, opts ...Option) *Registry {
	t.Helper()

	opts = append([]Option{WithLogger(logger.NewMockLogger().AllowAll())}, opts...)
	r, err := New(opts...)
	require.NoError(t, err)

	return r
}

func TestNew(t *testing.T) {
	require := require.New(t)

	_, err := New(WithInitialCapacity(-1))
	require.ErrorIs(err, ErrInvalidInitialCapacity)

	r := newTestRegistry(t, WithInitialCapacity(2))
	q, err := r.GetOrCreate("a")
	require.NoError(err)
	require.Equal(2, q.Capacity())
	require.Equal(1, r.Len())
}

func TestValidateName(t *testing.T) {
	require := require.New(t)

	require.NoError(ValidateName("orders"))
	require.ErrorIs(ValidateName(""), ErrInvalidName)
	require.ErrorIs(ValidateName("a/b"), ErrInvalidName)
	require.ErrorIs(ValidateName(strings.Repeat("x", MaxNameLength+1)), ErrInvalidName)

	r := newTestRegistry(t)
	_, err := r.GetOrCreate("a/b")
	require.ErrorIs(err, ErrInvalidName)
	require.ErrorIs(r.Enqueue("", []byte("x")), ErrInvalidName)
}

func TestEnqueueDequeue(t *testing.T) {
	require := require.New(t)

	r := newTestRegistry(t, WithInitialCapacity(1))

	_, err := r.Dequeue("missing")
	require.ErrorIs(err, ErrQueueNotFound)

	msg := []byte("hello")
	require.NoError(r.Enqueue("q", msg))
	msg[0] = 'j'
	require.NoError(r.Enqueue("q", []byte("world")))

	head, err := r.Peek("q")
	require.NoError(err)
	require.Equal("hello", string(head))

	got, err := r.Dequeue("q")
	require.NoError(err)
	require.Equal("hello", string(got))

	got, err = r.Dequeue("q")
	require.NoError(err)
	require.Equal("world", string(got))

	_, err = r.Dequeue("q")
	require.ErrorIs(err, queue.ErrEmptyQueue)
}

func TestCapacityOperations(t *testing.T) {
	require := require.New(t)

	r := newTestRegistry(t, WithInitialCapacity(8))
	for i := 0; i < 3; i++ {
		require.NoError(r.Enqueue("q", []byte{byte(i)}))
	}

	require.ErrorIs(r.SetCapacity("q", 2), queue.ErrCapacityTooSmall)
	require.NoError(r.SetCapacity("q", 32))

	stats, err := r.Stats("q")
	require.NoError(err)
	require.Equal("q", stats.Name)
	require.Equal(3, stats.Length)
	require.Equal(32, stats.Capacity)

	require.NoError(r.Reclaim("q"))
	stats, _ = r.Stats("q")
	require.Equal(3, stats.Capacity)

	require.ErrorIs(r.Reclaim("missing"), ErrQueueNotFound)
	require.ErrorIs(r.SetCapacity("missing", 1), ErrQueueNotFound)
	_, err = r.Stats("missing")
	require.ErrorIs(err, ErrQueueNotFound)
}

func TestReclaimAll(t *testing.T) {
	require := require.New(t)

	r := newTestRegistry(t, WithInitialCapacity(16))
	require.NoError(r.Enqueue("busy", []byte("x")))
	require.NoError(r.SetCapacity("busy", 2))
	require.NoError(r.Enqueue("idle", []byte("x")))

	require.Equal(1, r.ReclaimAll(4))

	stats, _ := r.Stats("idle")
	require.Equal(1, stats.Capacity)
	stats, _ = r.Stats("busy")
	require.Equal(2, stats.Capacity)

	require.Equal(0, r.ReclaimAll(4))
}

func TestCopy(t *testing.T) {
	require := require.New(t)

	r := newTestRegistry(t)
	require.NoError(r.Enqueue("src", []byte("a")))
	require.NoError(r.Enqueue("src", []byte("b")))

	require.NoError(r.Copy("src", "dst"))
	require.ErrorIs(r.Copy("src", "dst"), ErrQueueExists)
	require.ErrorIs(r.Copy("missing", "x"), ErrQueueNotFound)
	require.ErrorIs(r.Copy("src", "bad/name"), ErrInvalidName)

	_, err := r.Dequeue("src")
	require.NoError(err)

	stats, err := r.Stats("dst")
	require.NoError(err)
	require.Equal("dst", stats.Name)
	require.Equal(2, stats.Length)

	// the copy owns its messages
	head, _ := r.Peek("src")
	head[0] = 'z'
	dst, err := r.Get("dst")
	require.NoError(err)
	values := dst.Values()
	require.Equal("a", string(values[0]))
	require.Equal("b", string(values[1]))
}

func TestDelete(t *testing.T) {
	require := require.New(t)

	r := newTestRegistry(t)
	require.NoError(r.Enqueue("q", []byte("x")))
	q, err := r.Get("q")
	require.NoError(err)

	require.NoError(r.Delete("q"))
	require.ErrorIs(r.Delete("q"), ErrQueueNotFound)
	require.Equal(0, r.Len())
	require.ErrorIs(q.Add([]byte("late")), queue.ErrQueueFreed)

	_, err = r.Get("q")
	require.ErrorIs(err, ErrQueueNotFound)
}

func TestNames(t *testing.T) {
	r := newTestRegistry(t)
	for _, name := range []string{"c", "a", "b"} {
		_, err := r.GetOrCreate(name)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{"a", "b", "c"}, r.Names())
	r.PrintStats()
}

func TestConcurrentAccess(t *testing.T) {
	assert := assert.New(t)

	r := newTestRegistry(t, WithInitialCapacity(1))

	var wg sync.WaitGroup
	for g := 0; g < 8; g++ {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			name := fmt.Sprintf("q%d", g%2)
			for i := 0; i < 200; i++ {
				assert.NoError(r.Enqueue(name, []byte{byte(i)}))
			}
		}(g)
	}
	wg.Wait()

	assert.Equal(2, r.Len())
	for _, name := range []string{"q0", "q1"} {
		stats, err := r.Stats(name)
		assert.NoError(err)
		assert.Equal(800, stats.Length)
	}

	wg.Add(8)
	for g := 0; g < 8; g++ {
		go func(g int) {
			defer wg.Done()
			name := fmt.Sprintf("q%d", g%2)
			for i := 0; i < 200; i++ {
				_, err := r.Dequeue(name)
				assert.NoError(err)
			}
		}(g)
	}
	wg.Wait()

	for _, name := range []string{"q0", "q1"} {
		q, err := r.Get(name)
		assert.NoError(err)
		assert.True(q.IsEmpty())
		assert.NoError(q.Validate())
	}
}
