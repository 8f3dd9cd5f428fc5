package queue

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSynced(t *testing.T) {
	assert := assert.New(t)

	t.Run("Concurrency", func(t *testing.T) {
		q, err := NewSynced[int](1)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 0; i < 1000; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				assert.NoError(q.Add(i))
			}(i)
		}
		wg.Wait()

		assert.Equal(1000, q.Length())
		assert.GreaterOrEqual(q.Capacity(), 1000)
		assert.NoError(q.Validate())

		seen := make([]bool, 1000)
		var mu sync.Mutex
		wg.Add(1000)
		for i := 0; i < 1000; i++ {
			go func() {
				defer wg.Done()
				v, err := q.Remove()
				if assert.NoError(err) {
					mu.Lock()
					seen[v] = true
					mu.Unlock()
				}
			}()
		}
		wg.Wait()

		assert.True(q.IsEmpty())
		for i, ok := range seen {
			assert.True(ok, "item %d not removed", i)
		}
	})

	t.Run("Do Is Atomic", func(t *testing.T) {
		q, err := NewSynced[int](0)
		require.NoError(t, err)

		var wg sync.WaitGroup
		for g := 0; g < 8; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				_ = q.Do(func(q *Queue[int]) error {
					for i := 0; i < 100; i++ {
						if err := q.Add(g*100 + i); err != nil {
							return err
						}
					}
					return nil
				})
			}(g)
		}
		wg.Wait()

		// each goroutine's batch stays contiguous
		values := q.Values()
		assert.Len(values, 800)
		for i := 0; i < len(values); i += 100 {
			base := values[i]
			for j := 0; j < 100; j++ {
				assert.Equal(base+j, values[i+j])
			}
		}
	})

	t.Run("Clone Is Independent", func(t *testing.T) {
		q := Wrap(newTestQueue[[]byte](t, 2))
		assert.NoError(q.Add([]byte("a")))

		c, err := q.CloneWith(func(b []byte) []byte { return append([]byte(nil), b...) })
		require.NoError(t, err)
		assert.NoError(q.Add([]byte("b")))

		assert.Equal(1, c.Length())
		v, err := c.Peek()
		assert.NoError(err)
		assert.Equal("a", string(v))

		c2, err := q.Clone()
		require.NoError(t, err)
		assert.Equal(2, c2.Length())
	})

	t.Run("Lifecycle", func(t *testing.T) {
		q, err := NewSynced[int](4)
		require.NoError(t, err)

		assert.NoError(q.Add(1))
		assert.ErrorIs(q.SetCapacity(0), ErrCapacityTooSmall)
		assert.NoError(q.Reclaim())
		assert.Equal(1, q.Capacity())
		assert.Equal(Stats{Length: 1, Capacity: 1, ItemSize: 8, State: "NonEmpty"}, q.Stats())

		assert.NoError(q.Free())
		assert.ErrorIs(q.Free(), ErrQueueFreed)
		_, err = q.Clone()
		assert.ErrorIs(err, ErrQueueFreed)

		assert.NoError(q.Reset(2))
		_, err = q.Peek()
		assert.ErrorIs(err, ErrEmptyQueue)
	})
}
