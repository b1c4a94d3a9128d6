package boundedqueue

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRejectsInvalidCapacity(t *testing.T) {
	for _, capacity := range []int{0, -1, -100} {
		_, err := New(capacity)
		assert.ErrorIs(t, err, ErrInvalidCapacity, "capacity %d", capacity)
	}
}

func TestPushPopFIFO(t *testing.T) {
	q, err := New(3)
	require.NoError(t, err)

	q.Push(10)
	q.Push(20)
	q.Push(30)
	assert.Equal(t, 3, q.Occupancy())

	assert.Equal(t, 10, q.Pop())
	assert.Equal(t, 20, q.Pop())
	assert.Equal(t, 30, q.Pop())
	assert.Equal(t, 0, q.Occupancy())
}

// TestWraparound drives the indices past the end of the backing array many
// times and checks that FIFO order and occupancy survive the wrap.
func TestWraparound(t *testing.T) {
	q, err := New(3)
	require.NoError(t, err)

	next := 0
	expect := 0
	for round := 0; round < 10; round++ {
		for q.Occupancy() < q.Capacity() {
			q.Push(next)
			next++
		}
		assert.Equal(t, q.Capacity(), q.Occupancy())

		// Drain all but one item so the next round wraps differently.
		for q.Occupancy() > 1 {
			assert.Equal(t, expect, q.Pop())
			expect++
		}
	}
	for q.Occupancy() > 0 {
		assert.Equal(t, expect, q.Pop())
		expect++
	}
	assert.Equal(t, next, expect, "every push matched by exactly one pop")
}

// TestOccupancyStaysInBounds checks the occupancy invariant at every
// observation point of a long mixed push/pop sequence.
func TestOccupancyStaysInBounds(t *testing.T) {
	q, err := New(5)
	require.NoError(t, err)

	check := func() {
		occ := q.Occupancy()
		require.GreaterOrEqual(t, occ, 0)
		require.LessOrEqual(t, occ, q.Capacity())
	}

	// Push/pop in an uneven rhythm: two in, one out.
	for i := 0; i < 50; i++ {
		if q.Occupancy() < q.Capacity() {
			q.Push(i)
			check()
		}
		if i%2 == 1 && q.Occupancy() > 0 {
			q.Pop()
			check()
		}
	}
}

// A full queue has front == rear; the counter must still report capacity,
// not zero.
func TestFullNotConfusedWithEmpty(t *testing.T) {
	q, err := New(2)
	require.NoError(t, err)

	q.Push(1)
	q.Push(2)
	assert.Equal(t, 2, q.Occupancy())

	assert.Equal(t, 1, q.Pop())
	assert.Equal(t, 2, q.Pop())
	assert.Equal(t, 0, q.Occupancy())

	// Same front == rear situation one slot later.
	q.Push(3)
	q.Push(4)
	assert.Equal(t, 2, q.Occupancy())
}

func TestSingleSlotQueue(t *testing.T) {
	q, err := New(1)
	require.NoError(t, err)

	for i := 0; i < 5; i++ {
		q.Push(i)
		assert.Equal(t, 1, q.Occupancy())
		assert.Equal(t, i, q.Pop())
		assert.Equal(t, 0, q.Occupancy())
	}
}
