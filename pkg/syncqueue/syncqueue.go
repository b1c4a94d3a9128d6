// Package syncqueue wraps a bounded queue with the blocking push/pop
// discipline shared by all producer and consumer workers of one run.
package syncqueue

import (
	"sync"
	"sync/atomic"

	"github.com/queuelab/prodconsim/pkg/boundedqueue"
)

// Queue serializes access to one bounded buffer. Producers block while the
// buffer is full, consumers block while it is empty, and Terminate wakes
// every blocked waiter so no goroutine outlives the run.
type Queue struct {
	mu         sync.Mutex
	spaceAvail *sync.Cond
	itemAvail  *sync.Cond
	buf        *boundedqueue.Queue
	terminated atomic.Bool
}

// New wraps buf. The queue takes ownership of buf; callers must not touch
// it directly afterwards.
func New(buf *boundedqueue.Queue) *Queue {
	q := &Queue{buf: buf}
	q.spaceAvail = sync.NewCond(&q.mu)
	q.itemAvail = sync.NewCond(&q.mu)
	return q
}

// Push blocks until there is space for item or the run is terminated.
// It reports whether the item was actually stored; a false return means the
// caller was woken by termination and must exit without retrying.
func (q *Queue) Push(item int) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.buf.Occupancy() == q.buf.Capacity() && !q.terminated.Load() {
		q.spaceAvail.Wait()
	}
	if q.terminated.Load() {
		return false
	}
	q.buf.Push(item)
	q.itemAvail.Signal()
	return true
}

// Pop blocks until an item is available or the run is terminated.
// A false return means the caller was woken by termination; no item was
// consumed even if one was available at wake-up time.
func (q *Queue) Pop() (int, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.buf.Occupancy() == 0 && !q.terminated.Load() {
		q.itemAvail.Wait()
	}
	if q.terminated.Load() {
		return 0, false
	}
	item := q.buf.Pop()
	q.spaceAvail.Signal()
	return item, true
}

// Occupancy reports the buffer occupancy under the lock.
func (q *Queue) Occupancy() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.buf.Occupancy()
}

// Capacity returns the capacity of the wrapped buffer.
func (q *Queue) Capacity() int {
	return q.buf.Capacity()
}

// Terminated reports whether Terminate has been called. Safe to call
// without holding the lock.
func (q *Queue) Terminated() bool {
	return q.terminated.Load()
}

// Terminate sets the shared termination flag and wakes every waiter on both
// conditions. The flag is flipped while holding the lock so a waiter cannot
// check its predicate, miss the flag, and then sleep through the wake-up.
// Broadcast rather than per-worker signals: a single signal can strand a
// worker that has not reached its wait yet.
func (q *Queue) Terminate() {
	q.mu.Lock()
	q.terminated.Store(true)
	q.mu.Unlock()
	q.spaceAvail.Broadcast()
	q.itemAvail.Broadcast()
}
