// Package boundedqueue implements the fixed-capacity circular buffer of
// integers shared by the producer and consumer workers of one simulation run.
package boundedqueue

import "errors"

// ErrInvalidCapacity is returned by New for capacities below 1.
var ErrInvalidCapacity = errors.New("boundedqueue: capacity must be at least 1")

// Queue is a fixed-capacity circular buffer of ints. Occupancy is tracked
// with an explicit counter so a full buffer (front == rear, size == capacity)
// is never confused with an empty one. Queue is not safe for concurrent use;
// syncqueue serializes all access to it.
type Queue struct {
	buf      []int
	front    int
	rear     int
	size     int
	capacity int
}

// New creates a queue holding at most capacity items.
func New(capacity int) (*Queue, error) {
	if capacity < 1 {
		return nil, ErrInvalidCapacity
	}
	return &Queue{
		buf:      make([]int, capacity),
		capacity: capacity,
	}, nil
}

// Occupancy returns the number of items currently stored,
// always in [0, capacity].
func (q *Queue) Occupancy() int {
	return q.size
}

// Capacity returns the maximum number of items the queue can hold.
func (q *Queue) Capacity() int {
	return q.capacity
}

// Push stores item at the rear of the queue and advances the rear index.
// The caller must ensure the queue is not full.
func (q *Queue) Push(item int) {
	q.buf[q.rear] = item
	q.rear = (q.rear + 1) % q.capacity
	q.size++
}

// Pop removes and returns the item at the front of the queue and advances
// the front index. The caller must ensure the queue is not empty.
func (q *Queue) Pop() int {
	item := q.buf[q.front]
	q.front = (q.front + 1) % q.capacity
	q.size--
	return item
}
