// Package pool provides a fixed-size worker pool that drains a finite,
// pre-populated work queue, invoking a caller-supplied action exactly once
// per item.
package pool

import "sync"

// Queue is a thread-safe FIFO work queue. It is populated fully before the
// workers start and drained to empty; there is no blocking wait, so a
// consumer that finds the queue empty knows the drain is complete.
type Queue[T any] struct {
	mu    sync.Mutex
	items []T
}

// NewQueue creates an empty queue.
func NewQueue[T any]() *Queue[T] {
	return &Queue[T]{}
}

// Push appends an item to the back of the queue.
func (q *Queue[T]) Push(item T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.items = append(q.items, item)
}

// TryPop removes and returns the item at the front of the queue. The second
// return value is false when the queue is empty. The remove-and-return is
// atomic, so no item is ever handed to more than one consumer.
func (q *Queue[T]) TryPop() (T, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		var zero T
		return zero, false
	}
	item := q.items[0]
	q.items = q.items[1:]
	return item, true
}

// Len reports the number of items currently queued.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
