package queue

import "sync/atomic"

// Queue is a bounded FIFO backed by a buffered channel. Push never blocks:
// when the queue is full the oldest item is discarded to make room. Poll never
// blocks either and returns at most one item per call.
//
// It is intended for one producer and one consumer, but concurrent use from
// several goroutines is safe.
type Queue[T any] struct {
	ch      chan T
	dropped atomic.Uint64
}

// New creates a queue holding at most capacity items. A capacity below one is
// raised to one.
func New[T any](capacity int) *Queue[T] {
	if capacity < 1 {
		capacity = 1
	}
	return &Queue[T]{ch: make(chan T, capacity)}
}

// Push enqueues v, evicting the oldest queued item if the queue is full.
// It reports whether an item had to be dropped.
func (q *Queue[T]) Push(v T) bool {
	dropped := false
	for {
		select {
		case q.ch <- v:
			return dropped
		default:
		}

		// Full: discard the oldest item and retry. The consumer may have
		// drained it first, in which case the next send succeeds.
		select {
		case <-q.ch:
			q.dropped.Add(1)
			dropped = true
		default:
		}
	}
}

// Poll returns the oldest queued item, or false if the queue is empty.
func (q *Queue[T]) Poll() (T, bool) {
	select {
	case v := <-q.ch:
		return v, true
	default:
		var zero T
		return zero, false
	}
}

// Len returns the number of queued items.
func (q *Queue[T]) Len() int {
	return len(q.ch)
}

// Dropped returns how many items have been evicted since creation.
func (q *Queue[T]) Dropped() uint64 {
	return q.dropped.Load()
}
