// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"context"
	"sync"
)

// DefaultQueueSize is the buffer capacity used when none is given.
const DefaultQueueSize = 64

// Queue is one subscriber's bounded FIFO buffer of events. Enqueue never
// blocks: when the buffer is full, non-final events are dropped (newest
// first) and a final event evicts the oldest buffered event instead, so the
// terminal marker always reaches the subscriber.
type Queue struct {
	events chan Event

	mu        sync.Mutex
	closed    bool
	closeOnce sync.Once
	done      chan struct{}
	dropped   int
}

// NewQueue creates a queue with the given capacity. Zero means
// DefaultQueueSize.
func NewQueue(size int) (*Queue, error) {
	if size < 0 {
		return nil, ErrInvalidQueueSize
	}
	if size == 0 {
		size = DefaultQueueSize
	}
	return &Queue{
		events: make(chan Event, size),
		done:   make(chan struct{}),
	}, nil
}

// Enqueue adds an event to the queue without blocking. It returns
// ErrQueueClosed after Close; overflow of non-final events is silent apart
// from the Dropped counter.
func (q *Queue) Enqueue(e Event) error {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return ErrQueueClosed
	}

	select {
	case q.events <- e:
		return nil
	default:
	}

	if !IsFinal(e) {
		q.dropped++
		return nil
	}

	// Full buffer with a final event: evict the oldest entry to make room.
	select {
	case <-q.events:
		q.dropped++
	default:
	}
	select {
	case q.events <- e:
	default:
	}
	return nil
}

// Dequeue blocks until an event is available, the context is canceled, or
// the queue is closed and drained.
func (q *Queue) Dequeue(ctx context.Context) (Event, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case e := <-q.events:
		return e, nil
	case <-q.done:
		// Closed; deliver anything still buffered before reporting closure.
		select {
		case e := <-q.events:
			return e, nil
		default:
			return nil, ErrQueueClosed
		}
	}
}

// Close tears the queue down. Safe to call multiple times.
func (q *Queue) Close() {
	q.closeOnce.Do(func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		q.closed = true
		close(q.done)
	})
}

// Closed reports whether the queue has been torn down.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// Len returns the number of buffered events.
func (q *Queue) Len() int {
	return len(q.events)
}

// Dropped returns the number of events lost to overflow.
func (q *Queue) Dropped() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.dropped
}
