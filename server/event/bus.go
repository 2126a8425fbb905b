// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"log/slog"
	"sync"
)

// Bus fans events out to the subscribers of each task id. Every subscriber
// owns an independent bounded queue receiving a copy of each event published
// after it attached; there is no shared cursor and no replay.
type Bus struct {
	mu        sync.RWMutex
	queues    map[string][]*Queue
	queueSize int
	closed    bool
	logger    *slog.Logger
}

// NewBus creates a bus whose subscriber queues hold queueSize events each.
// Zero means DefaultQueueSize.
func NewBus(queueSize int, logger *slog.Logger) *Bus {
	if queueSize <= 0 {
		queueSize = DefaultQueueSize
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Bus{
		queues:    make(map[string][]*Queue),
		queueSize: queueSize,
		logger:    logger,
	}
}

// Subscribe registers a new queue for taskID and returns it. With
// resubscribe=false the registration also establishes the task's stream;
// additional non-resubscribe subscribers each get their own queue. With
// resubscribe=true the task must already have a stream on this bus,
// otherwise ErrNoSubscription is returned; the new queue only sees events
// published after it attached, catch-up happens through the task store.
func (b *Bus) Subscribe(taskID string, resubscribe bool) (*Queue, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return nil, ErrBusClosed
	}

	if _, ok := b.queues[taskID]; !ok {
		if resubscribe {
			return nil, ErrNoSubscription
		}
		b.queues[taskID] = nil
	}

	q, err := NewQueue(b.queueSize)
	if err != nil {
		return nil, err
	}
	b.queues[taskID] = append(b.queues[taskID], q)
	return q, nil
}

// Publish delivers the event to every live queue registered for its task
// id, in registration order. Publish never blocks; queue overflow is
// handled by each queue's drop policy. Publishing to a task id with no
// subscribers is a no-op.
func (b *Bus) Publish(e Event) {
	taskID := e.EventTaskID()

	b.mu.RLock()
	subs := make([]*Queue, len(b.queues[taskID]))
	copy(subs, b.queues[taskID])
	b.mu.RUnlock()

	for _, q := range subs {
		if err := q.Enqueue(e); err != nil {
			b.logger.Debug("skipping closed subscriber queue", "task_id", taskID)
		}
	}
}

// Remove tears down one subscriber queue. The task id registration survives
// so later resubscriptions still attach; Remove is idempotent.
func (b *Bus) Remove(taskID string, q *Queue) {
	if q == nil {
		return
	}
	q.Close()

	b.mu.Lock()
	defer b.mu.Unlock()

	subs := b.queues[taskID]
	for i, sub := range subs {
		if sub == q {
			b.queues[taskID] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
}

// Subscribers returns the number of live queues for a task id.
func (b *Bus) Subscribers(taskID string) int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.queues[taskID])
}

// Close tears down every queue and refuses further subscriptions.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}
	b.closed = true
	for taskID, subs := range b.queues {
		for _, q := range subs {
			q.Close()
		}
		delete(b.queues, taskID)
	}
}
