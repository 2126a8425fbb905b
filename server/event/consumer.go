// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package event

import (
	"context"
	"errors"
)

// Consumer drains one subscriber queue into a channel, detaching from the
// bus when the stream ends.
type Consumer struct {
	bus    *Bus
	taskID string
	queue  *Queue
}

// NewConsumer creates a consumer for one queue previously obtained from
// bus.Subscribe.
func NewConsumer(bus *Bus, taskID string, queue *Queue) *Consumer {
	return &Consumer{
		bus:    bus,
		taskID: taskID,
		queue:  queue,
	}
}

// Events returns a channel yielding the queue's events in publish order.
// The channel closes after an event with the final marker is delivered, on
// context cancellation, or on queue teardown; in every case the consumer's
// queue is removed from the bus.
func (c *Consumer) Events(ctx context.Context) <-chan Event {
	out := make(chan Event)

	go func() {
		defer close(out)
		defer c.bus.Remove(c.taskID, c.queue)

		for {
			e, err := c.queue.Dequeue(ctx)
			if err != nil {
				if !errors.Is(err, ErrQueueClosed) && !errors.Is(err, context.Canceled) {
					c.bus.logger.Debug("event consumer stopped", "task_id", c.taskID, "error", err)
				}
				return
			}

			select {
			case out <- e:
			case <-ctx.Done():
				return
			}

			if IsFinal(e) {
				return
			}
		}
	}()

	return out
}

// Teardown releases the consumer's queue without draining it. Safe to call
// multiple times.
func (c *Consumer) Teardown() {
	c.bus.Remove(c.taskID, c.queue)
}
