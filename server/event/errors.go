// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package event

import "errors"

var (
	// ErrQueueClosed is returned when using a queue after teardown.
	ErrQueueClosed = errors.New("event queue is closed")

	// ErrInvalidQueueSize is returned when creating a queue with a
	// negative capacity.
	ErrInvalidQueueSize = errors.New("queue size must be greater than zero")

	// ErrNoSubscription is returned when resubscribing to a task id that
	// never had a stream set up on this bus.
	ErrNoSubscription = errors.New("no stream to resubscribe to for task")

	// ErrBusClosed is returned when subscribing or publishing on a closed bus.
	ErrBusClosed = errors.New("event bus is closed")
)
