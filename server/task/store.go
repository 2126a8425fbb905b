// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package task provides the task store: the single source of truth for task
// state. The event bus is a notification side channel; a consumer that
// missed events always recovers the current state through Get.
package task

import (
	"context"

	"github.com/go-taskwire/taskwire"
)

// Store defines task persistence for the server. All mutating operations
// are atomic with respect to concurrent callers on the same task id; no
// cross-task ordering is guaranteed.
type Store interface {
	// Upsert creates the task if absent, with state submitted and empty
	// history and artifacts, and returns it. An existing task is returned
	// unchanged; Upsert is idempotent on id.
	Upsert(ctx context.Context, id, sessionID string) (*taskwire.Task, error)

	// UpdateStatus atomically replaces the current status, appends the
	// status message (if any) to history, and appends the given artifacts.
	// It returns NotFoundError for an unknown id and NotUpdatableError when
	// the task already reached a terminal state.
	UpdateStatus(ctx context.Context, id string, status taskwire.TaskStatus, artifacts ...*taskwire.Artifact) (*taskwire.Task, error)

	// Get returns the task for id, or NotFoundError.
	Get(ctx context.Context, id string) (*taskwire.Task, error)

	// Close releases the store. The store is volatile; Close discards all
	// tasks.
	Close(ctx context.Context) error
}

// WithHistory returns a copy of the task exposing only the last limit
// history entries. limit <= 0 strips history entirely; the stored task is
// never mutated.
func WithHistory(t *taskwire.Task, limit int) *taskwire.Task {
	if t == nil {
		return nil
	}
	shaped := *t
	switch {
	case limit <= 0:
		shaped.History = nil
	case len(t.History) > limit:
		shaped.History = t.History[len(t.History)-limit:]
	}
	return &shaped
}
