// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package event provides the per-task event bus: bounded queues fanned out
// to any number of subscribers, including subscribers that attach after
// production started. The bus is a notification side channel; terminal
// results are always recoverable from the task store.
package event

import (
	"github.com/go-taskwire/taskwire"
)

// Event is any notification that can be published for a task.
type Event interface {
	// EventKind returns the event kind for type discrimination.
	EventKind() taskwire.EventKind
	// EventTaskID returns the task id this event is for.
	EventTaskID() string
}

// Compile-time checks that the wire event types satisfy Event.
var (
	_ Event = (*taskwire.TaskStatusUpdateEvent)(nil)
	_ Event = (*taskwire.TaskArtifactUpdateEvent)(nil)
	_ Event = (*taskwire.TaskErrorEvent)(nil)
)

// IsFinal reports whether the event ends its task's stream. Only a status
// update with Final=true is terminal; error events are informational.
func IsFinal(e Event) bool {
	su, ok := e.(*taskwire.TaskStatusUpdateEvent)
	return ok && su.Final
}
