// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package taskwire

// EventKind discriminates streamed task events.
type EventKind string

const (
	// EventKindStatusUpdate marks a task status change.
	EventKindStatusUpdate EventKind = "status-update"

	// EventKindArtifactUpdate marks a new or appended artifact.
	EventKindArtifactUpdate EventKind = "artifact-update"

	// EventKindError marks an informational error notification. The
	// authoritative end-of-task signal is a status update with Final=true,
	// never an error event.
	EventKindError EventKind = "error"
)

// TaskStatusUpdateEvent notifies subscribers of a task status change.
// Final=true marks the last event ever published for the task.
type TaskStatusUpdateEvent struct {
	ID     string     `json:"id"`
	Status TaskStatus `json:"status"`
	Final  bool       `json:"final"`
}

// EventKind returns the event kind for type discrimination.
func (e *TaskStatusUpdateEvent) EventKind() EventKind { return EventKindStatusUpdate }

// EventTaskID returns the task this event is for.
func (e *TaskStatusUpdateEvent) EventTaskID() string { return e.ID }

// TaskArtifactUpdateEvent notifies subscribers of a new or appended artifact.
type TaskArtifactUpdateEvent struct {
	ID       string    `json:"id"`
	Artifact *Artifact `json:"artifact"`
}

// EventKind returns the event kind for type discrimination.
func (e *TaskArtifactUpdateEvent) EventKind() EventKind { return EventKindArtifactUpdate }

// EventTaskID returns the task this event is for.
func (e *TaskArtifactUpdateEvent) EventTaskID() string { return e.ID }

// TaskErrorEvent carries the underlying message of a streaming failure.
// It is informational: consumers recover the terminal state via tasks/get.
type TaskErrorEvent struct {
	ID      string `json:"id"`
	Message string `json:"message"`
}

// EventKind returns the event kind for type discrimination.
func (e *TaskErrorEvent) EventKind() EventKind { return EventKindError }

// EventTaskID returns the task this event is for.
func (e *TaskErrorEvent) EventTaskID() string { return e.ID }
