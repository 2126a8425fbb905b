// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package taskwire defines the wire-level data model for the taskwire
// protocol: long-running agent computations exposed behind a uniform
// request/response and event-streaming surface. Callers submit a task,
// poll it, or subscribe to ordered status and artifact events until a
// terminal state is reached.
package taskwire

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Version is the current version of the taskwire protocol.
const Version = "0.2.0"

// TaskState represents the lifecycle state of a Task.
type TaskState string

const (
	// TaskStateSubmitted indicates the task has been accepted but work has
	// not started yet.
	TaskStateSubmitted TaskState = "submitted"

	// TaskStateWorking indicates the task is being worked on.
	TaskStateWorking TaskState = "working"

	// TaskStateCompleted indicates the task finished successfully.
	TaskStateCompleted TaskState = "completed"

	// TaskStateFailed indicates the task finished with an error.
	TaskStateFailed TaskState = "failed"
)

// Terminal reports whether the state permits no further transitions.
func (s TaskState) Terminal() bool {
	return s == TaskStateCompleted || s == TaskStateFailed
}

// Message roles.
const (
	// RoleUser marks a message originating from the caller.
	RoleUser = "user"

	// RoleAgent marks a message originating from the agent.
	RoleAgent = "agent"
)

// Message is a single conversational turn attached to a task.
type Message struct {
	Role     string         `json:"role"`
	Parts    []*PartWrapper `json:"parts"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validate ensures the Message is well formed.
func (m *Message) Validate() error {
	if m.Role != RoleUser && m.Role != RoleAgent {
		return fmt.Errorf("message role must be %q or %q, got %q", RoleUser, RoleAgent, m.Role)
	}
	if len(m.Parts) == 0 {
		return fmt.Errorf("message must contain at least one part")
	}
	for i, part := range m.Parts {
		if part == nil {
			return fmt.Errorf("message part at index %d cannot be nil", i)
		}
		if err := part.Validate(); err != nil {
			return fmt.Errorf("message part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewTextMessage creates a Message holding a single text part.
func NewTextMessage(role, text string) *Message {
	return &Message{
		Role:  role,
		Parts: []*PartWrapper{NewPartWrapper(&TextPart{Type: PartTypeText, Text: text})},
	}
}

// Artifact is a discrete output payload attached to a task. Append=false with
// Index=0 denotes a complete, final artifact; Append=true marks a chunk
// joinable to a prior artifact at the same index.
type Artifact struct {
	Name     string         `json:"name,omitempty"`
	Parts    []*PartWrapper `json:"parts"`
	Index    int            `json:"index"`
	Append   bool           `json:"append"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// Validate ensures the Artifact is well formed.
func (a *Artifact) Validate() error {
	if a.Index < 0 {
		return fmt.Errorf("artifact index cannot be negative, got %d", a.Index)
	}
	if len(a.Parts) == 0 {
		return fmt.Errorf("artifact must contain at least one part")
	}
	for i, part := range a.Parts {
		if part == nil {
			return fmt.Errorf("artifact part at index %d cannot be nil", i)
		}
		if err := part.Validate(); err != nil {
			return fmt.Errorf("artifact part at index %d is invalid: %w", i, err)
		}
	}
	return nil
}

// NewTextArtifact creates a complete, final Artifact holding a single text part.
func NewTextArtifact(text string) *Artifact {
	return &Artifact{
		Parts:  []*PartWrapper{NewPartWrapper(&TextPart{Type: PartTypeText, Text: text})},
		Index:  0,
		Append: false,
	}
}

// TaskStatus is the current status of a task. Exactly one TaskStatus is
// current per task at any instant; superseded status messages are retained
// in the task's history.
type TaskStatus struct {
	State     TaskState `json:"state"`
	Message   *Message  `json:"message,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Task is one unit of submitted work tracked by id through its lifecycle.
type Task struct {
	ID        string         `json:"id"`
	SessionID string         `json:"sessionId,omitempty"`
	Status    TaskStatus     `json:"status"`
	History   []*Message     `json:"history,omitempty"`
	Artifacts []*Artifact    `json:"artifacts,omitempty"`
	Metadata  map[string]any `json:"metadata,omitempty"`
}

// TaskSendParams are the parameters of tasks/send and tasks/sendSubscribe.
type TaskSendParams struct {
	ID                  string         `json:"id"`
	SessionID           string         `json:"sessionId"`
	Message             *Message       `json:"message"`
	AcceptedOutputModes []string       `json:"acceptedOutputModes,omitempty"`
	HistoryLength       int            `json:"historyLength,omitempty"`
	Metadata            map[string]any `json:"metadata,omitempty"`
}

// TaskQueryParams are the parameters of tasks/get.
type TaskQueryParams struct {
	ID            string `json:"id"`
	HistoryLength int    `json:"historyLength,omitempty"`
}

// TaskIDParams are the parameters of tasks/resubscribe.
type TaskIDParams struct {
	ID string `json:"id"`
}

// GenerateID returns a new unique identifier suitable for task and session ids.
func GenerateID() string {
	return uuid.NewString()
}
