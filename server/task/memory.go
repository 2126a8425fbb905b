// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-taskwire/taskwire"
)

// InMemoryStore is a volatile Store backed by a map. Task data is lost when
// the process stops. All operations are safe for concurrent use; reads and
// writes exchange deep copies so callers never share memory with the store.
type InMemoryStore struct {
	mu    sync.RWMutex
	tasks map[string]*taskwire.Task
}

var _ Store = (*InMemoryStore)(nil)

// NewInMemoryStore creates a new InMemoryStore.
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		tasks: make(map[string]*taskwire.Task),
	}
}

// Upsert creates the task if absent and returns it. An existing task is
// returned unchanged.
func (s *InMemoryStore) Upsert(ctx context.Context, id, sessionID string) (*taskwire.Task, error) {
	if id == "" {
		return nil, StoreError{Operation: "upsert", TaskID: id, Err: fmt.Errorf("task ID cannot be empty")}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.tasks[id]; ok {
		return copyTask(existing), nil
	}

	t := &taskwire.Task{
		ID:        id,
		SessionID: sessionID,
		Status: taskwire.TaskStatus{
			State:     taskwire.TaskStateSubmitted,
			Timestamp: time.Now().UTC(),
		},
	}
	s.tasks[id] = t
	return copyTask(t), nil
}

// UpdateStatus atomically replaces the current status, appending the status
// message to history and any artifacts to the artifact list.
func (s *InMemoryStore) UpdateStatus(ctx context.Context, id string, status taskwire.TaskStatus, artifacts ...*taskwire.Artifact) (*taskwire.Task, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, NotFoundError{TaskID: id}
	}
	if t.Status.State.Terminal() {
		return nil, NotUpdatableError{TaskID: id, State: t.Status.State}
	}

	if status.Timestamp.IsZero() {
		status.Timestamp = time.Now().UTC()
	}
	t.Status = status
	if status.Message != nil {
		t.History = append(t.History, copyMessage(status.Message))
	}
	for _, artifact := range artifacts {
		if artifact != nil {
			t.Artifacts = append(t.Artifacts, copyArtifact(artifact))
		}
	}

	return copyTask(t), nil
}

// Get returns a copy of the task for id.
func (s *InMemoryStore) Get(ctx context.Context, id string) (*taskwire.Task, error) {
	if id == "" {
		return nil, NotFoundError{TaskID: id}
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, NotFoundError{TaskID: id}
	}
	return copyTask(t), nil
}

// Close discards all tasks.
func (s *InMemoryStore) Close(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.tasks = make(map[string]*taskwire.Task)
	return nil
}

// Size returns the number of stored tasks. Useful for tests and monitoring.
func (s *InMemoryStore) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

func copyTask(t *taskwire.Task) *taskwire.Task {
	if t == nil {
		return nil
	}

	out := &taskwire.Task{
		ID:        t.ID,
		SessionID: t.SessionID,
		Status:    copyStatus(t.Status),
		Metadata:  copyMetadata(t.Metadata),
	}
	if t.History != nil {
		out.History = make([]*taskwire.Message, len(t.History))
		for i, m := range t.History {
			out.History[i] = copyMessage(m)
		}
	}
	if t.Artifacts != nil {
		out.Artifacts = make([]*taskwire.Artifact, len(t.Artifacts))
		for i, a := range t.Artifacts {
			out.Artifacts[i] = copyArtifact(a)
		}
	}
	return out
}

func copyStatus(st taskwire.TaskStatus) taskwire.TaskStatus {
	return taskwire.TaskStatus{
		State:     st.State,
		Message:   copyMessage(st.Message),
		Timestamp: st.Timestamp,
	}
}

func copyMessage(m *taskwire.Message) *taskwire.Message {
	if m == nil {
		return nil
	}
	out := &taskwire.Message{
		Role:     m.Role,
		Metadata: copyMetadata(m.Metadata),
	}
	if m.Parts != nil {
		// Part payloads are immutable once built; copying the slice is enough.
		out.Parts = make([]*taskwire.PartWrapper, len(m.Parts))
		copy(out.Parts, m.Parts)
	}
	return out
}

func copyArtifact(a *taskwire.Artifact) *taskwire.Artifact {
	if a == nil {
		return nil
	}
	out := &taskwire.Artifact{
		Name:     a.Name,
		Index:    a.Index,
		Append:   a.Append,
		Metadata: copyMetadata(a.Metadata),
	}
	if a.Parts != nil {
		out.Parts = make([]*taskwire.PartWrapper, len(a.Parts))
		copy(out.Parts, a.Parts)
	}
	return out
}

func copyMetadata(metadata map[string]any) map[string]any {
	if metadata == nil {
		return nil
	}
	out := make(map[string]any, len(metadata))
	for k, v := range metadata {
		out[k] = v
	}
	return out
}
