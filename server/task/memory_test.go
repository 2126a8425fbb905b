// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/go-taskwire/taskwire"
)

func TestInMemoryStoreUpsert(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemoryStore()

	created, err := store.Upsert(ctx, "t-1", "s-1")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if created.ID != "t-1" || created.SessionID != "s-1" {
		t.Errorf("Upsert() = %+v, want id t-1 session s-1", created)
	}
	if created.Status.State != taskwire.TaskStateSubmitted {
		t.Errorf("new task state = %q, want %q", created.Status.State, taskwire.TaskStateSubmitted)
	}
	if len(created.History) != 0 || len(created.Artifacts) != 0 {
		t.Errorf("new task must have empty history and artifacts, got %d/%d", len(created.History), len(created.Artifacts))
	}
	if created.Status.Timestamp.IsZero() {
		t.Error("new task status timestamp must be set")
	}
}

func TestInMemoryStoreUpsertIdempotent(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemoryStore()

	if _, err := store.Upsert(ctx, "t-1", "s-1"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := store.UpdateStatus(ctx, "t-1", taskwire.TaskStatus{State: taskwire.TaskStateWorking}); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	// A second submission with the same id must not reset progress or
	// adopt the new session id.
	again, err := store.Upsert(ctx, "t-1", "s-other")
	if err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if again.SessionID != "s-1" {
		t.Errorf("SessionID = %q, want original %q", again.SessionID, "s-1")
	}
	if again.Status.State != taskwire.TaskStateWorking {
		t.Errorf("state = %q, want %q", again.Status.State, taskwire.TaskStateWorking)
	}
	if store.Size() != 1 {
		t.Errorf("Size() = %d, want 1", store.Size())
	}
}

func TestInMemoryStoreUpsertEmptyID(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	if _, err := store.Upsert(context.Background(), "", "s-1"); err == nil {
		t.Error("Upsert() expected error for empty id, got nil")
	}
}

func TestInMemoryStoreUpdateStatus(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemoryStore()

	if _, err := store.Upsert(ctx, "t-1", "s-1"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}

	progress := taskwire.TaskStatus{
		State:   taskwire.TaskStateWorking,
		Message: taskwire.NewTextMessage(taskwire.RoleAgent, "Conducting research..."),
	}
	updated, err := store.UpdateStatus(ctx, "t-1", progress)
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if updated.Status.State != taskwire.TaskStateWorking {
		t.Errorf("state = %q, want %q", updated.Status.State, taskwire.TaskStateWorking)
	}
	if len(updated.History) != 1 {
		t.Fatalf("history length = %d, want 1", len(updated.History))
	}
	if updated.Status.Timestamp.IsZero() {
		t.Error("UpdateStatus() must default a zero timestamp")
	}

	final := taskwire.TaskStatus{State: taskwire.TaskStateCompleted, Timestamp: time.Now().UTC()}
	updated, err = store.UpdateStatus(ctx, "t-1", final, taskwire.NewTextArtifact("Report: done"))
	if err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}
	if len(updated.History) != 1 {
		t.Errorf("history length = %d, want 1 (status without message adds nothing)", len(updated.History))
	}
	if len(updated.Artifacts) != 1 {
		t.Fatalf("artifacts length = %d, want 1", len(updated.Artifacts))
	}
	if text, ok := updated.Artifacts[0].Parts[0].Text(); !ok || text != "Report: done" {
		t.Errorf("artifact text = (%q, %v), want (%q, true)", text, ok, "Report: done")
	}
}

func TestInMemoryStoreUpdateStatusNotFound(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	_, err := store.UpdateStatus(context.Background(), "missing", taskwire.TaskStatus{State: taskwire.TaskStateWorking})

	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("UpdateStatus() error = %v, want NotFoundError", err)
	}
}

func TestInMemoryStoreUpdateStatusTerminal(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemoryStore()

	if _, err := store.Upsert(ctx, "t-1", "s-1"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if _, err := store.UpdateStatus(ctx, "t-1", taskwire.TaskStatus{State: taskwire.TaskStateCompleted}); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	_, err := store.UpdateStatus(ctx, "t-1", taskwire.TaskStatus{State: taskwire.TaskStateWorking})
	var notUpdatable NotUpdatableError
	if !errors.As(err, &notUpdatable) {
		t.Fatalf("UpdateStatus() error = %v, want NotUpdatableError", err)
	}
	if notUpdatable.State != taskwire.TaskStateCompleted {
		t.Errorf("NotUpdatableError.State = %q, want %q", notUpdatable.State, taskwire.TaskStateCompleted)
	}

	// The terminal state must be untouched by the rejected write.
	got, err := store.Get(ctx, "t-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Status.State != taskwire.TaskStateCompleted {
		t.Errorf("state after rejected write = %q, want %q", got.Status.State, taskwire.TaskStateCompleted)
	}
}

func TestInMemoryStoreGetNotFound(t *testing.T) {
	t.Parallel()

	store := NewInMemoryStore()
	_, err := store.Get(context.Background(), "missing")

	var notFound NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("Get() error = %v, want NotFoundError", err)
	}
}

func TestInMemoryStoreCopiesOnRead(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemoryStore()

	if _, err := store.Upsert(ctx, "t-1", "s-1"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	status := taskwire.TaskStatus{
		State:   taskwire.TaskStateWorking,
		Message: taskwire.NewTextMessage(taskwire.RoleAgent, "working"),
	}
	if _, err := store.UpdateStatus(ctx, "t-1", status); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	first, err := store.Get(ctx, "t-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	// Mutating the returned copy must not leak into the store.
	first.History = append(first.History, taskwire.NewTextMessage(taskwire.RoleUser, "injected"))
	first.Status.State = taskwire.TaskStateFailed

	second, err := store.Get(ctx, "t-1")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if len(second.History) != 1 {
		t.Errorf("history length = %d, want 1", len(second.History))
	}
	if second.Status.State != taskwire.TaskStateWorking {
		t.Errorf("state = %q, want %q", second.Status.State, taskwire.TaskStateWorking)
	}
}

func TestInMemoryStoreClose(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	store := NewInMemoryStore()

	if _, err := store.Upsert(ctx, "t-1", "s-1"); err != nil {
		t.Fatalf("Upsert() error = %v", err)
	}
	if err := store.Close(ctx); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if store.Size() != 0 {
		t.Errorf("Size() after Close = %d, want 0", store.Size())
	}
}

func TestWithHistory(t *testing.T) {
	t.Parallel()

	history := []*taskwire.Message{
		taskwire.NewTextMessage(taskwire.RoleAgent, "one"),
		taskwire.NewTextMessage(taskwire.RoleAgent, "two"),
		taskwire.NewTextMessage(taskwire.RoleAgent, "three"),
	}

	tests := map[string]struct {
		limit int
		want  []*taskwire.Message
	}{
		"zero strips history":     {limit: 0, want: nil},
		"negative strips history": {limit: -1, want: nil},
		"limit below length":      {limit: 2, want: history[1:]},
		"limit at length":         {limit: 3, want: history},
		"limit above length":      {limit: 10, want: history},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			task := &taskwire.Task{ID: "t-1", History: history}
			shaped := WithHistory(task, tt.limit)

			if len(shaped.History) != len(tt.want) {
				t.Fatalf("history length = %d, want %d", len(shaped.History), len(tt.want))
			}
			for i := range tt.want {
				gotText, _ := shaped.History[i].Parts[0].Text()
				wantText, _ := tt.want[i].Parts[0].Text()
				if gotText != wantText {
					t.Errorf("history[%d] = %q, want %q", i, gotText, wantText)
				}
			}
			// The source task keeps its full history.
			if diff := cmp.Diff(3, len(task.History)); diff != "" {
				t.Errorf("source history mutated (-want +got):\n%s", diff)
			}
		})
	}
}

func TestWithHistoryNil(t *testing.T) {
	t.Parallel()

	if got := WithHistory(nil, 5); got != nil {
		t.Errorf("WithHistory(nil) = %v, want nil", got)
	}
}
