// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package task

import (
	"fmt"

	"github.com/go-taskwire/taskwire"
)

// NotFoundError reports an unknown task id.
type NotFoundError struct {
	TaskID string
}

// Error returns the error message.
func (e NotFoundError) Error() string {
	return fmt.Sprintf("task not found: %s", e.TaskID)
}

// NotUpdatableError reports an attempt to update a task that already
// reached a terminal state.
type NotUpdatableError struct {
	TaskID string
	State  taskwire.TaskState
}

// Error returns the error message.
func (e NotUpdatableError) Error() string {
	return fmt.Sprintf("task %s in terminal state %s cannot be updated", e.TaskID, e.State)
}

// StoreError wraps a failure of a store operation.
type StoreError struct {
	Operation string
	TaskID    string
	Err       error
}

// Error returns the error message.
func (e StoreError) Error() string {
	return fmt.Sprintf("task store %s failed for task %s: %v", e.Operation, e.TaskID, e.Err)
}

// Unwrap returns the underlying error.
func (e StoreError) Unwrap() error {
	return e.Err
}
