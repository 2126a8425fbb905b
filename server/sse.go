// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"fmt"
	"net/http"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/go-taskwire/taskwire"
	"github.com/go-taskwire/taskwire/server/event"
)

// SSE event names on the wire.
const (
	sseEventStatus   = "status"
	sseEventArtifact = "artifact"
	sseEventError    = "error"
)

// Stream writes task events to one client as server-sent events.
type Stream struct {
	w       http.ResponseWriter
	flusher http.Flusher
	mu      sync.Mutex
}

// NewStream prepares a response writer for server-sent events and returns
// the stream, or nil when the writer does not support flushing.
func NewStream(w http.ResponseWriter) *Stream {
	flusher, ok := w.(http.Flusher)
	if !ok {
		return nil
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no") // For Nginx proxy

	return &Stream{w: w, flusher: flusher}
}

// WriteEvent sends one task event to the client, named by its kind.
func (s *Stream) WriteEvent(e event.Event) error {
	var name string
	switch e.EventKind() {
	case taskwire.EventKindStatusUpdate:
		name = sseEventStatus
	case taskwire.EventKindArtifactUpdate:
		name = sseEventArtifact
	case taskwire.EventKindError:
		name = sseEventError
	default:
		return fmt.Errorf("unknown event kind: %s", e.EventKind())
	}

	data, err := sonic.ConfigDefault.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := fmt.Fprintf(s.w, "event: %s\ndata: %s\n\n", name, data); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	s.flusher.Flush()
	return nil
}

// WriteError sends a protocol error to the client as an error event.
func (s *Stream) WriteError(taskID string, jerr *taskwire.JSONRPCError) error {
	return s.WriteEvent(&taskwire.TaskErrorEvent{ID: taskID, Message: jerr.Message})
}
