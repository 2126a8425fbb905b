// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/bytedance/sonic"

	"github.com/go-taskwire/taskwire"
)

// ErrStreamClosed is returned when reading a TaskStream after Close or
// after its final event.
var ErrStreamClosed = errors.New("task stream is closed")

// TaskStream is one live subscription to a task's event stream.
type TaskStream struct {
	taskID string

	mu     sync.Mutex
	reader *bufio.Reader
	closer io.Closer
	closed bool
}

// SendTaskSubscribe submits a task and subscribes to its event stream.
func (c *Client) SendTaskSubscribe(ctx context.Context, params taskwire.TaskSendParams) (*TaskStream, error) {
	req := taskwire.NewSendTaskStreamingRequest(c.nextID(), params)
	return c.openStream(ctx, params.ID, req)
}

// Resubscribe reattaches to the event stream of a previously submitted
// task. Events already delivered are not replayed; use GetTask to catch up
// on the current state first.
func (c *Client) Resubscribe(ctx context.Context, params taskwire.TaskIDParams) (*TaskStream, error) {
	req := taskwire.NewResubscribeTaskRequest(c.nextID(), params)
	return c.openStream(ctx, params.ID, req)
}

func (c *Client) openStream(ctx context.Context, taskID string, rpcReq any) (*TaskStream, error) {
	payload, err := sonic.ConfigDefault.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	body, err := c.post(ctx, payload, "text/event-stream")
	if err != nil {
		return nil, err
	}

	return &TaskStream{
		taskID: taskID,
		reader: bufio.NewReader(body),
		closer: body,
	}, nil
}

// TaskID returns the id of the task being streamed.
func (ts *TaskStream) TaskID() string {
	return ts.taskID
}

// Next blocks until the next event arrives. It returns a
// *taskwire.TaskStatusUpdateEvent, *taskwire.TaskArtifactUpdateEvent, or
// *taskwire.TaskErrorEvent, plus whether this event ends the stream. The
// server may answer a malformed subscription with a JSON-RPC error instead
// of a stream; that surfaces here as a *taskwire.JSONRPCError.
func (ts *TaskStream) Next() (any, bool, error) {
	name, data, err := ts.readFrame()
	if err != nil {
		return nil, false, err
	}

	switch name {
	case "status":
		var e taskwire.TaskStatusUpdateEvent
		if err := sonic.ConfigDefault.Unmarshal(data, &e); err != nil {
			return nil, false, fmt.Errorf("unmarshal status event: %w", err)
		}
		if e.Final {
			ts.Close()
		}
		return &e, e.Final, nil
	case "artifact":
		var e taskwire.TaskArtifactUpdateEvent
		if err := sonic.ConfigDefault.Unmarshal(data, &e); err != nil {
			return nil, false, fmt.Errorf("unmarshal artifact event: %w", err)
		}
		return &e, false, nil
	case "error":
		var e taskwire.TaskErrorEvent
		if err := sonic.ConfigDefault.Unmarshal(data, &e); err != nil {
			return nil, false, fmt.Errorf("unmarshal error event: %w", err)
		}
		return &e, false, nil
	default:
		return nil, false, fmt.Errorf("unknown stream event: %q", name)
	}
}

// readFrame reads one server-sent event: an optional event name line, data
// lines, and a terminating blank line.
func (ts *TaskStream) readFrame() (name string, data []byte, err error) {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.closed {
		return "", nil, ErrStreamClosed
	}

	var buf bytes.Buffer
	for {
		line, rerr := ts.reader.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")

		switch {
		case line == "":
		case strings.HasPrefix(line, "event:"):
			name = strings.TrimSpace(strings.TrimPrefix(line, "event:"))
		case strings.HasPrefix(line, "data:"):
			buf.WriteString(strings.TrimSpace(strings.TrimPrefix(line, "data:")))
		case strings.HasPrefix(line, ":"):
			// comment, skip
		default:
			// The server answered with a plain JSON-RPC error body
			// instead of a stream.
			buf.WriteString(line)
		}

		if rerr != nil {
			if !errors.Is(rerr, io.EOF) {
				return "", nil, fmt.Errorf("read stream: %w", rerr)
			}
			if name != "" && buf.Len() > 0 {
				return name, buf.Bytes(), nil
			}
			if buf.Len() > 0 {
				return "", nil, decodeStreamError(buf.Bytes())
			}
			return "", nil, ErrStreamClosed
		}

		if line == "" && (buf.Len() > 0 || name != "") {
			if name == "" {
				return "", nil, decodeStreamError(buf.Bytes())
			}
			return name, buf.Bytes(), nil
		}
	}
}

func decodeStreamError(data []byte) error {
	var resp struct {
		Error *taskwire.JSONRPCError `json:"error"`
	}
	if err := sonic.ConfigDefault.Unmarshal(data, &resp); err == nil && resp.Error != nil {
		return resp.Error
	}
	return fmt.Errorf("unexpected stream payload: %s", data)
}

// Close releases the stream. Safe to call multiple times.
func (ts *TaskStream) Close() error {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.closed {
		return nil
	}
	ts.closed = true
	return ts.closer.Close()
}
