// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/go-taskwire/taskwire"
	"github.com/go-taskwire/taskwire/agent"
	"github.com/go-taskwire/taskwire/server/event"
	"github.com/go-taskwire/taskwire/server/task"
)

// TaskManager drives tasks from submission to a terminal state.
type TaskManager interface {
	// OnSendTask handles a synchronous task submission, blocking until the
	// agent returns.
	OnSendTask(ctx context.Context, params taskwire.TaskSendParams) (*taskwire.Task, error)

	// OnSendTaskSubscribe handles a streaming task submission. It returns
	// immediately with a channel of ordered events; the agent runs as a
	// background unit of work.
	OnSendTaskSubscribe(ctx context.Context, params taskwire.TaskSendParams) (<-chan event.Event, error)

	// OnGetTask retrieves the current state of a task.
	OnGetTask(ctx context.Context, params taskwire.TaskQueryParams) (*taskwire.Task, error)

	// OnResubscribe reattaches to a task's event stream. Events already
	// delivered are not replayed; callers catch up through OnGetTask.
	OnResubscribe(ctx context.Context, params taskwire.TaskIDParams) (<-chan event.Event, error)
}

// AgentTaskManager is the TaskManager for a single agent. The task store is
// the source of truth for task state; the event bus is a notification side
// channel for subscribers.
type AgentTaskManager struct {
	agent  agent.Agent
	store  task.Store
	bus    *event.Bus
	logger *slog.Logger
	tracer trace.Tracer
}

var _ TaskManager = (*AgentTaskManager)(nil)

// NewAgentTaskManager creates a task manager driving the given agent.
func NewAgentTaskManager(a agent.Agent, store task.Store, bus *event.Bus) *AgentTaskManager {
	return &AgentTaskManager{
		agent:  a,
		store:  store,
		bus:    bus,
		logger: slog.Default(),
		tracer: otel.GetTracerProvider().Tracer("github.com/go-taskwire/taskwire/server"),
	}
}

// WithLogger sets the logger for the task manager.
func (m *AgentTaskManager) WithLogger(logger *slog.Logger) *AgentTaskManager {
	m.logger = logger
	return m
}

// WithTracer sets the tracer for the task manager.
func (m *AgentTaskManager) WithTracer(tracer trace.Tracer) *AgentTaskManager {
	m.tracer = tracer
	return m
}

// OnSendTask handles a synchronous task submission.
func (m *AgentTaskManager) OnSendTask(ctx context.Context, params taskwire.TaskSendParams) (*taskwire.Task, error) {
	ctx, span := m.tracer.Start(ctx, "taskwire.task_manager.OnSendTask",
		trace.WithAttributes(attribute.String("taskwire.task_id", params.ID)))
	defer span.End()

	query, err := m.validateRequest(&params)
	if err != nil {
		m.logger.WarnContext(ctx, "request rejected", "task_id", params.ID, "error", err)
		return nil, err
	}

	if _, err := m.store.Upsert(ctx, params.ID, params.SessionID); err != nil {
		return nil, fmt.Errorf("upsert task %s: %w", params.ID, err)
	}
	if _, err := m.store.UpdateStatus(ctx, params.ID, taskwire.TaskStatus{State: taskwire.TaskStateWorking}); err != nil {
		return nil, fmt.Errorf("mark task %s working: %w", params.ID, err)
	}

	resp, err := m.invokeAgent(ctx, query, params.SessionID)
	if err != nil {
		m.logger.ErrorContext(ctx, "agent invocation failed", "task_id", params.ID, "error", err)
		failure := taskwire.TaskStatus{
			State:   taskwire.TaskStateFailed,
			Message: taskwire.NewTextMessage(taskwire.RoleAgent, fmt.Sprintf("agent invocation failed: %v", err)),
		}
		if _, uerr := m.store.UpdateStatus(ctx, params.ID, failure); uerr != nil {
			m.logger.ErrorContext(ctx, "failed to record agent failure", "task_id", params.ID, "error", uerr)
		}
		return nil, taskwire.NewAgentInvocationError(err.Error())
	}

	status, artifacts := mapAgentResponse(resp)
	updated, err := m.store.UpdateStatus(ctx, params.ID, status, artifacts...)
	if err != nil {
		return nil, fmt.Errorf("update task %s: %w", params.ID, err)
	}

	m.logger.InfoContext(ctx, "task processed", "task_id", params.ID, "state", updated.Status.State)
	return task.WithHistory(updated, params.HistoryLength), nil
}

// invokeAgent calls the agent's synchronous interface, converting a panic
// into an error so an unruly agent cannot crash the orchestrator.
func (m *AgentTaskManager) invokeAgent(ctx context.Context, query, sessionID string) (resp agent.Response, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent panicked: %v", r)
		}
	}()
	return m.agent.Invoke(ctx, query, sessionID)
}

// OnSendTaskSubscribe handles a streaming task submission. The returned
// channel follows the caller's context; the agent work does not, it runs to
// completion even if every subscriber disconnects, and the terminal result
// stays retrievable through OnGetTask.
func (m *AgentTaskManager) OnSendTaskSubscribe(ctx context.Context, params taskwire.TaskSendParams) (<-chan event.Event, error) {
	ctx, span := m.tracer.Start(ctx, "taskwire.task_manager.OnSendTaskSubscribe",
		trace.WithAttributes(attribute.String("taskwire.task_id", params.ID)))
	defer span.End()

	query, err := m.validateRequest(&params)
	if err != nil {
		m.logger.WarnContext(ctx, "request rejected", "task_id", params.ID, "error", err)
		return nil, err
	}

	if _, err := m.store.Upsert(ctx, params.ID, params.SessionID); err != nil {
		return nil, fmt.Errorf("upsert task %s: %w", params.ID, err)
	}

	queue, err := m.bus.Subscribe(params.ID, false)
	if err != nil {
		return nil, fmt.Errorf("subscribe to task %s: %w", params.ID, err)
	}

	go m.runStreamingAgent(context.WithoutCancel(ctx), params, query)

	m.logger.InfoContext(ctx, "task subscription created", "task_id", params.ID)
	return event.NewConsumer(m.bus, params.ID, queue).Events(ctx), nil
}

// OnGetTask retrieves the current state of a task.
func (m *AgentTaskManager) OnGetTask(ctx context.Context, params taskwire.TaskQueryParams) (*taskwire.Task, error) {
	ctx, span := m.tracer.Start(ctx, "taskwire.task_manager.OnGetTask",
		trace.WithAttributes(attribute.String("taskwire.task_id", params.ID)))
	defer span.End()

	t, err := m.store.Get(ctx, params.ID)
	if err != nil {
		m.logger.InfoContext(ctx, "task not found", "task_id", params.ID)
		return nil, err
	}
	return task.WithHistory(t, params.HistoryLength), nil
}

// OnResubscribe reattaches to a task's event stream.
func (m *AgentTaskManager) OnResubscribe(ctx context.Context, params taskwire.TaskIDParams) (<-chan event.Event, error) {
	ctx, span := m.tracer.Start(ctx, "taskwire.task_manager.OnResubscribe",
		trace.WithAttributes(attribute.String("taskwire.task_id", params.ID)))
	defer span.End()

	if _, err := m.store.Get(ctx, params.ID); err != nil {
		return nil, err
	}

	queue, err := m.bus.Subscribe(params.ID, true)
	if err != nil {
		return nil, fmt.Errorf("resubscribe to task %s: %w", params.ID, err)
	}

	m.logger.InfoContext(ctx, "task resubscribed", "task_id", params.ID)
	return event.NewConsumer(m.bus, params.ID, queue).Events(ctx), nil
}

// runStreamingAgent is the streaming driver: it iterates the agent's update
// stream, mirrors each update into the task store, and publishes the
// corresponding events. Exactly one event with Final=true is published per
// task; after that the driver performs no further store mutation or publish.
func (m *AgentTaskManager) runStreamingAgent(ctx context.Context, params taskwire.TaskSendParams, query string) {
	ctx, span := m.tracer.Start(ctx, "taskwire.task_manager.runStreamingAgent",
		trace.WithAttributes(attribute.String("taskwire.task_id", params.ID)))
	defer span.End()

	updates, err := m.agent.Stream(ctx, query, params.SessionID)
	if err != nil {
		m.logger.ErrorContext(ctx, "agent stream setup failed", "task_id", params.ID, "error", err)
		m.failStreaming(ctx, params.ID, fmt.Sprintf("agent stream failed: %v", err))
		return
	}

	for resp := range updates {
		status, artifacts := mapAgentResponse(resp)
		final := status.State.Terminal()

		if _, err := m.store.UpdateStatus(ctx, params.ID, status, artifacts...); err != nil {
			var notUpdatable task.NotUpdatableError
			if errors.As(err, &notUpdatable) {
				// Terminal state already recorded; publishing anything more
				// would violate the single-final guarantee.
				m.logger.ErrorContext(ctx, "update after terminal state rejected", "task_id", params.ID, "error", err)
				return
			}
			m.logger.ErrorContext(ctx, "store update failed", "task_id", params.ID, "error", err)
			m.failStreaming(ctx, params.ID, "an internal error interrupted the task")
			return
		}

		// The artifact event precedes its terminal status event so a
		// subscriber observing Final=true has already seen the artifact.
		for _, artifact := range artifacts {
			m.bus.Publish(&taskwire.TaskArtifactUpdateEvent{ID: params.ID, Artifact: artifact})
		}
		m.bus.Publish(&taskwire.TaskStatusUpdateEvent{ID: params.ID, Status: status, Final: final})

		if final {
			m.logger.InfoContext(ctx, "streaming task finished", "task_id", params.ID, "state", status.State)
			return
		}
	}

	// The stream closed without a terminal element, which the agent
	// contract forbids.
	m.logger.ErrorContext(ctx, "agent stream ended without a terminal update", "task_id", params.ID)
	m.failStreaming(ctx, params.ID, "agent stream ended without a terminal update")
}

// failStreaming records a failed terminal status and notifies subscribers:
// first the authoritative Final=true status event, then an informational
// error event carrying the underlying message.
func (m *AgentTaskManager) failStreaming(ctx context.Context, taskID, message string) {
	status := taskwire.TaskStatus{
		State:   taskwire.TaskStateFailed,
		Message: taskwire.NewTextMessage(taskwire.RoleAgent, message),
	}

	if _, err := m.store.UpdateStatus(ctx, taskID, status); err != nil {
		var notUpdatable task.NotUpdatableError
		if errors.As(err, &notUpdatable) {
			m.logger.ErrorContext(ctx, "failure after terminal state dropped", "task_id", taskID, "error", err)
			return
		}
		m.logger.ErrorContext(ctx, "failed to record streaming failure", "task_id", taskID, "error", err)
	}

	m.bus.Publish(&taskwire.TaskStatusUpdateEvent{ID: taskID, Status: status, Final: true})
	m.bus.Publish(&taskwire.TaskErrorEvent{ID: taskID, Message: message})
}

// mapAgentResponse translates one agent response into the status and
// artifacts to record. A reported error wins over completion; completion
// yields a complete final artifact and a status without a message body (the
// content already lives in the artifact); anything else is non-terminal
// progress callers poll or stream past.
func mapAgentResponse(resp agent.Response) (taskwire.TaskStatus, []*taskwire.Artifact) {
	switch {
	case resp.Err != "":
		text := resp.Content
		if text == "" {
			text = resp.Err
		}
		return taskwire.TaskStatus{
			State:   taskwire.TaskStateFailed,
			Message: taskwire.NewTextMessage(taskwire.RoleAgent, text),
		}, nil

	case resp.IsTaskComplete:
		return taskwire.TaskStatus{
			State: taskwire.TaskStateCompleted,
		}, []*taskwire.Artifact{taskwire.NewTextArtifact(resp.Content)}

	default:
		return taskwire.TaskStatus{
			State:   taskwire.TaskStateWorking,
			Message: taskwire.NewTextMessage(taskwire.RoleAgent, resp.Content),
		}, nil
	}
}
