// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"io"
	"net/http"

	"github.com/bytedance/sonic"

	"github.com/go-taskwire/taskwire"
	"github.com/go-taskwire/taskwire/server/event"
	"github.com/go-taskwire/taskwire/server/task"
)

// maxRequestBody bounds the accepted JSON-RPC payload size.
const maxRequestBody = 4 << 20

// handleRPC dispatches a JSON-RPC request. Unary methods answer with a
// single JSON-RPC response; subscription methods switch the connection to a
// server-sent event stream that ends after the final status event.
func (s *Server) handleRPC(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxRequestBody))
	if err != nil {
		s.sendError(w, taskwire.NewID(nil), taskwire.ErrParse)
		return
	}

	req, err := taskwire.DecodeRequest(body)
	if err != nil {
		s.logger.Warn("malformed request", "error", err)
		s.sendError(w, taskwire.NewID(nil), taskwire.ErrInvalidRequest)
		return
	}

	switch req.Method {
	case taskwire.MethodTasksSend:
		s.handleTasksSend(w, r, req)
	case taskwire.MethodTasksGet:
		s.handleTasksGet(w, r, req)
	case taskwire.MethodTasksSendSubscribe:
		s.handleTasksSendSubscribe(w, r, req)
	case taskwire.MethodTasksResubscribe:
		s.handleTasksResubscribe(w, r, req)
	default:
		s.sendError(w, req.ID, taskwire.ErrMethodNotFound)
	}
}

func (s *Server) handleTasksSend(w http.ResponseWriter, r *http.Request, req *taskwire.JSONRPCRequest) {
	params, err := taskwire.DecodeParams[taskwire.TaskSendParams](req)
	if err != nil {
		s.sendError(w, req.ID, taskwire.NewInvalidParamsError(err.Error()))
		return
	}

	result, err := s.manager.OnSendTask(r.Context(), params)
	if err != nil {
		s.sendError(w, req.ID, toProtocolError(err))
		return
	}
	s.sendResult(w, req.ID, result)
}

func (s *Server) handleTasksGet(w http.ResponseWriter, r *http.Request, req *taskwire.JSONRPCRequest) {
	params, err := taskwire.DecodeParams[taskwire.TaskQueryParams](req)
	if err != nil {
		s.sendError(w, req.ID, taskwire.NewInvalidParamsError(err.Error()))
		return
	}

	result, err := s.manager.OnGetTask(r.Context(), params)
	if err != nil {
		s.sendError(w, req.ID, toProtocolError(err))
		return
	}
	s.sendResult(w, req.ID, result)
}

func (s *Server) handleTasksSendSubscribe(w http.ResponseWriter, r *http.Request, req *taskwire.JSONRPCRequest) {
	params, err := taskwire.DecodeParams[taskwire.TaskSendParams](req)
	if err != nil {
		s.sendError(w, req.ID, taskwire.NewInvalidParamsError(err.Error()))
		return
	}

	events, err := s.manager.OnSendTaskSubscribe(r.Context(), params)
	if err != nil {
		s.sendError(w, req.ID, toProtocolError(err))
		return
	}
	s.streamEvents(w, r, params.ID, events)
}

func (s *Server) handleTasksResubscribe(w http.ResponseWriter, r *http.Request, req *taskwire.JSONRPCRequest) {
	params, err := taskwire.DecodeParams[taskwire.TaskIDParams](req)
	if err != nil {
		s.sendError(w, req.ID, taskwire.NewInvalidParamsError(err.Error()))
		return
	}

	events, err := s.manager.OnResubscribe(r.Context(), params)
	if err != nil {
		s.sendError(w, req.ID, toProtocolError(err))
		return
	}
	s.streamEvents(w, r, params.ID, events)
}

// streamEvents relays a task's event channel to the client over SSE until
// the channel closes (final event delivered) or the client disconnects.
func (s *Server) streamEvents(w http.ResponseWriter, r *http.Request, taskID string, events <-chan event.Event) {
	stream := NewStream(w)
	if stream == nil {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("subscriber disconnected", "task_id", taskID)
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			if err := stream.WriteEvent(e); err != nil {
				s.logger.Warn("failed to write event", "task_id", taskID, "error", err)
				return
			}
		}
	}
}

func (s *Server) sendResult(w http.ResponseWriter, id taskwire.ID, result any) {
	s.writeResponse(w, taskwire.NewResultResponse(id, result))
}

func (s *Server) sendError(w http.ResponseWriter, id taskwire.ID, jerr *taskwire.JSONRPCError) {
	s.writeResponse(w, taskwire.NewErrorResponse(id, jerr))
}

func (s *Server) writeResponse(w http.ResponseWriter, resp *taskwire.JSONRPCResponse) {
	data, err := taskwire.EncodeResponse(resp)
	if err != nil {
		s.logger.Error("failed to encode response", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(data); err != nil {
		s.logger.Warn("failed to write response", "error", err)
	}
}

// toProtocolError maps manager and store errors onto JSON-RPC error
// objects. Internal error text is wrapped behind a generic message rather
// than leaked to the caller.
func toProtocolError(err error) *taskwire.JSONRPCError {
	var jerr *taskwire.JSONRPCError
	if errors.As(err, &jerr) {
		return jerr
	}
	var notFound task.NotFoundError
	if errors.As(err, &notFound) {
		return taskwire.ErrTaskNotFound
	}
	var notUpdatable task.NotUpdatableError
	if errors.As(err, &notUpdatable) {
		return taskwire.NewInvalidParamsError(notUpdatable.Error())
	}
	return taskwire.NewInternalError("an internal error occurred while processing the request")
}

// handleAgentCard serves the agent card.
func (s *Server) handleAgentCard(w http.ResponseWriter, r *http.Request) {
	data, err := sonic.ConfigDefault.Marshal(s.card)
	if err != nil {
		s.logger.Error("failed to encode agent card", "error", err)
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
