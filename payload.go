// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package taskwire

import (
	"fmt"

	"github.com/bytedance/sonic"
)

// Taskwire RPC method names.
const (
	// MethodTasksSend is the method name for sending a task synchronously.
	MethodTasksSend = "tasks/send"

	// MethodTasksSendSubscribe is the method name for sending a task and
	// subscribing to its event stream.
	MethodTasksSendSubscribe = "tasks/sendSubscribe"

	// MethodTasksGet is the method name for polling a task.
	MethodTasksGet = "tasks/get"

	// MethodTasksResubscribe is the method name for reattaching to a task's
	// event stream.
	MethodTasksResubscribe = "tasks/resubscribe"
)

// SendTaskRequest represents a request to initiate or continue a task.
type SendTaskRequest struct {
	JSONRPCRequest

	Params TaskSendParams `json:"params"`
}

// NewSendTaskRequest creates a new SendTaskRequest.
func NewSendTaskRequest(id ID, params TaskSendParams) *SendTaskRequest {
	return &SendTaskRequest{
		JSONRPCRequest: JSONRPCRequest{
			JSONRPCMessage: NewJSONRPCMessage(id),
			Method:         MethodTasksSend,
		},
		Params: params,
	}
}

// SendTaskResponse represents the result of a tasks/send call.
type SendTaskResponse struct {
	JSONRPCMessage

	Result *Task         `json:"result,omitempty"`
	Error  *JSONRPCError `json:"error,omitempty"`
}

// SendTaskStreamingRequest represents a request to initiate a task and
// stream its events.
type SendTaskStreamingRequest struct {
	JSONRPCRequest

	Params TaskSendParams `json:"params"`
}

// NewSendTaskStreamingRequest creates a new SendTaskStreamingRequest.
func NewSendTaskStreamingRequest(id ID, params TaskSendParams) *SendTaskStreamingRequest {
	return &SendTaskStreamingRequest{
		JSONRPCRequest: JSONRPCRequest{
			JSONRPCMessage: NewJSONRPCMessage(id),
			Method:         MethodTasksSendSubscribe,
		},
		Params: params,
	}
}

// GetTaskRequest represents a request to poll a task.
type GetTaskRequest struct {
	JSONRPCRequest

	Params TaskQueryParams `json:"params"`
}

// NewGetTaskRequest creates a new GetTaskRequest.
func NewGetTaskRequest(id ID, params TaskQueryParams) *GetTaskRequest {
	return &GetTaskRequest{
		JSONRPCRequest: JSONRPCRequest{
			JSONRPCMessage: NewJSONRPCMessage(id),
			Method:         MethodTasksGet,
		},
		Params: params,
	}
}

// GetTaskResponse represents the result of a tasks/get call.
type GetTaskResponse struct {
	JSONRPCMessage

	Result *Task         `json:"result,omitempty"`
	Error  *JSONRPCError `json:"error,omitempty"`
}

// ResubscribeTaskRequest represents a request to reattach to a task's
// event stream.
type ResubscribeTaskRequest struct {
	JSONRPCRequest

	Params TaskIDParams `json:"params"`
}

// NewResubscribeTaskRequest creates a new ResubscribeTaskRequest.
func NewResubscribeTaskRequest(id ID, params TaskIDParams) *ResubscribeTaskRequest {
	return &ResubscribeTaskRequest{
		JSONRPCRequest: JSONRPCRequest{
			JSONRPCMessage: NewJSONRPCMessage(id),
			Method:         MethodTasksResubscribe,
		},
		Params: params,
	}
}

// DecodeRequest parses a raw JSON-RPC request envelope. Parameters stay raw
// for per-method decoding with DecodeParams.
func DecodeRequest(data []byte) (*JSONRPCRequest, error) {
	var req JSONRPCRequest
	if err := sonic.ConfigDefault.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("unmarshal request envelope: %w", err)
	}
	if req.JSONRPC != "2.0" {
		return nil, fmt.Errorf("unsupported jsonrpc version: %q", req.JSONRPC)
	}
	if req.Method == "" {
		return nil, fmt.Errorf("missing method")
	}
	return &req, nil
}

// DecodeParams decodes the raw params of a request into the given
// parameter type.
func DecodeParams[T any](req *JSONRPCRequest) (T, error) {
	var params T
	if len(req.Params) == 0 {
		return params, fmt.Errorf("missing params for %s", req.Method)
	}
	if err := sonic.ConfigDefault.Unmarshal(req.Params, &params); err != nil {
		return params, fmt.Errorf("unmarshal %s params: %w", req.Method, err)
	}
	return params, nil
}

// EncodeResponse serializes a JSON-RPC response.
func EncodeResponse(resp *JSONRPCResponse) ([]byte, error) {
	data, err := sonic.ConfigDefault.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("marshal response: %w", err)
	}
	return data, nil
}
