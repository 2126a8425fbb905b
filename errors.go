// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package taskwire

import "fmt"

// JSONRPCError represents a JSON-RPC 2.0 error object.
type JSONRPCError struct {
	// Code is the error code.
	Code int `json:"code"`
	// Message is a short description of the error.
	Message string `json:"message"`
	// Data contains optional additional error details.
	Data any `json:"data,omitempty"`
}

// Error implements the error interface.
func (e *JSONRPCError) Error() string {
	return fmt.Sprintf("jsonrpc error %d: %s", e.Code, e.Message)
}

// JSON-RPC 2.0 standard error codes.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Taskwire-specific error codes.
const (
	CodeTaskNotFound          = -32001
	CodeUnsupportedOperation  = -32004
	CodeIncompatibleModality  = -32005
	CodeAgentInvocationFailed = -32006
)

// Protocol errors.
var (
	// ErrParse is the error for malformed JSON payloads.
	ErrParse = &JSONRPCError{Code: CodeParseError, Message: "invalid JSON payload"}

	// ErrInvalidRequest is the error for malformed JSON-RPC envelopes.
	ErrInvalidRequest = &JSONRPCError{Code: CodeInvalidRequest, Message: "request payload validation error"}

	// ErrMethodNotFound is the error for unknown methods.
	ErrMethodNotFound = &JSONRPCError{Code: CodeMethodNotFound, Message: "method not found"}

	// ErrTaskNotFound is the error for unknown task ids.
	ErrTaskNotFound = &JSONRPCError{Code: CodeTaskNotFound, Message: "task not found"}

	// ErrUnsupportedOperation is the error for operations the server does not provide.
	ErrUnsupportedOperation = &JSONRPCError{Code: CodeUnsupportedOperation, Message: "this operation is not supported"}

	// ErrIncompatibleModality is the error for requested output modes the
	// agent cannot produce.
	ErrIncompatibleModality = &JSONRPCError{Code: CodeIncompatibleModality, Message: "incompatible output modes"}
)

// NewInvalidParamsError creates an invalid-params error carrying detail.
func NewInvalidParamsError(detail string) *JSONRPCError {
	return &JSONRPCError{Code: CodeInvalidParams, Message: "invalid parameters", Data: detail}
}

// NewInternalError creates an internal error carrying detail.
func NewInternalError(detail string) *JSONRPCError {
	return &JSONRPCError{Code: CodeInternalError, Message: "internal error", Data: detail}
}

// NewAgentInvocationError creates an error for an agent that failed
// unexpectedly while handling a synchronous invocation.
func NewAgentInvocationError(detail string) *JSONRPCError {
	return &JSONRPCError{Code: CodeAgentInvocationFailed, Message: "agent invocation failed", Data: detail}
}
