// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"errors"
	"fmt"
	"slices"

	"github.com/go-taskwire/taskwire"
)

// ErrUnsupportedPart is returned when a query cannot be extracted because
// the first message part is not a text part. Only the first part is
// inspected; this is a documented limitation of the query contract.
var ErrUnsupportedPart = errors.New("only text parts are supported")

// validateRequest checks a submission before any side effect: output mode
// compatibility, query shape and length, and session id format. An empty
// session id is replaced with a generated one; a malformed one is rejected,
// never coerced. On success the extracted query text is returned.
func (m *AgentTaskManager) validateRequest(params *taskwire.TaskSendParams) (string, error) {
	desc := m.agent.Describe()

	if params.ID == "" {
		return "", taskwire.NewInvalidParamsError("task id is required")
	}

	if !ModalitiesCompatible(params.AcceptedOutputModes, desc.SupportedContentTypes) {
		m.logger.Warn("unsupported output modes",
			"task_id", params.ID,
			"accepted", params.AcceptedOutputModes,
			"supported", desc.SupportedContentTypes)
		return "", taskwire.ErrIncompatibleModality
	}

	query, err := UserQuery(params.Message)
	if err != nil {
		return "", taskwire.NewInvalidParamsError(err.Error())
	}
	if query == "" {
		return "", taskwire.NewInvalidParamsError("query text cannot be empty")
	}
	if limit := desc.QueryLimit(); len(query) > limit {
		return "", taskwire.NewInvalidParamsError(fmt.Sprintf("query exceeds maximum length of %d", limit))
	}

	if params.SessionID == "" {
		params.SessionID = taskwire.GenerateID()
	} else if !desc.SessionPattern().MatchString(params.SessionID) {
		return "", taskwire.NewInvalidParamsError("invalid session id format")
	}

	return query, nil
}

// ModalitiesCompatible reports whether the requested output modes intersect
// the modes the agent supports. An empty list on either side means no
// constraint.
func ModalitiesCompatible(requested, supported []string) bool {
	if len(requested) == 0 || len(supported) == 0 {
		return true
	}
	return slices.ContainsFunc(requested, func(mode string) bool {
		return slices.Contains(supported, mode)
	})
}

// UserQuery extracts the query text from a submission message. Only the
// first part is inspected.
func UserQuery(message *taskwire.Message) (string, error) {
	if message == nil || len(message.Parts) == 0 {
		return "", errors.New("message must contain at least one part")
	}
	text, ok := message.Parts[0].Text()
	if !ok {
		return "", ErrUnsupportedPart
	}
	return text, nil
}
