// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package agent defines the contract between the taskwire server and the
// agents it drives. The server consumes an agent solely through Invoke and
// Stream plus a static Descriptor; the agent's domain logic (prompting, tool
// use, model calls) stays behind this boundary.
package agent

import (
	"context"
	"regexp"
)

// DefaultMaxQueryLength is the query length bound applied when a Descriptor
// does not set one.
const DefaultMaxQueryLength = 1000

// DefaultSessionIDPattern is the session id format accepted when a
// Descriptor does not set one.
var DefaultSessionIDPattern = regexp.MustCompile(`^[A-Za-z0-9\-_]{1,64}$`)

// Response is one unit of agent output. Intermediate streaming responses
// have IsTaskComplete=false and an empty Err; the last element of a stream
// is terminal: IsTaskComplete=true or Err set. A non-empty Err always wins
// over IsTaskComplete.
type Response struct {
	// IsTaskComplete reports whether the task finished and Content holds
	// the final result.
	IsTaskComplete bool

	// Content is the result text, a progress message, or error context,
	// depending on the other fields.
	Content string

	// Err carries the agent-reported error text, empty when none.
	Err string
}

// Descriptor is the static self-description an agent exposes for request
// validation and agent card publication.
type Descriptor struct {
	// SupportedContentTypes are the output modes the agent can produce.
	SupportedContentTypes []string

	// MaxQueryLength bounds accepted query text. Zero means
	// DefaultMaxQueryLength.
	MaxQueryLength int

	// SessionIDPattern constrains session id format. Nil means
	// DefaultSessionIDPattern.
	SessionIDPattern *regexp.Regexp
}

// QueryLimit returns the effective maximum query length.
func (d Descriptor) QueryLimit() int {
	if d.MaxQueryLength > 0 {
		return d.MaxQueryLength
	}
	return DefaultMaxQueryLength
}

// SessionPattern returns the effective session id pattern.
func (d Descriptor) SessionPattern() *regexp.Regexp {
	if d.SessionIDPattern != nil {
		return d.SessionIDPattern
	}
	return DefaultSessionIDPattern
}

// Agent is the interface every taskwire agent implements. The session id is
// owned and interpreted by the agent (its memory or checkpoint model); the
// server only passes it through.
type Agent interface {
	// Invoke processes a query synchronously and returns a single terminal
	// response. The call blocks for the agent's full latency.
	Invoke(ctx context.Context, query, sessionID string) (Response, error)

	// Stream processes a query and returns a finite channel of responses.
	// Intermediate elements are progress updates; the channel is closed
	// after a terminal element. A channel that closes without a terminal
	// element is a contract violation the caller treats as a streaming
	// failure.
	Stream(ctx context.Context, query, sessionID string) (<-chan Response, error)

	// Describe returns the agent's static descriptor.
	Describe() Descriptor
}
