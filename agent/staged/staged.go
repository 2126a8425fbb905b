// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package staged provides a deterministic agent that walks a fixed sequence
// of progress stages before producing its result. It backs the taskwired
// demo binary and the server integration tests; real deployments implement
// agent.Agent against an actual model pipeline.
package staged

import (
	"context"
	"fmt"
	"time"

	"github.com/go-taskwire/taskwire/agent"
)

// DefaultStages are the progress messages emitted between submission and
// completion.
var DefaultStages = []string{
	"Extracting research topic...",
	"Conducting research...",
	"Generating research report...",
}

// Agent is a staged agent.Agent implementation. Answer produces the final
// content for a query; when nil, a canned report is returned.
type Agent struct {
	// Stages are the progress messages streamed before completion.
	Stages []string

	// StageDelay is an optional pause between streamed stages.
	StageDelay time.Duration

	// Answer maps a query to its final content. Nil means a canned report.
	Answer func(query string) (string, error)

	// ContentTypes overrides the advertised output modes.
	ContentTypes []string
}

var _ agent.Agent = (*Agent)(nil)

// New creates a staged agent with the default stages.
func New() *Agent {
	return &Agent{Stages: DefaultStages}
}

// Describe returns the agent's static descriptor.
func (a *Agent) Describe() agent.Descriptor {
	types := a.ContentTypes
	if len(types) == 0 {
		types = []string{"text", "text/plain"}
	}
	return agent.Descriptor{
		SupportedContentTypes: types,
	}
}

// Invoke runs the query to completion and returns the terminal response.
func (a *Agent) Invoke(ctx context.Context, query, sessionID string) (agent.Response, error) {
	if err := ctx.Err(); err != nil {
		return agent.Response{}, err
	}
	content, err := a.answer(query)
	if err != nil {
		return agent.Response{Content: "processing failed", Err: err.Error()}, nil
	}
	return agent.Response{IsTaskComplete: true, Content: content}, nil
}

// Stream emits each stage as a progress update, then the terminal response,
// and closes the channel.
func (a *Agent) Stream(ctx context.Context, query, sessionID string) (<-chan agent.Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	out := make(chan agent.Response)
	go func() {
		defer close(out)

		for _, stage := range a.Stages {
			if a.StageDelay > 0 {
				select {
				case <-time.After(a.StageDelay):
				case <-ctx.Done():
					return
				}
			}
			select {
			case out <- agent.Response{Content: stage}:
			case <-ctx.Done():
				return
			}
		}

		var final agent.Response
		content, err := a.answer(query)
		if err != nil {
			final = agent.Response{Content: "processing failed", Err: err.Error()}
		} else {
			final = agent.Response{IsTaskComplete: true, Content: content}
		}
		select {
		case out <- final:
		case <-ctx.Done():
		}
	}()

	return out, nil
}

func (a *Agent) answer(query string) (string, error) {
	if a.Answer != nil {
		return a.Answer(query)
	}
	return fmt.Sprintf("Report: no model pipeline is configured; echoing the query.\n\n%s", query), nil
}
