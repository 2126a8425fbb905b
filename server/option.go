// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package server

import (
	"log/slog"

	"github.com/go-taskwire/taskwire"
	"github.com/go-taskwire/taskwire/server/task"
)

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.addr = addr
	}
}

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithCard sets the agent card served at /.well-known/agent.json.
func WithCard(card taskwire.AgentCard) Option {
	return func(s *Server) {
		s.card = card
	}
}

// WithStore replaces the default in-memory task store.
func WithStore(store task.Store) Option {
	return func(s *Server) {
		s.store = store
	}
}

// WithQueueSize sets the per-subscriber event buffer capacity.
func WithQueueSize(size int) Option {
	return func(s *Server) {
		s.queueSize = size
	}
}

// WithTaskManager replaces the default agent task manager.
func WithTaskManager(manager TaskManager) Option {
	return func(s *Server) {
		s.manager = manager
	}
}
