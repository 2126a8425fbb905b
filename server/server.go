// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package server implements the taskwire server: the task store, the
// per-task event bus, the orchestrating task manager, and the JSON-RPC +
// server-sent-event surface callers speak to.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/go-taskwire/taskwire"
	"github.com/go-taskwire/taskwire/agent"
	"github.com/go-taskwire/taskwire/server/event"
	"github.com/go-taskwire/taskwire/server/task"
)

// DefaultAddr is the listen address used when none is configured.
const DefaultAddr = "localhost:10700"

// Server hosts one agent behind the taskwire protocol. The store and bus
// are owned by the server: created with it, discarded on Shutdown.
type Server struct {
	addr      string
	card      taskwire.AgentCard
	store     task.Store
	bus       *event.Bus
	manager   TaskManager
	logger    *slog.Logger
	queueSize int

	httpServer *http.Server
}

// New creates a server for the given agent.
func New(a agent.Agent, opts ...Option) (*Server, error) {
	if a == nil {
		return nil, errors.New("agent cannot be nil")
	}

	s := &Server{
		addr:   DefaultAddr,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	if s.store == nil {
		s.store = task.NewInMemoryStore()
	}
	if s.bus == nil {
		s.bus = event.NewBus(s.queueSize, s.logger)
	}
	if s.manager == nil {
		s.manager = NewAgentTaskManager(a, s.store, s.bus).WithLogger(s.logger)
	}
	if s.card.Name == "" {
		s.card = taskwire.AgentCard{
			Name:    "taskwire agent",
			URL:     fmt.Sprintf("http://%s/", s.addr),
			Version: taskwire.Version,
			Capabilities: taskwire.Capabilities{
				Streaming:              true,
				StateTransitionHistory: true,
			},
			DefaultOutputModes: a.Describe().SupportedContentTypes,
		}
	}

	router := chi.NewRouter()
	router.Use(middleware.Recoverer)
	router.Post("/", s.handleRPC)
	router.Get("/.well-known/agent.json", s.handleAgentCard)
	router.Get("/healthz", s.handleHealth)

	s.httpServer = &http.Server{
		Addr:              s.addr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s, nil
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Handler returns the server's HTTP handler, for mounting under an existing
// listener or in tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Start serves until the context is canceled or the listener fails.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("taskwire server listening", "addr", s.addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops the listener and releases the store and bus. Tasks are
// volatile; nothing survives shutdown.
func (s *Server) Shutdown(ctx context.Context) error {
	err := s.httpServer.Shutdown(ctx)
	s.bus.Close()
	if cerr := s.store.Close(ctx); cerr != nil && err == nil {
		err = cerr
	}
	s.logger.Info("taskwire server stopped")
	return err
}
