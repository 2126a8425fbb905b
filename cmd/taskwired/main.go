// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

// Command taskwired runs a taskwire server around the staged demo agent.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/go-taskwire/taskwire"
	"github.com/go-taskwire/taskwire/agent/staged"
	"github.com/go-taskwire/taskwire/server"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	var (
		host       string
		port       int
		logLevel   string
		stageDelay time.Duration
	)

	cmd := &cobra.Command{
		Use:          "taskwired",
		Short:        "Serve an agent behind the taskwire task and event-streaming protocol",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := newLogger(logLevel)
			if err != nil {
				return err
			}
			slog.SetDefault(logger)

			addr := fmt.Sprintf("%s:%d", host, port)
			a := staged.New()
			a.StageDelay = stageDelay

			srv, err := server.New(a,
				server.WithAddr(addr),
				server.WithLogger(logger),
				server.WithCard(taskwire.AgentCard{
					Name:        "Research Agent",
					Description: "Multi-step research assistant producing structured reports",
					URL:         fmt.Sprintf("http://%s/", addr),
					Version:     taskwire.Version,
					Capabilities: taskwire.Capabilities{
						Streaming:              true,
						StateTransitionHistory: true,
					},
					DefaultInputModes:  []string{"text"},
					DefaultOutputModes: a.Describe().SupportedContentTypes,
					Skills: []taskwire.Skill{{
						ID:          "research",
						Name:        "Research",
						Description: "Researches a topic and writes a report",
						Examples:    []string{"Research the impact of bees on agriculture"},
						InputModes:  []string{"text"},
						OutputModes: []string{"text", "text/plain"},
					}},
				}),
			)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return srv.Start(ctx)
		},
	}

	cmd.Flags().StringVar(&host, "host", envOr("HOST", "localhost"), "listen host")
	cmd.Flags().IntVar(&port, "port", 10700, "listen port")
	cmd.Flags().StringVar(&logLevel, "log-level", envOr("LOG_LEVEL", "info"), "log level (debug, info, warn, error)")
	cmd.Flags().DurationVar(&stageDelay, "stage-delay", 0, "pause between demo agent progress stages")

	return cmd
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	handler := tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.Kitchen,
	})
	return slog.New(handler), nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
