// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

// Package client provides a taskwire protocol client: synchronous task
// submission and polling over JSON-RPC, plus streaming subscriptions over
// server-sent events.
package client

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync/atomic"

	"github.com/bytedance/sonic"

	"github.com/go-taskwire/taskwire"
)

// Client talks to one taskwire server.
type Client struct {
	baseURL    string
	httpClient *http.Client
	userAgent  string
	requestID  atomic.Int64
}

// New creates a client for the server at baseURL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:    baseURL,
		httpClient: http.DefaultClient,
		userAgent:  "taskwire-client/" + taskwire.Version,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SendTask submits a task and blocks until the agent finishes.
func (c *Client) SendTask(ctx context.Context, params taskwire.TaskSendParams) (*taskwire.Task, error) {
	req := taskwire.NewSendTaskRequest(c.nextID(), params)
	return c.callTask(ctx, req)
}

// GetTask polls the current state of a task.
func (c *Client) GetTask(ctx context.Context, params taskwire.TaskQueryParams) (*taskwire.Task, error) {
	req := taskwire.NewGetTaskRequest(c.nextID(), params)
	return c.callTask(ctx, req)
}

func (c *Client) callTask(ctx context.Context, rpcReq any) (*taskwire.Task, error) {
	payload, err := sonic.ConfigDefault.Marshal(rpcReq)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	body, err := c.post(ctx, payload, "application/json")
	if err != nil {
		return nil, err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	var resp struct {
		Result *taskwire.Task         `json:"result"`
		Error  *taskwire.JSONRPCError `json:"error"`
	}
	if err := sonic.ConfigDefault.Unmarshal(data, &resp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	if resp.Error != nil {
		return nil, resp.Error
	}
	if resp.Result == nil {
		return nil, fmt.Errorf("response carries neither result nor error")
	}
	return resp.Result, nil
}

// post sends one JSON-RPC payload and returns the raw response body. The
// caller owns closing it.
func (c *Client) post(ctx context.Context, payload []byte, accept string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", accept)
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, data)
	}
	return resp.Body, nil
}

func (c *Client) nextID() taskwire.ID {
	return taskwire.NewID(strconv.FormatInt(c.requestID.Add(1), 10))
}
