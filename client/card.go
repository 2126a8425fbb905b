// Copyright 2025 The Taskwire Authors
// SPDX-License-Identifier: Apache-2.0

package client

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"

	"github.com/bytedance/sonic"

	"github.com/go-taskwire/taskwire"
)

// AgentCardPath is the well-known path where agent cards are published.
const AgentCardPath = "/.well-known/agent.json"

// FetchAgentCard retrieves the agent card published by the client's server.
func (c *Client) FetchAgentCard(ctx context.Context) (*taskwire.AgentCard, error) {
	u, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("parse base URL: %w", err)
	}
	u.Path = path.Join(u.Path, AgentCardPath)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch agent card: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("server returned %s: %s", resp.Status, data)
	}

	var card taskwire.AgentCard
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&card); err != nil {
		return nil, fmt.Errorf("decode agent card: %w", err)
	}
	return &card, nil
}

// ValidateAgentCard checks the fields every published card must carry.
func ValidateAgentCard(card *taskwire.AgentCard) error {
	if card == nil {
		return fmt.Errorf("agent card is nil")
	}
	if card.Name == "" {
		return fmt.Errorf("agent card missing required field: name")
	}
	if card.URL == "" {
		return fmt.Errorf("agent card missing required field: url")
	}
	if card.Version == "" {
		return fmt.Errorf("agent card missing required field: version")
	}
	for i, skill := range card.Skills {
		if skill.ID == "" {
			return fmt.Errorf("skill #%d missing required field: id", i+1)
		}
		if skill.Name == "" {
			return fmt.Errorf("skill #%d missing required field: name", i+1)
		}
	}
	return nil
}

// FindSkill finds a skill by id in an agent card.
func FindSkill(card *taskwire.AgentCard, skillID string) (*taskwire.Skill, bool) {
	for i := range card.Skills {
		if card.Skills[i].ID == skillID {
			return &card.Skills[i], true
		}
	}
	return nil, false
}
