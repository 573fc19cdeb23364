package backend

import (
	"context"
	"net/http"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Instances lists the user's gateway instances.
func (c *Client) Instances(ctx context.Context) ([]Instance, error) {
	var out []Instance
	if err := c.do(ctx, http.MethodGet, "/instances", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateInstance creates an instance and starts pairing it.
func (c *Client) CreateInstance(ctx context.Context, name string) (*CreateInstanceResponse, error) {
	var out CreateInstanceResponse
	body := map[string]string{"instanceName": name}
	if err := c.do(ctx, http.MethodPost, "/instances/connect", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ConnectInstance requests a fresh pairing code for an existing instance.
func (c *Client) ConnectInstance(ctx context.Context, name string) (*QRCode, error) {
	var out QRCode
	if err := c.do(ctx, http.MethodGet, "/instances/"+segment(name)+"/connect", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// InstanceState returns the connection state of one instance.
func (c *Client) InstanceState(ctx context.Context, name string) (ConnectionState, error) {
	var out InstanceState
	if err := c.do(ctx, http.MethodGet, "/instances/"+segment(name)+"/state", nil, nil, &out); err != nil {
		return StateUnknown, err
	}
	if out.Instance.State == "" {
		return StateUnknown, nil
	}
	return out.Instance.State, nil
}

// ConfigureWebhook points the instance's gateway webhook at the backend.
func (c *Client) ConfigureWebhook(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodPost, "/instances/"+segment(name)+"/webhook", nil, nil, nil)
}

// DeleteInstance removes the instance from the gateway and the backend.
func (c *Client) DeleteInstance(ctx context.Context, name string) error {
	return c.do(ctx, http.MethodDelete, "/instances/"+segment(name), nil, nil, nil)
}

// Prompt returns the bot prompt configured for an instance.
func (c *Client) Prompt(ctx context.Context, name string) (string, error) {
	var out struct {
		Prompt string `json:"prompt"`
	}
	if err := c.do(ctx, http.MethodGet, "/instances/"+segment(name)+"/prompt", nil, nil, &out); err != nil {
		return "", err
	}
	return out.Prompt, nil
}

// UpdatePrompt replaces the bot prompt of an instance.
func (c *Client) UpdatePrompt(ctx context.Context, name, prompt string) error {
	body := map[string]string{"prompt": prompt}
	return c.do(ctx, http.MethodPut, "/instances/"+segment(name)+"/prompt", nil, body, nil)
}

// ExamplePrompts lists the ready-made prompts.
func (c *Client) ExamplePrompts(ctx context.Context) ([]ExamplePrompt, error) {
	var out []ExamplePrompt
	if err := c.do(ctx, http.MethodGet, "/example-prompts", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// PollStates fetches the connection state of every named instance
// concurrently. A failed lookup yields StateUnknown for that instance only.
func (c *Client) PollStates(ctx context.Context, names []string) map[string]ConnectionState {
	states := make([]ConnectionState, len(names))
	var g errgroup.Group
	g.SetLimit(8)
	for i, name := range names {
		if strings.TrimSpace(name) == "" {
			states[i] = StateUnknown
			continue
		}
		g.Go(func() error {
			state, err := c.InstanceState(ctx, name)
			if err != nil {
				c.log.Warn("instance state lookup failed", zap.String("instance", name), zap.Error(err))
				state = StateUnknown
			}
			states[i] = state
			return nil
		})
	}
	_ = g.Wait()

	out := make(map[string]ConnectionState, len(names))
	for i, name := range names {
		if name != "" {
			out[name] = states[i]
		}
	}
	return out
}
