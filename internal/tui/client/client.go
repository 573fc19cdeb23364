// Package client adapts the backend API to the interfaces the dashboard
// model consumes.
package client

import (
	"context"

	"github.com/matheus3301/wppmanager/internal/backend"
	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/thread"
)

// Client serves conversation lists, threads and pairing codes from the backend.
type Client struct {
	api *backend.Client
}

// New wraps api.
func New(api *backend.Client) *Client {
	return &Client{api: api}
}

// Chats lists conversations across every instance.
func (c *Client) Chats(ctx context.Context) (*gateway.ChatsResponse, error) {
	return c.api.Chats(ctx)
}

// OpenThread starts a thread fetch; the body is decoded by the loader.
func (c *Client) OpenThread(ctx context.Context, ref gateway.ConversationRef) (thread.Pending, error) {
	resp, err := c.api.OpenThread(ctx, ref)
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// Pairing asks the gateway for a fresh pairing code for instance.
func (c *Client) Pairing(ctx context.Context, instance string) (*backend.QRCode, error) {
	return c.api.ConnectInstance(ctx, instance)
}

// States polls the connection state of every named instance.
func (c *Client) States(ctx context.Context, names []string) map[string]backend.ConnectionState {
	return c.api.PollStates(ctx, names)
}
