package backend

import (
	"context"
	"net/http"
)

// Login exchanges credentials for an access token.
func (c *Client) Login(ctx context.Context, email, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/login", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Register creates an account and returns its access token.
func (c *Client) Register(ctx context.Context, email, name, password string) (*AuthResponse, error) {
	var out AuthResponse
	body := map[string]string{"email": email, "name": name, "password": password}
	if err := c.do(ctx, http.MethodPost, "/auth/register", nil, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// MySubscription returns the current user's subscription.
func (c *Client) MySubscription(ctx context.Context) (*Subscription, error) {
	var out Subscription
	if err := c.do(ctx, http.MethodGet, "/subscriptions/me", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
