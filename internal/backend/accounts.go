package backend

import (
	"context"
	"net/http"
	"time"
)

// SubUsers lists the accounts delegated by the current user.
func (c *Client) SubUsers(ctx context.Context) ([]SubUser, error) {
	var out []SubUser
	if err := c.do(ctx, http.MethodGet, "/sub-users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// CreateSubUser creates a delegated account.
func (c *Client) CreateSubUser(ctx context.Context, req CreateSubUserRequest) (*SubUser, error) {
	var out SubUser
	if err := c.do(ctx, http.MethodPost, "/sub-users", nil, req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteSubUser removes a delegated account.
func (c *Client) DeleteSubUser(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/sub-users/"+segment(id), nil, nil, nil)
}

// ParentInstances lists the instances that can be granted to sub-users.
func (c *Client) ParentInstances(ctx context.Context) ([]ParentInstance, error) {
	var out []ParentInstance
	if err := c.do(ctx, http.MethodGet, "/sub-users/instances", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// Permissions lists the instances a sub-user may access.
func (c *Client) Permissions(ctx context.Context, id string) ([]SubUserPermission, error) {
	var out []SubUserPermission
	if err := c.do(ctx, http.MethodGet, "/sub-users/"+segment(id)+"/permissions", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetPermissions replaces the instances a sub-user may access.
func (c *Client) SetPermissions(ctx context.Context, id string, instanceIDs []string) error {
	if instanceIDs == nil {
		instanceIDs = []string{}
	}
	body := map[string][]string{"instanceIds": instanceIDs}
	return c.do(ctx, http.MethodPut, "/sub-users/"+segment(id)+"/permissions", nil, body, nil)
}

// AdminUsers lists every account with its subscription. Admin only.
func (c *Client) AdminUsers(ctx context.Context) ([]UserWithSubscription, error) {
	var out []UserWithSubscription
	if err := c.do(ctx, http.MethodGet, "/admin/users", nil, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// SetSubscription assigns a tier to a user. A nil expiry never expires.
func (c *Client) SetSubscription(ctx context.Context, userID string, tier Tier, expiresAt *time.Time) error {
	body := SetSubscriptionRequest{Tier: tier, ExpiresAt: expiresAt}
	return c.do(ctx, http.MethodPost, "/admin/users/"+segment(userID)+"/subscription", nil, body, nil)
}

// CancelSubscription cancels a user's subscription. Admin only.
func (c *Client) CancelSubscription(ctx context.Context, userID string) error {
	return c.do(ctx, http.MethodDelete, "/admin/users/"+segment(userID)+"/subscription", nil, nil, nil)
}

// Plan returns the paid plan offered through PayPal.
func (c *Client) Plan(ctx context.Context) (*PlanInfo, error) {
	var out PlanInfo
	if err := c.do(ctx, http.MethodGet, "/paypal/plan", nil, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ActivateSubscription confirms an approved PayPal subscription.
func (c *Client) ActivateSubscription(ctx context.Context, subscriptionID string) error {
	return c.do(ctx, http.MethodPost, "/paypal/activate-subscription/"+segment(subscriptionID), nil, nil, nil)
}
