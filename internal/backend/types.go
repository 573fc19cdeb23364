package backend

import (
	"encoding/json"
	"strings"
	"time"
)

// User is an authenticated dashboard account.
type User struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Email        string  `json:"email"`
	Role         string  `json:"role"`
	ParentUserID *string `json:"parentUserId,omitempty"`
}

// IsSubUser reports whether the account was delegated by another user.
func (u *User) IsSubUser() bool {
	return u.ParentUserID != nil && *u.ParentUserID != ""
}

// IsAdmin reports whether the account has the admin role.
func (u *User) IsAdmin() bool {
	return strings.EqualFold(u.Role, "admin")
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	AccessToken string `json:"accessToken"`
	User        User   `json:"user"`
}

// Tier is a subscription tier.
type Tier string

const (
	TierFree       Tier = "free"
	TierPro        Tier = "pro"
	TierEnterprise Tier = "enterprise"
)

// ParseTier validates a tier name.
func ParseTier(s string) (Tier, bool) {
	switch t := Tier(strings.ToLower(strings.TrimSpace(s))); t {
	case TierFree, TierPro, TierEnterprise:
		return t, true
	}
	return "", false
}

// SubscriptionStatus is the lifecycle state of a subscription.
type SubscriptionStatus string

const (
	SubscriptionActive    SubscriptionStatus = "active"
	SubscriptionExpired   SubscriptionStatus = "expired"
	SubscriptionCancelled SubscriptionStatus = "cancelled"
)

// Subscription is a user's plan.
type Subscription struct {
	ID        string             `json:"id"`
	UserID    string             `json:"userId"`
	Tier      Tier               `json:"tier"`
	Status    SubscriptionStatus `json:"status"`
	StartedAt string             `json:"startedAt"`
	ExpiresAt *string            `json:"expiresAt"`
	IsPremium bool               `json:"isPremium"`
}

// UserWithSubscription is a row of the admin user list.
type UserWithSubscription struct {
	User
	Subscription *Subscription `json:"subscription"`
}

// Instance is a gateway instance owned by the user.
type Instance struct {
	ID        string `json:"id,omitempty"`
	Name      string `json:"name"`
	Number    string `json:"number,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// ConnectionState is the gateway's connection state for an instance.
type ConnectionState string

const (
	StateOpen       ConnectionState = "open"
	StateConnecting ConnectionState = "connecting"
	StateClose      ConnectionState = "close"
	StateUnknown    ConnectionState = "unknown"
)

// InstanceState is the body of GET /instances/{name}/state.
type InstanceState struct {
	Instance struct {
		InstanceName string          `json:"instanceName"`
		State        ConnectionState `json:"state"`
	} `json:"instance"`
}

// QRCode carries a pairing code as returned by the gateway.
type QRCode struct {
	Base64      string `json:"base64,omitempty"`
	Code        string `json:"code,omitempty"`
	PairingCode string `json:"pairingCode,omitempty"`
	Count       int    `json:"count,omitempty"`
}

// ImageData returns the base64 PNG payload without its data URL prefix.
func (q *QRCode) ImageData() string {
	return strings.TrimPrefix(q.Base64, "data:image/png;base64,")
}

// CreateInstanceResponse is the body of POST /instances/connect.
type CreateInstanceResponse struct {
	Instance json.RawMessage `json:"instance,omitempty"`
	QRCode   *QRCode         `json:"qrcode,omitempty"`
}

// ExamplePrompt is a ready-made bot prompt.
type ExamplePrompt struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Prompt string `json:"prompt"`
}

// SubUser is an account delegated by the current user.
type SubUser struct {
	ID              string `json:"id"`
	Email           string `json:"email"`
	Name            string `json:"name"`
	CreatedAt       string `json:"createdAt"`
	PermissionCount int    `json:"permissionCount"`
}

// CreateSubUserRequest is the body of POST /sub-users.
type CreateSubUserRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// SubUserPermission grants a sub-user access to one instance.
type SubUserPermission struct {
	InstanceID   string  `json:"instanceId"`
	InstanceName *string `json:"instanceName"`
}

// ParentInstance is an instance a sub-user can be granted.
type ParentInstance struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// PlanInfo describes the paid plan offered through PayPal.
type PlanInfo struct {
	PlanID   string `json:"planId"`
	Price    string `json:"price"`
	Currency string `json:"currency"`
	Interval string `json:"interval"`
}

// SetSubscriptionRequest is the body of POST /admin/users/{id}/subscription.
type SetSubscriptionRequest struct {
	Tier      Tier       `json:"tier"`
	ExpiresAt *time.Time `json:"expiresAt"`
}
