package gateway

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/matheus3301/wppmanager/internal/timestamp"
	"go.mau.fi/whatsmeow/types"
)

// Chat is a conversation summary as listed by the backend.
type Chat struct {
	Instance              string          `json:"instanceName"`
	RawID                 string          `json:"id,omitempty"`
	RemoteJID             string          `json:"remoteJid,omitempty"`
	AllIDs                []string        `json:"_allIds,omitempty"`
	Name                  string          `json:"name,omitempty"`
	PushName              string          `json:"pushName,omitempty"`
	ProfilePicURL         string          `json:"profilePicUrl,omitempty"`
	UnreadCount           int             `json:"unreadCount,omitempty"`
	Archived              bool            `json:"archived,omitempty"`
	LastMessage           json.RawMessage `json:"lastMessage,omitempty"`
	UpdatedAt             timestamp.Value `json:"updatedAt"`
	LastMsgTimestamp      timestamp.Value `json:"lastMsgTimestamp"`
	ConversationTimestamp timestamp.Value `json:"conversationTimestamp"`

	// Last is LastMessage decoded; nil when absent or unreadable.
	Last *Message `json:"-"`
}

// UnmarshalJSON decodes the summary and its embedded last message.
func (c *Chat) UnmarshalJSON(data []byte) error {
	type alias Chat
	var a alias
	if err := json.Unmarshal(data, &a); err != nil {
		return err
	}
	*c = Chat(a)
	c.Last = nil
	if raw := strings.TrimSpace(string(c.LastMessage)); raw != "" && raw != "null" {
		var m Message
		if err := json.Unmarshal(c.LastMessage, &m); err == nil {
			c.Last = &m
		}
	}
	return nil
}

// ID is the conversation id: remoteJid when present, else id.
func (c *Chat) ID() string {
	if c.RemoteJID != "" {
		return c.RemoteJID
	}
	return c.RawID
}

// Ref identifies the conversation for a thread fetch.
func (c *Chat) Ref() ConversationRef {
	return ConversationRef{Instance: c.Instance, ID: c.ID(), AllIDs: c.AllIDs}
}

// Unread is the unread count, never negative.
func (c *Chat) Unread() int {
	if c.UnreadCount < 0 {
		return 0
	}
	return c.UnreadCount
}

// DisplayName resolves name, then push name, then the formatted phone number.
func (c *Chat) DisplayName() string {
	if strings.TrimSpace(c.Name) != "" {
		return c.Name
	}
	if strings.TrimSpace(c.PushName) != "" {
		return c.PushName
	}
	number, _, _ := strings.Cut(c.ID(), "@")
	if number == "" {
		return "Unknown"
	}
	if len(number) > 8 {
		return fmt.Sprintf("+%s %s %s", number[:2], number[2:4], number[4:])
	}
	return number
}

// IsGroup reports whether the conversation is a group chat.
func (c *Chat) IsGroup() bool {
	return strings.HasSuffix(c.ID(), "@"+types.GroupServer)
}

// IsBroadcast reports whether this is the status broadcast pseudo-conversation.
func (c *Chat) IsBroadcast() bool {
	return c.ID() == types.StatusBroadcastJID.String()
}

// LastActivityAt picks exactly one timestamp: the last message's, else
// updatedAt, else the legacy top-level fields.
func (c *Chat) LastActivityAt() int64 {
	if c.Last != nil && c.Last.Timestamp > 0 {
		return c.Last.Timestamp
	}
	if ms := c.UpdatedAt.Millis(); ms > 0 {
		return ms
	}
	if ms := c.LastMsgTimestamp.Millis(); ms > 0 {
		return ms
	}
	return c.ConversationTimestamp.Millis()
}

// Preview is the short text for the last message, or "".
func (c *Chat) Preview() string {
	if c.Last == nil {
		return ""
	}
	return c.Last.Content.Preview()
}

// ConversationRef addresses one conversation on one gateway instance.
type ConversationRef struct {
	Instance string
	ID       string
	AllIDs   []string
}

// IsZero reports whether no conversation is addressed.
func (r ConversationRef) IsZero() bool {
	return r.Instance == "" && r.ID == ""
}

func (r ConversationRef) String() string {
	return r.Instance + "/" + r.ID
}

// InstanceStatus is the connection flag of one gateway instance.
type InstanceStatus struct {
	Name      string `json:"name"`
	Connected bool   `json:"connected"`
}

// ChatsResponse is the body of GET /messages/chats.
type ChatsResponse struct {
	Chats              []Chat           `json:"chats"`
	Instances          []InstanceStatus `json:"instances"`
	TotalInstances     int              `json:"totalInstances"`
	ConnectedInstances int              `json:"connectedInstances"`
}

// Summary renders the connection count line, e.g. "1 of 2 instances connected".
func (r *ChatsResponse) Summary() string {
	noun := "instances"
	if r.TotalInstances == 1 {
		noun = "instance"
	}
	return fmt.Sprintf("%d of %d %s connected", r.ConnectedInstances, r.TotalInstances, noun)
}

// MessagesResponse is the body of GET /messages/{instance}/{conversation}.
type MessagesResponse struct {
	Messages []Message `json:"messages"`
}

// UnmarshalJSON also accepts the gateway's paginated {messages: {records: [...]}} shape.
func (r *MessagesResponse) UnmarshalJSON(data []byte) error {
	var w struct {
		Messages json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	r.Messages = nil
	raw := strings.TrimSpace(string(w.Messages))
	switch {
	case raw == "" || raw == "null":
		return nil
	case raw[0] == '{':
		var page struct {
			Records []Message `json:"records"`
		}
		if err := json.Unmarshal(w.Messages, &page); err != nil {
			return fmt.Errorf("decode message page: %w", err)
		}
		r.Messages = page.Records
		return nil
	default:
		return json.Unmarshal(w.Messages, &r.Messages)
	}
}
