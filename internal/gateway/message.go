package gateway

import (
	"encoding/json"

	"github.com/matheus3301/wppmanager/internal/timestamp"
	"go.mau.fi/whatsmeow/proto/waE2E"
)

// Message is one entry of a conversation thread.
type Message struct {
	ID        string
	FromSelf  bool
	PushName  string
	Timestamp int64 // epoch milliseconds
	Content   Content
	// Raw is the decoded payload, nil when the payload was absent or unreadable.
	Raw *waE2E.Message
}

type wireKey struct {
	ID        string `json:"id"`
	FromMe    bool   `json:"fromMe"`
	RemoteJID string `json:"remoteJid"`
}

type wireMessage struct {
	Key              *wireKey        `json:"key"`
	ID               string          `json:"id"`
	PushName         string          `json:"pushName"`
	MessageTimestamp timestamp.Value `json:"messageTimestamp"`
}

// UnmarshalJSON decodes a gateway message record. An unreadable content
// payload leaves the message with empty content rather than failing.
func (m *Message) UnmarshalJSON(data []byte) error {
	var w wireMessage
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	*m = Message{
		ID:        w.ID,
		PushName:  w.PushName,
		Timestamp: w.MessageTimestamp.Millis(),
	}
	if w.Key != nil {
		if w.Key.ID != "" {
			m.ID = w.Key.ID
		}
		m.FromSelf = w.Key.FromMe
	}
	if raw, err := DecodePayload(data); err == nil {
		m.Raw = raw
		m.Content = Classify(raw)
	}
	return nil
}

type messageJSON struct {
	ID        string `json:"id,omitempty"`
	FromSelf  bool   `json:"fromSelf"`
	PushName  string `json:"pushName,omitempty"`
	Timestamp int64  `json:"timestamp"`
	Kind      string `json:"kind"`
	Preview   string `json:"preview"`
}

// MarshalJSON emits the normalized projection, not the gateway's wire shape.
func (m Message) MarshalJSON() ([]byte, error) {
	return json.Marshal(messageJSON{
		ID:        m.ID,
		FromSelf:  m.FromSelf,
		PushName:  m.PushName,
		Timestamp: m.Timestamp,
		Kind:      m.Content.Kind.String(),
		Preview:   m.Content.Preview(),
	})
}
