package gateway

import (
	"encoding/json"
	"testing"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"google.golang.org/protobuf/proto"
)

func TestClassifyPriority(t *testing.T) {
	revoke := waE2E.ProtocolMessage_REVOKE
	ephemeral := waE2E.ProtocolMessage_EPHEMERAL_SETTING

	tests := []struct {
		name string
		msg  *waE2E.Message
		kind Kind
		want string
	}{
		{"nil", nil, KindEmpty, ""},
		{"empty", &waE2E.Message{}, KindEmpty, ""},
		{"conversation", &waE2E.Message{Conversation: proto.String("hi")}, KindText, "hi"},
		{"conversation beats image", &waE2E.Message{
			Conversation: proto.String("hello"),
			ImageMessage: &waE2E.ImageMessage{Caption: proto.String("cap")},
		}, KindText, "hello"},
		{"empty conversation falls through", &waE2E.Message{
			Conversation: proto.String(""),
			ImageMessage: &waE2E.ImageMessage{},
		}, KindImage, "Photo"},
		{"extended text", &waE2E.Message{ExtendedTextMessage: &waE2E.ExtendedTextMessage{Text: proto.String("link")}}, KindText, "link"},
		{"extended text without text falls through", &waE2E.Message{
			ExtendedTextMessage: &waE2E.ExtendedTextMessage{},
			VideoMessage:        &waE2E.VideoMessage{},
		}, KindVideo, "Video"},
		{"image caption", &waE2E.Message{ImageMessage: &waE2E.ImageMessage{Caption: proto.String("beach")}}, KindImage, "beach"},
		{"image beats video", &waE2E.Message{ImageMessage: &waE2E.ImageMessage{}, VideoMessage: &waE2E.VideoMessage{}}, KindImage, "Photo"},
		{"video caption", &waE2E.Message{VideoMessage: &waE2E.VideoMessage{Caption: proto.String("clip")}}, KindVideo, "clip"},
		{"audio", &waE2E.Message{AudioMessage: &waE2E.AudioMessage{}}, KindAudio, "Audio"},
		{"document name", &waE2E.Message{DocumentMessage: &waE2E.DocumentMessage{FileName: proto.String("a.pdf")}}, KindDocument, "a.pdf"},
		{"document", &waE2E.Message{DocumentMessage: &waE2E.DocumentMessage{}}, KindDocument, "Document"},
		{"location", &waE2E.Message{LocationMessage: &waE2E.LocationMessage{Name: proto.String("Home")}}, KindLocation, "Location"},
		{"contact", &waE2E.Message{ContactMessage: &waE2E.ContactMessage{}}, KindContact, "Contact"},
		{"contacts array", &waE2E.Message{ContactsArrayMessage: &waE2E.ContactsArrayMessage{}}, KindContact, "Contact"},
		{"sticker", &waE2E.Message{StickerMessage: &waE2E.StickerMessage{}}, KindSticker, "Sticker"},
		{"reaction", &waE2E.Message{ReactionMessage: &waE2E.ReactionMessage{Text: proto.String("👍")}}, KindReaction, "👍 Reaction"},
		{"reaction without glyph", &waE2E.Message{ReactionMessage: &waE2E.ReactionMessage{}}, KindReaction, "Reaction"},
		{"poll", &waE2E.Message{PollCreationMessage: &waE2E.PollCreationMessage{Name: proto.String("Lunch?")}}, KindPoll, "Poll"},
		{"poll v3", &waE2E.Message{PollCreationMessageV3: &waE2E.PollCreationMessage{}}, KindPoll, "Poll"},
		{"list title", &waE2E.Message{ListMessage: &waE2E.ListMessage{Title: proto.String("Menu")}}, KindList, "Menu"},
		{"list", &waE2E.Message{ListMessage: &waE2E.ListMessage{}}, KindList, "List"},
		{"buttons", &waE2E.Message{ButtonsMessage: &waE2E.ButtonsMessage{}}, KindInteractive, "Interactive message"},
		{"template", &waE2E.Message{TemplateMessage: &waE2E.TemplateMessage{}}, KindInteractive, "Interactive message"},
		{"revoke", &waE2E.Message{ProtocolMessage: &waE2E.ProtocolMessage{Type: &revoke}}, KindRevoked, "Message deleted"},
		{"other protocol type", &waE2E.Message{ProtocolMessage: &waE2E.ProtocolMessage{Type: &ephemeral}}, KindControl, ""},
		{"protocol without type", &waE2E.Message{ProtocolMessage: &waE2E.ProtocolMessage{}}, KindControl, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := Classify(tt.msg)
			if c.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", c.Kind, tt.kind)
			}
			if got := c.Preview(); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodePayload(t *testing.T) {
	tests := []struct {
		name string
		json string
		kind Kind
		want string
	}{
		{"envelope", `{"key":{"id":"X"},"message":{"conversation":"hey"}}`, KindText, "hey"},
		{"bare payload", `{"imageMessage":{"caption":"pic","fileLength":{"low":10,"high":0}}}`, KindImage, "pic"},
		{"null message falls back to bare", `{"message":null,"stickerMessage":{}}`, KindSticker, "Sticker"},
		{"text and image", `{"conversation":"hello","imageMessage":{"caption":"x"}}`, KindText, "hello"},
		{"revoke numeric", `{"protocolMessage":{"type":0}}`, KindRevoked, "Message deleted"},
		{"revoke name", `{"protocolMessage":{"type":"REVOKE"}}`, KindRevoked, "Message deleted"},
		{"protocol numeric other", `{"protocolMessage":{"type":3}}`, KindControl, ""},
		{"protocol named other", `{"protocolMessage":{"type":"EPHEMERAL_SETTING"}}`, KindControl, ""},
		{"protocol unknown name", `{"protocolMessage":{"type":"SOMETHING_NEW"}}`, KindControl, ""},
		{"protocol missing type", `{"protocolMessage":{"key":{"id":"Y"}}}`, KindControl, ""},
		{"interactive", `{"interactiveMessage":{"body":{"text":"pick"}}}`, KindInteractive, "Interactive message"},
		{"reaction", `{"reactionMessage":{"text":"❤️","key":{"id":"Z"}}}`, KindReaction, "❤️ Reaction"},
		{"contacts array", `{"contactsArrayMessage":{"contacts":[{"displayName":"A"}]}}`, KindContact, "Contact"},
		{"unknown only", `{"senderKeyDistributionMessage":{}}`, KindEmpty, ""},
		{"protocol numeric string", `{"protocolMessage":{"type":"0"}}`, KindControl, ""},
		{"text with malformed sibling", `{"conversation":"hi","locationMessage":{"degreesLatitude":"-23.5"}}`, KindText, "hi"},
		{"malformed variant dropped", `{"locationMessage":{"degreesLatitude":"-23.5"},"stickerMessage":{}}`, KindSticker, "Sticker"},
		{"malformed text falls through", `{"conversation":42,"imageMessage":{"caption":"pic"}}`, KindImage, "pic"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := DecodePayload([]byte(tt.json))
			if err != nil {
				t.Fatalf("DecodePayload() error = %v", err)
			}
			c := Classify(msg)
			if c.Kind != tt.kind {
				t.Errorf("Kind = %v, want %v", c.Kind, tt.kind)
			}
			if got := c.Preview(); got != tt.want {
				t.Errorf("Preview() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDecodePayloadNull(t *testing.T) {
	msg, err := DecodePayload([]byte("null"))
	if err != nil || msg != nil {
		t.Errorf("DecodePayload(null) = %v, %v; want nil, nil", msg, err)
	}
	if _, err := DecodePayload([]byte(`"text"`)); err == nil {
		t.Error("expected error for non-object payload")
	}
}

func TestKindString(t *testing.T) {
	if KindRevoked.String() != "revoked" {
		t.Errorf("got %q", KindRevoked.String())
	}
	if Kind(99).String() != "unknown" {
		t.Errorf("got %q", Kind(99).String())
	}
}

func TestMessageUnmarshalMalformedSibling(t *testing.T) {
	var m Message
	data := `{"key":{"id":"x"},"message":{"conversation":"hi","locationMessage":{"degreesLatitude":"-23.5"}}}`
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if m.Content.Kind != KindText {
		t.Errorf("Kind = %v, want %v", m.Content.Kind, KindText)
	}
	if got := m.Content.Preview(); got != "hi" {
		t.Errorf("Preview() = %q, want %q", got, "hi")
	}
}
