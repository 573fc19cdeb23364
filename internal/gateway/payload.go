package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"

	"go.mau.fi/whatsmeow/proto/waE2E"
	"google.golang.org/protobuf/proto"
)

// wirePayload mirrors the subset of the gateway's JSON message payload that is
// needed for classification. The gateway emits protobuf Longs as {low, high}
// objects and enums as either numbers or names, so the payload is decoded
// loosely here and then projected onto waE2E.Message.
type wirePayload struct {
	Conversation          string        `json:"conversation"`
	ExtendedTextMessage   *wireText     `json:"extendedTextMessage"`
	ImageMessage          *wireMedia    `json:"imageMessage"`
	VideoMessage          *wireMedia    `json:"videoMessage"`
	AudioMessage          *wireMedia    `json:"audioMessage"`
	DocumentMessage       *wireDocument `json:"documentMessage"`
	LocationMessage       *wireLocation `json:"locationMessage"`
	ContactMessage        *wireContact  `json:"contactMessage"`
	ContactsArrayMessage  *wireContacts `json:"contactsArrayMessage"`
	StickerMessage        *wireMedia    `json:"stickerMessage"`
	ReactionMessage       *wireText     `json:"reactionMessage"`
	PollCreationMessage   *wirePoll     `json:"pollCreationMessage"`
	PollCreationMessageV3 *wirePoll     `json:"pollCreationMessageV3"`
	ListMessage           *wireList     `json:"listMessage"`
	ButtonsMessage        *wireButtons  `json:"buttonsMessage"`
	TemplateMessage       *wireOpaque   `json:"templateMessage"`
	InteractiveMessage    *wireOpaque   `json:"interactiveMessage"`
	ProtocolMessage       *wireProtocol `json:"protocolMessage"`
}

type wireText struct {
	Text string `json:"text"`
}

type wireMedia struct {
	Caption  string `json:"caption"`
	Mimetype string `json:"mimetype"`
}

type wireDocument struct {
	FileName string `json:"fileName"`
	Title    string `json:"title"`
	Caption  string `json:"caption"`
	Mimetype string `json:"mimetype"`
}

type wireLocation struct {
	DegreesLatitude  float64 `json:"degreesLatitude"`
	DegreesLongitude float64 `json:"degreesLongitude"`
	Name             string  `json:"name"`
	Address          string  `json:"address"`
}

type wireContact struct {
	DisplayName string `json:"displayName"`
	Vcard       string `json:"vcard"`
}

type wireContacts struct {
	DisplayName string        `json:"displayName"`
	Contacts    []wireContact `json:"contacts"`
}

type wirePoll struct {
	Name string `json:"name"`
}

type wireList struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

type wireButtons struct {
	ContentText string `json:"contentText"`
}

// wireOpaque records presence only.
type wireOpaque struct{}

func (*wireOpaque) UnmarshalJSON([]byte) error { return nil }

type wireProtocol struct {
	Type protocolType `json:"type"`
}

// protocolType accepts the enum as a number or its name.
type protocolType struct {
	v *waE2E.ProtocolMessage_Type
}

func (p *protocolType) UnmarshalJSON(data []byte) error {
	p.v = nil
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		if n, ok := waE2E.ProtocolMessage_Type_value[s]; ok {
			t := waE2E.ProtocolMessage_Type(n)
			p.v = &t
			return nil
		}
		return nil
	}
	var n float64
	if err := json.Unmarshal(data, &n); err != nil {
		return nil
	}
	t := waE2E.ProtocolMessage_Type(int32(n))
	p.v = &t
	return nil
}

// DecodePayload decodes a gateway message payload into a waE2E.Message.
// Both the {message: {...}} envelope and a bare payload are accepted. Each
// variant is decoded on its own; one that fails to decode is dropped without
// affecting its siblings.
func DecodePayload(data []byte) (*waE2E.Message, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		return nil, nil
	}
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return nil, fmt.Errorf("decode message payload: %w", err)
	}
	if inner := bytes.TrimSpace(fields["message"]); len(inner) > 0 && inner[0] == '{' {
		fields = nil
		if err := json.Unmarshal(inner, &fields); err != nil {
			return nil, fmt.Errorf("decode message payload: %w", err)
		}
	}
	var p wirePayload
	p.decode(fields)
	return p.toProto(), nil
}

func (p *wirePayload) decode(fields map[string]json.RawMessage) {
	decodeField(fields, "conversation", &p.Conversation)
	decodeField(fields, "extendedTextMessage", &p.ExtendedTextMessage)
	decodeField(fields, "imageMessage", &p.ImageMessage)
	decodeField(fields, "videoMessage", &p.VideoMessage)
	decodeField(fields, "audioMessage", &p.AudioMessage)
	decodeField(fields, "documentMessage", &p.DocumentMessage)
	decodeField(fields, "locationMessage", &p.LocationMessage)
	decodeField(fields, "contactMessage", &p.ContactMessage)
	decodeField(fields, "contactsArrayMessage", &p.ContactsArrayMessage)
	decodeField(fields, "stickerMessage", &p.StickerMessage)
	decodeField(fields, "reactionMessage", &p.ReactionMessage)
	decodeField(fields, "pollCreationMessage", &p.PollCreationMessage)
	decodeField(fields, "pollCreationMessageV3", &p.PollCreationMessageV3)
	decodeField(fields, "listMessage", &p.ListMessage)
	decodeField(fields, "buttonsMessage", &p.ButtonsMessage)
	decodeField(fields, "templateMessage", &p.TemplateMessage)
	decodeField(fields, "interactiveMessage", &p.InteractiveMessage)
	decodeField(fields, "protocolMessage", &p.ProtocolMessage)
}

// decodeField stores fields[key] into dst only when it decodes cleanly.
func decodeField[T any](fields map[string]json.RawMessage, key string, dst *T) {
	raw, ok := fields[key]
	if !ok {
		return
	}
	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		return
	}
	*dst = v
}

func optString(s string) *string {
	if s == "" {
		return nil
	}
	return proto.String(s)
}

func (p *wirePayload) toProto() *waE2E.Message {
	msg := &waE2E.Message{
		Conversation: optString(p.Conversation),
	}
	if p.ExtendedTextMessage != nil {
		msg.ExtendedTextMessage = &waE2E.ExtendedTextMessage{Text: optString(p.ExtendedTextMessage.Text)}
	}
	if p.ImageMessage != nil {
		msg.ImageMessage = &waE2E.ImageMessage{
			Caption:  optString(p.ImageMessage.Caption),
			Mimetype: optString(p.ImageMessage.Mimetype),
		}
	}
	if p.VideoMessage != nil {
		msg.VideoMessage = &waE2E.VideoMessage{
			Caption:  optString(p.VideoMessage.Caption),
			Mimetype: optString(p.VideoMessage.Mimetype),
		}
	}
	if p.AudioMessage != nil {
		msg.AudioMessage = &waE2E.AudioMessage{Mimetype: optString(p.AudioMessage.Mimetype)}
	}
	if p.DocumentMessage != nil {
		msg.DocumentMessage = &waE2E.DocumentMessage{
			FileName: optString(p.DocumentMessage.FileName),
			Title:    optString(p.DocumentMessage.Title),
			Caption:  optString(p.DocumentMessage.Caption),
			Mimetype: optString(p.DocumentMessage.Mimetype),
		}
	}
	if p.LocationMessage != nil {
		msg.LocationMessage = &waE2E.LocationMessage{
			DegreesLatitude:  proto.Float64(p.LocationMessage.DegreesLatitude),
			DegreesLongitude: proto.Float64(p.LocationMessage.DegreesLongitude),
			Name:             optString(p.LocationMessage.Name),
			Address:          optString(p.LocationMessage.Address),
		}
	}
	if p.ContactMessage != nil {
		msg.ContactMessage = p.ContactMessage.toProto()
	}
	if p.ContactsArrayMessage != nil {
		arr := &waE2E.ContactsArrayMessage{DisplayName: optString(p.ContactsArrayMessage.DisplayName)}
		for i := range p.ContactsArrayMessage.Contacts {
			arr.Contacts = append(arr.Contacts, p.ContactsArrayMessage.Contacts[i].toProto())
		}
		msg.ContactsArrayMessage = arr
	}
	if p.StickerMessage != nil {
		msg.StickerMessage = &waE2E.StickerMessage{Mimetype: optString(p.StickerMessage.Mimetype)}
	}
	if p.ReactionMessage != nil {
		msg.ReactionMessage = &waE2E.ReactionMessage{Text: optString(p.ReactionMessage.Text)}
	}
	if p.PollCreationMessage != nil {
		msg.PollCreationMessage = &waE2E.PollCreationMessage{Name: optString(p.PollCreationMessage.Name)}
	}
	if p.PollCreationMessageV3 != nil {
		msg.PollCreationMessageV3 = &waE2E.PollCreationMessage{Name: optString(p.PollCreationMessageV3.Name)}
	}
	if p.ListMessage != nil {
		msg.ListMessage = &waE2E.ListMessage{
			Title:       optString(p.ListMessage.Title),
			Description: optString(p.ListMessage.Description),
		}
	}
	if p.ButtonsMessage != nil {
		msg.ButtonsMessage = &waE2E.ButtonsMessage{ContentText: optString(p.ButtonsMessage.ContentText)}
	}
	if p.TemplateMessage != nil {
		msg.TemplateMessage = &waE2E.TemplateMessage{}
	}
	if p.InteractiveMessage != nil {
		msg.InteractiveMessage = &waE2E.InteractiveMessage{}
	}
	if p.ProtocolMessage != nil {
		msg.ProtocolMessage = &waE2E.ProtocolMessage{Type: p.ProtocolMessage.Type.v}
	}
	return msg
}

func (c *wireContact) toProto() *waE2E.ContactMessage {
	return &waE2E.ContactMessage{
		DisplayName: optString(c.DisplayName),
		Vcard:       optString(c.Vcard),
	}
}
