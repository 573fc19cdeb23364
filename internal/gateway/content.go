package gateway

import (
	"strings"

	"go.mau.fi/whatsmeow/proto/waE2E"
)

// Kind identifies which variant of message content a Content holds.
type Kind int

const (
	KindEmpty Kind = iota
	KindText
	KindImage
	KindVideo
	KindAudio
	KindDocument
	KindLocation
	KindContact
	KindSticker
	KindReaction
	KindPoll
	KindList
	KindInteractive
	KindRevoked
	KindControl
)

var kindNames = map[Kind]string{
	KindEmpty:       "empty",
	KindText:        "text",
	KindImage:       "image",
	KindVideo:       "video",
	KindAudio:       "audio",
	KindDocument:    "document",
	KindLocation:    "location",
	KindContact:     "contact",
	KindSticker:     "sticker",
	KindReaction:    "reaction",
	KindPoll:        "poll",
	KindList:        "list",
	KindInteractive: "interactive",
	KindRevoked:     "revoked",
	KindControl:     "control",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Label is the fixed human-readable text shown when a variant has no caption.
func (k Kind) Label() string {
	switch k {
	case KindImage:
		return "Photo"
	case KindVideo:
		return "Video"
	case KindAudio:
		return "Audio"
	case KindDocument:
		return "Document"
	case KindLocation:
		return "Location"
	case KindContact:
		return "Contact"
	case KindSticker:
		return "Sticker"
	case KindReaction:
		return "Reaction"
	case KindPoll:
		return "Poll"
	case KindList:
		return "List"
	case KindInteractive:
		return "Interactive message"
	case KindRevoked:
		return "Message deleted"
	default:
		return ""
	}
}

// Content is the classified body of a message.
type Content struct {
	Kind Kind
	// Caption holds the text body, media caption, document file name,
	// list title or poll name, depending on Kind.
	Caption string
	// Glyph is the reaction emoji for KindReaction.
	Glyph string
}

// Label returns the fixed label for the content's kind.
func (c Content) Label() string {
	return c.Kind.Label()
}

// Preview returns the short list-display text for the content.
func (c Content) Preview() string {
	switch c.Kind {
	case KindText:
		return c.Caption
	case KindImage, KindVideo, KindDocument, KindList:
		if c.Caption != "" {
			return c.Caption
		}
		return c.Kind.Label()
	case KindAudio, KindLocation, KindContact, KindSticker, KindPoll, KindInteractive, KindRevoked:
		return c.Kind.Label()
	case KindReaction:
		return strings.TrimSpace(c.Glyph + " " + c.Kind.Label())
	case KindControl, KindEmpty:
		return ""
	}
	return ""
}

// Classify picks the content variant of msg. The first matching rule wins,
// so a payload carrying both conversation text and media is text.
func Classify(msg *waE2E.Message) Content {
	if msg == nil {
		return Content{}
	}
	switch {
	case msg.GetConversation() != "":
		return Content{Kind: KindText, Caption: msg.GetConversation()}
	case msg.GetExtendedTextMessage().GetText() != "":
		return Content{Kind: KindText, Caption: msg.GetExtendedTextMessage().GetText()}
	case msg.GetImageMessage() != nil:
		return Content{Kind: KindImage, Caption: msg.GetImageMessage().GetCaption()}
	case msg.GetVideoMessage() != nil:
		return Content{Kind: KindVideo, Caption: msg.GetVideoMessage().GetCaption()}
	case msg.GetAudioMessage() != nil:
		return Content{Kind: KindAudio}
	case msg.GetDocumentMessage() != nil:
		return Content{Kind: KindDocument, Caption: msg.GetDocumentMessage().GetFileName()}
	case msg.GetLocationMessage() != nil:
		return Content{Kind: KindLocation, Caption: msg.GetLocationMessage().GetName()}
	case msg.GetContactMessage() != nil:
		return Content{Kind: KindContact, Caption: msg.GetContactMessage().GetDisplayName()}
	case msg.GetContactsArrayMessage() != nil:
		return Content{Kind: KindContact, Caption: msg.GetContactsArrayMessage().GetDisplayName()}
	case msg.GetStickerMessage() != nil:
		return Content{Kind: KindSticker}
	case msg.GetReactionMessage() != nil:
		return Content{Kind: KindReaction, Glyph: msg.GetReactionMessage().GetText()}
	case msg.GetPollCreationMessage() != nil:
		return Content{Kind: KindPoll, Caption: msg.GetPollCreationMessage().GetName()}
	case msg.GetPollCreationMessageV3() != nil:
		return Content{Kind: KindPoll, Caption: msg.GetPollCreationMessageV3().GetName()}
	case msg.GetListMessage() != nil:
		return Content{Kind: KindList, Caption: msg.GetListMessage().GetTitle()}
	case msg.GetButtonsMessage() != nil, msg.GetTemplateMessage() != nil, msg.GetInteractiveMessage() != nil:
		return Content{Kind: KindInteractive}
	case msg.GetProtocolMessage() != nil:
		// GetType defaults to REVOKE, so an absent type must be checked first.
		pm := msg.GetProtocolMessage()
		if pm.Type != nil && pm.GetType() == waE2E.ProtocolMessage_REVOKE {
			return Content{Kind: KindRevoked}
		}
		return Content{Kind: KindControl}
	default:
		return Content{}
	}
}
