package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/thread"
	"github.com/matheus3301/wppmanager/internal/timestamp"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/rivo/tview"
)

// MessageThread displays the messages of a single conversation.
type MessageThread struct {
	*tview.TextView
	theme    *ui.Theme
	chatName string
	chatKey  string
}

// NewMessageThread creates a new message thread view.
func NewMessageThread(theme *ui.Theme) *MessageThread {
	messages := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWordWrap(true)
	messages.SetBorder(true)
	messages.SetBorderColor(theme.BorderColor)
	messages.SetBackgroundColor(theme.BgColor)
	messages.SetTextColor(theme.FgColor)
	messages.SetTitle(" Messages ")
	messages.SetTitleColor(theme.TitleColor)

	return &MessageThread{
		TextView: messages,
		theme:    theme,
	}
}

// Name implements Component.
func (mt *MessageThread) Name() string {
	if mt.chatName != "" {
		return mt.chatName
	}
	return "Messages"
}

// Start implements Component.
func (mt *MessageThread) Start() {}

// Stop implements Component.
func (mt *MessageThread) Stop() {}

// Hints implements Component.
func (mt *MessageThread) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "d", Description: "Details"},
		{Key: "r", Description: "Reload"},
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// SetChat sets the conversation shown in the title.
func (mt *MessageThread) SetChat(key, name, instance string) {
	mt.chatKey = key
	mt.chatName = name
	mt.SetTitle(fmt.Sprintf(" %s @ %s ", oneLine(name), tview.Escape(instance)))
}

// ChatKey returns the composite key of the shown conversation.
func (mt *MessageThread) ChatKey() string {
	return mt.chatKey
}

// Update renders snap, oldest message first.
func (mt *MessageThread) Update(snap thread.Snapshot) {
	mt.Clear()

	switch {
	case snap.Loading:
		_, _ = fmt.Fprint(mt, "\n  [::d]Loading messages...[-:-:-]")
		return
	case len(snap.Messages) == 0:
		_, _ = fmt.Fprint(mt, "\n  [::d]No messages[-:-:-]")
		return
	}

	var sb strings.Builder
	for i := range snap.Messages {
		sb.WriteString(mt.renderMessage(&snap.Messages[i]))
	}
	_, _ = fmt.Fprint(mt, sb.String())
	mt.ScrollToEnd()
}

func (mt *MessageThread) renderMessage(m *gateway.Message) string {
	sender := m.PushName
	color := ui.Tag(mt.theme.CounterColor)
	if m.FromSelf {
		sender = "You"
		color = ui.Tag(mt.theme.SelfColor)
	}
	if sender == "" {
		sender = "Contact"
	}

	body := m.Content.Preview()
	if m.Content.Kind == gateway.KindRevoked {
		body = "[::i]" + tview.Escape(body) + "[-:-:-]"
	} else {
		body = clean(body)
	}
	if body == "" {
		body = "[::d](empty)[-:-:-]"
	}

	return fmt.Sprintf("%s[::b]%s[-:-:-][-] [::d]%s[-:-:-]\n%s\n\n",
		color, oneLine(sender), timestamp.Clock(m.Timestamp), body)
}
