package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/timestamp"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/rivo/tview"
)

// ConversationInfo displays detailed information about a conversation.
type ConversationInfo struct {
	*tview.TextView
	theme *ui.Theme
}

// NewConversationInfo creates a new conversation info view.
func NewConversationInfo(theme *ui.Theme) *ConversationInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Conversation Details ")
	tv.SetTitleColor(theme.TitleColor)

	return &ConversationInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Name implements Component.
func (ci *ConversationInfo) Name() string { return "Details" }

// Start implements Component.
func (ci *ConversationInfo) Start() {}

// Stop implements Component.
func (ci *ConversationInfo) Stop() {}

// Hints implements Component.
func (ci *ConversationInfo) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
		{Key: ":", Description: "Command"},
		{Key: "?", Description: "Help"},
	}
}

// Update renders conversation details.
func (ci *ConversationInfo) Update(chat *gateway.Chat, now time.Time) {
	ci.Clear()
	if chat == nil {
		return
	}

	fg := ui.Tag(ci.theme.FgColor)
	ct := ui.Tag(ci.theme.CounterColor)

	chatType := "Direct Message"
	if chat.IsGroup() {
		chatType = "Group"
	}
	lastActive := timestamp.Format(chat.LastActivityAt(), now)
	variants := strings.Join(chat.AllIDs, ", ")

	rows := []struct{ label, value string }{
		{"Name", chat.DisplayName()},
		{"Instance", chat.Instance},
		{"ID", chat.ID()},
		{"Variants", variants},
		{"Type", chatType},
		{"Unread", fmt.Sprintf("%d", chat.Unread())},
		{"Last Active", lastActive},
		{"Last Message", chat.Preview()},
	}

	var sb strings.Builder
	sb.WriteString("\n")
	for _, r := range rows {
		v := r.value
		if v == "" {
			v = "-"
		}
		fmt.Fprintf(&sb, " %s[::b]%-13s[-:-:-][-]%s%s[-]\n", fg, r.label+":", ct, oneLine(v))
	}
	_, _ = fmt.Fprint(ci, sb.String())
	ci.SetTitle(fmt.Sprintf(" %s Details ", oneLine(chat.DisplayName())))
}
