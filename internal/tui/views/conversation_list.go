package views

import (
	"fmt"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/reconcile"
	"github.com/matheus3301/wppmanager/internal/timestamp"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/rivo/tview"
)

// ListState is what the conversation list renders.
type ListState struct {
	Chats  []gateway.Chat
	Total  int
	Filter reconcile.Filter
	Sort   string
	Now    time.Time
}

// ConversationList is the main chat list view.
type ConversationList struct {
	*tview.Table
	theme *ui.Theme
	keys  []string
}

// NewConversationList creates a new conversation list table.
func NewConversationList(theme *ui.Theme) *ConversationList {
	table := tview.NewTable().
		SetSelectable(true, false).
		SetBorders(false).
		SetFixed(1, 0)
	table.SetBorder(true)
	table.SetBorderColor(theme.BorderColor)
	table.SetBackgroundColor(theme.BgColor)
	table.SetSelectedStyle(tcell.StyleDefault.
		Foreground(theme.TableCursorFg).
		Background(theme.TableCursorBg))
	table.SetTitle(" Conversations ")
	table.SetTitleColor(theme.TitleColor)

	return &ConversationList{
		Table: table,
		theme: theme,
	}
}

// Name implements Component.
func (cl *ConversationList) Name() string { return "Conversations" }

// Start implements Component.
func (cl *ConversationList) Start() {}

// Stop implements Component.
func (cl *ConversationList) Stop() {}

// Hints implements Component.
func (cl *ConversationList) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Enter", Description: "Open"},
		{Key: "/", Description: "Filter"},
		{Key: "Tab", Description: "Instance"},
		{Key: ":", Description: "Command"},
		{Key: "s", Description: "Sort"},
		{Key: "r", Description: "Reload"},
		{Key: "?", Description: "Help"},
		{Key: "q", Description: "Quit"},
		{Key: "1-9", Description: "Jump", Numeric: true},
	}
}

// Update re-renders the list, keeping the cursor on the same conversation
// when it is still listed.
func (cl *ConversationList) Update(st ListState) {
	selected := cl.SelectedKey()
	cl.Clear()
	cl.keys = cl.keys[:0]

	headers := []struct {
		text string
		exp  int
	}{
		{" NAME", 1},
		{" LAST MESSAGE", 2},
		{" INSTANCE", 0},
		{" TIME", 0},
		{" TYPE", 0},
	}
	for col, h := range headers {
		cell := tview.NewTableCell(h.text).
			SetSelectable(false).
			SetTextColor(cl.theme.TableHeaderFg).
			SetBackgroundColor(cl.theme.TableHeaderBg).
			SetAttributes(tcell.AttrBold).
			SetExpansion(h.exp)
		cl.SetCell(0, col, cell)
	}

	cursor := 0
	for i := range st.Chats {
		chat := &st.Chats[i]
		row := i + 1
		key := reconcile.ChatKey(chat)
		cl.keys = append(cl.keys, key)
		if key == selected {
			cursor = row
		}

		nameColor := cl.theme.FgColor
		name := oneLine(chat.DisplayName())
		if badge := UnreadBadge(chat.Unread()); badge != "" {
			name = fmt.Sprintf("(%s) %s", badge, name)
			nameColor = cl.theme.UnreadColor
		}

		chatType := "DM"
		if chat.IsGroup() {
			chatType = "GROUP"
		}

		cl.SetCell(row, 0, tview.NewTableCell(" "+name).SetExpansion(1).SetTextColor(nameColor))
		cl.SetCell(row, 1, tview.NewTableCell(" "+oneLine(chat.Preview())).SetExpansion(2).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 2, tview.NewTableCell(" "+tview.Escape(chat.Instance)).SetTextColor(cl.theme.FgColor))
		cl.SetCell(row, 3, tview.NewTableCell(timestamp.Format(chat.LastActivityAt(), st.Now)).SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
		cl.SetCell(row, 4, tview.NewTableCell(chatType).SetTextColor(cl.theme.FgColor).SetAlign(tview.AlignRight))
	}

	if cursor == 0 && len(st.Chats) > 0 {
		cursor = 1
	}
	if cursor > 0 {
		cl.Select(cursor, 0)
	}
	cl.SetTitle(listTitle(st))
}

func listTitle(st ListState) string {
	var parts []string
	if st.Filter.Instance != "" {
		parts = append(parts, "instance: "+st.Filter.Instance)
	}
	if q := strings.TrimSpace(st.Filter.Query); q != "" {
		parts = append(parts, "filter: "+q)
	}
	if st.Sort != "" {
		parts = append(parts, "sort: "+st.Sort)
	}
	count := fmt.Sprintf("%d", len(st.Chats))
	if len(st.Chats) != st.Total {
		count = fmt.Sprintf("%d/%d", len(st.Chats), st.Total)
	}
	title := fmt.Sprintf(" Conversations (%s) ", count)
	if len(parts) > 0 {
		title += tview.Escape(strings.Join(parts, " | ")) + " "
	}
	return title
}

// SelectedKey returns the composite key of the highlighted conversation.
func (cl *ConversationList) SelectedKey() string {
	row, _ := cl.GetSelection()
	return cl.KeyByIndex(row)
}

// KeyByIndex returns the key of the Nth listed conversation (1-based).
func (cl *ConversationList) KeyByIndex(n int) string {
	if n < 1 || n > len(cl.keys) {
		return ""
	}
	return cl.keys[n-1]
}

// UnreadBadge renders an unread count, capped at "99+". Zero renders as "".
func UnreadBadge(n int) string {
	switch {
	case n <= 0:
		return ""
	case n > 99:
		return "99+"
	default:
		return fmt.Sprintf("%d", n)
	}
}
