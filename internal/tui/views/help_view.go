package views

import (
	"fmt"

	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/rivo/tview"
)

// HelpView displays key binding reference.
type HelpView struct {
	*tview.TextView
	theme *ui.Theme
}

// NewHelpView creates a new help view.
func NewHelpView(theme *ui.Theme) *HelpView {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true)
	tv.SetBorder(true)
	tv.SetBorderColor(theme.BorderColor)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetTextColor(theme.FgColor)
	tv.SetTitle(" Help ")
	tv.SetTitleColor(theme.TitleColor)

	hv := &HelpView{
		TextView: tv,
		theme:    theme,
	}
	hv.render()
	return hv
}

// Name implements Component.
func (hv *HelpView) Name() string { return "Help" }

// Start implements Component.
func (hv *HelpView) Start() {}

// Stop implements Component.
func (hv *HelpView) Stop() {}

// Hints implements Component.
func (hv *HelpView) Hints() []ui.MenuHint {
	return []ui.MenuHint{
		{Key: "Esc", Description: "Back"},
	}
}

func (hv *HelpView) render() {
	kc := fmt.Sprintf("[#%06x]", hv.theme.MenuKeyColor.Hex())
	key := func(k string, width int) string {
		return kc + tview.Escape(fmt.Sprintf("%-*s", width, k)) + "[-:-:-]"
	}
	pair := func(k1, d1, k2, d2 string) string {
		return fmt.Sprintf("  %s %-20s %s %s\n", key(k1, 7), d1, key(k2, 7), d2)
	}
	cmd := func(c, d string) string {
		return fmt.Sprintf("  %s %s\n", key(c, 18), d)
	}

	help := "\n  [::b]Global Keys[-:-:-]\n\n" +
		pair(":", "Command mode", "Esc", "Cancel / Go back") +
		pair("/", "Filter mode", "?", "Help") +
		pair("q", "Quit / Back", "Ctrl-C", "Quit immediately") +
		"\n  [::b]Conversation List[-:-:-]\n\n" +
		pair("Enter", "Open conversation", "0", "Clear filters") +
		pair("1-9", "Jump to Nth chat", "s", "Cycle sort mode") +
		pair("Tab", "Cycle instance", "r", "Reload") +
		"\n  [::b]Message Thread[-:-:-]\n\n" +
		pair("d", "Conversation details", "r", "Reload thread") +
		"\n  [::b]Commands (: mode)[-:-:-]\n\n" +
		cmd(":instance [name]", "Show one instance (no name: all)") +
		cmd(":chat <name>", "Open chat by name") +
		cmd(":sort <mode>", "Sort by recent, unread or name") +
		cmd(":connect <name>", "Show an instance pairing QR") +
		cmd(":reload", "Reload conversations") +
		cmd(":logout", "Sign out and quit") +
		cmd(":help, :h", "Show this help") +
		cmd(":quit, :q", "Quit application")

	_, _ = fmt.Fprint(hv, help)
}
