package ui

import (
	"fmt"

	"github.com/rivo/tview"
)

// AccountData holds the signed-in account for display.
type AccountData struct {
	Profile string
	Name    string
	Email   string
	Tier    string
	Backend string
	Summary string
}

// AccountInfo displays account metadata in the header.
type AccountInfo struct {
	*tview.TextView
	theme *Theme
}

// NewAccountInfo creates a new account info panel.
func NewAccountInfo(theme *Theme) *AccountInfo {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 1, 1)

	return &AccountInfo{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the account info.
func (ai *AccountInfo) Update(data *AccountData) {
	ai.Clear()
	if data == nil {
		return
	}

	fg := colorName(ai.theme.FgColor)
	counter := colorName(ai.theme.CounterColor)

	row := func(label, value string) string {
		if value == "" {
			value = "-"
		}
		return fmt.Sprintf("[%s::b]%-9s[-:-:-][%s]%s[-]", fg, label+":", counter, tview.Escape(value))
	}

	_, _ = fmt.Fprint(ai,
		row("Profile", data.Profile)+"\n"+
			row("User", data.Name)+"\n"+
			row("Email", data.Email)+"\n"+
			row("Plan", data.Tier)+"\n"+
			row("Backend", data.Backend)+"\n"+
			row("Gateway", data.Summary),
	)
}
