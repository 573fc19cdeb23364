package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

var logoLines = []string{
	"╦ ╦╔═╗╔═╗",
	"║║║╠═╝╠═╝",
	"╚╩╝╩  ╩  ",
}

// Logo is the header mark with the active profile underneath.
type Logo struct {
	*tview.TextView
	theme   *Theme
	profile string
}

func NewLogo(theme *Theme, profile string) *Logo {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(1, 0, 1, 0)

	l := &Logo{TextView: tv, theme: theme, profile: profile}
	l.SetText(l.Render())
	return l
}

// Render returns the tagged logo text.
func (l *Logo) Render() string {
	var sb strings.Builder
	for _, line := range logoLines {
		fmt.Fprintf(&sb, "[%s::b]%s[-:-:-]\n", colorName(l.theme.TitleColor), line)
	}
	sub := "manager"
	if l.profile != "" && l.profile != "main" {
		sub = "@" + l.profile
	}
	fmt.Fprintf(&sb, "[%s]%s[-:-:-]", colorName(l.theme.FgColor), tview.Escape(sub))
	return sb.String()
}
