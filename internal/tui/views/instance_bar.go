package views

import (
	"fmt"
	"strings"

	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
	"github.com/rivo/tview"
)

// InstanceBar shows one pill per gateway instance plus the connection summary.
// The pill matching the instance filter is highlighted; "All" is highlighted
// when no filter is set.
type InstanceBar struct {
	*tview.TextView
	theme *ui.Theme
}

// NewInstanceBar creates a new instance bar.
func NewInstanceBar(theme *ui.Theme) *InstanceBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &InstanceBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update renders the pills for names with connection flags from statuses.
func (ib *InstanceBar) Update(names []string, statuses []gateway.InstanceStatus, active, summary string) {
	ib.Clear()
	_, _ = fmt.Fprint(ib, ib.Render(names, statuses, active, summary))
}

// Render returns the tview markup for the bar.
func (ib *InstanceBar) Render(names []string, statuses []gateway.InstanceStatus, active, summary string) string {
	connected := make(map[string]bool, len(statuses))
	for _, s := range statuses {
		connected[s.Name] = s.Connected
	}

	var sb strings.Builder
	sb.WriteString(" ")
	sb.WriteString(ib.pill("All", "", active == ""))
	for _, n := range names {
		dot := ui.Tag(ib.theme.DisconnectedColor) + "●[-] "
		if connected[n] {
			dot = ui.Tag(ib.theme.ConnectedColor) + "●[-] "
		}
		sb.WriteString(" ")
		sb.WriteString(ib.pill(n, dot, n == active))
	}
	if summary != "" {
		fmt.Fprintf(&sb, "  [::d]%s[-:-:-]", tview.Escape(summary))
	}
	return sb.String()
}

func (ib *InstanceBar) pill(label, prefix string, active bool) string {
	label = tview.Escape(label)
	if active {
		return fmt.Sprintf("[%s:%s:b] %s%s [-:-:-]",
			colorHex(ib.theme.PillActiveFg), colorHex(ib.theme.PillActiveBg), prefix, label)
	}
	return fmt.Sprintf("%s %s%s [-]", ui.Tag(ib.theme.PillInactiveFg), prefix, label)
}

func colorHex(c interface{ Hex() int32 }) string {
	return fmt.Sprintf("#%06x", c.Hex())
}
