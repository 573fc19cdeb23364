package ui

import (
	"fmt"
	"strings"

	"github.com/rivo/tview"
)

// Menu lists the key hints of the current page in columns.
type Menu struct {
	*tview.TextView
	theme *Theme
	rows  int
}

// NewMenu creates a menu that fills columns of at most rows hints.
func NewMenu(theme *Theme, rows int) *Menu {
	tv := tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(false)
	tv.SetBackgroundColor(theme.BgColor)
	tv.SetBorderPadding(0, 0, 2, 0)

	if rows < 1 {
		rows = 1
	}
	return &Menu{
		TextView: tv,
		theme:    theme,
		rows:     rows,
	}
}

// Update renders hints column by column.
func (m *Menu) Update(hints []MenuHint) {
	m.Clear()
	_, _ = fmt.Fprint(m, m.Render(hints))
}

// Render returns the markup for hints.
func (m *Menu) Render(hints []MenuHint) string {
	cols := (len(hints) + m.rows - 1) / m.rows
	width := make([]int, cols)
	for i, h := range hints {
		if n := len(h.Key) + len(h.Description) + 3; n > width[i/m.rows] {
			width[i/m.rows] = n
		}
	}

	lines := make([]strings.Builder, m.rows)
	for i, h := range hints {
		col := i / m.rows
		color := m.theme.MenuKeyColor
		if h.Numeric {
			color = m.theme.NumericKeyColor
		}
		pad := width[col] - len(h.Key) - len(h.Description) - 3
		fmt.Fprintf(&lines[i%m.rows], "[%s::b]<%s>[-:-:-] %s%s  ",
			colorName(color), tview.Escape(h.Key), tview.Escape(h.Description), strings.Repeat(" ", pad))
	}

	out := make([]string, 0, m.rows)
	for i := range lines {
		if lines[i].Len() > 0 {
			out = append(out, strings.TrimRight(lines[i].String(), " "))
		}
	}
	return strings.Join(out, "\n")
}
