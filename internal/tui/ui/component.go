package ui

import "github.com/rivo/tview"

// MenuHint is one key shortcut shown in the header menu.
type MenuHint struct {
	Key         string
	Description string
	Numeric     bool // digit shortcuts get their own color
}

// Component is a page of the dashboard. Start runs when the page is pushed
// onto the stack and Stop when it is popped.
type Component interface {
	tview.Primitive
	Name() string
	Hints() []MenuHint
	Start()
	Stop()
}
