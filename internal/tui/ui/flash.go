package ui

import (
	"fmt"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// FlashLevel is the severity of a flash message.
type FlashLevel int

const (
	FlashInfo FlashLevel = iota
	FlashWarn
	FlashErr
)

// flashTTL is how long a message of each level stays on screen.
var flashTTL = [...]time.Duration{
	FlashInfo: 4 * time.Second,
	FlashWarn: 8 * time.Second,
	FlashErr:  12 * time.Second,
}

// FlashMessage is a transient notification.
type FlashMessage struct {
	Text    string
	Level   FlashLevel
	Expires time.Time
}

// Expired reports whether the message should no longer be shown at now.
func (m *FlashMessage) Expired(now time.Time) bool {
	return !now.Before(m.Expires)
}

// FlashModel holds the latest flash message. It is safe for use from
// background goroutines; Watch delivers each new message to the UI loop.
type FlashModel struct {
	mu      sync.Mutex
	current FlashMessage
	now     func() time.Time
	watchCh chan FlashMessage
}

// NewFlashModel creates an empty flash model.
func NewFlashModel() *FlashModel {
	return &FlashModel{
		now:     time.Now,
		watchCh: make(chan FlashMessage, 8),
	}
}

// Info flashes an informational message.
func (f *FlashModel) Info(msg string) { f.set(msg, FlashInfo) }

// Warn flashes a warning.
func (f *FlashModel) Warn(msg string) { f.set(msg, FlashWarn) }

// Err flashes err.
func (f *FlashModel) Err(err error) { f.set(err.Error(), FlashErr) }

func (f *FlashModel) set(text string, level FlashLevel) {
	f.mu.Lock()
	msg := FlashMessage{Text: text, Level: level, Expires: f.now().Add(flashTTL[level])}
	f.current = msg
	f.mu.Unlock()

	// A full channel means the UI loop is behind; it reads current anyway.
	select {
	case f.watchCh <- msg:
	default:
	}
}

// GetMessage returns the current message, or nil when it has expired.
func (f *FlashModel) GetMessage() *FlashMessage {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.current.Text == "" || f.current.Expired(f.now()) {
		return nil
	}
	m := f.current
	return &m
}

// Watch returns the channel new messages are sent on.
func (f *FlashModel) Watch() <-chan FlashMessage {
	return f.watchCh
}

// FlashBar renders the current flash message.
type FlashBar struct {
	*tview.TextView
	theme *Theme
}

// NewFlashBar creates a new flash bar.
func NewFlashBar(theme *Theme) *FlashBar {
	tv := tview.NewTextView().
		SetDynamicColors(true)
	tv.SetBackgroundColor(theme.BgColor)

	return &FlashBar{
		TextView: tv,
		theme:    theme,
	}
}

// Update shows msg; nil clears the bar.
func (fb *FlashBar) Update(msg *FlashMessage) {
	fb.Clear()
	if msg == nil {
		return
	}
	color, icon := fb.theme.FlashInfoColor, "i"
	switch msg.Level {
	case FlashWarn:
		color, icon = fb.theme.FlashWarnColor, "!"
	case FlashErr:
		color, icon = fb.theme.FlashErrColor, "x"
	}
	_, _ = fmt.Fprintf(fb, " [%s::b]%s[-:-:-] [%s]%s[-]", colorName(color), icon, colorName(color), tview.Escape(msg.Text))
}
