package ui

import (
	"strings"
	"testing"
	"time"

	"github.com/rivo/tview"
)

func TestRenderQR(t *testing.T) {
	out, err := RenderQR("2@pairing-ref,abc,def", "  ")
	if err != nil {
		t.Fatalf("RenderQR() error = %v", err)
	}
	lines := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(lines) < 10 {
		t.Fatalf("expected a QR block, got %d lines", len(lines))
	}
	for i, l := range lines {
		if !strings.HasPrefix(l, "  ") {
			t.Errorf("line %d missing indent: %q", i, l)
		}
	}
	if !strings.ContainsAny(out, "█▀▄") {
		t.Error("no block characters rendered")
	}
}

func TestPagesStack(t *testing.T) {
	p := NewPages()
	var last []string
	p.SetOnChange(func(s []string) { last = s })

	p.AddPage("a", tview.NewBox(), true, false)
	p.AddPage("b", tview.NewBox(), true, false)
	p.Reset("a")
	p.Push("b")
	if p.Current() != "b" || p.Depth() != 2 {
		t.Fatalf("Current() = %q, Depth() = %d", p.Current(), p.Depth())
	}
	if got := p.Pop(); got != "b" {
		t.Errorf("Pop() = %q, want b", got)
	}
	if p.Pop() != "" {
		t.Error("Pop() must not remove the root page")
	}
	if len(last) != 1 || last[0] != "a" {
		t.Errorf("onChange stack = %v", last)
	}
}

func TestFlashModel(t *testing.T) {
	now := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	f := NewFlashModel()
	f.now = func() time.Time { return now }

	if f.GetMessage() != nil {
		t.Error("new flash should be empty")
	}
	f.Warn("careful")
	msg := f.GetMessage()
	if msg == nil || msg.Text != "careful" || msg.Level != FlashWarn {
		t.Errorf("GetMessage() = %+v", msg)
	}
	select {
	case m := <-f.Watch():
		if m.Text != "careful" {
			t.Errorf("Watch() = %q", m.Text)
		}
	default:
		t.Error("Watch() did not receive the message")
	}

	now = now.Add(flashTTL[FlashWarn])
	if f.GetMessage() != nil {
		t.Error("message should expire after its level's TTL")
	}
}

func TestMenuColumns(t *testing.T) {
	m := NewMenu(DefaultTheme(), 2)
	out := m.Render([]MenuHint{
		{Key: "a", Description: "Alpha"},
		{Key: "b", Description: "Beta"},
		{Key: "c", Description: "Gamma"},
	})
	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2: %q", len(lines), out)
	}
	if !strings.Contains(lines[0], "Alpha") || !strings.Contains(lines[0], "Gamma") {
		t.Errorf("first row = %q, want Alpha and Gamma", lines[0])
	}
	if !strings.Contains(lines[1], "Beta") {
		t.Errorf("second row = %q", lines[1])
	}
}

func TestCrumbsRender(t *testing.T) {
	c := NewCrumbs(DefaultTheme())
	out := c.Render([]string{"Conversations", "Alice [work]"})
	if !strings.Contains(out, "<Conversations>") {
		t.Errorf("missing root crumb in %q", out)
	}
	if !strings.Contains(out, ":b] <Alice [work[]>") {
		t.Errorf("last crumb should be bold and escaped: %q", out)
	}
	if c.Render(nil) != "" {
		t.Error("empty stack should render nothing")
	}
}

func TestLogoSubtitle(t *testing.T) {
	tests := []struct {
		profile string
		want    string
	}{
		{"", "manager"},
		{"main", "manager"},
		{"work", "@work"},
	}
	for _, tt := range tests {
		got := NewLogo(DefaultTheme(), tt.profile).Render()
		if !strings.HasSuffix(got, "]"+tt.want+"[-:-:-]") {
			t.Errorf("profile %q: Render() = %q, want subtitle %q", tt.profile, got, tt.want)
		}
	}
}
