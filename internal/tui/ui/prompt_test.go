package ui

import (
	"testing"

	"github.com/gdamore/tcell/v2"
)

func TestPromptHistory(t *testing.T) {
	p := NewPrompt(DefaultTheme())
	var submitted []string
	p.SetOnSubmit(func(_ PromptMode, text string) { submitted = append(submitted, text) })

	p.Activate(PromptCommand, "")
	p.submit("reload")
	p.submit("reload")
	p.submit("")
	p.submit("sort name")

	if len(submitted) != 3 {
		t.Errorf("submitted = %v, want empty command dropped", submitted)
	}
	if h := p.History(); len(h) != 2 || h[0] != "reload" || h[1] != "sort name" {
		t.Fatalf("History() = %v", h)
	}

	p.Activate(PromptCommand, "")
	up := tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone)
	down := tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)

	p.captureHistory(up)
	if p.GetText() != "sort name" {
		t.Errorf("after Up = %q", p.GetText())
	}
	p.captureHistory(up)
	p.captureHistory(up)
	if p.GetText() != "reload" {
		t.Errorf("Up past the start = %q", p.GetText())
	}
	p.captureHistory(down)
	p.captureHistory(down)
	if p.GetText() != "" {
		t.Errorf("Down past the end = %q", p.GetText())
	}
}

func TestPromptFilterSubmitsEmpty(t *testing.T) {
	p := NewPrompt(DefaultTheme())
	var changes, submits []string
	p.SetOnChange(func(mode PromptMode, text string) {
		if mode == PromptFilter {
			changes = append(changes, text)
		}
	})
	p.SetOnSubmit(func(_ PromptMode, text string) { submits = append(submits, text) })

	p.Activate(PromptFilter, "ali")
	p.SetText("alic")
	p.submit("")

	if len(changes) == 0 || changes[len(changes)-1] != "alic" {
		t.Errorf("changes = %v", changes)
	}
	if len(submits) != 1 || submits[0] != "" {
		t.Errorf("submits = %v, want one empty filter", submits)
	}
	if len(p.History()) != 0 {
		t.Error("filters must not enter the command history")
	}
}
