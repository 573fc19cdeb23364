package tui

import (
	"slices"
	"testing"
)

func TestParseCommand(t *testing.T) {
	tests := []struct {
		input string
		want  Command
	}{
		{"quit", Command{Name: "quit"}},
		{"  Q  ", Command{Name: "quit"}},
		{"i sales", Command{Name: "instance", Args: "sales"}},
		{"chat  Maria Silva ", Command{Name: "chat", Args: "Maria Silva"}},
		{"SORT unread", Command{Name: "sort", Args: "unread"}},
		{"bogus x", Command{Name: "bogus", Args: "x"}},
		{"", Command{}},
	}
	for _, tt := range tests {
		if got := ParseCommand(tt.input); got != tt.want {
			t.Errorf("ParseCommand(%q) = %+v, want %+v", tt.input, got, tt.want)
		}
	}
}

func TestCompleteCommand(t *testing.T) {
	tests := []struct {
		prefix string
		want   []string
	}{
		{"c", []string{"chat", "connect"}},
		{"RE", []string{"reload"}},
		{"q", []string{"quit"}},
		{"x", nil},
		{"chat ", nil},
	}
	for _, tt := range tests {
		if got := CompleteCommand(tt.prefix); !slices.Equal(got, tt.want) {
			t.Errorf("CompleteCommand(%q) = %v, want %v", tt.prefix, got, tt.want)
		}
	}
}
