package views

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/reconcile"
	"github.com/matheus3301/wppmanager/internal/thread"
	"github.com/matheus3301/wppmanager/internal/tui/ui"
)

func TestUnreadBadge(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{-1, ""},
		{0, ""},
		{1, "1"},
		{99, "99"},
		{100, "99+"},
		{5000, "99+"},
	}
	for _, tt := range tests {
		if got := UnreadBadge(tt.n); got != tt.want {
			t.Errorf("UnreadBadge(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func TestListTitle(t *testing.T) {
	tests := []struct {
		name string
		st   ListState
		want string
	}{
		{
			name: "unfiltered",
			st:   ListState{Chats: make([]gateway.Chat, 3), Total: 3},
			want: " Conversations (3) ",
		},
		{
			name: "filtered",
			st: ListState{
				Chats:  make([]gateway.Chat, 1),
				Total:  4,
				Filter: reconcile.Filter{Instance: "sales", Query: "ali"},
				Sort:   "unread",
			},
			want: " Conversations (1/4) instance: sales | filter: ali | sort: unread ",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := listTitle(tt.st); got != tt.want {
				t.Errorf("listTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}

func decodeChats(t *testing.T, raw string) []gateway.Chat {
	t.Helper()
	var chats []gateway.Chat
	if err := json.Unmarshal([]byte(raw), &chats); err != nil {
		t.Fatalf("decode chats: %v", err)
	}
	return chats
}

func TestConversationListKeepsCursor(t *testing.T) {
	chats := decodeChats(t, `[
		{"instanceName": "sales", "id": "1@s.whatsapp.net", "name": "Alice"},
		{"instanceName": "sales", "id": "2@s.whatsapp.net", "name": "Bob"}
	]`)
	cl := NewConversationList(ui.DefaultTheme())
	cl.Update(ListState{Chats: chats, Total: 2, Now: time.Now()})

	if got := cl.SelectedKey(); got != reconcile.ChatKey(&chats[0]) {
		t.Fatalf("initial selection = %q", got)
	}
	cl.Select(2, 0)

	// New conversation arrives on top; the cursor follows Bob.
	more := append(decodeChats(t, `[{"instanceName": "support", "id": "3@s.whatsapp.net", "name": "Carol"}]`), chats...)
	cl.Update(ListState{Chats: more, Total: 3, Now: time.Now()})

	if got := cl.SelectedKey(); got != reconcile.ChatKey(&chats[1]) {
		t.Errorf("selection after update = %q, want Bob", got)
	}
	if got := cl.KeyByIndex(1); got != reconcile.ChatKey(&more[0]) {
		t.Errorf("KeyByIndex(1) = %q", got)
	}
	if cl.KeyByIndex(0) != "" || cl.KeyByIndex(4) != "" {
		t.Error("out of range index should return empty key")
	}
}

func TestInstanceBarRender(t *testing.T) {
	ib := NewInstanceBar(ui.DefaultTheme())
	statuses := []gateway.InstanceStatus{{Name: "sales", Connected: true}, {Name: "support"}}

	out := ib.Render([]string{"sales", "support"}, statuses, "support", "1 of 2 instances connected")
	for _, want := range []string{"All", "sales", "support", "1 of 2 instances connected"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q in %q", want, out)
		}
	}
	if !strings.Contains(out, ":b] ") {
		t.Error("expected the active pill to be bold")
	}
	if strings.Index(out, "All") > strings.Index(out, "sales") {
		t.Error("All pill should come first")
	}
}

func TestMessageThreadStates(t *testing.T) {
	mt := NewMessageThread(ui.DefaultTheme())
	mt.SetChat("sales\x001@s.whatsapp.net", "Alice", "sales")
	if mt.Name() != "Alice" {
		t.Errorf("Name() = %q", mt.Name())
	}

	mt.Update(thread.Snapshot{Loading: true})
	if got := mt.GetText(true); !strings.Contains(got, "Loading messages...") {
		t.Errorf("loading text = %q", got)
	}

	mt.Update(thread.Snapshot{})
	if got := mt.GetText(true); !strings.Contains(got, "No messages") {
		t.Errorf("empty text = %q", got)
	}

	mt.Update(thread.Snapshot{Messages: []gateway.Message{
		{ID: "a", PushName: "Alice", Timestamp: 1, Content: gateway.Content{Kind: gateway.KindText, Caption: "hi there"}},
		{ID: "b", FromSelf: true, Timestamp: 2, Content: gateway.Content{Kind: gateway.KindRevoked}},
	}})
	got := mt.GetText(true)
	for _, want := range []string{"Alice", "hi there", "You", "Message deleted"} {
		if !strings.Contains(got, want) {
			t.Errorf("thread text missing %q in %q", want, got)
		}
	}
	if strings.Index(got, "hi there") > strings.Index(got, "Message deleted") {
		t.Error("messages should render oldest first")
	}
}

func TestOneLineAndClean(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"folds whitespace", oneLine, "hello\n\n  world\t!", "hello world !"},
		{"drops skin tone", oneLine, "\U0001F44D\U0001F3FB ok", "\U0001F44D ok"},
		{"drops bidi override", oneLine, "abc\u202edef", "abcdef"},
		{"escapes tags", oneLine, "[red]x", "[red[]x"},
		{"keeps newlines", clean, "a\nb\x07", "a\nb"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}
