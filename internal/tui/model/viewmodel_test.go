package model

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/matheus3301/wppmanager/internal/bus"
	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/thread"
)

type fakeChats struct {
	resp *gateway.ChatsResponse
	err  error
}

func (f *fakeChats) Chats(context.Context) (*gateway.ChatsResponse, error) {
	return f.resp, f.err
}

type fakePending struct{ msgs []gateway.Message }

func (p *fakePending) Decode() ([]gateway.Message, error) { return p.msgs, nil }
func (p *fakePending) Close() error                       { return nil }

func decodeChats(t *testing.T, raw string) *gateway.ChatsResponse {
	t.Helper()
	var resp gateway.ChatsResponse
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("decode chats: %v", err)
	}
	return &resp
}

const chatsJSON = `{
	"chats": [
		{"instanceName": "sales", "id": "1@s.whatsapp.net", "name": "Alice", "unreadCount": 1, "updatedAt": "2025-01-01T10:00:00Z"},
		{"instanceName": "support", "id": "1@s.whatsapp.net", "name": "Alice (support)", "unreadCount": 7, "updatedAt": "2025-01-01T09:00:00Z"},
		{"instanceName": "sales", "id": "2@s.whatsapp.net", "name": "bob", "updatedAt": "2025-01-01T11:00:00Z"},
		{"instanceName": "sales", "id": "status@broadcast", "name": "Status"},
		{"instanceName": "sales", "id": "2@s.whatsapp.net", "name": "bob duplicate"}
	],
	"instances": [{"name": "sales", "connected": true}, {"name": "support", "connected": false}],
	"totalInstances": 2,
	"connectedInstances": 1
}`

func names(chats []gateway.Chat) []string {
	out := make([]string, len(chats))
	for i := range chats {
		out[i] = chats[i].DisplayName()
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func newVM(t *testing.T, src ChatSource) *ViewModel {
	t.Helper()
	threads := thread.SourceFunc(func(_ context.Context, ref gateway.ConversationRef) (thread.Pending, error) {
		return &fakePending{msgs: []gateway.Message{{ID: ref.Instance + "-m", Timestamp: 1}}}, nil
	})
	vm := NewViewModel(src, threads, bus.New(), nil)
	t.Cleanup(vm.Close)
	return vm
}

func TestLoadChats(t *testing.T) {
	vm := newVM(t, &fakeChats{resp: decodeChats(t, chatsJSON)})
	if err := vm.LoadChats(context.Background()); err != nil {
		t.Fatal(err)
	}

	got := names(vm.Chats())
	want := []string{"bob", "Alice", "Alice (support)"}
	if !equal(got, want) {
		t.Errorf("Chats() = %v, want %v", got, want)
	}
	if vm.Total() != 3 {
		t.Errorf("Total() = %d, want 3", vm.Total())
	}
	if vm.Summary() != "1 of 2 instances connected" {
		t.Errorf("Summary() = %q", vm.Summary())
	}
	select {
	case <-vm.RefreshCh():
	default:
		t.Error("expected refresh signal")
	}
}

func TestLoadChatsFailureClears(t *testing.T) {
	src := &fakeChats{resp: decodeChats(t, chatsJSON)}
	vm := newVM(t, src)
	if err := vm.LoadChats(context.Background()); err != nil {
		t.Fatal(err)
	}

	src.err = errors.New("boom")
	if err := vm.LoadChats(context.Background()); err == nil {
		t.Fatal("expected error")
	}
	if n := len(vm.Chats()); n != 0 {
		t.Errorf("Chats() after failure has %d entries, want 0", n)
	}
	if vm.Summary() != "" || len(vm.Instances()) != 0 {
		t.Error("instances not cleared after failure")
	}
}

func TestFilterAndSort(t *testing.T) {
	vm := newVM(t, &fakeChats{resp: decodeChats(t, chatsJSON)})
	_ = vm.LoadChats(context.Background())

	tests := []struct {
		name     string
		instance string
		query    string
		sort     SortMode
		want     []string
	}{
		{"instance", "support", "", SortRecent, []string{"Alice (support)"}},
		{"query", "", "ALICE", SortRecent, []string{"Alice", "Alice (support)"}},
		{"query and instance", "sales", "alice", SortRecent, []string{"Alice"}},
		{"unread", "", "", SortUnread, []string{"Alice (support)", "Alice", "bob"}},
		{"name", "", "", SortName, []string{"Alice", "Alice (support)", "bob"}},
		{"broadcast never shown", "", "status", SortRecent, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			vm.SetInstance(tt.instance)
			vm.SetQuery(tt.query)
			vm.SetSort(tt.sort)
			if got := names(vm.Chats()); !equal(got, tt.want) {
				t.Errorf("Chats() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCycleInstance(t *testing.T) {
	vm := newVM(t, &fakeChats{resp: decodeChats(t, chatsJSON)})
	_ = vm.LoadChats(context.Background())

	for _, want := range []string{"sales", "support", "", "sales"} {
		if got := vm.CycleInstance(); got != want {
			t.Fatalf("CycleInstance() = %q, want %q", got, want)
		}
	}
}

func TestCycleSort(t *testing.T) {
	vm := newVM(t, &fakeChats{resp: &gateway.ChatsResponse{}})
	for _, want := range []SortMode{SortUnread, SortName, SortRecent} {
		if got := vm.CycleSort(); got != want {
			t.Fatalf("CycleSort() = %v, want %v", got, want)
		}
	}
	if m, ok := ParseSortMode("Unread"); !ok || m != SortUnread {
		t.Errorf("ParseSortMode(Unread) = %v, %v", m, ok)
	}
	if _, ok := ParseSortMode("bogus"); ok {
		t.Error("ParseSortMode(bogus) should fail")
	}
}

func TestOpenLoadsThread(t *testing.T) {
	vm := newVM(t, &fakeChats{resp: decodeChats(t, chatsJSON)})
	_ = vm.LoadChats(context.Background())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	vm.Watch(ctx)

	chat := vm.Chats()[0]
	select {
	case <-vm.Open(ctx, chat):
	case <-time.After(2 * time.Second):
		t.Fatal("thread fetch did not settle")
	}

	snap := vm.Thread()
	if snap.Loading || len(snap.Messages) != 1 || snap.Messages[0].ID != "sales-m" {
		t.Errorf("Thread() = %+v", snap)
	}
	if active, ok := vm.ActiveChat(); !ok || active.ID() != chat.ID() {
		t.Errorf("ActiveChat() = %v, %v", active.ID(), ok)
	}

	vm.CloseThread()
	if _, ok := vm.ActiveChat(); ok {
		t.Error("ActiveChat() after CloseThread should be empty")
	}
	if len(vm.Thread().Messages) != 0 {
		t.Error("thread not cleared")
	}
}

func TestLookupUsesCompositeKey(t *testing.T) {
	vm := newVM(t, &fakeChats{resp: decodeChats(t, chatsJSON)})
	_ = vm.LoadChats(context.Background())

	c, ok := vm.Lookup("support\x001@s.whatsapp.net")
	if !ok || c.DisplayName() != "Alice (support)" {
		t.Errorf("Lookup() = %q, %v", c.DisplayName(), ok)
	}
}
