package model

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/matheus3301/wppmanager/internal/bus"
	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/reconcile"
	"github.com/matheus3301/wppmanager/internal/thread"
	"go.uber.org/zap"
)

// ChatSource lists conversations across every instance of the account.
type ChatSource interface {
	Chats(ctx context.Context) (*gateway.ChatsResponse, error)
}

// SortMode orders the conversation list.
type SortMode int

const (
	SortRecent SortMode = iota
	SortUnread
	SortName
)

var sortNames = [...]string{"recent", "unread", "name"}

func (s SortMode) String() string {
	if s < 0 || int(s) >= len(sortNames) {
		return "recent"
	}
	return sortNames[s]
}

// Next returns the mode after s, wrapping around.
func (s SortMode) Next() SortMode {
	return (s + 1) % SortMode(len(sortNames))
}

// ParseSortMode maps a name to a SortMode.
func ParseSortMode(name string) (SortMode, bool) {
	for i, n := range sortNames {
		if strings.EqualFold(n, name) {
			return SortMode(i), true
		}
	}
	return SortRecent, false
}

// ViewModel caches the conversation list and the open thread and signals UI
// refreshes.
type ViewModel struct {
	mu sync.RWMutex

	source ChatSource
	loader *thread.Loader
	bus    *bus.Bus
	log    *zap.Logger

	chats     []gateway.Chat
	instances []gateway.InstanceStatus
	summary   string
	filter    reconcile.Filter
	sort      SortMode
	active    *gateway.Chat

	refreshCh chan struct{}
}

// NewViewModel creates a view model listing chats from source and loading
// threads from threads.
func NewViewModel(source ChatSource, threads thread.Source, b *bus.Bus, log *zap.Logger) *ViewModel {
	if log == nil {
		log = zap.NewNop()
	}
	return &ViewModel{
		source:    source,
		loader:    thread.NewLoader(threads, b, log.Named("thread")),
		bus:       b,
		log:       log,
		refreshCh: make(chan struct{}, 1),
	}
}

// RefreshCh returns the channel that signals UI refresh.
func (vm *ViewModel) RefreshCh() <-chan struct{} {
	return vm.refreshCh
}

func (vm *ViewModel) signalRefresh() {
	select {
	case vm.refreshCh <- struct{}{}:
	default:
	}
}

// Watch turns thread loader events into refresh signals until ctx is done.
func (vm *ViewModel) Watch(ctx context.Context) {
	if vm.bus == nil {
		return
	}
	events, unsub := vm.bus.Subscribe("thread.", 16)
	go func() {
		defer unsub()
		for {
			select {
			case <-events:
				vm.signalRefresh()
			case <-ctx.Done():
				return
			}
		}
	}()
}

// LoadChats fetches the conversation list. On failure the list is cleared
// rather than left stale.
func (vm *ViewModel) LoadChats(ctx context.Context) error {
	resp, err := vm.source.Chats(ctx)
	if err != nil {
		vm.log.Warn("chat list fetch failed", zap.Error(err))
		vm.mu.Lock()
		vm.chats = nil
		vm.instances = nil
		vm.summary = ""
		vm.mu.Unlock()
		vm.bus.Emit(bus.KindChatsUpdated, 0)
		vm.signalRefresh()
		return err
	}

	chats := reconcile.DedupeChats(resp.Chats)
	vm.mu.Lock()
	vm.chats = chats
	vm.instances = resp.Instances
	vm.summary = resp.Summary()
	vm.mu.Unlock()
	vm.bus.Emit(bus.KindChatsUpdated, len(chats))
	vm.bus.Emit(bus.KindInstancesUpdated, resp.Instances)
	vm.signalRefresh()
	return nil
}

// Chats returns the filtered, sorted conversation list.
func (vm *ViewModel) Chats() []gateway.Chat {
	vm.mu.RLock()
	out := reconcile.FilterChats(vm.chats, vm.filter)
	mode := vm.sort
	vm.mu.RUnlock()
	SortChats(out, mode)
	return out
}

// Total returns the number of conversations before filtering.
func (vm *ViewModel) Total() int {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return len(reconcile.FilterChats(vm.chats, reconcile.Filter{}))
}

// SortChats orders chats in place. Every mode falls back to recency.
func SortChats(chats []gateway.Chat, mode SortMode) {
	reconcile.SortByRecency(chats)
	switch mode {
	case SortUnread:
		slices.SortStableFunc(chats, func(a, b gateway.Chat) int {
			return b.Unread() - a.Unread()
		})
	case SortName:
		slices.SortStableFunc(chats, func(a, b gateway.Chat) int {
			return strings.Compare(strings.ToLower(a.DisplayName()), strings.ToLower(b.DisplayName()))
		})
	}
}

// Instances returns the connection flags from the last chat list fetch.
func (vm *ViewModel) Instances() []gateway.InstanceStatus {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return slices.Clone(vm.instances)
}

// Summary returns e.g. "1 of 2 instances connected", empty before the first
// successful fetch.
func (vm *ViewModel) Summary() string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.summary
}

// Filter returns the active filter.
func (vm *ViewModel) Filter() reconcile.Filter {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.filter
}

// SetQuery sets the free-text filter.
func (vm *ViewModel) SetQuery(q string) {
	vm.mu.Lock()
	vm.filter.Query = q
	vm.mu.Unlock()
	vm.signalRefresh()
}

// SetInstance restricts the list to one instance; "" shows all.
func (vm *ViewModel) SetInstance(name string) {
	vm.mu.Lock()
	vm.filter.Instance = name
	vm.mu.Unlock()
	vm.signalRefresh()
}

// ClearFilter drops both the instance and text filters.
func (vm *ViewModel) ClearFilter() {
	vm.mu.Lock()
	vm.filter = reconcile.Filter{}
	vm.mu.Unlock()
	vm.signalRefresh()
}

// CycleInstance advances the instance filter: all, then each instance in
// turn, then all again. Returns the new filter value.
func (vm *ViewModel) CycleInstance() string {
	vm.mu.Lock()
	names := vm.instanceNamesLocked()
	next := ""
	if i := slices.Index(names, vm.filter.Instance); vm.filter.Instance == "" || i >= 0 {
		if i+1 < len(names) {
			next = names[i+1]
		}
	}
	vm.filter.Instance = next
	vm.mu.Unlock()
	vm.signalRefresh()
	return next
}

// InstanceNames lists instance names: those reported by the backend first,
// then any that only appear on conversations.
func (vm *ViewModel) InstanceNames() []string {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.instanceNamesLocked()
}

func (vm *ViewModel) instanceNamesLocked() []string {
	var names []string
	seen := make(map[string]bool)
	add := func(n string) {
		if n != "" && !seen[n] {
			seen[n] = true
			names = append(names, n)
		}
	}
	for _, in := range vm.instances {
		add(in.Name)
	}
	for i := range vm.chats {
		add(vm.chats[i].Instance)
	}
	return names
}

// Sort returns the active sort mode.
func (vm *ViewModel) Sort() SortMode {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	return vm.sort
}

// SetSort changes the sort mode.
func (vm *ViewModel) SetSort(mode SortMode) {
	vm.mu.Lock()
	vm.sort = mode
	vm.mu.Unlock()
	vm.signalRefresh()
}

// CycleSort advances to the next sort mode and returns it.
func (vm *ViewModel) CycleSort() SortMode {
	vm.mu.Lock()
	vm.sort = vm.sort.Next()
	mode := vm.sort
	vm.mu.Unlock()
	vm.signalRefresh()
	return mode
}

// Open makes chat the active conversation and starts loading its thread.
// The returned channel closes once the fetch settles.
func (vm *ViewModel) Open(ctx context.Context, chat gateway.Chat) <-chan struct{} {
	vm.mu.Lock()
	vm.active = &chat
	vm.mu.Unlock()
	return vm.loader.Select(ctx, chat.Ref())
}

// CloseThread deselects the active conversation.
func (vm *ViewModel) CloseThread() {
	vm.mu.Lock()
	vm.active = nil
	vm.mu.Unlock()
	vm.loader.Clear()
}

// ActiveChat returns the open conversation.
func (vm *ViewModel) ActiveChat() (gateway.Chat, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	if vm.active == nil {
		return gateway.Chat{}, false
	}
	return *vm.active, true
}

// Thread returns the displayed thread.
func (vm *ViewModel) Thread() thread.Snapshot {
	return vm.loader.Snapshot()
}

// Lookup finds a listed conversation by its composite key.
func (vm *ViewModel) Lookup(key string) (gateway.Chat, bool) {
	vm.mu.RLock()
	defer vm.mu.RUnlock()
	for i := range vm.chats {
		if reconcile.ChatKey(&vm.chats[i]) == key {
			return vm.chats[i], true
		}
	}
	return gateway.Chat{}, false
}

// Close abandons any thread fetch in flight.
func (vm *ViewModel) Close() {
	vm.loader.Close()
}
