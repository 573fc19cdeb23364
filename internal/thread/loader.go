// Package thread loads the message thread of the selected conversation.
// Selecting a conversation supersedes any fetch still in flight; a superseded
// fetch never writes into the displayed state.
package thread

import (
	"context"
	"sync"

	"github.com/matheus3301/wppmanager/internal/bus"
	"github.com/matheus3301/wppmanager/internal/gateway"
	"github.com/matheus3301/wppmanager/internal/reconcile"
	"go.uber.org/zap"
)

// Pending is a response whose body has not been decoded yet.
type Pending interface {
	Decode() ([]gateway.Message, error)
	Close() error
}

// Source issues thread fetches.
type Source interface {
	OpenThread(ctx context.Context, ref gateway.ConversationRef) (Pending, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context, ref gateway.ConversationRef) (Pending, error)

func (f SourceFunc) OpenThread(ctx context.Context, ref gateway.ConversationRef) (Pending, error) {
	return f(ctx, ref)
}

// Snapshot is a consistent copy of the loader's displayed state.
type Snapshot struct {
	Ref      gateway.ConversationRef
	Messages []gateway.Message
	Loading  bool
	State    State
	Token    uint64
}

// Loader owns the displayed thread.
type Loader struct {
	src     Source
	log     *zap.Logger
	bus     *bus.Bus
	machine *Machine

	mu       sync.Mutex
	token    uint64
	cancel   context.CancelFunc
	ref      gateway.ConversationRef
	messages []gateway.Message
	loading  bool
}

// NewLoader creates a loader fetching from src.
func NewLoader(src Source, b *bus.Bus, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{
		src:     src,
		log:     log,
		bus:     b,
		machine: NewMachine(b),
	}
}

// Select makes ref the displayed conversation and starts fetching it,
// cancelling the previous fetch. The returned channel is closed once this
// fetch has settled, whether it was committed or discarded.
func (l *Loader) Select(ctx context.Context, ref gateway.ConversationRef) <-chan struct{} {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.token++
	token := l.token
	reqCtx, cancel := context.WithCancel(ctx)
	l.cancel = cancel
	l.ref = ref
	l.messages = nil
	l.loading = true
	if err := l.machine.Transition(Fetching, token); err != nil {
		l.log.Error("thread state", zap.Error(err))
	}
	l.mu.Unlock()
	l.publish(token)

	done := make(chan struct{})
	go func() {
		defer close(done)
		defer cancel()
		l.fetch(reqCtx, token, ref)
	}()
	return done
}

func (l *Loader) fetch(ctx context.Context, token uint64, ref gateway.ConversationRef) {
	pending, err := l.src.OpenThread(ctx, ref)
	if !l.isCurrent(token) {
		if err == nil && pending != nil {
			pending.Close()
		}
		l.log.Debug("discarding superseded thread fetch", zap.Uint64("token", token), zap.Stringer("ref", ref))
		return
	}
	if err != nil {
		l.settle(token, nil, err)
		return
	}
	defer pending.Close()

	msgs, err := pending.Decode()
	if err != nil {
		l.settle(token, nil, err)
		return
	}
	l.settle(token, reconcile.Thread(msgs), nil)
}

// settle commits the outcome of token's fetch if token is still current.
// The check and the write happen under one lock acquisition.
func (l *Loader) settle(token uint64, msgs []gateway.Message, err error) {
	l.mu.Lock()
	if token != l.token {
		l.mu.Unlock()
		l.log.Debug("discarding superseded thread fetch", zap.Uint64("token", token))
		return
	}
	ref := l.ref
	l.messages = msgs
	l.loading = false
	l.cancel = nil
	if terr := l.machine.Transition(Idle, token); terr != nil {
		l.log.Error("thread state", zap.Error(terr))
	}
	l.mu.Unlock()

	if err != nil {
		l.log.Warn("thread fetch failed", zap.Stringer("ref", ref), zap.Error(err))
	} else {
		l.log.Debug("thread loaded", zap.Stringer("ref", ref), zap.Int("messages", len(msgs)))
	}
	l.publish(token)
}

func (l *Loader) isCurrent(token uint64) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return token == l.token
}

// Clear deselects the conversation and abandons any fetch in flight.
func (l *Loader) Clear() {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.token++
	token := l.token
	l.ref = gateway.ConversationRef{}
	l.messages = nil
	wasLoading := l.loading
	l.loading = false
	if wasLoading {
		if err := l.machine.Transition(Idle, token); err != nil {
			l.log.Error("thread state", zap.Error(err))
		}
	}
	l.mu.Unlock()
	l.publish(token)
}

// Close abandons any fetch in flight.
func (l *Loader) Close() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
}

// Snapshot returns a copy of the displayed state.
func (l *Loader) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		Ref:      l.ref,
		Messages: append([]gateway.Message(nil), l.messages...),
		Loading:  l.loading,
		State:    l.machine.Current(),
		Token:    l.token,
	}
}

func (l *Loader) publish(token uint64) {
	l.bus.Emit(bus.KindThreadUpdated, token)
}
