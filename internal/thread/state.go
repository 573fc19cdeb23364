package thread

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/matheus3301/wppmanager/internal/bus"
)

// State is the fetch state of the message thread pane.
type State string

const (
	Idle     State = "IDLE"
	Fetching State = "FETCHING"
)

// validTransitions defines allowed state transitions.
var validTransitions = map[State][]State{
	Idle:     {Fetching},
	Fetching: {Fetching, Idle},
}

// Machine tracks the thread fetch state and the token of the request that
// owns it.
type Machine struct {
	mu      sync.RWMutex
	current State
	token   uint64
	bus     *bus.Bus
}

// NewMachine creates a new state machine starting in Idle state.
func NewMachine(b *bus.Bus) *Machine {
	return &Machine{
		current: Idle,
		bus:     b,
	}
}

// Current returns the current state.
func (m *Machine) Current() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current
}

// Token returns the token of the request that last moved the machine.
func (m *Machine) Token() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

// Transition attempts to move to a new state on behalf of token.
func (m *Machine) Transition(to State, token uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	allowed := validTransitions[m.current]
	if !slices.Contains(allowed, to) {
		return fmt.Errorf("invalid transition from %s to %s", m.current, to)
	}
	from := m.current
	m.current = to
	m.token = token
	if m.bus != nil {
		m.bus.Publish(bus.Event{
			Kind:      bus.KindThreadStateChanged,
			Timestamp: time.Now(),
			Payload: StateChange{
				From:  from,
				To:    to,
				Token: token,
			},
		})
	}
	return nil
}

// StateChange is the payload for thread state events.
type StateChange struct {
	From  State
	To    State
	Token uint64
}
