package thread

import (
	"testing"

	"github.com/matheus3301/wppmanager/internal/bus"
)

func TestInitialState(t *testing.T) {
	m := NewMachine(nil)
	if m.Current() != Idle {
		t.Errorf("initial state = %s, want IDLE", m.Current())
	}
}

func TestTransitions(t *testing.T) {
	tests := []struct {
		name  string
		steps []State
		ok    bool
	}{
		{"select", []State{Fetching}, true},
		{"reselect", []State{Fetching, Fetching}, true},
		{"settle", []State{Fetching, Idle}, true},
		{"idle to idle", []State{Idle}, false},
		{"settle twice", []State{Fetching, Idle, Idle}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMachine(nil)
			var err error
			for i, s := range tt.steps {
				if err = m.Transition(s, uint64(i+1)); err != nil {
					break
				}
			}
			if (err == nil) != tt.ok {
				t.Errorf("err = %v, want ok = %v", err, tt.ok)
			}
		})
	}
}

func TestTransitionRecordsToken(t *testing.T) {
	b := bus.New()
	ch, unsub := b.Subscribe("thread.", 10)
	defer unsub()

	m := NewMachine(b)
	if err := m.Transition(Fetching, 7); err != nil {
		t.Fatal(err)
	}
	if m.Token() != 7 {
		t.Errorf("Token() = %d, want 7", m.Token())
	}
	evt := <-ch
	sc, ok := evt.Payload.(StateChange)
	if !ok {
		t.Fatalf("payload type = %T", evt.Payload)
	}
	if sc.From != Idle || sc.To != Fetching || sc.Token != 7 {
		t.Errorf("payload = %+v", sc)
	}
}
