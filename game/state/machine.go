package state

import (
	"context"
	"fmt"
	"log"

	"github.com/exor2008/koldun/assets"
	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
)

// State is one screen of the game.
type State interface {
	Name() string
	// OnInit draws the screen and loads what it needs from the asset store.
	OnInit(ctx context.Context, d display.Display, a assets.Store) error
	// OnEvent handles one event. A non-nil State replaces the current one.
	OnEvent(ctx context.Context, ev engine.Event, d display.Display) (State, error)
}

// Machine owns the current state and forwards events to it.
type Machine struct {
	current   State
	display   display.Display
	assets    assets.Store
	observers []func(prev, next State)
}

// NewMachine creates a machine starting in initial. The initial state is not
// initialized; it is expected to draw nothing.
func NewMachine(d display.Display, a assets.Store, initial State) *Machine {
	return &Machine{current: initial, display: d, assets: a}
}

// Current returns the active state.
func (m *Machine) Current() State { return m.current }

// Observe registers fn to run after every transition.
func (m *Machine) Observe(fn func(prev, next State)) {
	m.observers = append(m.observers, fn)
}

// OnEvent forwards ev to the current state. When the state returns a
// replacement, the replacement is initialized and becomes current. A failed
// initialization keeps the old state.
func (m *Machine) OnEvent(ctx context.Context, ev engine.Event) error {
	next, err := m.current.OnEvent(ctx, ev, m.display)
	if err != nil {
		return fmt.Errorf("%s: %w", m.current.Name(), err)
	}
	if next == nil {
		return nil
	}

	if err := next.OnInit(ctx, m.display, m.assets); err != nil {
		return fmt.Errorf("init %s: %w", next.Name(), err)
	}

	prev := m.current
	m.current = next
	log.Printf("state: %s -> %s", prev.Name(), next.Name())
	for _, fn := range m.observers {
		fn(prev, next)
	}
	return nil
}
