package state

import (
	"context"

	"github.com/exor2008/koldun/assets"
	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/levels"
)

// Initial is the power-on state. The first event of any kind opens the menu,
// or goes straight to a level when one was requested.
type Initial struct {
	levels *levels.Registry
	level  string
}

// NewInitial creates the power-on state.
func NewInitial(reg *levels.Registry) *Initial {
	return &Initial{levels: reg}
}

// NewInitialAt creates a power-on state that skips the menu and opens level id.
func NewInitialAt(reg *levels.Registry, id string) *Initial {
	return &Initial{levels: reg, level: id}
}

func (s *Initial) Name() string { return "initial" }

func (s *Initial) OnInit(context.Context, display.Display, assets.Store) error { return nil }

func (s *Initial) OnEvent(context.Context, engine.Event, display.Display) (State, error) {
	if s.level == "" {
		return NewStartMenu(s.levels), nil
	}
	level, err := NewLevel(s.levels, s.level)
	if err != nil {
		return nil, err
	}
	return level, nil
}
