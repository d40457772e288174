package state

import (
	"context"
	"image"

	"github.com/exor2008/koldun/assets"
	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/levels"
)

// Menu entries, in display order.
var menuEntries = []string{"New game", "Continue", "Options"}

const (
	menuNewGame = 0
	menuX       = 50
	menuTitleY  = 50
	menuFirstY  = 70
	menuStep    = 15
)

// StartMenu lets the player pick an entry with Up and Down and confirm it with
// Right. Only "New game" leads anywhere.
type StartMenu struct {
	levels   *levels.Registry
	selected int
}

// NewStartMenu creates the menu with the first entry selected.
func NewStartMenu(reg *levels.Registry) *StartMenu {
	return &StartMenu{levels: reg}
}

func (s *StartMenu) Name() string { return "start_menu" }

// Selected returns the index of the highlighted entry.
func (s *StartMenu) Selected() int { return s.selected }

func (s *StartMenu) OnInit(ctx context.Context, d display.Display, _ assets.Store) error {
	if err := d.Clear(ctx, display.StartMenuBG); err != nil {
		return err
	}
	return s.redraw(ctx, d)
}

func (s *StartMenu) OnEvent(ctx context.Context, ev engine.Event, d display.Display) (State, error) {
	switch {
	case ev.Pressed(engine.ButtonUp):
		s.selected = (s.selected + len(menuEntries) - 1) % len(menuEntries)
		return nil, s.redraw(ctx, d)
	case ev.Pressed(engine.ButtonDown):
		s.selected = (s.selected + 1) % len(menuEntries)
		return nil, s.redraw(ctx, d)
	case ev.Pressed(engine.ButtonRight):
		if s.selected != menuNewGame {
			return nil, nil
		}
		level, err := NewLevel(s.levels, s.levels.Default())
		if err != nil {
			return nil, err
		}
		return level, nil
	}
	return nil, nil
}

func (s *StartMenu) redraw(ctx context.Context, d display.Display) error {
	area := image.Rect(menuX-5, menuTitleY-5, menuX+150, menuFirstY+len(menuEntries)*menuStep+5)
	if err := d.DrawSolidArea(ctx, area, display.StartMenuBG); err != nil {
		return err
	}
	if err := d.DrawText(ctx, "KOLDUN the Game", image.Pt(menuX, menuTitleY), display.StartMenuTile, nil); err != nil {
		return err
	}
	for i, entry := range menuEntries {
		var bg *display.Color
		if i == s.selected {
			bg = display.Ptr(display.StartMenuTextBG)
		}
		origin := image.Pt(menuX, menuFirstY+i*menuStep)
		if err := d.DrawText(ctx, entry, origin, display.StartMenuText, bg); err != nil {
			return err
		}
	}
	return nil
}
