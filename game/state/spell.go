package state

import (
	"context"
	"image"
	"strings"

	"github.com/exor2008/koldun/assets"
	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/items"
	"github.com/exor2008/koldun/game/levels"
	"github.com/exor2008/koldun/game/tiles"
)

var (
	spellTitleAt = image.Pt(180, 100)
	spellHintAt  = image.Pt(110, 130)
	spellQueueAt = image.Pt(110, 160)
)

// SpellScreen composes a spell while the board waits, detached, in grid.
// Directional presses queue commands; Reset returns to the level, staging the
// spell when at least one command was queued.
type SpellScreen struct {
	levels   *levels.Registry
	id       string
	grid     *engine.Grid
	commands []engine.Direction
}

// NewSpellScreen takes ownership of grid, the board of level id.
func NewSpellScreen(reg *levels.Registry, id string, grid *engine.Grid) *SpellScreen {
	return &SpellScreen{levels: reg, id: id, grid: grid}
}

func (s *SpellScreen) Name() string { return "spell" }

// Commands returns the queued commands.
func (s *SpellScreen) Commands() []engine.Direction { return s.commands }

func (s *SpellScreen) OnInit(ctx context.Context, d display.Display, _ assets.Store) error {
	if err := d.Clear(ctx, display.WallBG); err != nil {
		return err
	}
	if err := d.DrawText(ctx, "Spell screen", spellTitleAt, display.StartMenuTile, nil); err != nil {
		return err
	}
	if err := d.DrawText(ctx, "arrows: add command   reset: cast", spellHintAt, display.StartMenuText, nil); err != nil {
		return err
	}
	return s.drawQueue(ctx, d)
}

func (s *SpellScreen) OnEvent(ctx context.Context, ev engine.Event, d display.Display) (State, error) {
	if dir, ok := ev.PressedDirection(); ok {
		if len(s.commands) >= items.MaxSpellCommands {
			return nil, nil
		}
		s.commands = append(s.commands, dir)
		return nil, s.drawQueue(ctx, d)
	}
	if !ev.Pressed(engine.ButtonReset) {
		return nil, nil
	}

	if len(s.commands) > 0 {
		s.grid.Cell(engine.Staging.X, engine.Staging.Y).TakeItem(engine.Staging.Z)
		s.grid.Place(items.NewSpell(engine.Staging, tiles.Spell, s.commands))
	}
	level, err := LevelFromGrid(s.levels, s.id, s.grid)
	if err != nil {
		return nil, err
	}
	return level, nil
}

func (s *SpellScreen) drawQueue(ctx context.Context, d display.Display) error {
	names := make([]string, len(s.commands))
	for i, c := range s.commands {
		names[i] = c.String()
	}
	text := "queue: " + strings.Join(names, " ")
	area := image.Rect(spellQueueAt.X, spellQueueAt.Y, display.Width, spellQueueAt.Y+20)
	if err := d.DrawSolidArea(ctx, area, display.WallBG); err != nil {
		return err
	}
	return d.DrawText(ctx, text, spellQueueAt, display.WizardFG, nil)
}
