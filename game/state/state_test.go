package state

import (
	"context"
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/exor2008/koldun/assets"
	"github.com/exor2008/koldun/display"
	"github.com/exor2008/koldun/game/config"
	"github.com/exor2008/koldun/game/engine"
	"github.com/exor2008/koldun/game/items"
	"github.com/exor2008/koldun/game/levels"
	"github.com/exor2008/koldun/game/tiles"
)

type fixture struct {
	machine *Machine
	canvas  *display.Canvas
	reg     *levels.Registry
	names   []string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	manager, err := config.NewManager("")
	require.NoError(t, err)
	store, err := assets.Builtin()
	require.NoError(t, err)

	f := &fixture{canvas: display.NewCanvas(), reg: levels.NewRegistry(manager)}
	f.machine = NewMachine(f.canvas, store, NewInitial(f.reg))
	f.machine.Observe(func(_, next State) {
		f.names = append(f.names, next.Name())
	})
	return f
}

func (f *fixture) send(t *testing.T, events ...engine.Event) {
	t.Helper()
	for _, ev := range events {
		require.NoError(t, f.machine.OnEvent(context.Background(), ev))
	}
}

// startLevel walks from power-on into the default level.
func (f *fixture) startLevel(t *testing.T) *Level {
	t.Helper()
	f.send(t, engine.Tick(0), engine.Press(engine.ButtonRight))
	level, ok := f.machine.Current().(*Level)
	require.True(t, ok, "expected a level, got %s", f.machine.Current().Name())
	return level
}

func TestMachineStartsAtMenu(t *testing.T) {
	f := newFixture(t)
	assert.Equal(t, "initial", f.machine.Current().Name())

	f.send(t, engine.Release(engine.ButtonReset))
	menu, ok := f.machine.Current().(*StartMenu)
	require.True(t, ok)
	assert.Equal(t, 0, menu.Selected())
	assert.Equal(t, []string{"start_menu"}, f.names)
	assert.Equal(t, display.StartMenuBG, f.canvas.At(0, 0))
}

func TestStartMenuNavigation(t *testing.T) {
	tests := []struct {
		name    string
		presses []engine.Button
		want    int
	}{
		{"down", []engine.Button{engine.ButtonDown}, 1},
		{"down twice", []engine.Button{engine.ButtonDown, engine.ButtonDown}, 2},
		{"down wraps", []engine.Button{engine.ButtonDown, engine.ButtonDown, engine.ButtonDown}, 0},
		{"up wraps", []engine.Button{engine.ButtonUp}, 2},
		{"down then up", []engine.Button{engine.ButtonDown, engine.ButtonUp}, 0},
		{"left ignored", []engine.Button{engine.ButtonLeft}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			f.send(t, engine.Tick(0))
			for _, b := range tt.presses {
				f.send(t, engine.Press(b))
			}
			menu, ok := f.machine.Current().(*StartMenu)
			require.True(t, ok)
			assert.Equal(t, tt.want, menu.Selected())
		})
	}
}

func TestStartMenuOnlyNewGameLeadsAnywhere(t *testing.T) {
	f := newFixture(t)
	f.send(t, engine.Tick(0), engine.Press(engine.ButtonDown), engine.Press(engine.ButtonRight))
	assert.Equal(t, "start_menu", f.machine.Current().Name())

	f.send(t, engine.Press(engine.ButtonUp), engine.Press(engine.ButtonRight))
	assert.Equal(t, "level:level1", f.machine.Current().Name())
}

func TestLevelDrawsBoard(t *testing.T) {
	f := newFixture(t)
	level := f.startLevel(t)
	assert.Equal(t, "level1", level.ID())
	assert.False(t, level.Blocked())

	// The stone on the staging cell is drawn with the wall colour.
	stone, err := tiles.Bitmap(tiles.Stone1)
	require.NoError(t, err)
	require.Len(t, stone, display.TileBytes)
	for i := 0; i < display.TileSide*display.TileSide; i++ {
		x, y := i%display.TileSide, i/display.TileSide
		require.Equal(t, display.ColorAt(stone, i), f.canvas.At(x, y), "pixel (%d,%d)", x, y)
	}
}

func TestLevelBlocksButtonsWhileWalking(t *testing.T) {
	f := newFixture(t)
	level := f.startLevel(t)

	f.send(t, engine.Press(engine.ButtonDown))
	assert.True(t, level.Blocked())
	wizard, ok := level.Grid().Find(engine.KindWizard)
	require.True(t, ok)
	assert.Equal(t, engine.NewTarget(10, 6, 1), wizard)

	f.send(t, engine.Press(engine.ButtonRight))
	wizard, _ = level.Grid().Find(engine.KindWizard)
	assert.Equal(t, engine.NewTarget(10, 6, 1), wizard, "input must be ignored while blocked")

	f.send(t, engine.Tick(11))
	assert.False(t, level.Blocked())

	f.send(t, engine.Press(engine.ButtonRight))
	wizard, _ = level.Grid().Find(engine.KindWizard)
	assert.Equal(t, engine.NewTarget(11, 6, 1), wizard)
}

func TestLevelWinRestartsLevel(t *testing.T) {
	f := newFixture(t)
	level := f.startLevel(t)

	f.send(t, engine.Press(engine.ButtonDown), engine.Tick(11), engine.Press(engine.ButtonDown))
	assert.Same(t, level, f.machine.Current(), "win is reported on the next event")

	f.send(t, engine.Tick(12))
	next, ok := f.machine.Current().(*Level)
	require.True(t, ok)
	assert.NotSame(t, level, next)
	assert.Equal(t, "level1", next.ID())

	wizard, ok := next.Grid().Find(engine.KindWizard)
	require.True(t, ok)
	assert.Equal(t, engine.NewTarget(10, 5, 1), wizard)
	assert.Equal(t, []string{"start_menu", "level:level1", "level:level1"}, f.names)
}

func TestSpellScreenCastsSpell(t *testing.T) {
	f := newFixture(t)
	level := f.startLevel(t)
	count := level.Grid().Count()

	f.send(t, engine.Press(engine.ButtonReset))
	screen, ok := f.machine.Current().(*SpellScreen)
	require.True(t, ok)
	assert.Zero(t, level.Grid().Count(), "the board moves into the spell screen")

	f.send(t, engine.Press(engine.ButtonUp), engine.Release(engine.ButtonUp), engine.Press(engine.ButtonLeft))
	assert.Equal(t, []engine.Direction{engine.Up, engine.Left}, screen.Commands())

	f.send(t, engine.Press(engine.ButtonReset))
	resumed, ok := f.machine.Current().(*Level)
	require.True(t, ok)
	staged, ok := resumed.Grid().Item(engine.Staging).(*items.Spell)
	require.True(t, ok, "spell must wait on the staging slot")
	assert.Equal(t, []engine.Direction{engine.Up, engine.Left}, staged.Commands())
	// The spell replaces the floor under the staging wall.
	assert.Equal(t, count, resumed.Grid().Count())

	f.send(t, engine.Tick(1))
	assert.Same(t, staged, resumed.Grid().Item(engine.NewTarget(10, 4, 1)))
	assert.Nil(t, resumed.Grid().Item(engine.Staging))
	require.NoError(t, resumed.Grid().Check())
}

func TestSpellScreenWithoutCommands(t *testing.T) {
	f := newFixture(t)
	f.startLevel(t)

	f.send(t, engine.Press(engine.ButtonReset), engine.Press(engine.ButtonReset))
	resumed, ok := f.machine.Current().(*Level)
	require.True(t, ok)
	floor := resumed.Grid().Item(engine.Staging)
	require.NotNil(t, floor)
	assert.Equal(t, engine.KindSprite, floor.Kind())
	assert.Equal(t, []string{"start_menu", "level:level1", "spell", "level:level1"}, f.names)
}

func TestSpellScreenQueueLimit(t *testing.T) {
	f := newFixture(t)
	f.startLevel(t)
	f.send(t, engine.Press(engine.ButtonReset))
	screen := f.machine.Current().(*SpellScreen)

	for i := 0; i < items.MaxSpellCommands+3; i++ {
		f.send(t, engine.Press(engine.ButtonDown))
	}
	assert.Len(t, screen.Commands(), items.MaxSpellCommands)
}

func TestLevelUnknownSprite(t *testing.T) {
	f := newFixture(t)
	level := f.startLevel(t)
	for _, id := range tiles.WizardFrames() {
		delete(level.tiles, id)
	}

	// A multiple of the idle period makes the wizard ask for a redraw.
	err := f.machine.OnEvent(context.Background(), engine.Tick(5))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnknownSprite))
	assert.Same(t, level, f.machine.Current())
}

type failingStore struct{}

func (failingStore) Load(context.Context, int, int) ([]byte, error) {
	return nil, assets.ErrOutOfRange
}

func TestMachineKeepsStateWhenInitFails(t *testing.T) {
	manager, err := config.NewManager("")
	require.NoError(t, err)
	reg := levels.NewRegistry(manager)
	m := NewMachine(display.NewCanvas(), failingStore{}, NewStartMenu(reg))

	err = m.OnEvent(context.Background(), engine.Press(engine.ButtonRight))
	require.Error(t, err)
	assert.True(t, errors.Is(err, assets.ErrOutOfRange))
	assert.Equal(t, "start_menu", m.Current().Name())
}

func TestLevelDrawShiftsAnimatedSprite(t *testing.T) {
	f := newFixture(t)
	level := f.startLevel(t)

	req := engine.RedrawRequest{Target: engine.NewTarget(3, 3, 0), Shift: engine.Pos{X: 0, Y: -16}}
	require.NoError(t, level.draw(context.Background(), f.canvas, req))
	want, err := tiles.Bitmap(level.Grid().TileID(3, 3))
	require.NoError(t, err)
	origin := image.Pt(3*engine.TileSize, 3*engine.TileSize-16)
	assert.Equal(t, display.ColorAt(want, 0), f.canvas.At(origin.X, origin.Y))
}

func TestInitialAtSkipsMenu(t *testing.T) {
	f := newFixture(t)
	store, err := assets.Builtin()
	require.NoError(t, err)
	m := NewMachine(f.canvas, store, NewInitialAt(f.reg, "level2"))

	require.NoError(t, m.OnEvent(context.Background(), engine.Tick(0)))
	assert.Equal(t, "level:level2", m.Current().Name())

	m = NewMachine(f.canvas, store, NewInitialAt(f.reg, "missing"))
	err = m.OnEvent(context.Background(), engine.Tick(0))
	require.Error(t, err)
	assert.True(t, errors.Is(err, config.ErrLevelNotFound))
	assert.Equal(t, "initial", m.Current().Name())
}
