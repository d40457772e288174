package items

import "github.com/exor2008/koldun/game/engine"

// MaxSpellCommands bounds the command queue of a spell.
const MaxSpellCommands = 8

// Spell is a queued cast. It waits in the staging slot and, on its first
// event, asks the grid to materialize it next to the wizard.
type Spell struct {
	base
	state    uint8
	commands []engine.Direction
}

const (
	spellStaged uint8 = iota
	spellCast
)

// NewSpell creates a spell holding commands. More than MaxSpellCommands
// commands panics.
func NewSpell(t engine.Target, tile engine.TileID, commands []engine.Direction) *Spell {
	queue := engine.NewBounded[engine.Direction]("spell commands", MaxSpellCommands)
	queue.Extend(commands)
	return &Spell{base: base{target: t, tile: tile}, commands: queue.Items()}
}

func (s *Spell) Kind() engine.Kind { return engine.KindSpell }

// Commands returns the commands not consumed yet.
func (s *Spell) Commands() []engine.Direction { return s.commands }

// Cast reports whether the spell already issued its cast.
func (s *Spell) Cast() bool { return s.state == spellCast }

func (s *Spell) OnEvent(engine.Event) []engine.Action {
	if s.state != spellStaged {
		return nil
	}
	s.state = spellCast
	if len(s.commands) == 0 {
		return nil
	}
	dir := s.commands[0]
	s.commands = s.commands[1:]
	return []engine.Action{engine.InitSpell(s.target, dir)}
}

func (s *Spell) OnReaction(engine.Action) {}
