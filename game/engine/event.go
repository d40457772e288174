package engine

import "fmt"

// EventKind distinguishes ticks from button edges.
type EventKind uint8

const (
	EventTick EventKind = iota
	EventButton
)

// Button is one of the five physical buttons.
type Button uint8

const (
	ButtonUp Button = iota
	ButtonDown
	ButtonLeft
	ButtonRight
	ButtonReset
)

// Buttons lists every button in declaration order.
var Buttons = []Button{ButtonUp, ButtonDown, ButtonLeft, ButtonRight, ButtonReset}

func (b Button) String() string {
	switch b {
	case ButtonUp:
		return "up"
	case ButtonDown:
		return "down"
	case ButtonLeft:
		return "left"
	case ButtonRight:
		return "right"
	case ButtonReset:
		return "reset"
	}
	return "unknown"
}

// ParseButton converts a button name as produced by String.
func ParseButton(s string) (Button, bool) {
	for _, b := range Buttons {
		if b.String() == s {
			return b, true
		}
	}
	return 0, false
}

// Direction returns the movement direction of a directional button.
func (b Button) Direction() (Direction, bool) {
	switch b {
	case ButtonUp:
		return Up, true
	case ButtonDown:
		return Down, true
	case ButtonLeft:
		return Left, true
	case ButtonRight:
		return Right, true
	}
	return 0, false
}

// ButtonState is the edge reported for a button.
type ButtonState uint8

const (
	Pressed ButtonState = iota
	Released
)

func (s ButtonState) String() string {
	if s == Released {
		return "released"
	}
	return "pressed"
}

// Event is the whole input vocabulary of the engine: a tick carrying a
// monotonic counter, or a button edge.
type Event struct {
	Kind   EventKind
	Time   uint64
	Button Button
	State  ButtonState
}

// Tick creates a timer event.
func Tick(t uint64) Event {
	return Event{Kind: EventTick, Time: t}
}

// Press creates a button-pressed event.
func Press(b Button) Event {
	return Event{Kind: EventButton, Button: b, State: Pressed}
}

// Release creates a button-released event.
func Release(b Button) Event {
	return Event{Kind: EventButton, Button: b, State: Released}
}

// IsTick reports whether the event is a timer tick.
func (e Event) IsTick() bool { return e.Kind == EventTick }

// Pressed reports whether the event is a press of b.
func (e Event) Pressed(b Button) bool {
	return e.Kind == EventButton && e.State == Pressed && e.Button == b
}

// PressedDirection returns the direction of a directional button press.
func (e Event) PressedDirection() (Direction, bool) {
	if e.Kind != EventButton || e.State != Pressed {
		return 0, false
	}
	return e.Button.Direction()
}

func (e Event) String() string {
	if e.Kind == EventTick {
		return fmt.Sprintf("tick(%d)", e.Time)
	}
	return fmt.Sprintf("button(%s, %s)", e.Button, e.State)
}
