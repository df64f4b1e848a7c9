// Package input translates key and mouse events into per-axis movement intent.
package input

import "github.com/plus3/roomloop/geom"

// Key identifies a physical key the runtime cares about.
type Key int

const (
	KeyNone Key = iota
	KeyW
	KeyA
	KeyS
	KeyD
	KeyArrowUp
	KeyArrowLeft
	KeyArrowDown
	KeyArrowRight
	KeyEscape
)

var keyNames = map[Key]string{
	KeyNone:       "none",
	KeyW:          "w",
	KeyA:          "a",
	KeyS:          "s",
	KeyD:          "d",
	KeyArrowUp:    "up",
	KeyArrowLeft:  "left",
	KeyArrowDown:  "down",
	KeyArrowRight: "right",
	KeyEscape:     "escape",
}

func (k Key) String() string {
	if name, ok := keyNames[k]; ok {
		return name
	}
	return "unknown"
}

// Axis selects the horizontal or vertical intent component.
type Axis int

const (
	AxisX Axis = iota
	AxisY
)

// Binding maps a key to the axis it drives and the unit it contributes.
type Binding struct {
	Axis Axis
	Unit int
}

// DefaultBindings binds WASD and the arrow keys.
var DefaultBindings = map[Key]Binding{
	KeyW:          {Axis: AxisY, Unit: -1},
	KeyArrowUp:    {Axis: AxisY, Unit: -1},
	KeyS:          {Axis: AxisY, Unit: 1},
	KeyArrowDown:  {Axis: AxisY, Unit: 1},
	KeyA:          {Axis: AxisX, Unit: -1},
	KeyArrowLeft:  {Axis: AxisX, Unit: -1},
	KeyD:          {Axis: AxisX, Unit: 1},
	KeyArrowRight: {Axis: AxisX, Unit: 1},
}

// EventType is the kind of an input Event.
type EventType int

const (
	EventKeyDown EventType = iota
	EventKeyUp
	EventMouseDown
	EventQuit
)

func (t EventType) String() string {
	switch t {
	case EventKeyDown:
		return "KeyDown"
	case EventKeyUp:
		return "KeyUp"
	case EventMouseDown:
		return "MouseDown"
	case EventQuit:
		return "Quit"
	default:
		return "Unknown"
	}
}

// Event is a discrete input transition delivered by a backend.
// Pos is only meaningful for EventMouseDown.
type Event struct {
	Type EventType
	Key  Key
	Pos  geom.Vec2
}

func KeyDown(k Key) Event { return Event{Type: EventKeyDown, Key: k} }
func KeyUp(k Key) Event   { return Event{Type: EventKeyUp, Key: k} }
func Quit() Event         { return Event{Type: EventQuit} }

func MouseDown(x, y float64) Event {
	return Event{Type: EventMouseDown, Pos: geom.V(x, y)}
}
