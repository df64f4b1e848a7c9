// Package render turns scene snapshots into per-frame draw command lists.
// Backends replay the commands onto their own surface.
package render

import (
	"image/color"

	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/ui"
	"github.com/plus3/roomloop/world"
)

// CommandType selects which fields of a Command are meaningful.
type CommandType int

const (
	CmdFill CommandType = iota
	CmdSprite
	CmdRect
	CmdText
)

func (t CommandType) String() string {
	switch t {
	case CmdFill:
		return "Fill"
	case CmdSprite:
		return "Sprite"
	case CmdRect:
		return "Rect"
	case CmdText:
		return "Text"
	default:
		return "Unknown"
	}
}

// Command is one draw instruction.
//
//   - Fill: Color
//   - Sprite: Image, Box, Frame
//   - Rect: Box (top-left origin in Box.Pos, size in Box.Size), Color
//   - Text: Text, Box.Pos as top-left anchor, Color
type Command struct {
	Type  CommandType
	Box   geom.Transform
	Color color.RGBA
	Image asset.Handle
	Frame int
	Text  string
}

// Frame is a complete list of draw commands for one presented image.
type Frame struct {
	Number   uint64
	Commands []Command
}

// Count returns the number of commands of type t.
func (f *Frame) Count(t CommandType) int {
	n := 0
	for _, c := range f.Commands {
		if c.Type == t {
			n++
		}
	}
	return n
}

// Scene is the immutable snapshot the logic loop publishes for the draw loop.
// HasGame is false in menu mode; tiles and entities are then empty.
type Scene struct {
	Sequence uint64
	HasGame  bool
	Tiles    []world.Tile
	Entities []world.EntityView
	UI       []ui.View
}

// Snapshot copies everything the draw loop needs from the logic-owned state.
func Snapshot(seq uint64, game *world.Game, layer *ui.Layer) *Scene {
	s := &Scene{Sequence: seq}
	if game != nil && game.Room != nil {
		s.HasGame = true
		s.Tiles = append([]world.Tile(nil), game.Room.Tiles()...)
		entities := game.Room.Entities()
		s.Entities = make([]world.EntityView, len(entities))
		for i, e := range entities {
			s.Entities[i] = e.View()
		}
	}
	if layer != nil {
		s.UI = layer.Views()
	}
	return s
}
