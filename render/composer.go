package render

import (
	"image/color"

	"github.com/kamstrup/intmap"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/ui"
	"github.com/plus3/roomloop/world"
)

// Animator tracks the current animation frame of each entity. It belongs to
// the draw loop, so animation speed follows the render rate.
type Animator struct {
	cursors *intmap.Map[world.EntityID, int]
}

func NewAnimator() *Animator {
	return &Animator{cursors: intmap.New[world.EntityID, int](64)}
}

// Next returns the frame index to draw for the entity and advances it.
func (a *Animator) Next(id world.EntityID, frames int) int {
	if frames <= 0 {
		return 0
	}
	cur, _ := a.cursors.Get(id)
	cur %= frames
	a.cursors.Put(id, (cur+1)%frames)
	return cur
}

// Prune forgets entities that are no longer in the scene.
func (a *Animator) Prune(live []world.EntityView) {
	if a.cursors.Len() <= len(live) {
		return
	}
	next := intmap.New[world.EntityID, int](len(live))
	for _, e := range live {
		if cur, ok := a.cursors.Get(e.ID); ok {
			next.Put(e.ID, cur)
		}
	}
	a.cursors = next
}

// Len returns the number of tracked entities.
func (a *Animator) Len() int {
	return a.cursors.Len()
}

// Composer builds frames from scenes. Not safe for concurrent use.
type Composer struct {
	Background color.RGBA

	anim   *Animator
	number uint64
}

func NewComposer(background color.RGBA) *Composer {
	return &Composer{Background: background, anim: NewAnimator()}
}

// Compose draws the background, tiles, entities (advancing each animation by
// one frame) and visible UI. A nil scene yields just the background.
func (c *Composer) Compose(s *Scene) *Frame {
	c.number++
	f := &Frame{Number: c.number}
	f.Commands = append(f.Commands, Command{Type: CmdFill, Color: c.Background})
	if s == nil {
		return f
	}

	if s.HasGame {
		for _, t := range s.Tiles {
			f.Commands = append(f.Commands, Command{Type: CmdSprite, Box: t.Transform, Image: t.Image})
		}
		for _, e := range s.Entities {
			if len(e.Frames) == 0 {
				continue
			}
			idx := c.anim.Next(e.ID, len(e.Frames))
			f.Commands = append(f.Commands, Command{
				Type:  CmdSprite,
				Box:   e.Transform,
				Image: e.Frames[idx],
				Frame: idx,
			})
		}
		c.anim.Prune(s.Entities)
	}

	for _, v := range s.UI {
		f.Commands = appendUI(f.Commands, v)
	}
	return f
}

// appendUI emits the fill rectangle, the four border strips, the optional
// image and the optional text of a component.
func appendUI(cmds []Command, v ui.View) []Command {
	tl := v.Transform.Min()
	w, h := v.Transform.Size.X, v.Transform.Size.Y
	b := v.BorderSize

	rect := func(x, y, w, h float64, c color.RGBA) Command {
		return Command{Type: CmdRect, Box: geom.Transform{Pos: geom.V(x, y), Size: geom.V(w, h)}, Color: c}
	}

	cmds = append(cmds, rect(tl.X, tl.Y, w, h, v.Color))
	if b > 0 {
		cmds = append(cmds,
			rect(tl.X, tl.Y, w, b, v.BorderColor),
			rect(tl.X, tl.Y+h-b, w, b, v.BorderColor),
			rect(tl.X, tl.Y, b, h, v.BorderColor),
			rect(tl.X+w-b, tl.Y, b, h, v.BorderColor),
		)
	}
	if v.Image.Valid() {
		cmds = append(cmds, Command{Type: CmdSprite, Box: v.Transform, Image: v.Image})
	}
	if v.Text != "" {
		cmds = append(cmds, Command{
			Type:  CmdText,
			Box:   geom.Transform{Pos: geom.V(tl.X+b+2, tl.Y+b+2), Size: geom.V(w-2*b-4, h-2*b-4)},
			Color: v.TextColor,
			Text:  v.Text,
		})
	}
	return cmds
}
