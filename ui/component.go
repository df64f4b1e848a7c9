// Package ui implements the clickable and hoverable widget layer drawn on top
// of the game.
package ui

import (
	"image/color"

	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/geom"
)

var (
	DefaultColor       = color.RGBA{0x30, 0x30, 0x30, 0xff}
	DefaultBorderColor = color.RGBA{0xff, 0xff, 0xff, 0xff}
	DefaultTextColor   = color.RGBA{0xff, 0xff, 0xff, 0xff}
)

// Component is a rectangular widget centered on its position. Components live
// for the whole process.
type Component struct {
	geom.Transform

	Name        string
	Visible     bool
	Color       color.RGBA
	BorderSize  float64
	BorderColor color.RGBA
	Text        string
	TextColor   color.RGBA
	Image       asset.Handle

	OnClick      func(c *Component)
	OnHoverBegin func(c *Component)
	OnHoverEnd   func(c *Component)
}

// NewComponent creates a hidden component with default colors.
func NewComponent(name string, x, y, w, h float64) *Component {
	return &Component{
		Transform:   geom.NewTransform(x, y, w, h),
		Name:        name,
		Color:       DefaultColor,
		BorderColor: DefaultBorderColor,
		TextColor:   DefaultTextColor,
	}
}

func (c *Component) SetVisible(v bool) { c.Visible = v }
func (c *Component) IsVisible() bool   { return c.Visible }

func (c *Component) click() {
	if c.OnClick != nil {
		c.OnClick(c)
	}
}

func (c *Component) hoverBegin() {
	if c.OnHoverBegin != nil {
		c.OnHoverBegin(c)
	}
}

func (c *Component) hoverEnd() {
	if c.OnHoverEnd != nil {
		c.OnHoverEnd(c)
	}
}

// View returns the render-side copy of the component.
func (c *Component) View() View {
	return View{
		Name:        c.Name,
		Transform:   c.Transform,
		Color:       c.Color,
		BorderSize:  c.BorderSize,
		BorderColor: c.BorderColor,
		Text:        c.Text,
		TextColor:   c.TextColor,
		Image:       c.Image,
	}
}

// View is an immutable snapshot of a visible component.
type View struct {
	Name        string
	Transform   geom.Transform
	Color       color.RGBA
	BorderSize  float64
	BorderColor color.RGBA
	Text        string
	TextColor   color.RGBA
	Image       asset.Handle
}

// HitTest reports whether p lies inside the component box. The far edge is
// inclusive and the near edge exclusive on both axes, so a pixel on a shared
// border belongs to exactly one of two adjacent components.
func HitTest(p geom.Vec2, t geom.Transform) bool {
	halfW := t.Size.X * 0.5
	halfH := t.Size.Y * 0.5
	inX := p.X <= t.Pos.X+halfW && p.X > t.Pos.X-halfW
	inY := p.Y <= t.Pos.Y+halfH && p.Y > t.Pos.Y-halfH
	return inX && inY
}
