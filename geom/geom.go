// Package geom holds the small vector and box types shared by the runtime.
package geom

// Vec2 is a two component float vector used for positions, sizes and intents.
type Vec2 struct {
	X float64
	Y float64
}

// V is shorthand for constructing a Vec2.
func V(x, y float64) Vec2 {
	return Vec2{X: x, Y: y}
}

func (v Vec2) Add(o Vec2) Vec2 {
	return Vec2{X: v.X + o.X, Y: v.Y + o.Y}
}

func (v Vec2) Sub(o Vec2) Vec2 {
	return Vec2{X: v.X - o.X, Y: v.Y - o.Y}
}

func (v Vec2) Scale(s float64) Vec2 {
	return Vec2{X: v.X * s, Y: v.Y * s}
}

// Transform is an axis-aligned box centered on Pos.
type Transform struct {
	Pos  Vec2
	Size Vec2
}

// NewTransform creates a transform centered at (x, y) with size (w, h).
func NewTransform(x, y, w, h float64) Transform {
	return Transform{Pos: Vec2{X: x, Y: y}, Size: Vec2{X: w, Y: h}}
}

func (t *Transform) PosX() float64  { return t.Pos.X }
func (t *Transform) PosY() float64  { return t.Pos.Y }
func (t *Transform) SizeX() float64 { return t.Size.X }
func (t *Transform) SizeY() float64 { return t.Size.Y }

func (t *Transform) SetPosX(x float64)  { t.Pos.X = x }
func (t *Transform) SetPosY(y float64)  { t.Pos.Y = y }
func (t *Transform) SetSizeX(w float64) { t.Size.X = w }
func (t *Transform) SetSizeY(h float64) { t.Size.Y = h }

// SetPos moves the center of the box.
func (t *Transform) SetPos(x, y float64) {
	t.Pos = Vec2{X: x, Y: y}
}

// SetSize resizes the box around its center.
func (t *Transform) SetSize(w, h float64) {
	t.Size = Vec2{X: w, Y: h}
}

// Min returns the top-left corner.
func (t Transform) Min() Vec2 {
	return Vec2{X: t.Pos.X - t.Size.X*0.5, Y: t.Pos.Y - t.Size.Y*0.5}
}

// Max returns the bottom-right corner.
func (t Transform) Max() Vec2 {
	return Vec2{X: t.Pos.X + t.Size.X*0.5, Y: t.Pos.Y + t.Size.Y*0.5}
}
