package world

import (
	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/geom"
)

// EntityID is assigned by the Room an entity is added to. IDs are never reused
// within a room.
type EntityID uint64

// Motion is the movable capability: a per-frame move intent (each component
// conceptually -1, 0 or 1) and a speed in pixels per second.
type Motion struct {
	Intent geom.Vec2
	Speed  float64
}

// Sprite is the animated-sprite capability.
type Sprite struct {
	Frames []asset.Handle
}

// UpdateFunc is an optional per-entity hook run after movement is applied.
type UpdateFunc func(e *Entity, dt float64)

// Entity is a thing in a room. Behaviour comes from the capabilities it
// carries: entities without Motion never move or collide, entities without
// Sprite are not drawn.
type Entity struct {
	geom.Transform

	ID     EntityID
	Name   string
	Motion *Motion
	Sprite *Sprite

	// Room is a non-owning back-reference set when the entity is added.
	Room *Room

	OnUpdate UpdateFunc
}

// NewEntity creates an entity centered at (x, y) with size (w, h).
func NewEntity(name string, x, y, w, h float64) *Entity {
	return &Entity{
		Name:      name,
		Transform: geom.NewTransform(x, y, w, h),
	}
}

// WithMotion attaches the movable capability.
func (e *Entity) WithMotion(speed float64) *Entity {
	e.Motion = &Motion{Speed: speed}
	return e
}

// WithSprite attaches the animated-sprite capability.
func (e *Entity) WithSprite(frames ...asset.Handle) *Entity {
	e.Sprite = &Sprite{Frames: frames}
	return e
}

// SetMove assigns the raw move intent. It is a no-op for static entities.
func (e *Entity) SetMove(x, y float64) {
	if e.Motion == nil {
		return
	}
	e.Motion.Intent = geom.V(x, y)
}

func (e *Entity) MoveX() float64 {
	if e.Motion == nil {
		return 0
	}
	return e.Motion.Intent.X
}

func (e *Entity) MoveY() float64 {
	if e.Motion == nil {
		return 0
	}
	return e.Motion.Intent.Y
}

func (e *Entity) SetMoveX(x float64) {
	if e.Motion != nil {
		e.Motion.Intent.X = x
	}
}

func (e *Entity) SetMoveY(y float64) {
	if e.Motion != nil {
		e.Motion.Intent.Y = y
	}
}

// Update advances the entity by dt seconds along its move intent and then
// runs the update hook.
func (e *Entity) Update(dt float64) {
	if e.Motion != nil {
		e.Pos = e.Pos.Add(e.Motion.Intent.Scale(e.Motion.Speed * dt))
	}
	if e.OnUpdate != nil {
		e.OnUpdate(e, dt)
	}
}

// View returns an immutable copy of what a renderer needs.
func (e *Entity) View() EntityView {
	v := EntityView{ID: e.ID, Transform: e.Transform}
	if e.Sprite != nil {
		v.Frames = e.Sprite.Frames
	}
	return v
}

// EntityView is the render-side copy of an entity. Frames aliases the
// entity's frame list, which is never mutated after construction.
type EntityView struct {
	ID        EntityID
	Transform geom.Transform
	Frames    []asset.Handle
}

// PlayerConfig describes the player entity: a starting position and a sprite
// set, nothing more.
type PlayerConfig struct {
	Pos    geom.Vec2
	Size   geom.Vec2
	Speed  float64
	Frames []asset.Handle
	Hook   UpdateFunc
}

// NewPlayer builds the player entity from its configuration.
func NewPlayer(cfg PlayerConfig) *Entity {
	e := NewEntity("player", cfg.Pos.X, cfg.Pos.Y, cfg.Size.X, cfg.Size.Y).
		WithMotion(cfg.Speed)
	if len(cfg.Frames) > 0 {
		e.WithSprite(cfg.Frames...)
	}
	e.OnUpdate = cfg.Hook
	return e
}
