// Package collision keeps moving entities from advancing into blocking tiles
// by zeroing components of their move intent, one axis at a time.
package collision

import (
	"math"

	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/world"
)

// Axes records which intent components a resolution zeroed.
type Axes struct {
	X bool
	Y bool
}

// Any reports whether at least one axis was zeroed.
func (a Axes) Any() bool {
	return a.X || a.Y
}

// OverlapsX reports whether two centered boxes overlap horizontally.
// Touching edges do not overlap.
func OverlapsX(a, b geom.Transform) bool {
	return math.Abs(a.Pos.X-b.Pos.X) < math.Abs(a.Size.X*0.5+b.Size.X*0.5)
}

// OverlapsY reports whether two centered boxes overlap vertically.
func OverlapsY(a, b geom.Transform) bool {
	return math.Abs(a.Pos.Y-b.Pos.Y) < math.Abs(a.Size.Y*0.5+b.Size.Y*0.5)
}

// Overlaps is the full 2D test.
func Overlaps(a, b geom.Transform) bool {
	return OverlapsX(a, b) && OverlapsY(a, b)
}

// direction is 1 when the tile lies ahead on the positive side, 0 otherwise.
// It is a direction flag, not a sign: an entity moving -1 never matches it.
func direction(d float64) float64 {
	if d > 0 {
		return 1
	}
	return 0
}

// Resolve tests one entity against one tile and zeroes the blocked intent
// components. Non-blocking tiles and entities without Motion are ignored.
//
// Resolution only triggers when the boxes overlap on both axes. On overlap an
// axis is zeroed when the entity moves toward the tile's direction flag on
// that axis and the two separation components differ; equal separations
// (exact diagonals) zero nothing.
func Resolve(e *world.Entity, t world.Tile) Axes {
	var out Axes
	if !t.Blocking || e.Motion == nil {
		return out
	}

	dx := t.Pos.X - e.Pos.X
	dy := t.Pos.Y - e.Pos.Y
	xDir := direction(dx)
	yDir := direction(dy)

	if !Overlaps(e.Transform, t.Transform) {
		return out
	}

	if dx == dy {
		return out
	}
	// A zero flag only matches an already-zero intent, so it never changes
	// anything and is not reported.
	if xDir != 0 && e.MoveX() == xDir {
		e.SetMoveX(0)
		out.X = true
	}
	if yDir != 0 && e.MoveY() == yDir {
		e.SetMoveY(0)
		out.Y = true
	}
	return out
}

// ResolveRoom runs Resolve for every entity against every tile of the room
// in list order. It returns the number of entity/tile pairs that zeroed at
// least one axis.
func ResolveRoom(r *world.Room) int {
	hits := 0
	tiles := r.Tiles()
	for _, e := range r.Entities() {
		for _, t := range tiles {
			if Resolve(e, t).Any() {
				hits++
			}
		}
	}
	return hits
}
