// Package world holds the game area model: entities, tiles, rooms and the
// deferred commands that mutate them between logic frames.
package world

import (
	"github.com/kamstrup/intmap"
	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/geom"
)

// Tile is a static cell of a room. Only blocking tiles take part in
// collision resolution.
type Tile struct {
	geom.Transform

	Blocking bool
	Image    asset.Handle
}

// NewTile creates a tile centered at (x, y).
func NewTile(x, y, size float64, img asset.Handle, blocking bool) Tile {
	return Tile{
		Transform: geom.NewTransform(x, y, size, size),
		Blocking:  blocking,
		Image:     img,
	}
}

// Room owns the tiles and entities of one game area. Both lists keep
// insertion order, which is also the collision and draw order.
type Room struct {
	Name string

	tiles    []Tile
	entities []*Entity
	index    *intmap.Map[EntityID, *Entity]
	nextID   EntityID
}

// NewRoom creates an empty room.
func NewRoom(name string) *Room {
	return &Room{
		Name:  name,
		index: intmap.New[EntityID, *Entity](64),
	}
}

// AddTile appends a tile.
func (r *Room) AddTile(t Tile) {
	r.tiles = append(r.tiles, t)
}

// AddEntity appends an entity, assigns its ID and sets its room reference.
func (r *Room) AddEntity(e *Entity) EntityID {
	r.nextID++
	e.ID = r.nextID
	e.Room = r
	r.entities = append(r.entities, e)
	r.index.Put(e.ID, e)
	return e.ID
}

// RemoveEntity drops the entity with the given ID. Returns false if it is not
// in this room.
func (r *Room) RemoveEntity(id EntityID) bool {
	e, ok := r.index.Get(id)
	if !ok {
		return false
	}
	r.index.Del(id)
	for i, cur := range r.entities {
		if cur == e {
			r.entities = append(r.entities[:i], r.entities[i+1:]...)
			break
		}
	}
	e.Room = nil
	return true
}

// Entity looks an entity up by ID.
func (r *Room) Entity(id EntityID) (*Entity, bool) {
	return r.index.Get(id)
}

// Tiles returns the tile list. Callers must not append to it.
func (r *Room) Tiles() []Tile {
	return r.tiles
}

// Entities returns the entity list. Callers must not append to it.
func (r *Room) Entities() []*Entity {
	return r.entities
}

// ClearTiles removes every tile.
func (r *Room) ClearTiles() {
	r.tiles = r.tiles[:0]
}

// Clear tears the room down by emptying both lists.
func (r *Room) Clear() {
	for _, e := range r.entities {
		e.Room = nil
	}
	r.tiles = nil
	r.entities = nil
	r.index.Clear()
}

// Game is one active play session: a current room and the player in it.
type Game struct {
	Width  float64
	Height float64
	Room   *Room
	Player *Entity
}

// NewGame creates a game with an empty room and places the player in it.
func NewGame(width, height float64, player PlayerConfig) *Game {
	room := NewRoom("start")
	p := NewPlayer(player)
	room.AddEntity(p)
	return &Game{
		Width:  width,
		Height: height,
		Room:   room,
		Player: p,
	}
}
