package world

// Commands buffers structural changes to the active game so that the room
// lists are never modified while a logic frame is iterating them. The buffer
// is flushed once at the end of every frame.
type Commands struct {
	game    *Game
	setGame bool
	deletes []EntityID
	clear   bool
	tiles   []Tile
	spawns  []*Entity
	defers  []func(*Game)
}

// NewCommands creates an empty command buffer.
func NewCommands() *Commands {
	return &Commands{}
}

// SetGame queues switching the active game. A nil game returns to the menu.
func (c *Commands) SetGame(g *Game) {
	c.game = g
	c.setGame = true
}

// Spawn queues adding an entity to the current room.
func (c *Commands) Spawn(e *Entity) {
	c.spawns = append(c.spawns, e)
}

// Delete queues removing an entity from the current room.
func (c *Commands) Delete(id EntityID) {
	c.deletes = append(c.deletes, id)
}

// AddTile queues adding a tile to the current room.
func (c *Commands) AddTile(t Tile) {
	c.tiles = append(c.tiles, t)
}

// ClearTiles queues removing every tile of the current room.
func (c *Commands) ClearTiles() {
	c.clear = true
}

// Defer queues an arbitrary mutation of the game that will be active after
// the structural commands were applied. fn may receive nil.
func (c *Commands) Defer(fn func(*Game)) {
	c.defers = append(c.defers, fn)
}

// Empty reports whether nothing is queued.
func (c *Commands) Empty() bool {
	return !c.setGame && !c.clear && len(c.deletes) == 0 && len(c.tiles) == 0 &&
		len(c.spawns) == 0 && len(c.defers) == 0
}

// Flush applies the queued commands to game and returns the game that is
// active afterwards. Order: game switch, deletes, tile clear, tile adds,
// spawns, deferred functions. Room commands are dropped when no game is
// active. The buffer is reset.
func (c *Commands) Flush(game *Game) *Game {
	if c.setGame {
		game = c.game
	}

	if game != nil && game.Room != nil {
		room := game.Room
		for _, id := range c.deletes {
			room.RemoveEntity(id)
		}
		if c.clear {
			room.ClearTiles()
		}
		for _, t := range c.tiles {
			room.AddTile(t)
		}
		for _, e := range c.spawns {
			room.AddEntity(e)
		}
	}

	for _, fn := range c.defers {
		fn(game)
	}

	c.game = nil
	c.setGame = false
	c.clear = false
	c.deletes = c.deletes[:0]
	c.tiles = c.tiles[:0]
	c.spawns = c.spawns[:0]
	c.defers = c.defers[:0]

	return game
}
