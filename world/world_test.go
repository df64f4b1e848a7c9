package world_test

import (
	"testing"

	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEntity(t *testing.T) {
	t.Run("update moves along intent scaled by speed", func(t *testing.T) {
		e := world.NewEntity("mover", 100, 100, 32, 32).WithMotion(10)
		e.SetMove(1, -1)

		e.Update(0.5)

		assert.Equal(t, geom.V(105, 95), e.Pos)
	})

	t.Run("static entities ignore intent", func(t *testing.T) {
		e := world.NewEntity("rock", 0, 0, 32, 32)
		e.SetMove(1, 1)
		e.Update(1)

		assert.Equal(t, 0.0, e.MoveX())
		assert.Equal(t, geom.V(0, 0), e.Pos)
	})

	t.Run("per axis intent setters", func(t *testing.T) {
		e := world.NewEntity("mover", 0, 0, 32, 32).WithMotion(1)
		e.SetMove(1, 1)
		e.SetMoveX(0)

		assert.Equal(t, 0.0, e.MoveX())
		assert.Equal(t, 1.0, e.MoveY())
	})

	t.Run("update hook runs after movement", func(t *testing.T) {
		var seen float64
		var pos geom.Vec2
		e := world.NewEntity("mover", 0, 0, 32, 32).WithMotion(2)
		e.OnUpdate = func(e *world.Entity, dt float64) {
			seen = dt
			pos = e.Pos
		}
		e.SetMove(1, 0)
		e.Update(0.25)

		assert.Equal(t, 0.25, seen)
		assert.Equal(t, geom.V(0.5, 0), pos)
	})

	t.Run("view copies transform and frames", func(t *testing.T) {
		e := world.NewEntity("sprite", 1, 2, 3, 4).WithSprite(asset.Handle(7), asset.Handle(8))
		v := e.View()
		e.SetPos(10, 10)

		assert.Equal(t, geom.V(1, 2), v.Transform.Pos)
		assert.Equal(t, []asset.Handle{7, 8}, v.Frames)
	})
}

func TestPlayer(t *testing.T) {
	p := world.NewPlayer(world.PlayerConfig{
		Pos:    geom.V(16, 16),
		Size:   geom.V(32, 32),
		Speed:  128,
		Frames: []asset.Handle{1},
	})

	assert.Equal(t, "player", p.Name)
	require.NotNil(t, p.Motion)
	require.NotNil(t, p.Sprite)
	assert.Equal(t, 128.0, p.Motion.Speed)
}

func TestRoom(t *testing.T) {
	t.Run("ids are assigned in order and indexed", func(t *testing.T) {
		r := world.NewRoom("test")
		a := world.NewEntity("a", 0, 0, 1, 1)
		b := world.NewEntity("b", 0, 0, 1, 1)

		ida := r.AddEntity(a)
		idb := r.AddEntity(b)

		assert.Less(t, ida, idb)
		assert.Same(t, r, a.Room)
		got, ok := r.Entity(idb)
		assert.True(t, ok)
		assert.Same(t, b, got)
	})

	t.Run("remove keeps order of the rest", func(t *testing.T) {
		r := world.NewRoom("test")
		ids := make([]world.EntityID, 0, 3)
		for _, name := range []string{"a", "b", "c"} {
			ids = append(ids, r.AddEntity(world.NewEntity(name, 0, 0, 1, 1)))
		}

		assert.True(t, r.RemoveEntity(ids[1]))
		assert.False(t, r.RemoveEntity(ids[1]))

		names := []string{}
		for _, e := range r.Entities() {
			names = append(names, e.Name)
		}
		assert.Equal(t, []string{"a", "c"}, names)
	})

	t.Run("clear empties both lists", func(t *testing.T) {
		r := world.NewRoom("test")
		e := world.NewEntity("a", 0, 0, 1, 1)
		r.AddEntity(e)
		r.AddTile(world.NewTile(0, 0, 32, 0, true))

		r.Clear()

		assert.Empty(t, r.Entities())
		assert.Empty(t, r.Tiles())
		assert.Nil(t, e.Room)
		_, ok := r.Entity(e.ID)
		assert.False(t, ok)
	})
}

func TestCommands(t *testing.T) {
	t.Run("structural changes apply on flush", func(t *testing.T) {
		g := world.NewGame(100, 100, world.PlayerConfig{Size: geom.V(32, 32)})
		g.Room.AddTile(world.NewTile(0, 0, 32, 0, true))

		cmds := world.NewCommands()
		cmds.ClearTiles()
		cmds.AddTile(world.NewTile(64, 64, 32, 0, true))
		cmds.Spawn(world.NewEntity("npc", 0, 0, 32, 32))
		cmds.Delete(g.Player.ID)

		assert.Len(t, g.Room.Tiles(), 1)
		assert.Len(t, g.Room.Entities(), 1)
		assert.False(t, cmds.Empty())

		active := cmds.Flush(g)

		assert.Same(t, g, active)
		require.Len(t, g.Room.Tiles(), 1)
		assert.Equal(t, 64.0, g.Room.Tiles()[0].PosX())
		require.Len(t, g.Room.Entities(), 1)
		assert.Equal(t, "npc", g.Room.Entities()[0].Name)
		assert.True(t, cmds.Empty())
	})

	t.Run("set game switches before room commands", func(t *testing.T) {
		old := world.NewGame(100, 100, world.PlayerConfig{})
		next := world.NewGame(100, 100, world.PlayerConfig{})

		cmds := world.NewCommands()
		cmds.SetGame(next)
		cmds.Spawn(world.NewEntity("npc", 0, 0, 1, 1))

		active := cmds.Flush(old)

		assert.Same(t, next, active)
		assert.Len(t, next.Room.Entities(), 2)
		assert.Len(t, old.Room.Entities(), 1)
	})

	t.Run("room commands without a game are dropped", func(t *testing.T) {
		cmds := world.NewCommands()
		cmds.Spawn(world.NewEntity("npc", 0, 0, 1, 1))

		var deferred bool
		cmds.Defer(func(g *world.Game) {
			deferred = true
			assert.Nil(t, g)
		})

		assert.Nil(t, cmds.Flush(nil))
		assert.True(t, deferred)
	})
}
