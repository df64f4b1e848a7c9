package engine_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/backend/headless"
	"github.com/plus3/roomloop/engine"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/render"
	"github.com/plus3/roomloop/ui"
	"github.com/plus3/roomloop/world"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func newGame(x, y float64) *world.Game {
	return world.NewGame(640, 480, world.PlayerConfig{
		Pos:    geom.V(x, y),
		Size:   geom.V(32, 32),
		Speed:  100,
		Frames: []asset.Handle{1},
	})
}

func newProgram(t *testing.T, cfg engine.Config, opts ...engine.Option) *engine.Program {
	t.Helper()
	opts = append([]engine.Option{engine.WithLogger(zaptest.NewLogger(t))}, opts...)
	p, err := engine.New(cfg, opts...)
	require.NoError(t, err)
	return p
}

func TestNew(t *testing.T) {
	t.Run("rejects negative rates", func(t *testing.T) {
		cfg := engine.DefaultConfig()
		cfg.LogicRate = -1
		_, err := engine.New(cfg)
		assert.Error(t, err)

		cfg = engine.DefaultConfig()
		cfg.DrawRate = -1
		_, err = engine.New(cfg)
		assert.Error(t, err)
	})

	t.Run("publishes an initial snapshot without running", func(t *testing.T) {
		p := newProgram(t, engine.DefaultConfig())

		require.NotNil(t, p.Scene())
		assert.False(t, p.Scene().HasGame)
		assert.False(t, p.Running())
	})
}

func TestStep(t *testing.T) {
	t.Run("held key moves the player", func(t *testing.T) {
		g := newGame(16, 16)
		p := newProgram(t, engine.DefaultConfig(), engine.WithGame(g))
		b := headless.New()

		b.Push(input.KeyDown(input.KeyD))
		p.Step(0.1, b)
		assert.InDelta(t, 26, g.Player.PosX(), 1e-9)

		b.Push(input.KeyUp(input.KeyD))
		p.Step(0.1, b)
		assert.InDelta(t, 26, g.Player.PosX(), 1e-9)

		s := p.Scene()
		require.Len(t, s.Entities, 1)
		assert.InDelta(t, 26, s.Entities[0].Transform.Pos.X, 1e-9)
	})

	t.Run("blocking tile stops movement into it", func(t *testing.T) {
		g := newGame(34, 16)
		g.Room.AddTile(world.NewTile(64, 16, 32, 0, true))
		p := newProgram(t, engine.DefaultConfig(), engine.WithGame(g))
		b := headless.New()

		b.Push(input.KeyDown(input.KeyD))
		p.Step(0.1, b)
		assert.InDelta(t, 34, g.Player.PosX(), 1e-9)
		assert.Equal(t, int64(1), p.Stats().Collisions)

		// collision zeroing lasts one frame; intent is restored and
		// re-evaluated each iteration
		b.Push(input.KeyUp(input.KeyD), input.KeyDown(input.KeyS))
		p.Step(0.1, b)
		assert.InDelta(t, 34, g.Player.PosX(), 1e-9)
		assert.InDelta(t, 26, g.Player.PosY(), 1e-9)
	})

	t.Run("legacy accumulator reproduces the opposite key release", func(t *testing.T) {
		g := newGame(100, 100)
		p := newProgram(t, engine.DefaultConfig(),
			engine.WithGame(g),
			engine.WithAccumulator(input.NewLegacy(input.DefaultBindings)),
		)
		b := headless.New()

		b.Push(input.KeyDown(input.KeyW), input.KeyDown(input.KeyS), input.KeyUp(input.KeyW))
		p.Step(0.1, b)
		assert.InDelta(t, 90, g.Player.PosY(), 1e-9)
	})

	t.Run("default accumulator keeps the held key", func(t *testing.T) {
		g := newGame(100, 100)
		p := newProgram(t, engine.DefaultConfig(), engine.WithGame(g))
		b := headless.New()

		b.Push(input.KeyDown(input.KeyW), input.KeyDown(input.KeyS), input.KeyUp(input.KeyW))
		p.Step(0.1, b)
		assert.InDelta(t, 110, g.Player.PosY(), 1e-9)
	})

	t.Run("mouse down clicks the topmost component", func(t *testing.T) {
		var clicked []string
		mk := func(name string) *ui.Component {
			c := ui.NewComponent(name, 100, 100, 50, 50)
			c.SetVisible(true)
			c.OnClick = func(c *ui.Component) { clicked = append(clicked, c.Name) }
			return c
		}
		p := newProgram(t, engine.DefaultConfig(), engine.WithUI(mk("a"), mk("b")))
		b := headless.New()

		b.Push(input.MouseDown(100, 100))
		p.Step(0.01, b)
		assert.Equal(t, []string{"b"}, clicked)
	})

	t.Run("pointer drives hover", func(t *testing.T) {
		var hovered []string
		c := ui.NewComponent("panel", 100, 100, 50, 50)
		c.SetVisible(true)
		c.OnHoverBegin = func(c *ui.Component) { hovered = append(hovered, "begin") }
		c.OnHoverEnd = func(c *ui.Component) { hovered = append(hovered, "end") }
		p := newProgram(t, engine.DefaultConfig(), engine.WithUI(c))
		b := headless.New()

		b.MovePointer(100, 100)
		p.Step(0.01, b)
		b.MovePointer(300, 300)
		p.Step(0.01, b)
		assert.Equal(t, []string{"begin", "end"}, hovered)
		assert.Nil(t, p.Layer().Hovered())
	})

	t.Run("menu mode and game switch", func(t *testing.T) {
		p := newProgram(t, engine.DefaultConfig())
		b := headless.New()

		b.Push(input.KeyDown(input.KeyD))
		p.Step(0.1, b)
		assert.Nil(t, p.Game())
		assert.False(t, p.Scene().HasGame)

		g := newGame(16, 16)
		require.NoError(t, p.SetGame(g))
		p.Step(0.1, b)
		assert.Same(t, g, p.Game())
		assert.True(t, p.Scene().HasGame)

		// the switch lands at the end of the iteration, so the held key
		// moves the player from the next one on
		assert.InDelta(t, 16, g.Player.PosX(), 1e-9)
		p.Step(0.1, b)
		assert.InDelta(t, 26, g.Player.PosX(), 1e-9)

		require.NoError(t, p.SetGame(nil))
		p.Step(0.1, b)
		assert.Nil(t, p.Game())
	})

	t.Run("extra systems queue commands", func(t *testing.T) {
		g := newGame(16, 16)
		spawner := systemFunc(func(f *engine.UpdateFrame) {
			if len(f.Game.Room.Entities()) == 1 {
				f.Commands.Spawn(world.NewEntity("crate", 200, 200, 32, 32))
			}
		})
		p := newProgram(t, engine.DefaultConfig(), engine.WithGame(g), engine.WithSystem(spawner))
		b := headless.New()

		p.Step(0.1, b)
		p.Step(0.1, b)
		assert.Len(t, g.Room.Entities(), 2)
		assert.Len(t, p.Scene().Entities, 2)

		stats := p.Stats()
		require.Equal(t, 6, stats.Scheduler.SystemCount)
		assert.Equal(t, "EventSystem", stats.Scheduler.Systems[0].Name)
		assert.Equal(t, int64(2), stats.Scheduler.Systems[5].ExecutionCount)
		assert.Equal(t, uint64(2), stats.Logic.Iterations)
	})
}

func TestDo(t *testing.T) {
	cfg := engine.DefaultConfig()
	cfg.RequestBuffer = 1
	g := newGame(16, 16)
	p := newProgram(t, cfg, engine.WithGame(g))

	require.NoError(t, p.Do(func(c *world.Commands) {
		c.AddTile(world.NewTile(300, 300, 32, 0, true))
	}))
	assert.ErrorIs(t, p.Do(func(*world.Commands) {}), engine.ErrQueueFull)

	p.Step(0.01, headless.New())
	assert.Len(t, g.Room.Tiles(), 1)
	assert.NoError(t, p.Do(func(*world.Commands) {}))
}

func TestRun(t *testing.T) {
	fast := engine.DefaultConfig()
	fast.LogicRate = 1000
	fast.DrawRate = 0

	t.Run("quit event stops both loops and closes the sink last", func(t *testing.T) {
		p := newProgram(t, fast, engine.WithGame(newGame(16, 16)))
		b := headless.New()
		b.OnPresent = func(*render.Frame) error {
			time.Sleep(time.Millisecond)
			return nil
		}
		b.Schedule(20, input.Quit())

		require.NoError(t, p.Run(context.Background(), b, b))

		assert.False(t, p.Running())
		assert.True(t, b.Closed())
		overlapping, late := b.Violations()
		assert.Zero(t, overlapping)
		assert.Zero(t, late)
		assert.GreaterOrEqual(t, b.Polls(), uint64(20))
		assert.Positive(t, b.Frames())
	})

	t.Run("escape quits", func(t *testing.T) {
		p := newProgram(t, fast)
		b := headless.New()
		b.Schedule(5, input.KeyDown(input.KeyEscape))

		require.NoError(t, p.Run(context.Background(), b, b))
		assert.True(t, b.Closed())
	})

	t.Run("context cancellation is a clean stop", func(t *testing.T) {
		p := newProgram(t, fast)
		b := headless.New()
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
		defer cancel()

		require.NoError(t, p.Run(ctx, b, b))
		assert.True(t, b.Closed())
	})

	t.Run("present failure stops the program", func(t *testing.T) {
		p := newProgram(t, fast)
		b := headless.New()
		boom := errors.New("device lost")
		b.OnPresent = func(*render.Frame) error { return boom }

		err := p.Run(context.Background(), b, b)
		assert.ErrorIs(t, err, boom)
		assert.True(t, b.Closed())
		assert.False(t, p.Running())
	})

	t.Run("second run while running is rejected", func(t *testing.T) {
		p := newProgram(t, fast)
		b := headless.New()
		var nested error
		b.OnPresent = func(*render.Frame) error {
			nested = p.Run(context.Background(), headless.New(), headless.New())
			p.Stop()
			return nil
		}

		require.NoError(t, p.Run(context.Background(), b, b))
		assert.ErrorIs(t, nested, engine.ErrAlreadyRunning)
	})
}

type systemFunc func(f *engine.UpdateFrame)

func (s systemFunc) Execute(f *engine.UpdateFrame) { s(f) }
