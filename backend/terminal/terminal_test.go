package terminal

import (
	"image"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func simScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(cols, rows)
	return s
}

type clock struct{ t time.Time }

func (c *clock) now() time.Time { return c.t }

func TestKeyRelease(t *testing.T) {
	c := &clock{t: time.Unix(0, 0)}
	b := newBackend(simScreen(t, 10, 10), nil, Options{KeyRelease: 100 * time.Millisecond})
	b.now = c.now

	b.handle(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone))
	assert.Equal(t, []input.Event{input.KeyDown(input.KeyD)}, b.Poll())

	// auto-repeat keeps the key held without new presses
	c.t = c.t.Add(80 * time.Millisecond)
	b.handle(tcell.NewEventKey(tcell.KeyRune, 'd', tcell.ModNone))
	c.t = c.t.Add(80 * time.Millisecond)
	assert.Empty(t, b.Poll())

	c.t = c.t.Add(20 * time.Millisecond)
	assert.Equal(t, []input.Event{input.KeyUp(input.KeyD)}, b.Poll())
	assert.Empty(t, b.Poll())
}

func TestHandle(t *testing.T) {
	t.Run("keys", func(t *testing.T) {
		b := newBackend(simScreen(t, 10, 10), nil, DefaultOptions())

		b.handle(tcell.NewEventKey(tcell.KeyUp, 0, tcell.ModNone))
		b.handle(tcell.NewEventKey(tcell.KeyRune, 'W', tcell.ModNone))
		b.handle(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone))
		b.handle(tcell.NewEventKey(tcell.KeyEscape, 0, tcell.ModNone))
		b.handle(tcell.NewEventKey(tcell.KeyCtrlC, 0, tcell.ModCtrl))

		assert.Equal(t, []input.Event{
			input.KeyDown(input.KeyArrowUp),
			input.KeyDown(input.KeyW),
			input.KeyDown(input.KeyEscape),
			input.Quit(),
		}, b.Poll())
	})

	t.Run("mouse", func(t *testing.T) {
		b := newBackend(simScreen(t, 10, 10), nil, DefaultOptions())

		b.handle(tcell.NewEventMouse(2, 3, tcell.ButtonNone, tcell.ModNone))
		assert.Equal(t, geom.V(20, 56), b.Pointer())

		b.handle(tcell.NewEventMouse(2, 3, tcell.Button1, tcell.ModNone))
		b.handle(tcell.NewEventMouse(3, 3, tcell.Button1, tcell.ModNone))
		b.handle(tcell.NewEventMouse(3, 3, tcell.ButtonNone, tcell.ModNone))

		assert.Equal(t, []input.Event{input.MouseDown(20, 56)}, b.Poll())
	})
}

func TestPresent(t *testing.T) {
	screen := simScreen(t, 10, 4)
	lib := asset.NewLibrary(nil)
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{0, 0xff, 0, 0xff})
		}
	}
	grass := lib.Add("grass", img)
	b := newBackend(screen, lib, DefaultOptions())

	red := color.RGBA{0xff, 0, 0, 0xff}
	white := color.RGBA{0xff, 0xff, 0xff, 0xff}
	f := &render.Frame{Commands: []render.Command{
		{Type: render.CmdFill, Color: color.RGBA{0, 0, 0, 0xff}},
		{Type: render.CmdSprite, Box: geom.NewTransform(8, 8, 16, 16), Image: grass},
		{Type: render.CmdRect, Box: geom.Transform{Pos: geom.V(32, 32), Size: geom.V(24, 16)}, Color: red},
		{Type: render.CmdText, Box: geom.Transform{Pos: geom.V(32, 32), Size: geom.V(16, 16)}, Color: white, Text: "hey"},
	}}
	require.NoError(t, b.Present(f))

	cells, cols, _ := screen.GetContents()
	at := func(x, y int) tcell.SimCell { return cells[y*cols+x] }

	fg, _, _ := at(0, 0).Style.Decompose()
	assert.Equal(t, []rune("█"), at(0, 0).Runes)
	assert.Equal(t, tcell.NewRGBColor(0, 0xff, 0), fg)
	assert.Equal(t, []rune("█"), at(1, 0).Runes)

	// text is clipped to its two-cell box and keeps the rect background
	fg, bg, _ := at(4, 2).Style.Decompose()
	assert.Equal(t, []rune("h"), at(4, 2).Runes)
	assert.Equal(t, tcell.NewRGBColor(0xff, 0xff, 0xff), fg)
	assert.Equal(t, tcell.NewRGBColor(0xff, 0, 0), bg)
	assert.Equal(t, []rune("e"), at(5, 2).Runes)
	assert.Equal(t, []rune(" "), at(6, 2).Runes)
	_, bg, _ = at(6, 2).Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0xff, 0, 0), bg)
}

func TestClose(t *testing.T) {
	screen := tcell.NewSimulationScreen("UTF-8")
	b, err := New(screen, nil, DefaultOptions())
	require.NoError(t, err)

	require.NoError(t, b.Close())
	assert.ErrorIs(t, b.Close(), ErrClosed)
	assert.ErrorIs(t, b.Present(&render.Frame{}), ErrClosed)
}

func TestCellSpan(t *testing.T) {
	cases := []struct {
		pos, size float64
		lo, hi    int
	}{
		{0, 16, 0, 2},
		{4, 8, 0, 2},
		{-20, 30, 0, 2},
		{70, 20, 8, 10},
		{200, 8, 10, 10},
	}
	for _, tc := range cases {
		lo, hi := cellSpan(tc.pos, tc.size, 8, 10)
		assert.Equal(t, tc.lo, lo, "pos %v size %v", tc.pos, tc.size)
		assert.Equal(t, tc.hi, hi, "pos %v size %v", tc.pos, tc.size)
	}
}
