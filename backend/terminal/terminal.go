// Package terminal renders frames as colored character cells with tcell.
//
// Terminals only report key presses (and auto-repeats), never releases. A
// held key is therefore reported as released once no repeat has arrived for
// the configured release window.
package terminal

import (
	"errors"
	"fmt"
	"image/color"
	"math"
	"sync"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/render"
)

var ErrClosed = errors.New("terminal backend closed")

type Options struct {
	// CellWidth and CellHeight are the pixel size of one character cell.
	CellWidth  float64
	CellHeight float64
	KeyRelease time.Duration
}

func DefaultOptions() Options {
	return Options{
		CellWidth:  8,
		CellHeight: 16,
		KeyRelease: 500 * time.Millisecond,
	}
}

// Backend is an engine input source and sink backed by a tcell screen.
type Backend struct {
	screen tcell.Screen
	lib    *asset.Library
	opts   Options
	now    func() time.Time

	mu      sync.Mutex
	queue   []input.Event
	held    map[input.Key]time.Time
	pointer geom.Vec2
	buttons tcell.ButtonMask
	closed  bool
	done    chan struct{}
}

// New initializes screen and starts reading its events.
func New(screen tcell.Screen, lib *asset.Library, opts Options) (*Backend, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("init screen: %w", err)
	}
	screen.EnableMouse()
	screen.HideCursor()

	b := newBackend(screen, lib, opts)
	go b.pollEvents()
	return b, nil
}

func newBackend(screen tcell.Screen, lib *asset.Library, opts Options) *Backend {
	def := DefaultOptions()
	if opts.CellWidth <= 0 {
		opts.CellWidth = def.CellWidth
	}
	if opts.CellHeight <= 0 {
		opts.CellHeight = def.CellHeight
	}
	if opts.KeyRelease <= 0 {
		opts.KeyRelease = def.KeyRelease
	}
	return &Backend{
		screen: screen,
		lib:    lib,
		opts:   opts,
		now:    time.Now,
		held:   make(map[input.Key]time.Time),
		done:   make(chan struct{}),
	}
}

func (b *Backend) pollEvents() {
	defer close(b.done)
	for {
		ev := b.screen.PollEvent()
		if ev == nil {
			// screen finalized
			return
		}
		b.handle(ev)
	}
}

func (b *Backend) handle(ev tcell.Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch ev := ev.(type) {
	case *tcell.EventKey:
		if ev.Key() == tcell.KeyCtrlC {
			b.queue = append(b.queue, input.Quit())
			return
		}
		k := translateKey(ev)
		if k == input.KeyNone {
			return
		}
		if _, ok := b.held[k]; !ok {
			b.queue = append(b.queue, input.KeyDown(k))
		}
		b.held[k] = b.now()
	case *tcell.EventMouse:
		x, y := ev.Position()
		b.pointer = geom.V(
			(float64(x)+0.5)*b.opts.CellWidth,
			(float64(y)+0.5)*b.opts.CellHeight,
		)
		buttons := ev.Buttons()
		if buttons&tcell.Button1 != 0 && b.buttons&tcell.Button1 == 0 {
			b.queue = append(b.queue, input.MouseDown(b.pointer.X, b.pointer.Y))
		}
		b.buttons = buttons
	case *tcell.EventResize:
		b.screen.Sync()
	}
}

func translateKey(ev *tcell.EventKey) input.Key {
	switch ev.Key() {
	case tcell.KeyUp:
		return input.KeyArrowUp
	case tcell.KeyDown:
		return input.KeyArrowDown
	case tcell.KeyLeft:
		return input.KeyArrowLeft
	case tcell.KeyRight:
		return input.KeyArrowRight
	case tcell.KeyEscape:
		return input.KeyEscape
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'w', 'W':
			return input.KeyW
		case 'a', 'A':
			return input.KeyA
		case 's', 'S':
			return input.KeyS
		case 'd', 'D':
			return input.KeyD
		}
	}
	return input.KeyNone
}

// Poll returns queued events, followed by releases for keys whose release
// window has passed.
func (b *Backend) Poll() []input.Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	now := b.now()
	for _, k := range releaseOrder {
		seen, ok := b.held[k]
		if ok && now.Sub(seen) >= b.opts.KeyRelease {
			delete(b.held, k)
			b.queue = append(b.queue, input.KeyUp(k))
		}
	}

	out := b.queue
	b.queue = nil
	return out
}

var releaseOrder = []input.Key{
	input.KeyW, input.KeyA, input.KeyS, input.KeyD,
	input.KeyArrowUp, input.KeyArrowLeft, input.KeyArrowDown, input.KeyArrowRight,
	input.KeyEscape,
}

func (b *Backend) Pointer() geom.Vec2 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.pointer
}

func (b *Backend) Present(f *render.Frame) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	for _, cmd := range f.Commands {
		b.draw(cmd)
	}
	b.screen.Show()
	return nil
}

// Close restores the terminal and waits for the event reader to stop.
func (b *Backend) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return ErrClosed
	}
	b.closed = true
	b.mu.Unlock()

	b.screen.Fini()
	select {
	case <-b.done:
	case <-time.After(time.Second):
	}
	return nil
}

func rgb(c color.Color) tcell.Color {
	r, g, bl, _ := c.RGBA()
	return tcell.NewRGBColor(int32(r>>8), int32(g>>8), int32(bl>>8))
}

func (b *Backend) draw(cmd render.Command) {
	switch cmd.Type {
	case render.CmdFill:
		b.screen.Fill(' ', tcell.StyleDefault.Background(rgb(cmd.Color)))
	case render.CmdRect:
		style := tcell.StyleDefault.Background(rgb(cmd.Color))
		b.fill(cmd.Box.Pos, cmd.Box.Size, func(x, y int) {
			b.screen.SetContent(x, y, ' ', nil, style)
		})
	case render.CmdSprite:
		if b.lib == nil {
			return
		}
		c, ok := b.lib.Average(cmd.Image)
		if !ok {
			return
		}
		style := tcell.StyleDefault.Foreground(rgb(c))
		b.fill(cmd.Box.Min(), cmd.Box.Size, func(x, y int) {
			b.screen.SetContent(x, y, '█', nil, style)
		})
	case render.CmdText:
		b.text(cmd)
	}
}

func (b *Backend) fill(tl, size geom.Vec2, set func(x, y int)) {
	cols, rows := b.screen.Size()
	x0, x1 := cellSpan(tl.X, size.X, b.opts.CellWidth, cols)
	y0, y1 := cellSpan(tl.Y, size.Y, b.opts.CellHeight, rows)
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			set(x, y)
		}
	}
}

// text writes a single line starting at the top-left cell of the box,
// clipped to the box width. Cell backgrounds are kept.
func (b *Backend) text(cmd render.Command) {
	cols, rows := b.screen.Size()
	x0, x1 := cellSpan(cmd.Box.Pos.X, cmd.Box.Size.X, b.opts.CellWidth, cols)
	y := int(math.Floor(cmd.Box.Pos.Y / b.opts.CellHeight))
	if y < 0 || y >= rows {
		return
	}
	fg := rgb(cmd.Color)
	x := x0
	for _, r := range cmd.Text {
		if x >= x1 {
			return
		}
		_, _, style, _ := b.screen.GetContent(x, y)
		b.screen.SetContent(x, y, r, nil, style.Foreground(fg))
		x++
	}
}

// cellSpan converts a pixel interval into the half-open range of cells it
// touches, clamped to [0, limit).
func cellSpan(pos, size, cell float64, limit int) (lo, hi int) {
	lo = int(math.Floor(pos / cell))
	hi = int(math.Ceil((pos + size) / cell))
	if lo < 0 {
		lo = 0
	}
	if lo > limit {
		lo = limit
	}
	if hi > limit {
		hi = limit
	}
	if hi < lo {
		hi = lo
	}
	return lo, hi
}
