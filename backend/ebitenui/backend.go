// Package ebitenui presents frames in an ebiten window and feeds keyboard,
// mouse and window-close input back to the program.
package ebitenui

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"sync"
	"sync/atomic"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/debugui"
	"github.com/plus3/roomloop/geom"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/render"
	"go.uber.org/zap"
	"golang.org/x/image/font/gofont/goregular"
)

var ErrClosed = errors.New("ebiten backend closed")

const eventBuffer = 256

var keyMap = map[ebiten.Key]input.Key{
	ebiten.KeyW:          input.KeyW,
	ebiten.KeyA:          input.KeyA,
	ebiten.KeyS:          input.KeyS,
	ebiten.KeyD:          input.KeyD,
	ebiten.KeyArrowUp:    input.KeyArrowUp,
	ebiten.KeyArrowLeft:  input.KeyArrowLeft,
	ebiten.KeyArrowDown:  input.KeyArrowDown,
	ebiten.KeyArrowRight: input.KeyArrowRight,
	ebiten.KeyEscape:     input.KeyEscape,
}

type Options struct {
	Title  string
	Width  int
	Height int
	// Icon is the window icon. The zero handle keeps the default.
	Icon     asset.Handle
	FontSize float64
	// Overlay, when set, is drawn on top of every frame. Mouse clicks it
	// captures are not forwarded.
	Overlay *debugui.Overlay
}

// Backend implements ebiten.Game as well as the engine's input source and
// sink. ebiten owns the main goroutine; the program's loops run elsewhere and
// exchange data through a channel and atomics.
type Backend struct {
	opts Options
	lib  *asset.Library
	log  *zap.Logger

	events  chan input.Event
	dropped atomic.Uint64

	pointerMu sync.Mutex
	pointer   geom.Vec2

	frame  atomic.Pointer[render.Frame]
	closed atomic.Bool

	// ebiten goroutine only
	images map[asset.Handle]*ebiten.Image
	face   *text.GoTextFace
	quit   bool
}

func New(lib *asset.Library, log *zap.Logger, opts Options) (*Backend, error) {
	src, err := text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return nil, fmt.Errorf("load font: %w", err)
	}
	if opts.FontSize <= 0 {
		opts.FontSize = 16
	}

	b := &Backend{
		opts:   opts,
		lib:    lib,
		log:    log,
		events: make(chan input.Event, eventBuffer),
		images: make(map[asset.Handle]*ebiten.Image),
		face:   &text.GoTextFace{Source: src, Size: opts.FontSize},
	}

	if opts.Overlay == nil {
		ebiten.SetWindowSize(opts.Width, opts.Height)
		ebiten.SetWindowTitle(opts.Title)
	}
	ebiten.SetWindowClosingHandled(true)
	if opts.Icon.Valid() {
		if img := lib.Image(opts.Icon); img != nil {
			ebiten.SetWindowIcon([]image.Image{img})
		}
	}
	return b, nil
}

// Run blocks running the ebiten game loop until the backend is closed.
func (b *Backend) Run() error {
	if err := ebiten.RunGame(b); err != nil && !errors.Is(err, ebiten.Termination) {
		return err
	}
	return nil
}

// Poll drains the events gathered by ebiten's Update since the last call.
func (b *Backend) Poll() []input.Event {
	var out []input.Event
	for {
		select {
		case ev := <-b.events:
			out = append(out, ev)
		default:
			return out
		}
	}
}

func (b *Backend) Pointer() geom.Vec2 {
	b.pointerMu.Lock()
	defer b.pointerMu.Unlock()
	return b.pointer
}

// Present hands the frame to ebiten, which redraws the latest one on each of
// its own draw calls.
func (b *Backend) Present(f *render.Frame) error {
	if b.closed.Load() {
		return ErrClosed
	}
	b.frame.Store(f)
	return nil
}

// Close makes the next ebiten Update end the game loop.
func (b *Backend) Close() error {
	if !b.closed.CompareAndSwap(false, true) {
		return ErrClosed
	}
	if n := b.dropped.Load(); n > 0 {
		b.log.Warn("input events dropped", zap.Uint64("count", n))
	}
	return nil
}

func (b *Backend) send(ev input.Event) {
	select {
	case b.events <- ev:
	default:
		b.dropped.Add(1)
	}
}

func (b *Backend) Update() error {
	if b.closed.Load() {
		return ebiten.Termination
	}

	mouseCaptured := false
	if b.opts.Overlay != nil {
		b.opts.Overlay.Update()
		mouseCaptured = b.opts.Overlay.Input().WantCaptureMouse
	}

	if ebiten.IsWindowBeingClosed() && !b.quit {
		b.quit = true
		b.send(input.Quit())
	}

	for _, ev := range translateKeys(inpututil.IsKeyJustPressed, inpututil.IsKeyJustReleased) {
		b.send(ev)
	}

	x, y := ebiten.CursorPosition()
	b.pointerMu.Lock()
	b.pointer = geom.V(float64(x), float64(y))
	b.pointerMu.Unlock()

	if !mouseCaptured && inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		b.send(input.MouseDown(float64(x), float64(y)))
	}
	return nil
}

// translateKeys turns this tick's key transitions into events. Keys are
// visited in a fixed order so a press and release in one tick stay ordered.
func translateKeys(pressed, released func(ebiten.Key) bool) []input.Event {
	var out []input.Event
	for _, ek := range orderedKeys {
		k := keyMap[ek]
		if pressed(ek) {
			out = append(out, input.KeyDown(k))
		}
		if released(ek) {
			out = append(out, input.KeyUp(k))
		}
	}
	return out
}

var orderedKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyArrowUp, ebiten.KeyArrowLeft, ebiten.KeyArrowDown, ebiten.KeyArrowRight,
	ebiten.KeyEscape,
}

func (b *Backend) Draw(screen *ebiten.Image) {
	if f := b.frame.Load(); f != nil {
		b.replay(screen, f)
	}
	if b.opts.Overlay != nil {
		b.opts.Overlay.Draw(screen)
	}
}

func (b *Backend) Layout(outsideWidth, outsideHeight int) (int, int) {
	if b.opts.Overlay != nil {
		b.opts.Overlay.Layout(b.opts.Width, b.opts.Height)
	}
	return b.opts.Width, b.opts.Height
}
