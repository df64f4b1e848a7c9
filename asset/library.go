// Package asset resolves image files into opaque handles that renderers can
// draw. Backends look the decoded image up by handle and convert it to their
// own texture type.
package asset

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	_ "image/png"
	"io/fs"
	"sync"
)

// ErrMissingAsset is returned when a file cannot be read or decoded.
var ErrMissingAsset = errors.New("missing asset")

// Handle identifies a loaded image. The zero Handle means "no image".
type Handle uint32

// Valid reports whether the handle refers to a loaded image.
func (h Handle) Valid() bool {
	return h != 0
}

type entry struct {
	name    string
	img     image.Image
	average color.RGBA
}

// Library loads images from a filesystem and hands out handles for them.
// Loading the same name twice returns the same handle.
type Library struct {
	fsys     fs.FS
	fallback bool

	mu      sync.RWMutex
	entries []entry
	byName  map[string]Handle
}

// Option configures a Library.
type Option func(*Library)

// WithFallback makes Load substitute a placeholder image instead of failing
// when a file is missing or cannot be decoded.
func WithFallback() Option {
	return func(l *Library) {
		l.fallback = true
	}
}

// NewLibrary creates a library reading from fsys.
func NewLibrary(fsys fs.FS, opts ...Option) *Library {
	l := &Library{
		fsys: fsys,
		// index 0 is reserved for the invalid handle
		entries: make([]entry, 1),
		byName:  make(map[string]Handle),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load decodes the named image. The returned error wraps ErrMissingAsset.
// With WithFallback the error is still returned alongside a valid placeholder
// handle so callers can log it.
func (l *Library) Load(name string) (Handle, error) {
	l.mu.RLock()
	h, ok := l.byName[name]
	l.mu.RUnlock()
	if ok {
		return h, nil
	}

	img, err := l.decode(name)
	if err != nil {
		if !l.fallback {
			return 0, err
		}
		return l.add(name, Placeholder(16, 16)), err
	}
	return l.add(name, img), nil
}

// MustLoad is Load for startup wiring where a missing asset is fatal.
func (l *Library) MustLoad(name string) Handle {
	h, err := l.Load(name)
	if err != nil && !h.Valid() {
		panic(err)
	}
	return h
}

// Add registers an in-memory image under name.
func (l *Library) Add(name string, img image.Image) Handle {
	return l.add(name, img)
}

func (l *Library) add(name string, img image.Image) Handle {
	l.mu.Lock()
	defer l.mu.Unlock()

	if h, ok := l.byName[name]; ok {
		return h
	}

	l.entries = append(l.entries, entry{
		name:    name,
		img:     img,
		average: averageColor(img),
	})
	h := Handle(len(l.entries) - 1)
	l.byName[name] = h
	return h
}

func (l *Library) decode(name string) (image.Image, error) {
	if l.fsys == nil {
		return nil, fmt.Errorf("%w: %s: no asset filesystem", ErrMissingAsset, name)
	}
	f, err := l.fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrMissingAsset, name, err)
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: decode: %w", ErrMissingAsset, name, err)
	}
	return img, nil
}

// Image returns the decoded image for h, or nil for an unknown handle.
func (l *Library) Image(h Handle) image.Image {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if int(h) <= 0 || int(h) >= len(l.entries) {
		return nil
	}
	return l.entries[h].img
}

// Average returns the mean color of the image, used by renderers that
// cannot draw pixels.
func (l *Library) Average(h Handle) (color.RGBA, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if int(h) <= 0 || int(h) >= len(l.entries) {
		return color.RGBA{}, false
	}
	return l.entries[h].average, true
}

// Name returns the file name the handle was loaded from.
func (l *Library) Name(h Handle) string {
	l.mu.RLock()
	defer l.mu.RUnlock()
	if int(h) <= 0 || int(h) >= len(l.entries) {
		return ""
	}
	return l.entries[h].name
}

// Len returns the number of loaded images.
func (l *Library) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries) - 1
}

// Placeholder returns a magenta/black checkerboard.
func Placeholder(w, h int) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{0, 0, 0, 0xff}), image.Point{}, draw.Src)
	magenta := color.RGBA{0xff, 0, 0xff, 0xff}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.SetRGBA(x, y, magenta)
			}
		}
	}
	return img
}

func averageColor(img image.Image) color.RGBA {
	b := img.Bounds()
	n := uint64(b.Dx() * b.Dy())
	if n == 0 {
		return color.RGBA{}
	}

	var r, g, bl, a uint64
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			cr, cg, cb, ca := img.At(x, y).RGBA()
			r += uint64(cr >> 8)
			g += uint64(cg >> 8)
			bl += uint64(cb >> 8)
			a += uint64(ca >> 8)
		}
	}
	return color.RGBA{R: uint8(r / n), G: uint8(g / n), B: uint8(bl / n), A: uint8(a / n)}
}
