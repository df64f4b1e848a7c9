package asset_test

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
	"testing/fstest"

	"github.com/plus3/roomloop/asset"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestLibrary(t *testing.T) {
	red := color.RGBA{0xff, 0, 0, 0xff}
	fsys := fstest.MapFS{
		"player.png": {Data: pngBytes(t, red)},
		"broken.png": {Data: []byte("not a png")},
	}

	t.Run("load returns a stable handle", func(t *testing.T) {
		lib := asset.NewLibrary(fsys)

		h1, err := lib.Load("player.png")
		require.NoError(t, err)
		h2, err := lib.Load("player.png")
		require.NoError(t, err)

		assert.True(t, h1.Valid())
		assert.Equal(t, h1, h2)
		assert.Equal(t, 1, lib.Len())
		assert.Equal(t, "player.png", lib.Name(h1))

		avg, ok := lib.Average(h1)
		assert.True(t, ok)
		assert.Equal(t, red, avg)
		assert.NotNil(t, lib.Image(h1))
	})

	t.Run("missing file is a MissingAsset error", func(t *testing.T) {
		lib := asset.NewLibrary(fsys)

		h, err := lib.Load("nope.png")
		assert.ErrorIs(t, err, asset.ErrMissingAsset)
		assert.False(t, h.Valid())
	})

	t.Run("undecodable file is a MissingAsset error", func(t *testing.T) {
		lib := asset.NewLibrary(fsys)

		_, err := lib.Load("broken.png")
		assert.ErrorIs(t, err, asset.ErrMissingAsset)
	})

	t.Run("fallback substitutes a placeholder", func(t *testing.T) {
		lib := asset.NewLibrary(fsys, asset.WithFallback())

		h, err := lib.Load("nope.png")
		assert.ErrorIs(t, err, asset.ErrMissingAsset)
		assert.True(t, h.Valid())
		assert.NotNil(t, lib.Image(h))
	})

	t.Run("must load panics without fallback", func(t *testing.T) {
		lib := asset.NewLibrary(fsys)

		assert.Panics(t, func() { lib.MustLoad("nope.png") })
		assert.NotPanics(t, func() { lib.MustLoad("player.png") })
	})

	t.Run("unknown handles resolve to nothing", func(t *testing.T) {
		lib := asset.NewLibrary(nil)

		assert.Nil(t, lib.Image(0))
		assert.Nil(t, lib.Image(42))
		_, ok := lib.Average(0)
		assert.False(t, ok)
	})
}
