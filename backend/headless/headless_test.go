package headless_test

import (
	"errors"
	"testing"

	"github.com/plus3/roomloop/backend/headless"
	"github.com/plus3/roomloop/input"
	"github.com/plus3/roomloop/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPoll(t *testing.T) {
	b := headless.New()
	b.Push(input.KeyDown(input.KeyW))
	b.Schedule(3, input.Quit())

	assert.Equal(t, []input.Event{input.KeyDown(input.KeyW)}, b.Poll())
	assert.Empty(t, b.Poll())
	assert.Equal(t, []input.Event{input.Quit()}, b.Poll())
	assert.Empty(t, b.Poll())
	assert.Equal(t, uint64(4), b.Polls())

	b.MovePointer(3, 4)
	assert.Equal(t, 3.0, b.Pointer().X)
	assert.Equal(t, 4.0, b.Pointer().Y)
}

func TestPresent(t *testing.T) {
	t.Run("records frames and command counts", func(t *testing.T) {
		b := headless.New()
		f := &render.Frame{Number: 1, Commands: []render.Command{
			{Type: render.CmdFill},
			{Type: render.CmdRect},
			{Type: render.CmdRect},
		}}

		require.NoError(t, b.Present(f))
		assert.Equal(t, uint64(1), b.Frames())
		assert.Same(t, f, b.LastFrame())
		assert.Equal(t, 2, b.Presented(render.CmdRect))
	})

	t.Run("hook errors are returned and not recorded", func(t *testing.T) {
		b := headless.New()
		boom := errors.New("boom")
		b.OnPresent = func(*render.Frame) error { return boom }

		assert.ErrorIs(t, b.Present(&render.Frame{}), boom)
		assert.Equal(t, uint64(0), b.Frames())
	})

	t.Run("present after close is a violation", func(t *testing.T) {
		b := headless.New()
		require.NoError(t, b.Close())

		assert.ErrorIs(t, b.Present(&render.Frame{}), headless.ErrClosed)
		assert.ErrorIs(t, b.Close(), headless.ErrClosed)
		overlapping, late := b.Violations()
		assert.Equal(t, 0, overlapping)
		assert.Equal(t, 1, late)
		assert.True(t, b.Closed())
	})
}
