package geom_test

import (
	"testing"

	"github.com/plus3/roomloop/geom"
	"github.com/stretchr/testify/assert"
)

func TestTransform(t *testing.T) {
	t.Run("accessors are independent per axis", func(t *testing.T) {
		tr := geom.NewTransform(10, 20, 30, 40)
		tr.SetPosX(11)
		tr.SetSizeY(44)

		assert.Equal(t, 11.0, tr.PosX())
		assert.Equal(t, 20.0, tr.PosY())
		assert.Equal(t, 30.0, tr.SizeX())
		assert.Equal(t, 44.0, tr.SizeY())
	})

	t.Run("corners are derived from the center", func(t *testing.T) {
		tr := geom.NewTransform(100, 100, 32, 16)

		assert.Equal(t, geom.V(84, 92), tr.Min())
		assert.Equal(t, geom.V(116, 108), tr.Max())
	})
}

func TestVec2(t *testing.T) {
	a := geom.V(1, 2)
	b := geom.V(3, 5)

	assert.Equal(t, geom.V(4, 7), a.Add(b))
	assert.Equal(t, geom.V(2, 3), b.Sub(a))
	assert.Equal(t, geom.V(2, 4), a.Scale(2))
}
