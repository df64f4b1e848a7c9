package ebitenui

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"github.com/plus3/roomloop/asset"
	"github.com/plus3/roomloop/render"
)

func (b *Backend) replay(screen *ebiten.Image, f *render.Frame) {
	for _, cmd := range f.Commands {
		switch cmd.Type {
		case render.CmdFill:
			screen.Fill(cmd.Color)
		case render.CmdRect:
			vector.DrawFilledRect(screen,
				float32(cmd.Box.Pos.X), float32(cmd.Box.Pos.Y),
				float32(cmd.Box.Size.X), float32(cmd.Box.Size.Y),
				cmd.Color, false)
		case render.CmdSprite:
			b.drawSprite(screen, cmd)
		case render.CmdText:
			op := &text.DrawOptions{}
			op.GeoM.Translate(cmd.Box.Pos.X, cmd.Box.Pos.Y)
			op.ColorScale.ScaleWithColor(cmd.Color)
			text.Draw(screen, cmd.Text, b.face, op)
		}
	}
}

// drawSprite stretches the image over the command's centered box.
func (b *Backend) drawSprite(screen *ebiten.Image, cmd render.Command) {
	img := b.image(cmd.Image)
	if img == nil {
		return
	}
	bounds := img.Bounds()
	if bounds.Dx() == 0 || bounds.Dy() == 0 {
		return
	}

	tl := cmd.Box.Min()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(cmd.Box.Size.X/float64(bounds.Dx()), cmd.Box.Size.Y/float64(bounds.Dy()))
	op.GeoM.Translate(tl.X, tl.Y)
	screen.DrawImage(img, op)
}

func (b *Backend) image(h asset.Handle) *ebiten.Image {
	if !h.Valid() {
		return nil
	}
	if img, ok := b.images[h]; ok {
		return img
	}
	src := b.lib.Image(h)
	if src == nil {
		b.images[h] = nil
		return nil
	}
	img := ebiten.NewImageFromImage(src)
	b.images[h] = img
	return img
}
