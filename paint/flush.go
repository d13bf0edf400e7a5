package paint

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/emberweb/ember/css"
	"github.com/emberweb/ember/fontdecode"
	"github.com/emberweb/ember/imgdecode"
)

// whitePixel is a 1x1 white image stretched for solid-color quads.
var whitePixel *ebiten.Image

func init() {
	whitePixel = ebiten.NewImage(1, 1)
	whitePixel.Fill(color.White)
}

func colorScale(c css.Color) ebiten.ColorScale {
	var cs ebiten.ColorScale
	a := float32(c.A) / 255
	// Premultiply at submission time.
	cs.SetR(float32(c.R) / 255 * a)
	cs.SetG(float32(c.G) / 255 * a)
	cs.SetB(float32(c.B) / 255 * a)
	cs.SetA(a)
	return cs
}

// Flush draws the display list onto dst. atlas is the uploaded glyph
// texture; it may be nil when the list contains no glyph commands.
func (dl *DisplayList) Flush(dst *ebiten.Image, atlas *ebiten.Image) {
	for i := range dl.Commands {
		cmd := &dl.Commands[i]
		switch cmd.Kind {
		case CommandRect:
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Scale(cmd.Width, cmd.Height)
			op.GeoM.Translate(cmd.X, cmd.Y)
			op.ColorScale = colorScale(cmd.Color)
			dst.DrawImage(whitePixel, op)
		case CommandGlyph:
			if atlas == nil {
				continue
			}
			sub := atlas.SubImage(image.Rect(cmd.Entry.U, cmd.Entry.V, cmd.Entry.U+cmd.Entry.W, cmd.Entry.V+cmd.Entry.H)).(*ebiten.Image)
			op := &ebiten.DrawImageOptions{}
			op.GeoM.Translate(cmd.X, cmd.Y)
			op.ColorScale = colorScale(cmd.Color)
			dst.DrawImage(sub, op)
		}
	}
}

// UploadAtlas converts a coverage atlas to a white-on-transparent RGBA
// texture, reusing prev when its size still matches. Clears the atlas's
// Dirty flag.
func UploadAtlas(a *fontdecode.GlyphAtlas, prev *ebiten.Image) *ebiten.Image {
	img := prev
	if img == nil || img.Bounds().Dx() != a.Width || img.Bounds().Dy() != a.Height {
		img = ebiten.NewImage(a.Width, a.Height)
	}
	rgba := make([]byte, len(a.Pixels)*4)
	for i, cov := range a.Pixels {
		rgba[i*4+0] = cov
		rgba[i*4+1] = cov
		rgba[i*4+2] = cov
		rgba[i*4+3] = cov
	}
	img.WritePixels(rgba)
	a.Dirty = false
	return img
}

// UploadImage converts a decoded raster image to a texture.
func UploadImage(img imgdecode.Image) *ebiten.Image {
	tex := ebiten.NewImage(int(img.Width), int(img.Height))
	// Premultiply; decoded PNG pixels are straight alpha.
	pre := make([]byte, len(img.Pixels))
	for i := 0; i+3 < len(img.Pixels); i += 4 {
		a := uint32(img.Pixels[i+3])
		pre[i+0] = byte(uint32(img.Pixels[i+0]) * a / 255)
		pre[i+1] = byte(uint32(img.Pixels[i+1]) * a / 255)
		pre[i+2] = byte(uint32(img.Pixels[i+2]) * a / 255)
		pre[i+3] = byte(a)
	}
	tex.WritePixels(pre)
	return tex
}
