package layer

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/jaennil/guide_helper/tilemap/internal/render"
)

// NewBackground fills the surface with c.
func NewBackground(c color.Color) *Canvas {
	return NewCanvas("background", func(r *render.Renderer) {
		s := r.Surface()
		draw.Draw(s, s.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	})
}

const attributionPadding = 3

// NewAttribution writes text into the bottom-right corner of the surface.
func NewAttribution(text string) *Canvas {
	return NewCanvas("attribution", func(r *render.Renderer) {
		if text == "" {
			return
		}
		drawAttribution(r.Surface(), text)
	})
}

func drawAttribution(dst draw.Image, text string) {
	face := basicfont.Face7x13
	b := dst.Bounds()
	width := font.MeasureString(face, text).Ceil()
	m := face.Metrics()
	height := (m.Ascent + m.Descent).Ceil()

	box := image.Rect(
		b.Max.X-width-2*attributionPadding, b.Max.Y-height-2*attributionPadding,
		b.Max.X, b.Max.Y,
	).Intersect(b)
	draw.Draw(dst, box, image.NewUniform(color.NRGBA{R: 255, G: 255, B: 255, A: 180}), image.Point{}, draw.Over)

	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.Black),
		Face: face,
		Dot:  fixed.P(box.Min.X+attributionPadding, b.Max.Y-attributionPadding-m.Descent.Ceil()),
	}
	d.DrawString(text)
}
