package render

import (
	"image"
	"image/draw"

	"github.com/jaennil/guide_helper/tilemap/internal/tile"
)

// View is an immutable snapshot of one tile position of a render operation.
type View struct {
	Zoom    int
	X, Y    int
	Visible bool

	origin  image.Point
	surface draw.Image
}

// Offset returns where the tile's top-left pixel lands on the surface.
func (v View) Offset() image.Point {
	return image.Pt(v.X*tile.Size-v.origin.X, v.Y*tile.Size-v.origin.Y)
}

// Rect returns the tile's rectangle in surface coordinates.
func (v View) Rect() image.Rectangle {
	off := v.Offset()
	return image.Rect(off.X, off.Y, off.X+tile.Size, off.Y+tile.Size)
}

func (v View) Surface() draw.Image {
	return v.surface
}

func (v View) Ref() tile.Ref {
	return tile.NewRef(v.Zoom, v.X, v.Y)
}

// Key returns the cache key of the tile at this position on server.
func (v View) Key(server tile.Server) tile.Key {
	return tile.NewKey(server, v.Zoom, v.X, v.Y)
}
