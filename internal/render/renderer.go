// Package render decomposes a pixel viewport into the tiles that cover it.
package render

import (
	"fmt"
	"image"
	"image/draw"
	"iter"

	"github.com/jaennil/guide_helper/tilemap/internal/tile"
)

// Renderer holds the state of one render operation. The visible rectangle is expressed in
// the global pixel space of the zoom level and maps onto the surface origin.
type Renderer struct {
	surface draw.Image
	visible image.Rectangle
	zoom    int

	left, top     int
	right, bottom int

	x, y int

	observer func(tile.Key)
}

type Option func(*Renderer)

// WithObserver registers a hook that Notify calls for tiles that became available
// after they were first drawn, e.g. to schedule a repaint.
func WithObserver(f func(tile.Key)) Option {
	return func(r *Renderer) {
		r.observer = f
	}
}

// New freezes the tile bounds of visible at zoom. The bounds overscan by one tile to the
// right and bottom so partially covered edge tiles are drawn.
func New(surface draw.Image, visible image.Rectangle, zoom int, opts ...Option) *Renderer {
	m := tile.Count(zoom)
	left := floorDiv(visible.Min.X, tile.Size)
	top := floorDiv(visible.Min.Y, tile.Size)

	r := &Renderer{
		surface: surface,
		visible: visible,
		zoom:    zoom,
		left:    left,
		top:     top,
		right:   min(left+visible.Dx()/tile.Size+2, m) - 1,
		bottom:  min(top+visible.Dy()/tile.Size+2, m) - 1,
		x:       left,
		y:       top,
	}
	for _, opt := range opts {
		opt(r)
	}

	return r
}

func (r *Renderer) Surface() draw.Image {
	return r.surface
}

// Viewport returns the visible rectangle in global pixel space.
func (r *Renderer) Viewport() image.Rectangle {
	return r.visible
}

func (r *Renderer) Zoom() int {
	return r.zoom
}

// Bounds returns the inclusive tile index bounds.
func (r *Renderer) Bounds() (left, top, right, bottom int) {
	return r.left, r.top, r.right, r.bottom
}

// Cursor returns the current tile position.
func (r *Renderer) Cursor() (x, y int) {
	return r.x, r.y
}

// MoveTo sets the cursor. Positions outside the bounds are allowed and make the renderer invisible.
func (r *Renderer) MoveTo(x, y int) {
	r.x, r.y = x, y
}

// Visible reports whether the cursor lies within the tile bounds.
func (r *Renderer) Visible() bool {
	return r.contains(r.x, r.y)
}

func (r *Renderer) contains(x, y int) bool {
	return r.left <= x && x <= r.right && r.top <= y && y <= r.bottom
}

// Render calls fn once if the cursor is visible and reports whether it did.
func (r *Renderer) Render(fn func(*Renderer)) bool {
	if !r.Visible() {
		return false
	}
	fn(r)
	return true
}

// View returns a snapshot of the cursor position.
func (r *Renderer) View() View {
	return r.view(r.x, r.y)
}

// All yields a snapshot for every visible tile, row by row.
func (r *Renderer) All() iter.Seq[View] {
	return func(yield func(View) bool) {
		for y := r.top; y <= r.bottom; y++ {
			for x := r.left; x <= r.right; x++ {
				if !yield(r.view(x, y)) {
					return
				}
			}
		}
	}
}

// ForEach calls fn for every visible tile, row by row.
func (r *Renderer) ForEach(fn func(View)) {
	for v := range r.All() {
		fn(v)
	}
}

// Tiles returns the number of visible tile positions.
func (r *Renderer) Tiles() int {
	if r.right < r.left || r.bottom < r.top {
		return 0
	}
	return (r.right - r.left + 1) * (r.bottom - r.top + 1)
}

// Notify forwards key to the observer if it lies within the bounds of this operation.
func (r *Renderer) Notify(key tile.Key) {
	if r.observer == nil || key.Z != r.zoom || !r.contains(key.X, key.Y) {
		return
	}
	r.observer(key)
}

func (r *Renderer) String() string {
	return fmt.Sprintf("z%d [%d..%d]x[%d..%d] @%d,%d", r.zoom, r.left, r.right, r.top, r.bottom, r.x, r.y)
}

func (r *Renderer) view(x, y int) View {
	return View{
		Zoom:    r.zoom,
		X:       x,
		Y:       y,
		Visible: r.contains(x, y),
		origin:  r.visible.Min,
		surface: r.surface,
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if a%b != 0 && (a < 0) != (b < 0) {
		q--
	}
	return q
}
