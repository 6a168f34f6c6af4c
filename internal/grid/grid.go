// Package grid defines the raster contract consumed by overlay layers.
package grid

import (
	"errors"
	"fmt"
	"image"
	"iter"
)

var (
	ErrOutOfBounds    = errors.New("grid: index out of bounds")
	ErrNotImplemented = errors.New("grid: values not available")
)

// Grid is a width x height raster of float64 values.
type Grid interface {
	Width() int
	Height() int
	// Value returns the value at (x, y). Implementations fail with ErrOutOfBounds
	// rather than clamping.
	Value(x, y int) (float64, error)
}

type Cell struct {
	X, Y  int
	Value float64
}

// Filter restricts enumeration along one axis.
type Filter struct {
	x func(int) bool
	y func(int) bool
}

func XFilter(p func(x int) bool) Filter {
	return Filter{x: p}
}

func YFilter(p func(y int) bool) Filter {
	return Filter{y: p}
}

// Positions yields every (x, y) accepted by the filters in row-major order.
func Positions(g Grid, filters ...Filter) iter.Seq[image.Point] {
	return func(yield func(image.Point) bool) {
		w, h := g.Width(), g.Height()
		for y := 0; y < h; y++ {
			if !accept(filters, y, func(f Filter) func(int) bool { return f.y }) {
				continue
			}
			for x := 0; x < w; x++ {
				if !accept(filters, x, func(f Filter) func(int) bool { return f.x }) {
					continue
				}
				if !yield(image.Pt(x, y)) {
					return
				}
			}
		}
	}
}

// Cells yields the value of every position accepted by the filters. A lookup error is
// yielded once and ends the sequence.
func Cells(g Grid, filters ...Filter) iter.Seq2[Cell, error] {
	return func(yield func(Cell, error) bool) {
		for p := range Positions(g, filters...) {
			v, err := g.Value(p.X, p.Y)
			if err != nil {
				yield(Cell{X: p.X, Y: p.Y}, err)
				return
			}
			if !yield(Cell{X: p.X, Y: p.Y, Value: v}, nil) {
				return
			}
		}
	}
}

func accept(filters []Filter, i int, axis func(Filter) func(int) bool) bool {
	for _, f := range filters {
		if p := axis(f); p != nil && !p(i) {
			return false
		}
	}
	return true
}

func inBounds(g Grid, x, y int) bool {
	return x >= 0 && x < g.Width() && y >= 0 && y < g.Height()
}

func outOfBounds(g Grid, x, y int) error {
	return fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfBounds, x, y, g.Width(), g.Height())
}
