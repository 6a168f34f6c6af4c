package grid

import (
	"fmt"
	"math"
)

// Array is a dense row-major grid.
type Array struct {
	width, height int
	values        []float64
}

func NewArray(width, height int, values []float64) (*Array, error) {
	if width < 0 || height < 0 {
		return nil, fmt.Errorf("grid: negative size %dx%d", width, height)
	}
	if values == nil {
		values = make([]float64, width*height)
	}
	if len(values) != width*height {
		return nil, fmt.Errorf("grid: %d values for %dx%d", len(values), width, height)
	}
	return &Array{width: width, height: height, values: values}, nil
}

func (a *Array) Width() int {
	return a.width
}

func (a *Array) Height() int {
	return a.height
}

func (a *Array) Value(x, y int) (float64, error) {
	if !inBounds(a, x, y) {
		return 0, outOfBounds(a, x, y)
	}
	return a.values[y*a.width+x], nil
}

func (a *Array) Set(x, y int, v float64) error {
	if !inBounds(a, x, y) {
		return outOfBounds(a, x, y)
	}
	a.values[y*a.width+x] = v
	return nil
}

// Ragged is backed by rows of varying length. Its width is the longest row; positions
// past the end of a shorter row have no data and read as NaN.
type Ragged struct {
	rows  [][]float64
	width int
}

func NewRagged(rows [][]float64) *Ragged {
	w := 0
	for _, r := range rows {
		w = max(w, len(r))
	}
	return &Ragged{rows: rows, width: w}
}

func (r *Ragged) Width() int {
	return r.width
}

func (r *Ragged) Height() int {
	return len(r.rows)
}

func (r *Ragged) Value(x, y int) (float64, error) {
	if !inBounds(r, x, y) {
		return 0, outOfBounds(r, x, y)
	}
	row := r.rows[y]
	if x >= len(row) {
		return math.NaN(), nil
	}
	return row[x], nil
}

// Shape only has dimensions.
type Shape struct {
	W, H int
}

func (s Shape) Width() int {
	return s.W
}

func (s Shape) Height() int {
	return s.H
}

func (s Shape) Value(x, y int) (float64, error) {
	return 0, fmt.Errorf("%w: %dx%d shape", ErrNotImplemented, s.W, s.H)
}
