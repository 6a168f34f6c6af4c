package grid

import "fmt"

type subset struct {
	parent    Grid
	left, top int
	w, h      int
}

// Subset returns a window of g without copying. Lookups translate into g.
func Subset(g Grid, left, top, width, height int) (Grid, error) {
	if left < 0 || top < 0 || width < 0 || height < 0 ||
		left+width > g.Width() || top+height > g.Height() {
		return nil, fmt.Errorf("%w: subset %dx%d+%d+%d of %dx%d",
			ErrOutOfBounds, width, height, left, top, g.Width(), g.Height())
	}
	return &subset{parent: g, left: left, top: top, w: width, h: height}, nil
}

func (s *subset) Width() int {
	return s.w
}

func (s *subset) Height() int {
	return s.h
}

func (s *subset) Value(x, y int) (float64, error) {
	if !inBounds(s, x, y) {
		return 0, outOfBounds(s, x, y)
	}
	return s.parent.Value(s.left+x, s.top+y)
}
