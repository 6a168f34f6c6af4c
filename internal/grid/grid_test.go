package grid_test

import (
	"errors"
	"image"
	"math"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/jaennil/guide_helper/tilemap/internal/grid"
)

func mustArray(t *testing.T, w, h int) *grid.Array {
	t.Helper()
	values := make([]float64, w*h)
	for i := range values {
		values[i] = float64(i)
	}
	a, err := grid.NewArray(w, h, values)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestPositionsRowMajor(t *testing.T) {
	got := slices.Collect(grid.Positions(grid.Shape{W: 3, H: 2}))
	want := []image.Point{{0, 0}, {1, 0}, {2, 0}, {0, 1}, {1, 1}, {2, 1}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Positions() mismatch (-want +got):\n%s", diff)
	}
}

func TestCellsWithFilters(t *testing.T) {
	a := mustArray(t, 4, 3)
	even := func(i int) bool { return i%2 == 0 }

	var got []grid.Cell
	for c, err := range grid.Cells(a, grid.XFilter(even), grid.YFilter(func(y int) bool { return y > 0 })) {
		if err != nil {
			t.Fatal(err)
		}
		got = append(got, c)
	}

	want := []grid.Cell{
		{X: 0, Y: 1, Value: 4}, {X: 2, Y: 1, Value: 6},
		{X: 0, Y: 2, Value: 8}, {X: 2, Y: 2, Value: 10},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Cells() mismatch (-want +got):\n%s", diff)
	}
}

func TestCellsOnShapeFails(t *testing.T) {
	n := 0
	for _, err := range grid.Cells(grid.Shape{W: 2, H: 2}) {
		n++
		if !errors.Is(err, grid.ErrNotImplemented) {
			t.Errorf("err = %v, want ErrNotImplemented", err)
		}
	}
	if n != 1 {
		t.Errorf("Cells yielded %d times after an error, want 1", n)
	}
}

func TestBetweenPosition(t *testing.T) {
	tests := []struct {
		name     string
		from, to float64
		lon      float64
		want     bool
	}{
		{"antimeridian east side", 350, 10, 355, true},
		{"antimeridian west side", 350, 10, 5, true},
		{"antimeridian opposite", 350, 10, 180, false},
		{"negative longitude", 350, 10, -5, true},
		{"plain range", 10, 20, 15, true},
		{"plain range outside", 10, 20, 25, false},
		{"negative bounds", -20, -10, 345, true},
		{"inclusive upper bound", 350, 10, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := grid.BetweenPosition(tt.from, tt.to)(tt.lon); got != tt.want {
				t.Errorf("BetweenPosition(%v, %v)(%v) = %v, want %v", tt.from, tt.to, tt.lon, got, tt.want)
			}
		})
	}
}

func TestLongitudeColumns(t *testing.T) {
	// 36 columns of 10 degrees starting at -180
	g := grid.Shape{W: 36, H: 1}
	cols := grid.LongitudeColumns(grid.RegularLongitudes(-180, 10), 160, -160)

	var got []int
	for p := range grid.Positions(g, grid.XFilter(cols)) {
		got = append(got, p.X)
	}

	want := []int{0, 1, 34, 35}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("columns mismatch (-want +got):\n%s", diff)
	}
}

func TestSubset(t *testing.T) {
	a := mustArray(t, 4, 4)

	s, err := grid.Subset(a, 1, 2, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if s.Width() != 2 || s.Height() != 2 {
		t.Errorf("size = %dx%d, want 2x2", s.Width(), s.Height())
	}
	v, err := s.Value(1, 1)
	if err != nil || v != 14 {
		t.Errorf("Value(1, 1) = %v, %v, want 14", v, err)
	}

	// writes through the parent are visible
	if err := a.Set(1, 2, -1); err != nil {
		t.Fatal(err)
	}
	if v, _ := s.Value(0, 0); v != -1 {
		t.Errorf("subset copied its parent: Value(0, 0) = %v", v)
	}

	if _, err := s.Value(2, 0); !errors.Is(err, grid.ErrOutOfBounds) {
		t.Errorf("Value outside the window: err = %v", err)
	}

	nested, err := grid.Subset(s, 1, 1, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if v, _ := nested.Value(0, 0); v != 14 {
		t.Errorf("nested Value(0, 0) = %v, want 14", v)
	}
}

func TestSubsetOutOfBounds(t *testing.T) {
	a := mustArray(t, 4, 4)
	for _, r := range [][4]int{{-1, 0, 1, 1}, {0, 0, 5, 1}, {3, 3, 2, 1}, {0, 0, -1, 1}} {
		if _, err := grid.Subset(a, r[0], r[1], r[2], r[3]); !errors.Is(err, grid.ErrOutOfBounds) {
			t.Errorf("Subset%v err = %v, want ErrOutOfBounds", r, err)
		}
	}
}

func TestArrayStrictBounds(t *testing.T) {
	a := mustArray(t, 2, 2)
	for _, p := range []image.Point{{-1, 0}, {2, 0}, {0, 2}} {
		if _, err := a.Value(p.X, p.Y); !errors.Is(err, grid.ErrOutOfBounds) {
			t.Errorf("Value%v err = %v, want ErrOutOfBounds", p, err)
		}
	}
	if _, err := grid.NewArray(2, 2, []float64{1}); err == nil {
		t.Errorf("NewArray accepted a short value slice")
	}
}

func TestRaggedShortRows(t *testing.T) {
	r := grid.NewRagged([][]float64{{1, 2, 3}, {4}, {}})

	if r.Width() != 3 || r.Height() != 3 {
		t.Fatalf("size = %dx%d, want 3x3", r.Width(), r.Height())
	}
	v, err := r.Value(2, 1)
	if err != nil || !math.IsNaN(v) {
		t.Errorf("Value(2, 1) = %v, %v, want NaN", v, err)
	}
	if _, err := r.Value(3, 0); !errors.Is(err, grid.ErrOutOfBounds) {
		t.Errorf("Value(3, 0) err = %v, want ErrOutOfBounds", err)
	}
}

func TestStatsOf(t *testing.T) {
	r := grid.NewRagged([][]float64{{1, 5}, {3}})

	got, err := grid.StatsOf(r)
	if err != nil {
		t.Fatal(err)
	}
	want := grid.Stats{Min: 1, Max: 5, Sum: 9, Mean: 3, Count: 3, NoData: 1}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("StatsOf() mismatch (-want +got):\n%s", diff)
	}
}

func TestStatsOfEmpty(t *testing.T) {
	got, err := grid.StatsOf(grid.NewRagged(nil))
	if err != nil {
		t.Fatal(err)
	}
	if got.Count != 0 || !math.IsNaN(got.Min) {
		t.Errorf("StatsOf(empty) = %+v", got)
	}
}

func TestStatsOfPrecomputed(t *testing.T) {
	pre := grid.Stats{Min: -10, Max: 10, Count: 42}
	// a shape cannot be scanned, so only the precomputed source can answer
	got, err := grid.StatsOf(grid.WithStats(grid.Shape{W: 7, H: 6}, pre))
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff(pre, got, cmpopts.EquateNaNs()); diff != "" {
		t.Errorf("StatsOf() mismatch (-want +got):\n%s", diff)
	}

	if _, err := grid.StatsOf(grid.Shape{W: 1, H: 1}); !errors.Is(err, grid.ErrNotImplemented) {
		t.Errorf("StatsOf(shape) err = %v, want ErrNotImplemented", err)
	}
}
