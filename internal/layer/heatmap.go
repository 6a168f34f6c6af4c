package layer

import (
	"image"
	"image/color"
	"image/draw"
	"math"

	"github.com/paulmach/orb"

	"github.com/jaennil/guide_helper/tilemap/internal/grid"
	"github.com/jaennil/guide_helper/tilemap/internal/render"
	"github.com/jaennil/guide_helper/tilemap/internal/tile"
	"github.com/jaennil/guide_helper/tilemap/pkg/logger"
)

// NewHeatmap paints g as coloured cells. The grid covers bound, row 0 being the northern edge.
// Cells without data are left transparent.
func NewHeatmap(name string, g grid.Grid, bound orb.Bound, l logger.Logger) *Canvas {
	if l == nil {
		l = logger.NewNop()
	}
	return NewCanvas(name, func(r *render.Renderer) {
		if err := drawHeatmap(r, g, bound); err != nil {
			l.Error("failed to draw heatmap", "layer", name, "error", err)
		}
	})
}

func drawHeatmap(r *render.Renderer, g grid.Grid, bound orb.Bound) error {
	if g.Width() == 0 || g.Height() == 0 {
		return nil
	}
	stats, err := grid.StatsOf(g)
	if err != nil {
		return err
	}

	dLon := (bound.Max.Lon() - bound.Min.Lon()) / float64(g.Width())
	dLat := (bound.Max.Lat() - bound.Min.Lat()) / float64(g.Height())
	origin := r.Viewport().Min
	dst := r.Surface()

	pixel := func(lon, lat float64) image.Point {
		fx, fy := tile.FromCoordinate(r.Zoom(), lon, lat)
		return image.Pt(int(math.Round(fx*tile.Size))-origin.X, int(math.Round(fy*tile.Size))-origin.Y)
	}

	for c, err := range grid.Cells(g) {
		if err != nil {
			return err
		}
		if math.IsNaN(c.Value) {
			continue
		}
		west := bound.Min.Lon() + float64(c.X)*dLon
		north := bound.Max.Lat() - float64(c.Y)*dLat
		rect := image.Rectangle{Min: pixel(west, north), Max: pixel(west+dLon, north-dLat)}
		draw.Draw(dst, rect, image.NewUniform(ramp(c.Value, stats)), image.Point{}, draw.Over)
	}

	return nil
}

// ramp maps v from blue at the minimum to red at the maximum.
func ramp(v float64, s grid.Stats) color.NRGBA {
	t := 0.5
	if s.Max > s.Min {
		t = (v - s.Min) / (s.Max - s.Min)
	}
	t = math.Max(0, math.Min(1, t))
	return color.NRGBA{R: uint8(255 * t), G: 0, B: uint8(255 * (1 - t)), A: 160}
}
