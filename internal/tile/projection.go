// Package tile provides slippy-map tile identity, projection math and the tile server registry.
package tile

import (
	"math"

	"github.com/paulmach/orb"
)

// Size is the edge length of a tile bitmap in pixels.
const Size = 256

// Count returns the number of tiles along one axis at zoom z.
func Count(z int) int {
	return 1 << z
}

// FromCoordinate projects a longitude/latitude pair onto fractional tile coordinates at zoom z.
// Results are clamped to [0, 2^z-1] and never rounded.
func FromCoordinate(z int, lon, lat float64) (x, y float64) {
	m := float64(Count(z))
	x = clamp(0, m-1, (lon+180)/360*m)
	phi := lat * math.Pi / 180
	y = clamp(0, m-1, (1-math.Log(math.Tan(phi)+1/math.Cos(phi))/math.Pi)/2*m)
	return x, y
}

// ToCoordinate converts fractional tile coordinates at zoom z back to longitude/latitude.
func ToCoordinate(z int, x, y float64) (lon, lat float64) {
	m := float64(Count(z))
	lon = x/m*360 - 180
	lat = math.Atan(math.Sinh(math.Pi-2*math.Pi*y/m)) * 180 / math.Pi
	return lon, lat
}

// NormalizeLongitude maps any longitude into [0, 360).
func NormalizeLongitude(lon float64) float64 {
	lon = math.Mod(lon, 360)
	if lon < 0 {
		lon += 360
	}
	return lon
}

func clamp(lo, hi, v float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}

func pointOf(lon, lat float64) orb.Point {
	return orb.Point{lon, lat}
}
