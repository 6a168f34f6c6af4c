package tile

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// Ref references a position on the tile grid of one zoom level.
// X and Y are always the floor of FX and FY.
type Ref struct {
	Z      int
	X, Y   int
	FX, FY float64
}

// NewRef returns the reference of the north-west corner of tile (x, y) at zoom z.
func NewRef(z, x, y int) Ref {
	return Ref{Z: z, X: x, Y: y, FX: float64(x), FY: float64(y)}
}

// FromFraction builds a Ref from fractional tile coordinates.
func FromFraction(z int, fx, fy float64) Ref {
	return Ref{
		Z:  z,
		X:  int(math.Floor(fx)),
		Y:  int(math.Floor(fy)),
		FX: fx,
		FY: fy,
	}
}

// FromLonLat projects lon/lat at zoom z.
func FromLonLat(z int, lon, lat float64) Ref {
	fx, fy := FromCoordinate(z, lon, lat)
	return FromFraction(z, fx, fy)
}

// FromPoint projects an orb point (lon, lat) at zoom z.
func FromPoint(z int, p orb.Point) Ref {
	return FromLonLat(z, p.Lon(), p.Lat())
}

// Point returns the lon/lat of the fractional position.
func (r Ref) Point() orb.Point {
	return pointOf(ToCoordinate(r.Z, r.FX, r.FY))
}

// Corner returns the lon/lat of the north-west corner of the integer tile.
func (r Ref) Corner() orb.Point {
	return pointOf(ToCoordinate(r.Z, float64(r.X), float64(r.Y)))
}

// Bound returns the lon/lat bounds of the integer tile.
func (r Ref) Bound() orb.Bound {
	nw := r.Corner()
	se := pointOf(ToCoordinate(r.Z, float64(r.X+1), float64(r.Y+1)))
	return orb.Bound{Min: orb.Point{nw.Lon(), se.Lat()}, Max: orb.Point{se.Lon(), nw.Lat()}}
}

// Contains reports whether other's fractional position lies inside tile r.
func (r Ref) Contains(other Ref) bool {
	if r.Z != other.Z {
		return false
	}
	return other.FX >= float64(r.X) && other.FX < float64(r.X+1) &&
		other.FY >= float64(r.Y) && other.FY < float64(r.Y+1)
}

// PixelOffset returns the pixel distance of r from origin.
func (r Ref) PixelOffset(origin Ref) (dx, dy float64) {
	return (r.FX - origin.FX) * Size, (r.FY - origin.FY) * Size
}

// Valid reports whether the integer tile exists at its zoom level.
func (r Ref) Valid() bool {
	return InRange(r.Z, r.X, r.Y)
}

// Maptile converts the integer part to an orb maptile.
func (r Ref) Maptile() maptile.Tile {
	return maptile.New(uint32(r.X), uint32(r.Y), maptile.Zoom(r.Z))
}

func (r Ref) String() string {
	return fmt.Sprintf("%d/%d/%d", r.Z, r.X, r.Y)
}

// MaxZoom is the deepest zoom level whose Key.ID fits in a uint64 for every ordinal below 100.
const MaxZoom = 26

// InRange reports whether x and y are valid tile indices at zoom z.
func InRange(z, x, y int) bool {
	if z < 0 || z > MaxZoom {
		return false
	}
	n := Count(z)
	return x >= 0 && x < n && y >= 0 && y < n
}
