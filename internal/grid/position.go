package grid

import "github.com/jaennil/guide_helper/tilemap/internal/tile"

// BetweenPosition matches longitudes within [from, to] after normalizing all three into
// [0, 360). A range with from > to crosses the antimeridian and matches [from, 360) and [0, to].
func BetweenPosition(from, to float64) func(lon float64) bool {
	from, to = tile.NormalizeLongitude(from), tile.NormalizeLongitude(to)
	return func(lon float64) bool {
		lon = tile.NormalizeLongitude(lon)
		if from <= to {
			return from <= lon && lon <= to
		}
		return lon >= from || lon <= to
	}
}

// LongitudeColumns adapts BetweenPosition to column indices. lonOf maps a column to its longitude.
func LongitudeColumns(lonOf func(x int) float64, from, to float64) func(x int) bool {
	between := BetweenPosition(from, to)
	return func(x int) bool {
		return between(lonOf(x))
	}
}

// RegularLongitudes maps column x of a grid starting at west with step degrees per column
// to the longitude of the column centre.
func RegularLongitudes(west, step float64) func(x int) float64 {
	return func(x int) float64 {
		return west + (float64(x)+0.5)*step
	}
}
