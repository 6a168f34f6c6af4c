package grid

import "math"

type Stats struct {
	Min, Max float64
	Sum      float64
	Mean     float64
	// Count is the number of cells with data; NoData counts NaN cells.
	Count  int
	NoData int
}

// StatsSource is implemented by grids that know their statistics without a scan.
type StatsSource interface {
	Stats() Stats
}

// StatsOf returns the statistics of g, scanning every cell unless g is a StatsSource.
func StatsOf(g Grid) (Stats, error) {
	if src, ok := g.(StatsSource); ok {
		return src.Stats(), nil
	}

	s := Stats{Min: math.NaN(), Max: math.NaN(), Mean: math.NaN()}
	for c, err := range Cells(g) {
		if err != nil {
			return Stats{}, err
		}
		if math.IsNaN(c.Value) {
			s.NoData++
			continue
		}
		if s.Count == 0 || c.Value < s.Min {
			s.Min = c.Value
		}
		if s.Count == 0 || c.Value > s.Max {
			s.Max = c.Value
		}
		s.Sum += c.Value
		s.Count++
	}
	if s.Count > 0 {
		s.Mean = s.Sum / float64(s.Count)
	}

	return s, nil
}

type withStats struct {
	Grid
	stats Stats
}

// WithStats attaches precomputed statistics to g.
func WithStats(g Grid, s Stats) Grid {
	return withStats{Grid: g, stats: s}
}

func (w withStats) Stats() Stats {
	return w.stats
}
