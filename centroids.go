package geoloc

import "github.com/ctessum/geom"

// CentroidTable holds, for each cell, the mean of the training points that
// fell in it, or the cell midpoint when no point did.
type CentroidTable struct {
	grid    *Grid
	centers []geom.Point // X holds longitude, Y holds latitude.
}

// BuildCentroids sums lat/lon/count per cell over points in a single pass,
// then divides; empty cells default to their midpoint.
func BuildCentroids(g *Grid, points []Point) *CentroidTable {
	n := g.N()
	sumLat := make([]float64, n)
	sumLon := make([]float64, n)
	counts := make([]int, n)
	for _, p := range points {
		c := g.Cell(float64(p.Lat), float64(p.Lon))
		sumLat[c] += float64(p.Lat)
		sumLon[c] += float64(p.Lon)
		counts[c]++
	}
	centers := make([]geom.Point, n)
	for c := 0; c < n; c++ {
		if counts[c] == 0 {
			lat, lon := g.CellMidpoint(c)
			centers[c] = geom.Point{X: lon, Y: lat}
			continue
		}
		centers[c] = geom.Point{
			X: sumLon[c] / float64(counts[c]),
			Y: sumLat[c] / float64(counts[c]),
		}
	}
	return &CentroidTable{grid: g, centers: centers}
}

// At returns the (lat, lon) centroid of cell c.
func (t *CentroidTable) At(c int) (lat, lon float64) {
	p := t.centers[c]
	return p.Y, p.X
}

// Len returns the number of cells in the table.
func (t *CentroidTable) Len() int { return len(t.centers) }

// InBounds reports whether cell c's centroid lies within c's own footprint,
// edges included; no extra fp tolerance is applied beyond the edges.
func (t *CentroidTable) InBounds(c int) bool {
	b := t.grid.CellBounds(c)
	p := t.centers[c]
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}
