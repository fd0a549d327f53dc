package geoloc

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// earthRadiusKm is the mean Earth radius used for great-circle distances.
const earthRadiusKm = 6372.795

// Grid is an equirectangular grid with longitude granularity L and latitude
// granularity L/2, covering the whole globe with L*(L/2) equal-angle cells.
type Grid struct {
	L int
}

// NewGrid validates L and returns the grid it describes. L must be even and
// positive so that latitude granularity L/2 is an integer.
func NewGrid(l int) (*Grid, error) {
	if l <= 0 || l%2 != 0 {
		return nil, fmt.Errorf("geoloc: longitude granularity must be even and positive, got %d", l)
	}
	return &Grid{L: l}, nil
}

// LatTicks returns the latitude granularity, L/2.
func (g *Grid) LatTicks() int { return g.L / 2 }

// N returns the total number of cells in the grid.
func (g *Grid) N() int { return g.L * g.LatTicks() }

// Delta returns the angular width and height of one cell, in degrees.
func (g *Grid) Delta() float64 { return 360.0 / float64(g.L) }

// X returns the cell column for a longitude in [-180, 180).
func (g *Grid) X(lon float64) int {
	return int(math.Floor((lon + 180) * float64(g.L) / 360))
}

// Y returns the cell row for a latitude in [-90, 90).
func (g *Grid) Y(lat float64) int {
	return int(math.Floor((lat + 90) * float64(g.L) / 360))
}

// Cell returns the flat cell index y*L+x for the given coordinate.
func (g *Grid) Cell(lat, lon float64) int {
	return g.Y(lat)*g.L + g.X(lon)
}

// CellX recovers the column of a flat cell index.
func (g *Grid) CellX(c int) int { return c % g.L }

// CellY recovers the row of a flat cell index.
func (g *Grid) CellY(c int) int { return c / g.L }

// MidLon returns the longitude of the center of column x.
func (g *Grid) MidLon(x int) float64 {
	return float64(x)*g.Delta() - 180 + g.Delta()/2
}

// MidLat returns the latitude of the center of row y.
func (g *Grid) MidLat(y int) float64 {
	return float64(y)*g.Delta() - 90 + g.Delta()/2
}

// CellMidpoint returns the (lat, lon) of the center of cell c.
func (g *Grid) CellMidpoint(c int) (lat, lon float64) {
	return g.MidLat(g.CellY(c)), g.MidLon(g.CellX(c))
}

// CellBounds returns cell c's geographic footprint, X holding longitude and
// Y holding latitude to match the convention the rest of the package uses
// for geom.Point.
func (g *Grid) CellBounds(c int) *geom.Bounds {
	x, y := g.CellX(c), g.CellY(c)
	d := g.Delta()
	lon0 := float64(x)*d - 180
	lat0 := float64(y)*d - 90
	return &geom.Bounds{
		Min: geom.Point{X: lon0, Y: lat0},
		Max: geom.Point{X: lon0 + d, Y: lat0 + d},
	}
}

// Haversine returns the great-circle distance in kilometers between two
// (lat, lon) points in decimal degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	dlat := deg2rad(lat2 - lat1)
	dlon := deg2rad(lon2 - lon1)
	a := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(deg2rad(lat1))*math.Cos(deg2rad(lat2))*math.Sin(dlon/2)*math.Sin(dlon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKm * c
}

func deg2rad(d float64) float64 { return d * math.Pi / 180 }
