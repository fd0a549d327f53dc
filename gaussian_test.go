package geoloc

import (
	"math"
	"testing"
)

func TestBivariateGaussianPDFPeak(t *testing.T) {
	peak := BivariateGaussianPDF(0, 0, 3, 3, 0, 0, 0)
	want := 1 / (2 * math.Pi * 3 * 3)
	if math.Abs(peak-want) > 1e-12 {
		t.Errorf("peak density = %g, want %g", peak, want)
	}
	off := BivariateGaussianPDF(10, 10, 3, 3, 0, 0, 0)
	if off >= peak {
		t.Errorf("density away from the mean (%g) should be less than the peak (%g)", off, peak)
	}
}

func TestDepositKDESingleTokenMatchesFormula(t *testing.T) {
	g, err := NewGrid(360)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatrix(g)
	pt := Point{Lat: 0, Lon: 0}
	DepositKDE(m, []Point{pt}, 3.0, 3.0, 0)

	x, y := g.X(0), g.Y(0)
	midLon, midLat := g.MidLon(x), g.MidLat(y)
	want := BivariateGaussianPDF(midLon, midLat, 3, 3, 0, 0, 0)
	got := m.At(x, y)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("density at origin cell = %g, want %g", got, want)
	}
}

func TestDepositCountsIncrementsOnlyOwnCell(t *testing.T) {
	g, err := NewGrid(72)
	if err != nil {
		t.Fatal(err)
	}
	m := NewMatrix(g)
	pts := []Point{{Lat: 10, Lon: 20}, {Lat: 10, Lon: 20}, {Lat: -10, Lon: -20}}
	DepositCounts(m, pts)

	x, y := g.X(20), g.Y(10)
	if got := m.At(x, y); got != 2 {
		t.Errorf("cell (%d,%d) = %g, want 2", x, y, got)
	}
	x2, y2 := g.X(-20), g.Y(-10)
	if got := m.At(x2, y2); got != 1 {
		t.Errorf("cell (%d,%d) = %g, want 1", x2, y2, got)
	}
	if got := m.Sum(); got != 3 {
		t.Errorf("matrix sum = %g, want 3", got)
	}
}

func TestKDERadiusRespectsCutoff(t *testing.T) {
	g, err := NewGrid(360)
	if err != nil {
		t.Fatal(err)
	}
	r := kdeRadius(g, 3, 3, 0)
	d := BivariateGaussianPDF(float64(r)*g.Delta(), 0, 3, 3, 0, 0, 0)
	if d >= kdeCutoff {
		t.Errorf("density at radius %d is %g, want below cutoff %g", r, d, kdeCutoff)
	}
	if r > 0 {
		dInside := BivariateGaussianPDF(float64(r-1)*g.Delta(), 0, 3, 3, 0, 0, 0)
		if dInside < kdeCutoff {
			t.Errorf("density just inside radius %d is %g, want at or above cutoff", r-1, dInside)
		}
	}
}
