package geoloc

import "math"

// kdeCutoff is the density threshold below which KDE deposits are truncated.
// This bound is load-bearing: it fixes both the deposit radius and the mass
// each feature ends up with, so it must not be tuned per call.
const kdeCutoff = 1e-3

// BivariateGaussianPDF evaluates an isotropic (or correlated) bivariate
// normal density at (x1, x2) with means (mu1, mu2), standard deviations
// (sigma1, sigma2) and correlation rho.
func BivariateGaussianPDF(x1, x2, sigma1, sigma2, rho, mu1, mu2 float64) float64 {
	d1 := x1 - mu1
	d2 := x2 - mu2
	z := d1*d1/(sigma1*sigma1) - 2*rho*d1*d2/(sigma1*sigma2) + d2*d2/(sigma2*sigma2)
	norm := 1 / (2 * math.Pi * sigma1 * sigma2 * math.Sqrt(1-rho*rho))
	return norm * math.Exp(-z/(2*(1-rho*rho)))
}

// kdeRadius steps outward along one axis from the kernel's center until the
// one-dimensional Gaussian falls below kdeCutoff, and returns that distance
// in grid ticks. The radius depends only on the grid spacing and kernel
// parameters, not on any particular point, so it is computed once per
// deposit pass.
func kdeRadius(g *Grid, sigma1, sigma2, rho float64) int {
	delta := g.Delta()
	for x := 0; ; x++ {
		d := BivariateGaussianPDF(float64(x)*delta, 0, sigma1, sigma2, rho, 0, 0)
		if d < kdeCutoff {
			return x
		}
	}
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// DepositKDE adds Gaussian kernel mass for each point into m, clipped to the
// grid edges with no wrap-around at the +/-180 degree seam.
func DepositKDE(m *Matrix, points []Point, sigma1, sigma2, rho float64) {
	g := m.Grid()
	r := kdeRadius(g, sigma1, sigma2, rho)
	for _, p := range points {
		lat, lon := float64(p.Lat), float64(p.Lon)
		x0, y0 := g.X(lon), g.Y(lat)
		minX := clampInt(x0-r, 0, g.L)
		maxX := clampInt(x0+r, 0, g.L)
		minY := clampInt(y0-r, 0, g.LatTicks())
		maxY := clampInt(y0+r, 0, g.LatTicks())
		for y := minY; y < maxY; y++ {
			midLat := g.MidLat(y)
			for x := minX; x < maxX; x++ {
				midLon := g.MidLon(x)
				mass := BivariateGaussianPDF(midLon, midLat, sigma1, sigma2, rho, lon, lat)
				m.AddAt(x, y, mass)
			}
		}
	}
}

// DepositCounts increments the cell containing each point by 1, the nokde
// alternative to DepositKDE.
func DepositCounts(m *Matrix, points []Point) {
	g := m.Grid()
	for _, p := range points {
		x, y := g.X(float64(p.Lon)), g.Y(float64(p.Lat))
		m.AddAt(x, y, 1)
	}
}
