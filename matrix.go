package geoloc

import (
	"math"

	"github.com/ctessum/sparse"
	"gonum.org/v1/gonum/floats"
)

// Matrix is a dense grid-sized array of float64 values. Cell (x, y) lives at
// flat index y*L+x, the layout the sparse codec and model file format both
// depend on, backed by a sparse.DenseArray shaped (latTicks, L) so that row
// y is contiguous.
type Matrix struct {
	grid *Grid
	arr  *sparse.DenseArray
}

// NewMatrix allocates a zeroed matrix sized for g.
func NewMatrix(g *Grid) *Matrix {
	return &Matrix{grid: g, arr: sparse.ZerosDense(g.LatTicks(), g.L)}
}

// Grid returns the grid this matrix is sized for.
func (m *Matrix) Grid() *Grid { return m.grid }

// Elements exposes the backing storage in cell-index order for direct use
// with gonum/floats vector operations.
func (m *Matrix) Elements() []float64 { return m.arr.Elements }

// At returns the value at column x, row y.
func (m *Matrix) At(x, y int) float64 { return m.arr.Elements[y*m.grid.L+x] }

// Set assigns the value at column x, row y.
func (m *Matrix) Set(x, y int, v float64) { m.arr.Elements[y*m.grid.L+x] = v }

// AddAt adds v to the value at column x, row y.
func (m *Matrix) AddAt(x, y int, v float64) { m.arr.Elements[y*m.grid.L+x] += v }

// AtCell returns the value at flat cell index c.
func (m *Matrix) AtCell(c int) float64 { return m.arr.Elements[c] }

// SetCell assigns the value at flat cell index c.
func (m *Matrix) SetCell(c int, v float64) { m.arr.Elements[c] = v }

// Init fills every cell with value.
func (m *Matrix) Init(value float64) {
	for i := range m.arr.Elements {
		m.arr.Elements[i] = value
	}
}

// Copy returns an independent copy of m.
func (m *Matrix) Copy() *Matrix {
	out := NewMatrix(m.grid)
	copy(out.arr.Elements, m.arr.Elements)
	return out
}

// Add adds other element-wise into m, in place.
func (m *Matrix) Add(other *Matrix) {
	floats.Add(m.arr.Elements, other.arr.Elements)
}

// Sum returns the sum of all cells.
func (m *Matrix) Sum() float64 { return floats.Sum(m.arr.Elements) }

// Min returns the smallest cell value.
func (m *Matrix) Min() float64 { return floats.Min(m.arr.Elements) }

// Normalize divides every cell by the current sum, so the matrix sums to 1.
func (m *Matrix) Normalize() {
	sum := floats.Sum(m.arr.Elements)
	floats.Scale(1/sum, m.arr.Elements)
}

// NormalizeFromLog treats the matrix as log-probabilities: it subtracts the
// max (for numerical stability), exponentiates, and normalizes to sum 1.
func (m *Matrix) NormalizeFromLog() {
	max := floats.Max(m.arr.Elements)
	for i, v := range m.arr.Elements {
		m.arr.Elements[i] = math.Exp(v - max)
	}
	sum := floats.Sum(m.arr.Elements)
	floats.Scale(1/sum, m.arr.Elements)
}
