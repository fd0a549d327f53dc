package geoloc

// SparseEntry is one nonzero cell of an encoded dense matrix.
type SparseEntry struct {
	X, Y  int16
	Value float32
}

// EncodeSparse walks m in column-major order (x outer, y inner) and returns
// one entry per nonzero cell. This order is part of the model file format
// and must not change independently of it.
func EncodeSparse(m *Matrix) []SparseEntry {
	g := m.Grid()
	var out []SparseEntry
	for x := 0; x < g.L; x++ {
		for y := 0; y < g.LatTicks(); y++ {
			v := m.At(x, y)
			if v != 0 {
				out = append(out, SparseEntry{X: int16(x), Y: int16(y), Value: float32(v)})
			}
		}
	}
	return out
}

// DecodeSparse scatters entries into a freshly zeroed dense matrix sized
// for g.
func DecodeSparse(g *Grid, entries []SparseEntry) *Matrix {
	m := NewMatrix(g)
	for _, e := range entries {
		m.Set(int(e.X), int(e.Y), float64(e.Value))
	}
	return m
}
