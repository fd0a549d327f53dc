package geoloc

import "testing"

func TestSparseRoundTrip(t *testing.T) {
	g := newTestGrid(t)
	m := NewMatrix(g)
	m.Set(0, 0, 1.5)
	m.Set(10, 5, -2.25)
	m.Set(g.L-1, g.LatTicks()-1, 3.0)

	entries := EncodeSparse(m)
	if len(entries) != 3 {
		t.Fatalf("EncodeSparse returned %d entries, want 3", len(entries))
	}

	decoded := DecodeSparse(g, entries)
	for x := 0; x < g.L; x++ {
		for y := 0; y < g.LatTicks(); y++ {
			if decoded.At(x, y) != m.At(x, y) {
				t.Fatalf("decode(encode(M)) mismatch at (%d,%d): got %g, want %g", x, y, decoded.At(x, y), m.At(x, y))
			}
		}
	}
}

func TestEncodeSparseSkipsZeros(t *testing.T) {
	g := newTestGrid(t)
	m := NewMatrix(g)
	entries := EncodeSparse(m)
	if len(entries) != 0 {
		t.Errorf("EncodeSparse of an all-zero matrix returned %d entries, want 0", len(entries))
	}
}

func TestEncodeSparseColumnMajorOrder(t *testing.T) {
	g := newTestGrid(t)
	m := NewMatrix(g)
	m.Set(1, 0, 1)
	m.Set(0, 1, 1)
	entries := EncodeSparse(m)
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	// x outer, y inner: (0,1) must come before (1,0).
	if !(entries[0].X == 0 && entries[0].Y == 1) {
		t.Errorf("first entry = %+v, want x=0,y=1 (column-major order)", entries[0])
	}
}
