package geoloc

import (
	"math"
	"testing"
)

func newTestGrid(t *testing.T) *Grid {
	t.Helper()
	g, err := NewGrid(36)
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestMatrixInitSetCopy(t *testing.T) {
	g := newTestGrid(t)
	m := NewMatrix(g)
	m.Init(2.5)
	for _, v := range m.Elements() {
		if v != 2.5 {
			t.Fatalf("Init: got %g, want 2.5", v)
		}
	}
	m.Set(3, 4, 9.0)
	cp := m.Copy()
	cp.Set(3, 4, -1.0)
	if got := m.At(3, 4); got != 9.0 {
		t.Errorf("Copy should be independent: original mutated to %g", got)
	}
}

func TestMatrixAdd(t *testing.T) {
	g := newTestGrid(t)
	a := NewMatrix(g)
	b := NewMatrix(g)
	a.Init(1.0)
	b.Init(2.0)
	a.Add(b)
	for _, v := range a.Elements() {
		if v != 3.0 {
			t.Fatalf("Add: got %g, want 3.0", v)
		}
	}
}

func TestMatrixNormalizeSumsToOne(t *testing.T) {
	g := newTestGrid(t)
	m := NewMatrix(g)
	m.Init(1.0)
	m.Set(0, 0, 5.0)
	m.Normalize()
	if math.Abs(m.Sum()-1) > 1e-9 {
		t.Errorf("Sum after Normalize = %g, want 1", m.Sum())
	}
	if m.Min() <= 0 {
		t.Errorf("Min after Normalize = %g, want > 0", m.Min())
	}
}

func TestMatrixNormalizeFromLog(t *testing.T) {
	g := newTestGrid(t)
	m := NewMatrix(g)
	for i := range m.Elements() {
		m.Elements()[i] = float64(i)
	}
	m.NormalizeFromLog()
	if math.Abs(m.Sum()-1) > 1e-9 {
		t.Errorf("Sum after NormalizeFromLog = %g, want 1", m.Sum())
	}
	// The largest log value should still map to the largest probability.
	best := 0
	for i, v := range m.Elements() {
		if v > m.Elements()[best] {
			best = i
		}
	}
	if best != g.N()-1 {
		t.Errorf("argmax after NormalizeFromLog = %d, want %d", best, g.N()-1)
	}
}
