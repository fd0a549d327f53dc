package geoloc

import "testing"

func TestFeatureStoreAddCreatesAndAppends(t *testing.T) {
	s := NewFeatureStore()
	s.Add("cat", 10, 20, true)
	s.Add("cat", 11, 21, true)

	f, ok := s.Lookup("cat")
	if !ok {
		t.Fatal("expected feature to exist")
	}
	if len(f.Points) != 2 {
		t.Fatalf("got %d points, want 2", len(f.Points))
	}
	if s.Count("cat") != 2 {
		t.Errorf("Count = %d, want 2", s.Count("cat"))
	}
}

func TestFeatureStoreRawCountOffByOne(t *testing.T) {
	s := NewFeatureStore()
	s.Add("cat", 10, 20, true)
	f, _ := s.Lookup("cat")
	if f.RawCount() != 0 {
		t.Errorf("RawCount after one Add = %d, want 0 (seeded -1, incremented once)", f.RawCount())
	}
	s.Add("cat", 11, 21, true)
	s.Add("cat", 0, 0, true)
	if f.RawCount() != 2 {
		t.Errorf("RawCount after three Adds = %d, want 2", f.RawCount())
	}
	// The zero-coordinate Add must not have appended a point.
	if len(f.Points) != 2 {
		t.Errorf("len(Points) = %d, want 2 (zero-coordinate Add skipped)", len(f.Points))
	}
}

func TestFeatureStoreZeroZeroConventionSkipsPoint(t *testing.T) {
	s := NewFeatureStore()
	s.Add("dog", 0, 0, true)
	f, ok := s.Lookup("dog")
	if !ok {
		t.Fatal("expected feature record to be created even with a (0,0) first observation")
	}
	if len(f.Points) != 0 {
		t.Errorf("len(Points) = %d, want 0 for a (0,0) observation", len(f.Points))
	}
}

func TestFeatureStoreMustLookupPanicsOnUnknown(t *testing.T) {
	s := NewFeatureStore()
	defer func() {
		if recover() == nil {
			t.Error("MustLookup on an unknown name should panic")
		}
	}()
	s.MustLookup("nope")
}

func TestFeatureStoreNamesPreservesFirstSeenOrder(t *testing.T) {
	s := NewFeatureStore()
	s.Add("b", 1, 1, true)
	s.Add("a", 2, 2, true)
	s.Add("b", 3, 3, true)
	got := s.Names()
	want := []string{"b", "a"}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("Names() = %v, want %v", got, want)
	}
}

func TestFeatureDenseMatrixCounts(t *testing.T) {
	g := newTestGrid(t)
	s := NewFeatureStore()
	s.Add("cat", 10, 20, true)
	s.Add("cat", 10, 20, true)
	f, _ := s.Lookup("cat")

	cfg := DefaultConfig()
	cfg.NoKDE = true
	m := f.DenseMatrix(g, cfg)
	x, y := g.X(20), g.Y(10)
	if got := m.At(x, y); got != 2 {
		t.Errorf("count density at (%d,%d) = %g, want 2", x, y, got)
	}
}
