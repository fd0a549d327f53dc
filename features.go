package geoloc

import "fmt"

// Point is a single observed document coordinate. Stored as float32 to
// halve the model's in-memory and on-disk footprint; all arithmetic
// promotes to float64.
type Point struct {
	Lat float32
	Lon float32
}

// Feature holds one feature's training observations and derived state.
type Feature struct {
	Name   string
	Points []Point
	Weight float64
	// rawCount mirrors the source's observation counter, seeded at -1 and
	// incremented on every Add call regardless of whether a point was
	// appended. It is one less than the number of Add calls, preserved for
	// parity with the original; threshold and scoring logic use len(Points)
	// instead (see DESIGN.md).
	rawCount int
	Density  []SparseEntry
}

// RawCount returns the off-by-one observation counter described above.
func (f *Feature) RawCount() int { return f.rawCount }

// FeatureStore maps feature name to Feature, preserving first-seen order so
// the model codec can write #WORD# entries deterministically.
type FeatureStore struct {
	order  []string
	byName map[string]*Feature
}

// NewFeatureStore returns an empty store.
func NewFeatureStore() *FeatureStore {
	return &FeatureStore{byName: make(map[string]*Feature)}
}

// Add creates the record on first sight with weight 1.0, appends a point
// unless both coordinates are exactly zero, and increments the record's
// raw observation counter. A (lat, lon) of (0, 0) is the convention for
// loading a record header without coordinates.
func (s *FeatureStore) Add(name string, lat, lon float64, storeName bool) *Feature {
	f, ok := s.byName[name]
	if !ok {
		f = &Feature{Weight: 1.0, rawCount: -1}
		if storeName {
			f.Name = name
		}
		s.byName[name] = f
		s.order = append(s.order, name)
	}
	f.rawCount++
	if lat != 0 || lon != 0 {
		f.Points = append(f.Points, Point{Lat: float32(lat), Lon: float32(lon)})
	}
	return f
}

// Lookup returns the feature record for name, if any.
func (s *FeatureStore) Lookup(name string) (*Feature, bool) {
	f, ok := s.byName[name]
	return f, ok
}

// MustLookup returns the feature record for name, panicking if it is
// absent. This is the direct API the classifier avoids by guarding with
// Lookup; a panic here indicates a programming bug, not a user error.
func (s *FeatureStore) MustLookup(name string) *Feature {
	f, ok := s.byName[name]
	if !ok {
		panic(fmt.Sprintf("geoloc: feature not found: %q", name))
	}
	return f
}

// SetWeight sets name's scoring weight.
func (s *FeatureStore) SetWeight(name string, w float64) { s.MustLookup(name).Weight = w }

// Weight returns name's scoring weight.
func (s *FeatureStore) Weight(name string) float64 { return s.MustLookup(name).Weight }

// Count returns the number of retained points for name.
func (s *FeatureStore) Count(name string) int { return len(s.MustLookup(name).Points) }

// AttachDensity stores a precomputed sparse density for name.
func (s *FeatureStore) AttachDensity(name string, entries []SparseEntry) {
	s.MustLookup(name).Density = entries
}

// Names returns every feature name in first-seen order.
func (s *FeatureStore) Names() []string { return s.order }

// Len returns the number of distinct features in the store.
func (s *FeatureStore) Len() int { return len(s.order) }

// DenseMatrix returns f's density matrix, decoding the stored sparse
// density if present or recomputing it on the fly via KDE/counting
// otherwise.
func (f *Feature) DenseMatrix(g *Grid, cfg Config) *Matrix {
	if f.Density != nil {
		return DecodeSparse(g, f.Density)
	}
	m := NewMatrix(g)
	if cfg.NoKDE {
		DepositCounts(m, f.Points)
	} else {
		DepositKDE(m, f.Points, cfg.Sigma, cfg.Sigma, 0)
	}
	return m
}

// LookupDensity looks up name and returns its density matrix, or false if
// the feature is unknown.
func (s *FeatureStore) LookupDensity(name string, g *Grid, cfg Config) (*Matrix, bool) {
	f, ok := s.byName[name]
	if !ok {
		return nil, false
	}
	return f.DenseMatrix(g, cfg), true
}
