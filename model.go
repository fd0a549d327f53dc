package geoloc

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
)

// Model is the full trained, or loaded, state of a geolocator: the document
// prior, centroid table, retained per-feature data, and the aggregate
// feature-mass matrix.
type Model struct {
	Config         Config
	Grid           *Grid
	Prior          *Matrix // P_c
	Centroids      *CentroidTable
	Features       *FeatureStore
	WordMass       *Matrix // M_w
	WordTypes      int
	TotalWordCount int
}

// WriteModel gzip-compresses and writes m to w in the section-tagged text
// format: #LONGRANULARITY#, #TWEETMATRIX#, #CENTROIDS#, one #WORD# block per
// retained feature, and #WORDMATRIX#, each data section terminated by
// #END#. Only features meeting m.Config.Threshold are written.
func WriteModel(w io.Writer, m *Model) error {
	gz := gzip.NewWriter(w)
	bw := bufio.NewWriter(gz)

	fmt.Fprintf(bw, "#LONGRANULARITY# %d\n", m.Grid.L)

	fmt.Fprintf(bw, "#TWEETMATRIX#\n")
	writeTriples(bw, EncodeSparse(m.Prior))
	fmt.Fprintf(bw, "#END#\n")

	fmt.Fprintf(bw, "#CENTROIDS#\n")
	for c := 0; c < m.Centroids.Len(); c++ {
		lat, lon := m.Centroids.At(c)
		fmt.Fprintf(bw, "%s %s\n", formatFloat(lat), formatFloat(lon))
	}
	fmt.Fprintf(bw, "#END#\n")

	index := 0
	for _, name := range m.Features.Names() {
		f, _ := m.Features.Lookup(name)
		if len(f.Points) < m.Config.Threshold {
			continue
		}
		fmt.Fprintf(bw, "#WORD# %d %s %s\n", index, name, formatFloat(f.Weight))
		for _, p := range f.Points {
			fmt.Fprintf(bw, "%s %s\n", formatFloat(float64(p.Lat)), formatFloat(float64(p.Lon)))
		}
		if !m.Config.NoMatrix {
			fmt.Fprintf(bw, "#MATRIX#\n")
			dense := f.DenseMatrix(m.Grid, m.Config)
			writeTriples(bw, EncodeSparse(dense))
		}
		fmt.Fprintf(bw, "#END#\n")
		index++
	}
	fmt.Fprintf(bw, "#END#\n")

	fmt.Fprintf(bw, "#WORDMATRIX#\n")
	writeTriples(bw, EncodeSparse(m.WordMass))
	fmt.Fprintf(bw, "#END#\n")

	if err := bw.Flush(); err != nil {
		return fmt.Errorf("geoloc: writing model: %w", err)
	}
	if err := gz.Close(); err != nil {
		return fmt.Errorf("geoloc: writing model: %w", err)
	}
	return nil
}

func writeTriples(w io.Writer, entries []SparseEntry) {
	for _, e := range entries {
		fmt.Fprintf(w, "%d %d %s\n", e.X, e.Y, formatFloat(float64(e.Value)))
	}
}

// formatFloat uses the shortest representation that round-trips, the
// closest Go equivalent to the source's %lg/%g (which are identical for
// double arguments in C printf; "l" has no effect there).
func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// ReadModel reads a gzip-compressed model previously written by WriteModel.
// If filter is non-nil, only features whose name is present in filter are
// materialized; skipped features' sections are still fully consumed so the
// scan stays in sync with the file. cfg supplies the hyperparameters not
// recorded in the file (sigma, word/tweet priors, nokde, etc); the file's
// own #LONGRANULARITY# value overrides cfg.LongRanularity.
func ReadModel(r io.Reader, cfg Config, filter map[string]bool) (*Model, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("geoloc: opening model: %w", err)
	}
	defer gz.Close()

	sc := bufio.NewScanner(gz)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	fail := func(reason string) (*Model, error) {
		return nil, fmt.Errorf("geoloc: reading model: %s", reason)
	}
	next := func() (string, bool) {
		if !sc.Scan() {
			return "", false
		}
		return sc.Text(), true
	}

	line, ok := next()
	if !ok {
		return fail("unexpected end of file")
	}
	var l int
	if _, err := fmt.Sscanf(line, "#LONGRANULARITY# %d", &l); err != nil {
		return fail("missing #LONGRANULARITY#")
	}
	g, err := NewGrid(l)
	if err != nil {
		return fail(err.Error())
	}
	cfg = cfg.WithLongRanularity(l)

	if line, ok = next(); !ok || line != "#TWEETMATRIX#" {
		return fail("missing #TWEETMATRIX#")
	}
	prior := NewMatrix(g)
	for {
		line, ok = next()
		if !ok {
			return fail("unexpected end of file in #TWEETMATRIX#")
		}
		if strings.HasPrefix(line, "#") {
			break
		}
		var x, y int
		var v float64
		if _, err := fmt.Sscanf(line, "%d %d %g", &x, &y, &v); err != nil {
			return fail("malformed tweetmatrix triple")
		}
		prior.Set(x, y, v)
	}
	if line != "#END#" {
		return fail("missing #END# after #TWEETMATRIX#")
	}

	if line, ok = next(); !ok || line != "#CENTROIDS#" {
		return fail("missing #CENTROIDS#")
	}
	centers := make([]float64, 0, g.N()*2)
	for {
		line, ok = next()
		if !ok {
			return fail("unexpected end of file in #CENTROIDS#")
		}
		if strings.HasPrefix(line, "#") {
			break
		}
		var lat, lon float64
		if _, err := fmt.Sscanf(line, "%g %g", &lat, &lon); err != nil {
			return fail("malformed centroid row")
		}
		centers = append(centers, lat, lon)
	}
	if line != "#END#" {
		return fail("missing #END# after #CENTROIDS#")
	}
	centroids := centroidTableFromFlat(g, centers)

	store := NewFeatureStore()
	wordTypes := 0
	totalWordCount := 0
	for {
		line, ok = next()
		if !ok {
			return fail("unexpected end of file in word list")
		}
		if line == "#END#" {
			break
		}
		var index int
		var name string
		var weight float64
		n, _ := fmt.Sscanf(line, "#WORD# %d %s %g", &index, &name, &weight)
		if n != 2 && n != 3 {
			return fail("malformed #WORD# header")
		}
		if n == 2 {
			weight = 1.0
		}
		wordTypes++

		keep := filter == nil || filter[name]
		if !keep {
			for {
				line, ok = next()
				if !ok {
					return fail("unexpected end of file skipping word record")
				}
				if line == "#END#" {
					break
				}
			}
			continue
		}

		store.Add(name, 0, 0, true)
		store.SetWeight(name, weight)
		hasMatrix := false
		for {
			line, ok = next()
			if !ok {
				return fail("unexpected end of file in word record")
			}
			if line == "#MATRIX#" {
				hasMatrix = true
				break
			}
			if line == "#END#" {
				hasMatrix = false
				break
			}
			var lat, lon float64
			if _, err := fmt.Sscanf(line, "%g %g", &lat, &lon); err != nil {
				return fail("malformed word point row")
			}
			totalWordCount++
			store.Add(name, lat, lon, true)
		}
		if hasMatrix {
			var entries []SparseEntry
			for {
				line, ok = next()
				if !ok {
					return fail("unexpected end of file in #MATRIX#")
				}
				if line == "#END#" {
					break
				}
				var x, y int
				var v float64
				if _, err := fmt.Sscanf(line, "%d %d %g", &x, &y, &v); err != nil {
					return fail("malformed matrix triple")
				}
				entries = append(entries, SparseEntry{X: int16(x), Y: int16(y), Value: float32(v)})
			}
			store.AttachDensity(name, entries)
		}
	}

	if line, ok = next(); !ok || line != "#WORDMATRIX#" {
		return fail("missing #WORDMATRIX#")
	}
	wordMass := NewMatrix(g)
	for {
		line, ok = next()
		if !ok {
			return fail("unexpected end of file in #WORDMATRIX#")
		}
		if strings.HasPrefix(line, "#") {
			break
		}
		var x, y int
		var v float64
		if _, err := fmt.Sscanf(line, "%d %d %g", &x, &y, &v); err != nil {
			return fail("malformed wordmatrix triple")
		}
		wordMass.Set(x, y, v)
	}

	if err := sc.Err(); err != nil {
		return fail(err.Error())
	}

	return &Model{
		Config:         cfg,
		Grid:           g,
		Prior:          prior,
		Centroids:      centroids,
		Features:       store,
		WordMass:       wordMass,
		WordTypes:      wordTypes,
		TotalWordCount: totalWordCount,
	}, nil
}

func centroidTableFromFlat(g *Grid, flat []float64) *CentroidTable {
	// Rebuilt by replaying the flat (lat, lon) rows through BuildCentroids'
	// output shape rather than its point-averaging path, since the file
	// already stores the final per-cell centroid.
	t := &CentroidTable{grid: g}
	t.centers = make([]geom.Point, len(flat)/2)
	for c := range t.centers {
		t.centers[c].Y = flat[c*2]
		t.centers[c].X = flat[c*2+1]
	}
	return t
}
