package geoloc

import (
	"fmt"
	"io"
	"sort"

	gostats "github.com/GaryBoone/GoStats/stats"
	"github.com/wincentbalin/geoloc-kde/corpus"
)

// EvalResult summarizes classifier performance over a labeled corpus.
type EvalResult struct {
	DataPoints int
	MeanKM     float64
	MedianKM   float64
}

// Evaluate classifies each record in r, measures great-circle error against
// the labeled truth, writes a running mean every 100 records to out, and
// returns the final summary.
func Evaluate(r io.Reader, out io.Writer, m *Model, cls *Classifier) (EvalResult, error) {
	var distances []float64
	total := 0.0
	line := 0

	err := corpus.ScanLabeled(r, func(rec corpus.Record) error {
		line++
		cell := cls.Classify(rec.Tokens, nil)
		var lat, lon float64
		if m.Config.Centroid {
			lat, lon = m.Centroids.At(cell)
		} else {
			lat, lon = m.Grid.CellMidpoint(cell)
		}
		d := Haversine(rec.Lat, rec.Lon, lat, lon)
		distances = append(distances, d)
		total += d
		if line%100 == 0 {
			fmt.Fprintf(out, "%d: %g,%g\t%g\t%d\trunning mean: %g\n",
				line, lat, lon, d, cell, total/float64(line))
		}
		return nil
	})
	if err != nil {
		return EvalResult{}, fmt.Errorf("geoloc: evaluating corpus: %w", err)
	}

	res := EvalResult{DataPoints: len(distances)}
	if len(distances) == 0 {
		return res, nil
	}
	res.MeanKM = gostats.StatsMean(distances)
	res.MedianKM = median(distances)

	fmt.Fprintf(out, "--------------------------\nDATA POINTS: %d\n", res.DataPoints)
	fmt.Fprintf(out, "MEAN DISTANCE: %g\n", res.MeanKM)
	fmt.Fprintf(out, "MEDIAN DISTANCE: %g\n--------------------------\n", res.MedianKM)

	return res, nil
}

// median returns the sorted median of data. GoStats (github.com/GaryBoone/GoStats)
// has no median function, only mean/variance/regression helpers, so this is
// a small sort.Float64s-based helper rather than a hand-rolled mean.
func median(data []float64) float64 {
	sorted := append([]float64(nil), data...)
	sort.Float64s(sorted)
	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2] + sorted[n/2-1]) / 2
	}
	return sorted[n/2]
}
