package geoloc

import (
	"fmt"
	"io"
	"log"

	"github.com/wincentbalin/geoloc-kde/corpus"
)

// TunedModelFile is the fixed output filename for a tuned model.
const TunedModelFile = "tunedmodel.gz"

// Tune runs a single experimental dev pass over dev: for every misclassified
// record it nudges each known feature's weight by +-0.01 depending on
// whether that feature's density favors the correct cell or the guessed
// one, adjusting m's weights in place. Records are classified with plain
// (non-complement) Naive Bayes whatever m.Config selects. There is no
// learning-rate schedule or convergence check; this is a direct port of the
// source's geoloc_tune and is not covered by the package's invariants.
func Tune(dev io.Reader, m *Model, logger *log.Logger) error {
	cfg := m.Config
	cfg.ComplementNB = false
	cfg.KullbackLeibler = false
	cls := NewClassifier(&Model{
		Config: cfg, Grid: m.Grid, Prior: m.Prior, Centroids: m.Centroids,
		Features: m.Features, WordMass: m.WordMass, WordTypes: m.WordTypes,
		TotalWordCount: m.TotalWordCount,
	})

	return corpus.ScanLabeled(dev, func(rec corpus.Record) error {
		guess := cls.Classify(rec.Tokens, nil)
		correct := m.Grid.Cell(rec.Lat, rec.Lon)
		lat, lon := m.Grid.CellMidpoint(guess)
		errKM := Haversine(rec.Lat, rec.Lon, lat, lon)
		logger.Printf("guessed cell: %d correct cell: %d error: %f", guess, correct, errKM)

		if guess == correct {
			return nil
		}
		for _, tok := range rec.Tokens {
			f, ok := m.Features.Lookup(tok)
			if !ok {
				continue
			}
			dense := f.DenseMatrix(m.Grid, m.Config)
			correctWeight := dense.AtCell(correct)
			guessedWeight := dense.AtCell(guess)
			adjust := -0.01
			if correctWeight > guessedWeight {
				adjust = 0.01
			}
			m.Features.SetWeight(tok, f.Weight+adjust)
		}
		return nil
	})
}

// WriteTunedModel writes m to the fixed tuned-model filename via w, wrapping
// any codec failure with the operation's context.
func WriteTunedModel(w io.Writer, m *Model) error {
	if err := WriteModel(w, m); err != nil {
		return fmt.Errorf("geoloc: writing tuned model: %w", err)
	}
	return nil
}
