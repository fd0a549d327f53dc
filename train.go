package geoloc

import (
	"fmt"
	"io"
	"log"

	"github.com/wincentbalin/geoloc-kde/corpus"
)

// Train reads a labeled corpus and builds a Model according to cfg. Tokens
// present in stopwords are dropped before being added to the feature store.
// logger receives progress messages; pass a discard logger in tests.
func Train(r io.Reader, cfg Config, stopwords map[string]bool, logger *log.Logger) (*Model, error) {
	g, err := cfg.Grid()
	if err != nil {
		return nil, err
	}

	store := NewFeatureStore()
	var docPoints []Point

	err = corpus.ScanLabeled(r, func(rec corpus.Record) error {
		docPoints = append(docPoints, Point{Lat: float32(rec.Lat), Lon: float32(rec.Lon)})
		for _, tok := range rec.Tokens {
			if stopwords != nil && stopwords[tok] {
				continue
			}
			store.Add(tok, rec.Lat, rec.Lon, true)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("geoloc: reading training corpus: %w", err)
	}

	logger.Printf("calculating p(c) matrix...")
	prior := NewMatrix(g)
	prior.Init(cfg.TweetPrior)
	if cfg.NoKDE {
		DepositCounts(prior, docPoints)
	} else {
		DepositKDE(prior, docPoints, cfg.Sigma, cfg.Sigma, 0)
	}
	prior.Normalize()

	centroids := BuildCentroids(g, docPoints)

	wordMass := NewMatrix(g)
	wordTypes := 0
	totalWordCount := 0
	retained := NewFeatureStore()
	for i, name := range store.Names() {
		f, _ := store.Lookup(name)
		if len(f.Points) < cfg.Threshold {
			continue
		}
		retained.byName[name] = f
		retained.order = append(retained.order, name)
		wordTypes++
		totalWordCount += len(f.Points)
		if i%5000 == 0 {
			logger.Printf("calculating p(c|w) for feature %d of %d", i, store.Len())
		}
		dense := NewMatrix(g)
		if cfg.NoKDE {
			DepositCounts(dense, f.Points)
		} else {
			DepositKDE(dense, f.Points, cfg.Sigma, cfg.Sigma, 0)
		}
		if !cfg.NoMatrix {
			f.Density = EncodeSparse(dense)
		}
		wordMass.Add(dense)
	}

	return &Model{
		Config:         cfg,
		Grid:           g,
		Prior:          prior,
		Centroids:      centroids,
		Features:       retained,
		WordMass:       wordMass,
		WordTypes:      wordTypes,
		TotalWordCount: totalWordCount,
	}, nil
}
