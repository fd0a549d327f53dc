package geoloc

import "fmt"

// Config is an immutable bundle of hyperparameters threaded by value through
// the trainer, classifier, evaluator, and model codec. No package in this
// module reads process-global state; the CLI layer is solely responsible
// for building one from flags.
type Config struct {
	LongRanularity  int
	NoKDE           bool
	Sigma           float64
	Threshold       int
	NoMatrix        bool
	KullbackLeibler bool
	PrintMatrix     bool
	Centroid        bool
	WordPrior       float64
	TweetPrior      float64
	Unk             bool
	ComplementNB    bool
	ModelFile       string
	Stopwords       string
}

// DefaultConfig mirrors the source's compiled-in defaults.
func DefaultConfig() Config {
	return Config{
		LongRanularity: 360,
		Sigma:          3.0,
		Threshold:      1,
		WordPrior:      0.01,
		TweetPrior:     1.0,
	}
}

// Grid builds the Grid this config describes.
func (c Config) Grid() (*Grid, error) { return NewGrid(c.LongRanularity) }

// ResolvedModelFile returns ModelFile if set, or the default "model<L>.gz".
func (c Config) ResolvedModelFile() string {
	if c.ModelFile != "" {
		return c.ModelFile
	}
	return fmt.Sprintf("model%d.gz", c.LongRanularity)
}

// WithLongRanularity returns a copy of c with LongRanularity overridden,
// the reconciliation a loaded model's #LONGRANULARITY# header performs
// against whatever granularity the caller supplied on the command line.
func (c Config) WithLongRanularity(l int) Config {
	c.LongRanularity = l
	return c
}
