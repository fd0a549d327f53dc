// Package geolocutil assembles the geoloc command-line interface: a cobra
// command tree, flags bound through pflag, and values collected into a
// geoloc.Config via viper, mirroring the way the teacher's inmaputil.Cfg
// wraps *viper.Viper.
package geolocutil

import (
	"fmt"
	"log"
	"os"

	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/wincentbalin/geoloc-kde"
	"github.com/wincentbalin/geoloc-kde/corpus"
)

// Cfg holds the command tree and the viper instance backing it.
type Cfg struct {
	*viper.Viper

	Root, trainCmd, classifyCmd, evalCmd, tuneCmd *cobra.Command
}

var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

// InitializeConfig builds the command tree, registers every flag once per
// command that needs it, and binds each into viper.
func InitializeConfig() *Cfg {
	cfg := &Cfg{Viper: viper.New()}

	cfg.Root = &cobra.Command{
		Use:   "geoloc",
		Short: "Train and query a text-feature geolocator.",
		Long: `geoloc learns a per-feature geographic probability distribution from a
labeled corpus of short documents and uses it to predict the origin of
unlabeled documents, or to evaluate prediction accuracy against a held-out
labeled set.`,
		DisableAutoGenTag: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return setConfig(cfg)
		},
	}

	cfg.trainCmd = &cobra.Command{
		Use:   "train DOCUMENTFILE",
		Short: "Train a model from a labeled document corpus.",
		Long:  "train reads DOCUMENTFILE (lat,lon,feature...  per line) and writes a model file.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTrain(cfg, args[0])
		},
		DisableAutoGenTag: true,
	}

	cfg.classifyCmd = &cobra.Command{
		Use:   "classify DOCUMENTFILE",
		Short: "Classify unlabeled documents into grid cells.",
		Long:  "classify reads DOCUMENTFILE (feature... per line) and prints a predicted coordinate, or the full posterior with --print-matrix.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runClassify(cfg, args[0])
		},
		DisableAutoGenTag: true,
	}

	cfg.evalCmd = &cobra.Command{
		Use:   "eval DOCUMENTFILE",
		Short: "Evaluate prediction accuracy on a labeled document corpus.",
		Long:  "eval reads DOCUMENTFILE (lat,lon,feature...  per line), classifies each record, and reports mean and median great-circle error.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEval(cfg, args[0])
		},
		DisableAutoGenTag: true,
	}

	cfg.tuneCmd = &cobra.Command{
		Use:   "tune DEVFILE",
		Short: "Experimental: nudge feature weights from a single dev-set pass.",
		Long:  "tune is an experimental, unvalidated weight-adjustment pass; it is not covered by the accuracy guarantees of train/classify/eval.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTune(cfg, args[0])
		},
		DisableAutoGenTag: true,
	}

	cfg.Root.AddCommand(cfg.trainCmd, cfg.classifyCmd, cfg.evalCmd, cfg.tuneCmd)

	allCmds := []*pflag.FlagSet{
		cfg.trainCmd.Flags(), cfg.classifyCmd.Flags(), cfg.evalCmd.Flags(), cfg.tuneCmd.Flags(),
	}

	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{name: "longranularity", usage: "longitude granularity of the grid; latitude granularity is half this value.", defaultVal: 360, flagsets: allCmds},
		{name: "nokde", usage: "deposit plain point counts instead of kernel density estimates.", defaultVal: false, flagsets: allCmds},
		{name: "sigma", usage: "standard deviation, in degrees, of the KDE kernel.", defaultVal: 3.0, flagsets: allCmds},
		{name: "threshold", usage: "minimum number of observations a feature needs to be retained.", defaultVal: 1, flagsets: allCmds},
		{name: "nomatrix", usage: "do not store per-feature density matrices in the model (smaller file, slower classification).", defaultVal: false, flagsets: allCmds},
		{name: "kullback-leibler", usage: "use the KL-divergence scorer instead of Naive Bayes.", defaultVal: false, flagsets: allCmds},
		{name: "print-matrix", usage: "print the full normalized posterior grid instead of a single coordinate.", defaultVal: false, flagsets: []*pflag.FlagSet{cfg.classifyCmd.Flags()}},
		{name: "centroid", usage: "use each cell's point centroid instead of its midpoint.", defaultVal: false, flagsets: allCmds},
		{name: "prior", usage: "additive per-feature pseudocount (word prior).", defaultVal: 0.01, flagsets: allCmds},
		{name: "tweetprior", usage: "additive per-cell pseudocount applied to the document prior before normalization.", defaultVal: 1.0, flagsets: []*pflag.FlagSet{cfg.trainCmd.Flags()}},
		{name: "unk", usage: "admit unknown features with zero density instead of dropping them.", defaultVal: false, flagsets: allCmds},
		{name: "complement-nb", usage: "use the complement Naive Bayes scoring form.", defaultVal: false, flagsets: allCmds},
		{name: "modelfile", usage: "model file path; defaults to model<longranularity>.gz.", defaultVal: "", flagsets: allCmds},
		{name: "stopwords", usage: "path to a stopword file, one token per line.", defaultVal: "", flagsets: []*pflag.FlagSet{cfg.trainCmd.Flags()}},
	}

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 {
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				set.String(option.name, v, option.usage)
			case bool:
				set.Bool(option.name, v, option.usage)
			case int:
				set.Int(option.name, v, option.usage)
			case float64:
				set.Float64(option.name, v, option.usage)
			default:
				panic(fmt.Errorf("geolocutil: invalid option type: %T", option.defaultVal))
			}
			cfg.BindPFlag(option.name, set.Lookup(option.name))
		}
	}

	return cfg
}

func setConfig(cfg *Cfg) error {
	return nil
}

// configFromViper materializes the bound flags into an immutable geoloc.Config.
func configFromViper(cfg *Cfg) geoloc.Config {
	return geoloc.Config{
		LongRanularity:  cfg.GetInt("longranularity"),
		NoKDE:           cfg.GetBool("nokde"),
		Sigma:           cfg.GetFloat64("sigma"),
		Threshold:       cfg.GetInt("threshold"),
		NoMatrix:        cfg.GetBool("nomatrix"),
		KullbackLeibler: cfg.GetBool("kullback-leibler"),
		PrintMatrix:     cfg.GetBool("print-matrix"),
		Centroid:        cfg.GetBool("centroid"),
		WordPrior:       cfg.GetFloat64("prior"),
		TweetPrior:      cfg.GetFloat64("tweetprior"),
		Unk:             cfg.GetBool("unk"),
		ComplementNB:    cfg.GetBool("complement-nb"),
		ModelFile:       cfg.GetString("modelfile"),
		Stopwords:       cfg.GetString("stopwords"),
	}
}

func diagLogger() *log.Logger { return log.New(os.Stderr, "", 0) }

func runTrain(cfg *Cfg, documentFile string) error {
	c := configFromViper(cfg)
	logger := diagLogger()

	in, err := os.Open(documentFile)
	if err != nil {
		return fmt.Errorf("geolocutil: opening document file: %w", err)
	}
	defer in.Close()

	var stopwords map[string]bool
	if c.Stopwords != "" {
		sw, err := os.Open(c.Stopwords)
		if err != nil {
			return fmt.Errorf("geolocutil: opening stopword file: %w", err)
		}
		defer sw.Close()
		stopwords, err = corpus.Stopwords(sw)
		if err != nil {
			return fmt.Errorf("geolocutil: reading stopword file: %w", err)
		}
	}

	model, err := geoloc.Train(in, c, stopwords, logger)
	if err != nil {
		return err
	}

	out, err := os.Create(c.ResolvedModelFile())
	if err != nil {
		return fmt.Errorf("geolocutil: creating model file: %w", err)
	}
	defer out.Close()

	logger.Printf("writing model to %s", c.ResolvedModelFile())
	return geoloc.WriteModel(out, model)
}

func loadModel(c geoloc.Config, logger *log.Logger) (*geoloc.Model, error) {
	f, err := os.Open(c.ResolvedModelFile())
	if err != nil {
		return nil, fmt.Errorf("geolocutil: opening model file: %w", err)
	}
	defer f.Close()
	logger.Printf("reading model from %s", c.ResolvedModelFile())
	return geoloc.ReadModel(f, c, nil)
}

func runClassify(cfg *Cfg, documentFile string) error {
	c := configFromViper(cfg)
	logger := diagLogger()

	model, err := loadModel(c, logger)
	if err != nil {
		return err
	}
	// loadModel already reconciled the model file's own granularity against
	// the rest of the CLI's scoring flags.
	c = model.Config
	cls := geoloc.NewClassifier(model)

	in, err := os.Open(documentFile)
	if err != nil {
		return fmt.Errorf("geolocutil: opening document file: %w", err)
	}
	defer in.Close()

	return corpus.ScanUnlabeled(in, func(tokens []string) error {
		var result *geoloc.Matrix
		if c.PrintMatrix {
			result = geoloc.NewMatrix(model.Grid)
		}
		cell := cls.Classify(tokens, result)

		if c.PrintMatrix {
			result.NormalizeFromLog()
			g := model.Grid
			for y := 0; y < g.LatTicks(); y++ {
				for x := 0; x < g.L; x++ {
					if x > 0 {
						fmt.Print("\t")
					}
					fmt.Printf("%g", result.At(x, y))
				}
				fmt.Println()
			}
			return nil
		}

		var lat, lon float64
		if c.Centroid {
			lat, lon = model.Centroids.At(cell)
		} else {
			lat, lon = model.Grid.CellMidpoint(cell)
		}
		fmt.Printf("%g,%g\n", lat, lon)
		return nil
	})
}

func runEval(cfg *Cfg, documentFile string) error {
	c := configFromViper(cfg)
	logger := diagLogger()

	model, err := loadModel(c, logger)
	if err != nil {
		return err
	}
	cls := geoloc.NewClassifier(model)

	in, err := os.Open(documentFile)
	if err != nil {
		return fmt.Errorf("geolocutil: opening document file: %w", err)
	}
	defer in.Close()

	_, err = geoloc.Evaluate(in, os.Stdout, model, cls)
	return err
}

func runTune(cfg *Cfg, devFile string) error {
	c := configFromViper(cfg)
	logger := diagLogger()

	model, err := loadModel(c, logger)
	if err != nil {
		return err
	}

	dev, err := os.Open(devFile)
	if err != nil {
		return fmt.Errorf("geolocutil: opening dev file: %w", err)
	}
	defer dev.Close()

	if err := geoloc.Tune(dev, model, logger); err != nil {
		return err
	}

	out, err := os.Create(geoloc.TunedModelFile)
	if err != nil {
		return fmt.Errorf("geolocutil: creating tuned model file: %w", err)
	}
	defer out.Close()
	return geoloc.WriteTunedModel(out, model)
}
