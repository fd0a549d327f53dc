package geoloc

import "math"

// Classifier scores feature lists against a trained or loaded Model.
type Classifier struct {
	model *Model
}

// NewClassifier wraps m for querying.
func NewClassifier(m *Model) *Classifier { return &Classifier{model: m} }

// Classify returns the cell the given feature tokens score best (argmax for
// Naive Bayes, argmin for KL divergence). If result is non-nil, the full
// per-cell log-score (or negated KL score) is written into it; the caller
// must call result.NormalizeFromLog() before rendering it as a posterior.
func (c *Classifier) Classify(tokens []string, result *Matrix) int {
	if c.model.Config.KullbackLeibler {
		return c.classifyKL(tokens, result)
	}
	return c.classifyNB(tokens, result)
}

func (c *Classifier) classifyNB(tokens []string, result *Matrix) int {
	m := c.model
	n := m.Grid.N()
	prior := m.Prior.Elements()
	wordMass := m.WordMass.Elements()
	cMin := m.Prior.Min()

	total := make([]float64, n)
	for i, v := range prior {
		total[i] = math.Log(v)
	}

	unk := 0.0
	if m.Config.Unk {
		unk = 1
	}
	denomPrior := m.Config.WordPrior * (float64(m.WordTypes) + 1 + unk)

	for _, tok := range tokens {
		f, known := m.Features.Lookup(tok)
		if !known {
			if !m.Config.Unk {
				continue
			}
		}
		var weight float64 = 1
		var count int
		var dense *Matrix
		if known {
			weight = f.Weight
			count = len(f.Points)
			dense = f.DenseMatrix(m.Grid, m.Config)
		} else {
			dense = NewMatrix(m.Grid)
		}
		if weight == 0 {
			continue
		}
		de := dense.Elements()
		for cell := 0; cell < n; cell++ {
			if result == nil && prior[cell] == cMin {
				continue
			}
			if !m.Config.ComplementNB {
				p := de[cell] + m.Config.WordPrior
				ciw := wordMass[cell] + denomPrior
				total[cell] += math.Log(p) - math.Log(ciw)
			} else {
				p := float64(count) - de[cell] + m.Config.WordPrior
				ciw := float64(m.TotalWordCount) - wordMass[cell] + denomPrior
				total[cell] -= math.Log(p) - math.Log(ciw)
			}
		}
	}

	best, bestVal := 0, math.Inf(-1)
	for cell := 0; cell < n; cell++ {
		if result == nil && prior[cell] == cMin {
			continue
		}
		if total[cell] > bestVal {
			bestVal, best = total[cell], cell
		}
	}
	if result != nil {
		copy(result.Elements(), total)
	}
	return best
}

func (c *Classifier) classifyKL(tokens []string, result *Matrix) int {
	m := c.model
	n := m.Grid.N()
	prior := m.Prior.Elements()
	wordMass := m.WordMass.Elements()
	cMin := m.Prior.Min()

	counts := map[string]int{}
	var order []string
	knownWords := 0
	for _, tok := range tokens {
		if _, ok := m.Features.Lookup(tok); !ok {
			continue
		}
		if _, seen := counts[tok]; !seen {
			order = append(order, tok)
		}
		counts[tok]++
		knownWords++
	}

	unk := 0.0
	if m.Config.Unk {
		unk = 1
	}
	denomPrior := m.Config.WordPrior * (float64(m.WordTypes) + 1 + unk)

	total := make([]float64, n)
	for _, tok := range order {
		f, _ := m.Features.Lookup(tok)
		dense := f.DenseMatrix(m.Grid, m.Config)
		de := dense.Elements()
		cnt := float64(counts[tok])
		for cell := 0; cell < n; cell++ {
			if result == nil && prior[cell] == cMin {
				continue
			}
			ciw := wordMass[cell] + denomPrior
			contribution := cnt * math.Log((ciw*cnt)/(float64(knownWords)*(de[cell]+m.Config.WordPrior))) / float64(knownWords)
			total[cell] += contribution
		}
	}

	best, bestVal := 0, math.Inf(1)
	for cell := 0; cell < n; cell++ {
		if result == nil && prior[cell] == cMin {
			continue
		}
		if total[cell] < bestVal {
			bestVal, best = total[cell], cell
		}
	}
	if result != nil {
		for i, v := range total {
			result.Elements()[i] = -v
		}
	}
	return best
}
