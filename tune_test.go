package geoloc

import (
	"bytes"
	"strings"
	"testing"
)

func TestTuneRunsWithoutError(t *testing.T) {
	m := trainSmallModel(t)
	if err := Tune(strings.NewReader(sampleCorpus), m, discardLogger()); err != nil {
		t.Fatal(err)
	}
}

func TestTuneLeavesCorrectlyClassifiedWeightsAlone(t *testing.T) {
	m := trainSmallModel(t)
	before, _ := m.Features.Lookup("nyc")
	weightBefore := before.Weight

	// The training corpus is small and clean enough that the model already
	// classifies every record correctly, so tuning should not touch weights.
	if err := Tune(strings.NewReader(sampleCorpus), m, discardLogger()); err != nil {
		t.Fatal(err)
	}
	after, _ := m.Features.Lookup("nyc")
	if after.Weight != weightBefore {
		t.Errorf("weight changed from %g to %g despite correct classification", weightBefore, after.Weight)
	}
}

func TestWriteTunedModelProducesReadableModel(t *testing.T) {
	m := trainSmallModel(t)
	var buf bytes.Buffer
	if err := WriteTunedModel(&buf, m); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadModel(bytes.NewReader(buf.Bytes()), DefaultConfig(), nil); err != nil {
		t.Errorf("tuned model failed to read back: %v", err)
	}
}
