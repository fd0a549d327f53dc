package geoloc

import (
	"io/ioutil"
	"log"
	"strings"
	"testing"
)

func discardLogger() *log.Logger {
	return log.New(ioutil.Discard, "", 0)
}

const sampleCorpus = `40.7,-74.0,nyc subway rain
40.7,-74.0,nyc traffic
34.0,-118.2,la traffic sun
34.0,-118.2,la beach sun
`

func TestTrainBuildsModel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LongRanularity = 36
	m, err := Train(strings.NewReader(sampleCorpus), cfg, nil, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if m.Features.Len() == 0 {
		t.Fatal("expected at least one feature")
	}
	if _, ok := m.Features.Lookup("nyc"); !ok {
		t.Error("expected \"nyc\" to be a known feature")
	}
	for _, v := range m.Prior.Elements() {
		if v < 0 {
			t.Fatalf("prior has a negative entry: %g", v)
		}
	}
}

func TestTrainDropsStopwords(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LongRanularity = 36
	stop := map[string]bool{"sun": true}
	m, err := Train(strings.NewReader(sampleCorpus), cfg, stop, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := m.Features.Lookup("sun"); ok {
		t.Error("\"sun\" should have been dropped as a stopword")
	}
	if _, ok := m.Features.Lookup("beach"); !ok {
		t.Error("\"beach\" should still be present")
	}
}

func TestTrainThresholdDropsRareFeatures(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LongRanularity = 36
	cfg.Threshold = 2
	m, err := Train(strings.NewReader(sampleCorpus), cfg, nil, discardLogger())
	if err != nil {
		t.Fatal(err)
	}
	// "nyc", "traffic", "la" and "sun" each occur twice; "subway", "rain",
	// "beach" once.
	if m.WordTypes != 4 {
		t.Errorf("WordTypes = %d, want 4 (threshold=2 keeps nyc, traffic, la and sun)", m.WordTypes)
	}
}
