package inputsample

import (
	"strings"
	"testing"

	"github.com/pbanos/sapling/feature"
)

type recordingRequester struct {
	requested []string
	rejected  []string
}

func (rr *recordingRequester) RequestValueFor(f feature.Feature) error {
	rr.requested = append(rr.requested, f.Name())
	return nil
}

func (rr *recordingRequester) RejectValueFor(f feature.Feature, v string) error {
	rr.rejected = append(rr.rejected, v)
	return nil
}

func TestReadSample(t *testing.T) {
	features := []feature.Feature{
		feature.NewNumericFeature("First"),
		feature.NewCategoricalFeature("Second", []string{"one", "three", "two"}),
	}
	rr := &recordingRequester{}
	s := New(strings.NewReader("purple\nthree\nabc\nInf\n7.5\n"), features, rr)
	column := Column(s, features)
	second, err := column(1)
	if err != nil || second != 1 {
		t.Errorf("expected level 1 for Second, got %v %v", second, err)
	}
	first, err := column(0)
	if err != nil || first != 7.5 {
		t.Errorf("expected 7.5 for First, got %v %v", first, err)
	}
	again, _ := column(1)
	if again != 1 || len(rr.requested) != 2 {
		t.Errorf("expected values to be requested once, got %v", rr.requested)
	}
	if strings.Join(rr.rejected, ",") != "purple,abc,Inf" {
		t.Errorf("unexpected rejected values %v", rr.rejected)
	}
	if _, err = column(2); err == nil {
		t.Errorf("expected an error for an unknown column")
	}
}

func TestReadSampleEOF(t *testing.T) {
	features := []feature.Feature{feature.NewNumericFeature("First")}
	s := New(strings.NewReader("x\n"), features, &recordingRequester{})
	if _, err := s.ValueFor(features[0]); err == nil {
		t.Errorf("expected an error at EOF")
	}
	if _, err := s.ValueFor(feature.NewNumericFeature("Other")); err == nil {
		t.Errorf("expected an error for an unknown feature")
	}
}
