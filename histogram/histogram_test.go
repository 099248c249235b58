package histogram

import (
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

func testFrame(t *testing.T) *dataset.Frame {
	first := dataset.NumericColumn(feature.NewNumericFeature("First"), []float64{3, 1, 2, 1, 3, 3})
	second := dataset.CategoricalColumn(feature.NewCategoricalFeature("Second", []string{"a", "b", "c"}), []int{2, 0, 2, 0, 0, 2})
	response := dataset.CategoricalColumn(feature.NewCategoricalFeature("Prediction", []string{"0", "1"}), []int{1, 0, 1, 0, 1, 1})
	fr, err := dataset.New([]*dataset.Column{first, second}, response)
	if err != nil {
		t.Fatalf("building frame: %v", err)
	}
	if err = fr.Validate(); err != nil {
		t.Fatalf("validating frame: %v", err)
	}
	return fr
}

func TestBuildNumeric(t *testing.T) {
	fr := testFrame(t)
	h := Build(fr, []int{0, 1, 2, 3, 4, 5}, 0)
	expected := []Bin{
		{Value: 1, Counts: [2]int{2, 0}},
		{Value: 2, Counts: [2]int{0, 1}},
		{Value: 3, Counts: [2]int{0, 3}},
	}
	if len(h.Bins) != len(expected) {
		t.Fatalf("expected %d bins, got %v", len(expected), h.Bins)
	}
	for i, b := range expected {
		if h.Bins[i] != b {
			t.Errorf("bin %d: expected %v, got %v", i, b, h.Bins[i])
		}
	}
	if h.Total != [2]int{2, 4} || h.Count() != 6 {
		t.Errorf("unexpected totals %v", h.Total)
	}
	if !h.Viable() {
		t.Errorf("expected histogram to be viable")
	}
}

func TestBuildCategoricalSkipsUnobservedLevels(t *testing.T) {
	fr := testFrame(t)
	h := Build(fr, []int{1, 2, 3, 5}, 1)
	if !h.Categorical {
		t.Fatalf("expected a categorical histogram")
	}
	expected := []Bin{
		{Value: 0, Counts: [2]int{2, 0}},
		{Value: 2, Counts: [2]int{0, 2}},
	}
	if len(h.Bins) != len(expected) {
		t.Fatalf("expected %d bins, got %v", len(expected), h.Bins)
	}
	for i, b := range expected {
		if h.Bins[i] != b {
			t.Errorf("bin %d: expected %v, got %v", i, b, h.Bins[i])
		}
	}
}

func TestBuildSingleValueIsNotViable(t *testing.T) {
	fr := testFrame(t)
	h := Build(fr, []int{0, 4, 5}, 0)
	if h.Viable() {
		t.Errorf("expected a single distinct value to offer no split, got %v", h.Bins)
	}
	if empty := Build(fr, nil, 0); empty.Viable() || empty.Count() != 0 {
		t.Errorf("expected an empty histogram")
	}
}
