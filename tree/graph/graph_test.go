package graph

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/split"
	"github.com/pbanos/sapling/tree"
)

func TestRender(t *testing.T) {
	features := []feature.Feature{feature.NewNumericFeature("size"), feature.NewCategoricalFeature("color", []string{"red", "blue"})}
	records := []tree.Record{
		{Kind: tree.DecisionRecord, Column: 1, SplitKind: split.CategoricalSubset, LeftLevels: split.NewLevelSet(0), RightLevels: split.NewLevelSet(1), Left: 1, Right: 2, Counts: [2]int{2, 2}},
		{Kind: tree.LeafRecord, Class: 0, Counts: [2]int{2, 0}},
		{Kind: tree.LeafRecord, Class: 1, Counts: [2]int{0, 2}},
	}
	tr, err := tree.New(records, features, feature.NewCategoricalFeature("y", []string{"n", "p"}))
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}
	format, err := FormatNamed("SVG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	buf := &bytes.Buffer{}
	if err = Render(tr, format, buf); err != nil {
		t.Fatalf("rendering: %v", err)
	}
	for _, part := range []string{"<svg", "color in {blue}"} {
		if !strings.Contains(buf.String(), part) {
			t.Errorf("expected %q in rendered tree", part)
		}
	}
	if _, err = FormatNamed("bmp"); err == nil {
		t.Errorf("expected an error for an unknown format")
	}
}
