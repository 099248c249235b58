package json

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/split"
	"github.com/pbanos/sapling/tree"
)

func sampleTree(t *testing.T) *tree.Tree {
	t.Helper()
	features := []feature.Feature{
		feature.NewNumericFeature("First"),
		feature.NewCategoricalFeature("Second", []string{"one", "three", "two"}),
	}
	label := feature.NewCategoricalFeature("Prediction", []string{"no", "yes"})
	records := []tree.Record{
		{Kind: tree.DecisionRecord, Column: 1, SplitKind: split.CategoricalSubset, LeftLevels: split.NewLevelSet(2), RightLevels: split.NewLevelSet(0, 1), Left: 1, Right: 2, Counts: [2]int{4, 6}},
		{Kind: tree.LeafRecord, Class: 0, Counts: [2]int{3, 0}},
		{Kind: tree.DecisionRecord, Column: 0, Threshold: 7.5, Left: 3, Right: 4, Counts: [2]int{1, 6}},
		{Kind: tree.LeafRecord, Class: 1, Counts: [2]int{0, 5}},
		{Kind: tree.LeafRecord, Class: 0, Counts: [2]int{1, 1}},
	}
	tr, err := tree.New(records, features, label)
	if err != nil {
		t.Fatalf("building tree: %v", err)
	}
	tr.Unseen = tree.RouteLeft
	return tr
}

func TestJSONTreeRoundTrip(t *testing.T) {
	ctx := context.Background()
	tr := sampleTree(t)
	buf := &bytes.Buffer{}
	if err := WriteJSONTree(ctx, tr, buf); err != nil {
		t.Fatalf("writing tree: %v", err)
	}
	for _, part := range []string{`"leftLevels": [`, `"two"`, `"threshold": 7.5`, `"class": "yes"`, `"unseenLevels": "left"`} {
		if !strings.Contains(buf.String(), part) {
			t.Errorf("expected %s in %s", part, buf.String())
		}
	}
	decoded, err := ReadJSONTree(ctx, bytes.NewReader(buf.Bytes()))
	if err != nil {
		t.Fatalf("reading tree: %v", err)
	}
	a, _ := tr.MarshalBinary()
	b, _ := decoded.MarshalBinary()
	if !bytes.Equal(a, b) {
		t.Errorf("expected the same tree after a JSON round trip")
	}
	if decoded.Label.Name() != "Prediction" || len(decoded.Features) != 2 {
		t.Errorf("unexpected features %v and label %v", decoded.Features, decoded.Label)
	}
}

func TestReadJSONTreeErrors(t *testing.T) {
	cases := map[string]string{
		"not json":        `{`,
		"no label":        `{"features":[],"records":[{"kind":"leaf","class":"0"}]}`,
		"unknown class":   `{"features":[],"label":{"name":"y","type":"categorical","levels":["a","b"]},"records":[{"kind":"leaf","class":"c"}]}`,
		"unknown feature": `{"features":[],"label":{"name":"y","type":"categorical","levels":["a","b"]},"records":[{"kind":"decision","feature":"x","left":1,"right":2},{"kind":"leaf","class":"a"},{"kind":"leaf","class":"a"}]}`,
		"unknown policy":  `{"features":[],"label":{"name":"y","type":"categorical","levels":["a","b"]},"unseenLevels":"up","records":[{"kind":"leaf","class":"a"}]}`,
	}
	for name, data := range cases {
		if _, err := ReadJSONTree(context.Background(), strings.NewReader(data)); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}
