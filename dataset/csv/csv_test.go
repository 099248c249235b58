package csv

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

var features = []feature.Feature{
	feature.NewNumericFeature("First"),
	feature.NewCategoricalFeature("Second", []string{"one", "three", "two"}),
	feature.NewCategoricalFeature("Prediction", []string{"0", "1"}),
}

const fixture = `Second,Ignored,First,Prediction
two,x,0,0
one,y,1,1
three,z,2,1
purple,w,3.5,0
`

func TestReadFrame(t *testing.T) {
	fr, err := ReadFrame(context.Background(), strings.NewReader(fixture), features, "Prediction")
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if fr.Count() != 4 || fr.NumColumns() != 2 {
		t.Fatalf("expected 4 rows and 2 columns, got %d and %d", fr.Count(), fr.NumColumns())
	}
	if fr.Column(0).Feature.Name() != "First" {
		t.Errorf("expected columns in feature order, got %s first", fr.Column(0).Feature.Name())
	}
	expected := []dataset.Row{{0, 2}, {1, 0}, {2, 1}, {3.5, feature.UnknownLevel}}
	for i, e := range expected {
		row := fr.Row(i)
		if row[0] != e[0] || row[1] != e[1] {
			t.Errorf("row %d: expected %v, got %v", i, e, row)
		}
	}
	if fr.Response().Levels[1] != 1 {
		t.Errorf("expected response level 1 for the second row, got %d", fr.Response().Levels[1])
	}
}

func TestReadFrameErrors(t *testing.T) {
	for name, content := range map[string]string{
		"missing column": "First,Prediction\n1,0\n",
		"bad number":     "First,Second,Prediction\nabc,one,0\n",
		"undefined":      "First,Second,Prediction\n1,?,0\n",
		"short row":      "First,Second,Prediction\n1,one\n",
		"empty":          "",
	} {
		if _, err := ReadFrame(context.Background(), strings.NewReader(content), features, "Prediction"); err == nil {
			t.Errorf("%s: expected an error", name)
		}
	}
}

func TestReadBySampleStops(t *testing.T) {
	var seen int
	err := ReadBySample(context.Background(), strings.NewReader(fixture), features, func(i int, s dataset.Sample) (bool, error) {
		seen++
		return i < 1, nil
	})
	if err != nil || seen != 2 {
		t.Errorf("expected to stop after 2 samples, got %d %v", seen, err)
	}
}

func TestWriteFrame(t *testing.T) {
	fr, err := ReadFrame(context.Background(), strings.NewReader(fixture), features, "Prediction")
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	var buf bytes.Buffer
	if err = WriteFrame(context.Background(), &buf, fr); err != nil {
		t.Fatalf("writing frame: %v", err)
	}
	expected := "First,Second,Prediction\n0,two,0\n1,one,1\n2,three,1\n3.5,?,0\n"
	if buf.String() != expected {
		t.Errorf("expected\n%s\ngot\n%s", expected, buf.String())
	}
}
