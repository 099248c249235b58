package sqlite3adapter

import (
	"context"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/feature"
)

func TestFrameRoundTrip(t *testing.T) {
	ctx := context.Background()
	dir, err := ioutil.TempDir("", "sqlite3adapter")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	a, err := New(filepath.Join(dir, "frames.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer a.Close()

	first := feature.NewNumericFeature("First")
	second := feature.NewCategoricalFeature("Second", []string{"one", "three", "two"})
	label := feature.NewCategoricalFeature("Prediction", []string{"0", "1"})
	n := 23
	values, levels, labels := make([]float64, n), make([]int, n), make([]int, n)
	for i := 0; i < n; i++ {
		values[i] = float64(i) / 4
		levels[i] = i % 3
		labels[i] = i % 2
	}
	fr, err := dataset.New(
		[]*dataset.Column{dataset.NumericColumn(first, values), dataset.CategoricalColumn(second, levels)},
		dataset.CategoricalColumn(label, labels),
	)
	if err != nil {
		t.Fatal(err)
	}
	written, err := sqldataset.WriteFrame(ctx, a, fr)
	if err != nil || written != n {
		t.Fatalf("expected %d rows written, got %d %v", n, written, err)
	}
	// levels are declared in another order than stored
	reordered := feature.NewCategoricalFeature("Second", []string{"two", "one", "three"})
	read, err := sqldataset.ReadFrame(ctx, a, []feature.Feature{reordered, label, first}, "Prediction")
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if read.Count() != n {
		t.Fatalf("expected %d rows, got %d", n, read.Count())
	}
	for i := 0; i < n; i++ {
		row := read.Row(i)
		if row[1] != values[i] {
			t.Errorf("row %d: expected First %v, got %v", i, values[i], row[1])
		}
		if reordered.Level(int(row[0])) != second.Level(levels[i]) {
			t.Errorf("row %d: expected Second %s, got %s", i, second.Level(levels[i]), reordered.Level(int(row[0])))
		}
		if read.Response().Levels[i] != labels[i] {
			t.Errorf("row %d: expected label %d, got %d", i, labels[i], read.Response().Levels[i])
		}
	}
	// creating again reuses tables and discrete values
	if _, err = sqldataset.WriteFrame(ctx, a, fr); err != nil {
		t.Fatalf("writing frame again: %v", err)
	}
	dvs, err := a.ListDiscreteValues(ctx)
	if err != nil || len(dvs) != 5 {
		t.Errorf("expected 5 discrete values, got %v %v", dvs, err)
	}
	if count, err := a.CountSamples(ctx); err != nil || count != 2*n {
		t.Errorf("expected %d samples, got %d %v", 2*n, count, err)
	}
}

func TestColumnName(t *testing.T) {
	a, err := New(":memory:")
	if err != nil {
		t.Fatal(err)
	}
	defer a.Close()
	for _, name := range []string{"id", `a"b`} {
		if _, err := a.ColumnName(name); err == nil {
			t.Errorf("expected an error for feature name %s", name)
		}
	}
	if c, err := a.ColumnName("First"); err != nil || c != "First" {
		t.Errorf("expected First, got %s %v", c, err)
	}
}
