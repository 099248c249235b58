package main

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

func TestGrowParamsFileAndFlags(t *testing.T) {
	dir, err := ioutil.TempDir("", "sapling")
	if err != nil {
		t.Fatal(err)
	}
	defer os.RemoveAll(dir)
	paramsFile := filepath.Join(dir, "params.yml")
	err = ioutil.WriteFile(paramsFile, []byte("max_depth: 4\nmin_rows: 3\ncriterion: entropy\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	cmd := growCmd(&rootCmdConfig{})
	if err = cmd.ParseFlags([]string{"--params", paramsFile, "--min-rows", "7"}); err != nil {
		t.Fatal(err)
	}
	config := &growCmdConfig{}
	// the config bound to the flags is only reachable through the command
	// run, so the flags are read back to build an equivalent one
	config.paramsInput, _ = cmd.Flags().GetString("params")
	config.params.MinRows, _ = cmd.Flags().GetInt("min-rows")
	p, err := config.Params(cmd)
	if err != nil {
		t.Fatalf("building params: %v", err)
	}
	if p.MaxDepth != 4 || p.MinRows != 7 || p.Criterion != "entropy" {
		t.Errorf("unexpected params %+v", p)
	}
	err = ioutil.WriteFile(paramsFile, []byte("max_depht: 4\n"), 0644)
	if err != nil {
		t.Fatal(err)
	}
	if _, err = config.Params(cmd); err == nil {
		t.Errorf("expected an error for an unknown parameter")
	}
}

func TestSplitIsSeeded(t *testing.T) {
	values := make([]float64, 200)
	for i := range values {
		values[i] = float64(i)
	}
	fr, _ := dataset.New([]*dataset.Column{dataset.NumericColumn(feature.NewNumericFeature("x"), values)}, nil)
	config := &splitCmdConfig{splitProbability: 25, seed: 3}
	a, b := config.Split(fr)
	c, d := config.Split(fr)
	if a.Count()+b.Count() != 200 || a.Count() != c.Count() || b.Count() != d.Count() {
		t.Errorf("expected the same split of 200 rows, got %d+%d and %d+%d", a.Count(), b.Count(), c.Count(), d.Count())
	}
	if b.Count() == 0 || b.Count() > 100 {
		t.Errorf("expected about a quarter of the rows split, got %d", b.Count())
	}
	for i := 1; i < b.Count(); i++ {
		if b.Row(i)[0] <= b.Row(i-1)[0] {
			t.Errorf("expected split rows to keep their order")
		}
	}
}
