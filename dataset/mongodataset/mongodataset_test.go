package mongodataset

import (
	"context"
	"os"
	"testing"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	mgo "gopkg.in/mgo.v2"
)

func TestOpenRejectsReservedNames(t *testing.T) {
	for _, name := range []string{"_id", "a.b", "$c"} {
		if _, err := Open(context.Background(), nil, []feature.Feature{feature.NewNumericFeature(name)}); err == nil {
			t.Errorf("expected an error for feature name %s", name)
		}
	}
}

// TestFrameRoundTrip needs a scratch MongoDB database whose URL is given in
// SAPLING_TEST_MONGO_URL. Its samples collection is dropped.
func TestFrameRoundTrip(t *testing.T) {
	url := os.Getenv("SAPLING_TEST_MONGO_URL")
	if url == "" {
		t.Skip("SAPLING_TEST_MONGO_URL not set")
	}
	ctx := context.Background()
	session, err := mgo.Dial(url)
	if err != nil {
		t.Fatalf("dialing: %v", err)
	}
	defer session.Close()
	session.DB("").C(samplesCollectionName).DropCollection()
	x := feature.NewNumericFeature("x")
	label := feature.NewCategoricalFeature("label", []string{"no", "yes"})
	fr, _ := dataset.New(
		[]*dataset.Column{dataset.NumericColumn(x, []float64{0.5, 1.5, 2.5})},
		dataset.CategoricalColumn(label, []int{0, 1, 1}),
	)
	if n, err := WriteFrame(ctx, session, fr); err != nil || n != 3 {
		t.Fatalf("expected 3 rows written, got %d %v", n, err)
	}
	mds, _ := Open(ctx, session, []feature.Feature{x, label})
	read, err := mds.Frame(ctx, "label")
	if err != nil {
		t.Fatalf("reading frame: %v", err)
	}
	if read.Count() != 3 || read.Row(2)[0] != 2.5 || read.Response().Levels[0] != 0 {
		t.Errorf("unexpected frame read back: %d rows", read.Count())
	}
}
