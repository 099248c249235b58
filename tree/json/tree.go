/*
Package json provides the JSON representation of compressed trees, which
names features, levels and classes instead of using their indexes.
*/
package json

import (
	"context"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pbanos/sapling/feature"
	fjson "github.com/pbanos/sapling/feature/json"
	"github.com/pbanos/sapling/split"
	"github.com/pbanos/sapling/tree"
)

/*
Record is the JSON representation of a tree.Record. Decision records have a
feature and either a threshold or the level names routed each way, leaves
have a class name. Both have the training class counts.
*/
type Record struct {
	Kind        string   `json:"kind"`
	Feature     string   `json:"feature,omitempty"`
	Threshold   *float64 `json:"threshold,omitempty"`
	LeftLevels  []string `json:"leftLevels,omitempty"`
	RightLevels []string `json:"rightLevels,omitempty"`
	Left        int      `json:"left,omitempty"`
	Right       int      `json:"right,omitempty"`
	Class       string   `json:"class,omitempty"`
	Counts      [2]int   `json:"counts"`
}

/*
Tree is the JSON representation of a tree.Tree: its features in column
order, its label feature, the unseen level policy and the records.
*/
type Tree struct {
	Features []*fjson.Feature `json:"features"`
	Label    *fjson.Feature   `json:"label"`
	Unseen   string           `json:"unseenLevels"`
	Records  []*Record        `json:"records"`
}

/*
NewTree takes a tree with features and label and returns its JSON
representation or an error.
*/
func NewTree(t *tree.Tree) (*Tree, error) {
	if t.Label == nil || t.Features == nil {
		return nil, fmt.Errorf("only trees with features and label can be represented in JSON")
	}
	jfs, err := fjson.NewFeatures(t.Features)
	if err != nil {
		return nil, err
	}
	label, err := fjson.NewFeature(t.Label)
	if err != nil {
		return nil, err
	}
	jt := &Tree{Features: jfs, Label: label, Unseen: t.Unseen.String()}
	for i := range t.Records {
		jr, err := newRecord(t, &t.Records[i])
		if err != nil {
			return nil, fmt.Errorf("record %d: %v", i, err)
		}
		jt.Records = append(jt.Records, jr)
	}
	return jt, nil
}

func newRecord(t *tree.Tree, r *tree.Record) (*Record, error) {
	jr := &Record{Counts: r.Counts}
	if r.Leaf() {
		jr.Kind = "leaf"
		jr.Class = t.ClassName(r.Class)
		return jr, nil
	}
	jr.Kind = "decision"
	jr.Left, jr.Right = r.Left, r.Right
	f := t.Features[r.Column]
	jr.Feature = f.Name()
	if r.SplitKind != split.CategoricalSubset {
		threshold := r.Threshold
		jr.Threshold = &threshold
		return jr, nil
	}
	cf, ok := f.(*feature.CategoricalFeature)
	if !ok {
		return nil, fmt.Errorf("categorical split on numeric feature %s", f.Name())
	}
	jr.LeftLevels = levelNames(cf, r.LeftLevels)
	jr.RightLevels = levelNames(cf, r.RightLevels)
	return jr, nil
}

func levelNames(cf *feature.CategoricalFeature, ls split.LevelSet) []string {
	names := []string{}
	for _, l := range ls.Levels() {
		names = append(names, cf.Level(l))
	}
	return names
}

/*
Tree takes the JSON representation of a tree and returns the tree or an error
if the representation is not valid.
*/
func (jt *Tree) Tree() (*tree.Tree, error) {
	features, err := fjson.Features(jt.Features)
	if err != nil {
		return nil, err
	}
	if jt.Label == nil {
		return nil, fmt.Errorf("no label feature defined")
	}
	lf, err := jt.Label.Feature()
	if err != nil {
		return nil, err
	}
	label, ok := lf.(*feature.CategoricalFeature)
	if !ok {
		return nil, fmt.Errorf("label feature %s is not categorical", lf.Name())
	}
	policy, err := tree.UnseenLevelPolicyNamed(jt.Unseen)
	if err != nil {
		return nil, err
	}
	columns := make(map[string]int)
	for i, f := range features {
		columns[f.Name()] = i
	}
	records := make([]tree.Record, len(jt.Records))
	for i, jr := range jt.Records {
		if jr == nil {
			return nil, fmt.Errorf("record %d is null", i)
		}
		if records[i], err = jr.record(features, columns, label); err != nil {
			return nil, fmt.Errorf("record %d: %v", i, err)
		}
	}
	t, err := tree.New(records, features, label)
	if err != nil {
		return nil, err
	}
	t.Unseen = policy
	return t, nil
}

func (jr *Record) record(features []feature.Feature, columns map[string]int, label *feature.CategoricalFeature) (tree.Record, error) {
	r := tree.Record{Counts: jr.Counts}
	switch jr.Kind {
	case "leaf":
		c, ok := label.LevelIndex(jr.Class)
		if !ok {
			return r, fmt.Errorf("unknown class %q", jr.Class)
		}
		r.Class = c
		return r, nil
	case "decision":
	default:
		return r, fmt.Errorf("unknown record kind %q", jr.Kind)
	}
	r.Kind = tree.DecisionRecord
	r.Left, r.Right = jr.Left, jr.Right
	col, ok := columns[jr.Feature]
	if !ok {
		return r, fmt.Errorf("unknown feature %q", jr.Feature)
	}
	r.Column = col
	cf, categorical := features[col].(*feature.CategoricalFeature)
	if !categorical {
		if jr.Threshold == nil {
			return r, fmt.Errorf("decision on numeric feature %s without threshold", jr.Feature)
		}
		r.SplitKind = split.NumericThreshold
		r.Threshold = *jr.Threshold
		return r, nil
	}
	r.SplitKind = split.CategoricalSubset
	var err error
	if r.LeftLevels, err = levelSet(cf, jr.LeftLevels); err != nil {
		return r, err
	}
	r.RightLevels, err = levelSet(cf, jr.RightLevels)
	return r, err
}

func levelSet(cf *feature.CategoricalFeature, names []string) (split.LevelSet, error) {
	var ls split.LevelSet
	for _, n := range names {
		l, ok := cf.LevelIndex(n)
		if !ok {
			return nil, fmt.Errorf("unknown level %q for feature %s", n, cf.Name())
		}
		ls = ls.With(l)
	}
	return ls, nil
}

/*
WriteJSONTree takes a context.Context, a tree and an io.Writer and
serializes the given tree as JSON onto the io.Writer.
An error is returned if the tree cannot be represented, serialized or
written onto the io.Writer, or if the context is cancelled.
*/
func WriteJSONTree(ctx context.Context, t *tree.Tree, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	jt, err := NewTree(t)
	if err != nil {
		return fmt.Errorf("serializing tree: %v", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(jt)
}

/*
ReadJSONTree takes a context.Context and an io.Reader and unmarshals the
contents of the io.Reader into a tree.
An error is returned if the JSON cannot be read from the io.Reader or is
not a valid tree.
*/
func ReadJSONTree(ctx context.Context, r io.Reader) (*tree.Tree, error) {
	jt := &Tree{}
	if err := json.NewDecoder(r).Decode(jt); err != nil {
		return nil, fmt.Errorf("parsing tree JSON: %v", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return jt.Tree()
}
