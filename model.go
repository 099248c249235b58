package sapling

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/store"
	"github.com/pbanos/sapling/tree"
	tjson "github.com/pbanos/sapling/tree/json"
)

/*
Model is a trained tree along with the parameters it was grown with. It must
not be modified after training and is safe for concurrent use.
*/
type Model struct {
	Tree   *tree.Tree
	Params Params
}

// Features returns the features the model reads, in row order.
func (m *Model) Features() []feature.Feature {
	return m.Tree.Features
}

// Label returns the feature whose levels are the predicted classes.
func (m *Model) Label() *feature.CategoricalFeature {
	return m.Tree.Label
}

// Predict takes a row with a value per model feature and returns the
// predicted class.
func (m *Model) Predict(row dataset.Row) (int, error) {
	return m.Tree.Predict(row)
}

// PredictLabel takes a row and returns the name of the predicted class.
func (m *Model) PredictLabel(row dataset.Row) (string, error) {
	c, err := m.Tree.Predict(row)
	if err != nil {
		return "", err
	}
	return m.Tree.ClassName(c), nil
}

// Probability takes a row and returns the probability of class 1.
func (m *Model) Probability(row dataset.Row) (float64, error) {
	return m.Tree.Probability(row)
}

// Explain takes a row and returns the conditions it satisfied from the root
// to a leaf and the predicted class.
func (m *Model) Explain(row dataset.Row) ([]string, int, error) {
	return m.Tree.Explain(row)
}

/*
Score takes a context and a frame having a column for every model feature,
in any order, and returns the class predicted for each of its rows.
Categorical values are matched to the model's levels by name, levels the
model does not know are routed as unseen levels.
*/
func (m *Model) Score(ctx context.Context, fr *dataset.Frame) ([]int, error) {
	a, err := m.align(fr)
	if err != nil {
		return nil, err
	}
	classes := make([]int, fr.Count())
	for i := range classes {
		if i%1024 == 0 {
			if err = ctx.Err(); err != nil {
				return nil, err
			}
		}
		if classes[i], err = m.Tree.Predict(a.row(fr, i)); err != nil {
			return nil, fmt.Errorf("scoring row %d: %v", i, err)
		}
	}
	return classes, nil
}

/*
Test takes a context and a frame with a categorical response and returns the
fraction of its rows whose response is the class predicted by the model.
Response levels that are not model classes count as mispredictions.
*/
func (m *Model) Test(ctx context.Context, fr *dataset.Frame) (float64, error) {
	resp := fr.Response()
	if resp == nil {
		return 0, fmt.Errorf("testing model: frame has no response")
	}
	rf, ok := resp.Feature.(*feature.CategoricalFeature)
	if !ok {
		return 0, fmt.Errorf("testing model: response %s is not categorical", resp.Feature.Name())
	}
	if fr.Count() == 0 {
		return 0, nil
	}
	classes, err := m.Score(ctx, fr)
	if err != nil {
		return 0, err
	}
	var hits int
	for i, c := range classes {
		l := resp.Levels[i]
		if l >= 0 && l < len(rf.Levels()) && rf.Level(l) == m.Tree.ClassName(c) {
			hits++
		}
	}
	return float64(hits) / float64(len(classes)), nil
}

/*
Rows takes a frame having a column for every model feature, in any order,
and returns its rows laid out as the model reads them.
*/
func (m *Model) Rows(fr *dataset.Frame) ([]dataset.Row, error) {
	a, err := m.align(fr)
	if err != nil {
		return nil, err
	}
	rows := make([]dataset.Row, fr.Count())
	for i := range rows {
		rows[i] = a.row(fr, i)
	}
	return rows, nil
}

// aligner maps the columns and levels of a frame to the model's.
type aligner struct {
	columns []int
	levels  [][]int
}

func (m *Model) align(fr *dataset.Frame) (*aligner, error) {
	a := &aligner{
		columns: make([]int, len(m.Tree.Features)),
		levels:  make([][]int, len(m.Tree.Features)),
	}
	for j, f := range m.Tree.Features {
		col := fr.Select(f.Name())
		if col < 0 {
			return nil, fmt.Errorf("frame has no column for feature %s", f.Name())
		}
		a.columns[j] = col
		ff := fr.Column(col).Feature
		mf, categorical := f.(*feature.CategoricalFeature)
		if categorical != feature.IsCategorical(ff) {
			return nil, fmt.Errorf("feature %s is %s in the frame but not in the model", f.Name(), kind(ff))
		}
		if !categorical {
			continue
		}
		for _, name := range ff.(*feature.CategoricalFeature).Levels() {
			l, _ := mf.LevelIndex(name)
			a.levels[j] = append(a.levels[j], l)
		}
	}
	return a, nil
}

func (a *aligner) row(fr *dataset.Frame, i int) dataset.Row {
	row := make(dataset.Row, len(a.columns))
	for j, col := range a.columns {
		c := fr.Column(col)
		if a.levels[j] == nil && !c.Categorical() {
			row[j] = c.Numeric[i]
			continue
		}
		l := c.Levels[i]
		if l < 0 || l >= len(a.levels[j]) {
			row[j] = feature.UnknownLevel
			continue
		}
		row[j] = float64(a.levels[j][l])
	}
	return row
}

func kind(f feature.Feature) string {
	if feature.IsCategorical(f) {
		return "categorical"
	}
	return "numeric"
}

type jsonModel struct {
	Params Params      `json:"params"`
	Tree   *tjson.Tree `json:"tree"`
}

// MarshalJSON encodes the model parameters and tree as JSON.
func (m *Model) MarshalJSON() ([]byte, error) {
	jt, err := tjson.NewTree(m.Tree)
	if err != nil {
		return nil, err
	}
	return json.Marshal(&jsonModel{Params: m.Params, Tree: jt})
}

// UnmarshalJSON decodes a model encoded with MarshalJSON.
func (m *Model) UnmarshalJSON(data []byte) error {
	jm := &jsonModel{}
	if err := json.Unmarshal(data, jm); err != nil {
		return err
	}
	if jm.Tree == nil {
		return fmt.Errorf("model has no tree")
	}
	t, err := jm.Tree.Tree()
	if err != nil {
		return fmt.Errorf("decoding model tree: %v", err)
	}
	m.Tree, m.Params = t, jm.Params
	return nil
}

// Save takes a context, a store and a key and writes the model as JSON to
// the store under the key.
func (m *Model) Save(ctx context.Context, s store.Store, key string) error {
	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("encoding model: %v", err)
	}
	if err = s.Put(ctx, key, data); err != nil {
		return fmt.Errorf("saving model %s: %v", key, err)
	}
	return nil
}

// Load takes a context, a store and a key and reads the model saved in the
// store under the key.
func Load(ctx context.Context, s store.Store, key string) (*Model, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("loading model %s: %v", key, err)
	}
	if data == nil {
		return nil, fmt.Errorf("no model stored under %s", key)
	}
	m := &Model{}
	if err = json.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("decoding model %s: %v", key, err)
	}
	return m, nil
}
