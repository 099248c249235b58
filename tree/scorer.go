package tree

import (
	"fmt"
	"math"
	"sort"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/split"
)

// ScoringError represents an error scoring a row against a tree
type ScoringError string

// ErrRowLength is returned when a row does not have one value per feature.
const ErrRowLength = ScoringError("row does not have one value per tree feature")

func (se ScoringError) Error() string {
	return string(se)
}

// Leaf takes a row and returns the index of the leaf record it reaches.
func (t *Tree) Leaf(row dataset.Row) (int, error) {
	i, _, err := t.walk(row, false)
	return i, err
}

// Predict takes a row and returns the class predicted for it.
func (t *Tree) Predict(row dataset.Row) (int, error) {
	i, err := t.Leaf(row)
	if err != nil {
		return 0, err
	}
	return t.Records[i].Class, nil
}

// Probability takes a row and returns the fraction of training rows of
// class 1 in the leaf it reaches.
func (t *Tree) Probability(row dataset.Row) (float64, error) {
	i, err := t.Leaf(row)
	if err != nil {
		return 0, err
	}
	r := &t.Records[i]
	if r.Rows() == 0 {
		return float64(r.Class), nil
	}
	return float64(r.Counts[1]) / float64(r.Rows()), nil
}

/*
Explain takes a row and returns the conditions the row satisfied on its way
from the root to a leaf, in order, and the class predicted for it.
Conditions read "<feature> <op> <value>" with ops <, >=, in and not in;
levels a decision never saw are explained as not in the levels it saw.
*/
func (t *Tree) Explain(row dataset.Row) ([]string, int, error) {
	i, conditions, err := t.walk(row, true)
	if err != nil {
		return nil, 0, err
	}
	return conditions, t.Records[i].Class, nil
}

func (t *Tree) walk(row dataset.Row, explain bool) (int, []string, error) {
	if t.Features != nil && len(row) != len(t.Features) {
		return 0, nil, ErrRowLength
	}
	return t.descend(func(col int) (float64, error) {
		if col >= len(row) {
			return 0, ErrRowLength
		}
		return row[col], nil
	}, explain)
}

/*
Resolve takes a function returning the value of a column and walks the tree
from the root asking it only for the columns the decisions on the way test.
It returns the index of the leaf record reached, and the conditions met on
the way.
*/
func (t *Tree) Resolve(value func(col int) (float64, error)) (int, []string, error) {
	return t.descend(value, true)
}

func (t *Tree) descend(value func(col int) (float64, error), explain bool) (int, []string, error) {
	var conditions []string
	i := 0
	for {
		r := &t.Records[i]
		if r.Leaf() {
			return i, conditions, nil
		}
		v, err := value(r.Column)
		if err != nil {
			return 0, nil, err
		}
		if math.IsNaN(v) {
			return 0, nil, fmt.Errorf("value of %s is NaN", t.feature(r).Name())
		}
		left, seen := t.route(r, v)
		if explain {
			conditions = append(conditions, t.condition(r, left, seen).String())
		}
		if left {
			i = r.Left
		} else {
			i = r.Right
		}
	}
}

// route returns whether the value goes left and whether the record saw it
// during training.
func (t *Tree) route(r *Record, v float64) (bool, bool) {
	if r.SplitKind != split.CategoricalSubset {
		return v < r.Threshold, true
	}
	l := int(v)
	if r.LeftLevels.Contains(l) {
		return true, true
	}
	if r.RightLevels.Contains(l) {
		return false, true
	}
	switch t.Unseen {
	case RouteLeft:
		return true, false
	case RouteMajority:
		return t.Records[r.Left].Rows() > t.Records[r.Right].Rows(), false
	default:
		return false, false
	}
}

func (t *Tree) condition(r *Record, left, seen bool) feature.Condition {
	if !seen {
		cf := t.feature(r).(*feature.CategoricalFeature)
		observed := append(r.LeftLevels.Levels(), r.RightLevels.Levels()...)
		sort.Ints(observed)
		return feature.NewLevelCondition(cf, observed, false)
	}
	lc, rc := t.branchConditions(r)
	if left {
		return lc
	}
	return rc
}
