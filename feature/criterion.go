package feature

import (
	"fmt"
	"strconv"
	"strings"
)

/*
Condition represents a constraint on a feature that a sample satisfied on its
way from the root of a tree to a leaf.

Its Feature method returns the feature on which the condition is applied.

Its String method renders the condition as "<feature> <op> <value>".
*/
type Condition interface {
	Feature() Feature
	String() string
}

/*
ThresholdCondition represents a constraint on a numeric feature: a value
below a threshold or a value at or above it.
*/
type ThresholdCondition interface {
	Condition
	Threshold() float64
	Below() bool
}

/*
LevelCondition represents a constraint on a categorical feature: a level
belonging or not belonging to a set of levels.
*/
type LevelCondition interface {
	Condition
	Levels() []int
	In() bool
}

type thresholdCondition struct {
	feature   *NumericFeature
	threshold float64
	below     bool
}

type levelCondition struct {
	feature *CategoricalFeature
	levels  []int
	in      bool
}

/*
NewThresholdCondition takes a NumericFeature, a threshold and whether the
value is below it and returns the corresponding ThresholdCondition.
*/
func NewThresholdCondition(f *NumericFeature, threshold float64, below bool) ThresholdCondition {
	return &thresholdCondition{f, threshold, below}
}

/*
NewLevelCondition takes a CategoricalFeature, a slice of level indexes and
whether the level is in them and returns the corresponding LevelCondition.
*/
func NewLevelCondition(f *CategoricalFeature, levels []int, in bool) LevelCondition {
	return &levelCondition{f, levels, in}
}

func (tc *thresholdCondition) Feature() Feature {
	return tc.feature
}

func (tc *thresholdCondition) Threshold() float64 {
	return tc.threshold
}

func (tc *thresholdCondition) Below() bool {
	return tc.below
}

func (tc *thresholdCondition) String() string {
	op := ">="
	if tc.below {
		op = "<"
	}
	return fmt.Sprintf("%s %s %s", tc.feature.Name(), op, strconv.FormatFloat(tc.threshold, 'g', -1, 64))
}

func (lc *levelCondition) Feature() Feature {
	return lc.feature
}

func (lc *levelCondition) Levels() []int {
	return lc.levels
}

func (lc *levelCondition) In() bool {
	return lc.in
}

func (lc *levelCondition) String() string {
	op := "not in"
	if lc.in {
		op = "in"
	}
	names := make([]string, 0, len(lc.levels))
	for _, l := range lc.levels {
		names = append(names, lc.feature.Level(l))
	}
	return fmt.Sprintf("%s %s {%s}", lc.feature.Name(), op, strings.Join(names, ", "))
}
