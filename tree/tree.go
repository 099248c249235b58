package tree

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/split"
)

// RecordKind tells decision records from leaves.
type RecordKind uint8

const (
	// LeafRecord records carry a predicted class.
	LeafRecord RecordKind = iota
	// DecisionRecord records carry a split test and two children.
	DecisionRecord
)

/*
Record is a node of a compressed tree. Decision records hold the test on a
column and the indexes of their children in the tree records, leaves hold
the predicted class. Both hold the training class counts of the node.
*/
type Record struct {
	Kind        RecordKind
	Column      int
	SplitKind   split.Kind
	Threshold   float64
	LeftLevels  split.LevelSet
	RightLevels split.LevelSet
	Left        int
	Right       int
	Class       int
	Counts      [2]int
}

// Leaf reports whether the record is a leaf.
func (r *Record) Leaf() bool {
	return r.Kind == LeafRecord
}

// Rows returns the number of training rows that reached the record's node.
func (r *Record) Rows() int {
	return r.Counts[0] + r.Counts[1]
}

func (r *Record) asSplit() *split.Split {
	return &split.Split{
		Column:      r.Column,
		Kind:        r.SplitKind,
		Threshold:   r.Threshold,
		LeftLevels:  r.LeftLevels,
		RightLevels: r.RightLevels,
	}
}

/*
UnseenLevelPolicy decides where a categorical decision sends a level
observed in neither of its level sets, either because no training row
reaching the node had it or because the feature does not declare it.
*/
type UnseenLevelPolicy uint8

const (
	// RouteRight sends unseen levels to the right child. It is the default.
	RouteRight UnseenLevelPolicy = iota
	// RouteLeft sends unseen levels to the left child.
	RouteLeft
	// RouteMajority sends unseen levels to the child that got more training
	// rows, the right one on ties.
	RouteMajority
)

var unseenLevelPolicyNames = []string{"right", "left", "majority"}

// Valid reports whether p is one of the known policies.
func (p UnseenLevelPolicy) Valid() bool {
	return int(p) < len(unseenLevelPolicyNames)
}

func (p UnseenLevelPolicy) String() string {
	if int(p) < len(unseenLevelPolicyNames) {
		return unseenLevelPolicyNames[p]
	}
	return fmt.Sprintf("UnseenLevelPolicy(%d)", uint8(p))
}

// UnseenLevelPolicyNamed returns the policy with the given name: right, left
// or majority. The empty name selects RouteRight.
func UnseenLevelPolicyNamed(name string) (UnseenLevelPolicy, error) {
	if name == "" {
		return RouteRight, nil
	}
	for i, n := range unseenLevelPolicyNames {
		if n == name {
			return UnseenLevelPolicy(i), nil
		}
	}
	return 0, fmt.Errorf("unknown unseen level policy %s", name)
}

/*
Tree is a compressed tree: a flat slice of records with the root at index 0,
the features whose values the decisions test (in column order), the label
feature whose levels are the classes, and the policy for unseen levels.

A Tree must not be modified once built and is safe for concurrent use.
*/
type Tree struct {
	Records  []Record
	Features []feature.Feature
	Label    *feature.CategoricalFeature
	Unseen   UnseenLevelPolicy
}

// New takes records, features and a label and returns a tree over them
// routing unseen levels right, or an error if the records are not a valid
// tree for the features.
func New(records []Record, features []feature.Feature, label *feature.CategoricalFeature) (*Tree, error) {
	t := &Tree{Records: records, Features: features, Label: label}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

/*
Validate checks the tree is a strict binary tree rooted at 0 whose child
indexes are greater than their parent's, whose decisions test existing
columns of the right kind and whose leaves predict 0 or 1. The unseen level
policy must be a known one.
*/
func (t *Tree) Validate() error {
	if len(t.Records) == 0 {
		return fmt.Errorf("tree has no records")
	}
	if !t.Unseen.Valid() {
		return fmt.Errorf("unknown unseen level policy %d", uint8(t.Unseen))
	}
	referenced := make([]bool, len(t.Records))
	for i, r := range t.Records {
		switch r.Kind {
		case LeafRecord:
			if r.Class != 0 && r.Class != 1 {
				return fmt.Errorf("record %d: invalid class %d", i, r.Class)
			}
		case DecisionRecord:
			for _, c := range []int{r.Left, r.Right} {
				if c <= i || c >= len(t.Records) {
					return fmt.Errorf("record %d: invalid child index %d", i, c)
				}
				if referenced[c] {
					return fmt.Errorf("record %d: child %d has more than one parent", i, c)
				}
				referenced[c] = true
			}
			if !r.SplitKind.Valid() {
				return fmt.Errorf("record %d: unknown split kind %d", i, uint8(r.SplitKind))
			}
			if r.SplitKind == split.NumericThreshold && math.IsNaN(r.Threshold) {
				return fmt.Errorf("record %d: NaN threshold", i)
			}
			if t.Features == nil {
				continue
			}
			if r.Column < 0 || r.Column >= len(t.Features) {
				return fmt.Errorf("record %d: invalid column %d", i, r.Column)
			}
			if feature.IsCategorical(t.Features[r.Column]) != (r.SplitKind == split.CategoricalSubset) {
				return fmt.Errorf("record %d: %v split on feature %s", i, r.SplitKind, t.Features[r.Column].Name())
			}
		default:
			return fmt.Errorf("record %d: unknown kind %d", i, r.Kind)
		}
	}
	for i := 1; i < len(referenced); i++ {
		if !referenced[i] {
			return fmt.Errorf("record %d is not reachable from the root", i)
		}
	}
	return nil
}

// Leaves returns the number of leaf records.
func (t *Tree) Leaves() int {
	var n int
	for _, r := range t.Records {
		if r.Leaf() {
			n++
		}
	}
	return n
}

// Depth returns the depth of the deepest record, 0 for single leaf trees.
func (t *Tree) Depth() int {
	depths := make([]int, len(t.Records))
	var max int
	for i, r := range t.Records {
		if r.Leaf() {
			continue
		}
		depths[r.Left] = depths[i] + 1
		depths[r.Right] = depths[i] + 1
		if depths[i]+1 > max {
			max = depths[i] + 1
		}
	}
	return max
}

// ClassName returns the name of class c, its level in the label feature.
func (t *Tree) ClassName(c int) string {
	if t.Label == nil {
		return fmt.Sprintf("%d", c)
	}
	return t.Label.Level(c)
}

// Traverse takes a context, bottomup boolean and an
// error-returning function that takes a context, the
// index of a record and the record, and goes through
// the tree running the function for every record.
// Traverse will call the function with a parent record
// before calling it for its children if bottomup is false,
// and call it after its children if bottomup is true.
// If the given context times out or is cancelled, the
// context error is returned. If the call to the function
// returns an error, the traversing is aborted and the error
// is returned.
func (t *Tree) Traverse(ctx context.Context, bottomup bool, f func(context.Context, int, *Record) error) error {
	return t.traverse(ctx, 0, bottomup, f)
}

func (t *Tree) traverse(ctx context.Context, i int, bottomup bool, f func(context.Context, int, *Record) error) error {
	err := ctx.Err()
	if err != nil {
		return err
	}
	r := &t.Records[i]
	if !bottomup {
		if err = f(ctx, i, r); err != nil {
			return err
		}
	}
	if !r.Leaf() {
		for _, c := range []int{r.Left, r.Right} {
			if err = t.traverse(ctx, c, bottomup, f); err != nil {
				return err
			}
		}
	}
	if bottomup {
		err = f(ctx, i, r)
	}
	return err
}

/*
Rules returns one rule per leaf, in record order, with the conditions leading
to it joined by " and " followed by the predicted class and the leaf's
training class counts.
*/
func (t *Tree) Rules() []string {
	var rules []string
	var walk func(i int, conditions []string)
	walk = func(i int, conditions []string) {
		r := &t.Records[i]
		if r.Leaf() {
			prefix := "always"
			if len(conditions) > 0 {
				prefix = "if " + strings.Join(conditions, " and ")
			}
			rules = append(rules, fmt.Sprintf("%s then %s (%d/%d)", prefix, t.ClassName(r.Class), r.Counts[r.Class], r.Rows()))
			return
		}
		left, right := t.branchConditions(r)
		walk(r.Left, append(conditions[:len(conditions):len(conditions)], left.String()))
		walk(r.Right, append(conditions[:len(conditions):len(conditions)], right.String()))
	}
	walk(0, nil)
	return rules
}

func (t *Tree) String() string {
	return t.subtreeString(0, "")
}

func (t *Tree) subtreeString(i int, condition string) string {
	r := &t.Records[i]
	result := fmt.Sprintf("[%d]\n", i)
	if condition != "" {
		result = fmt.Sprintf("%s{ %s }\n", result, condition)
	}
	if r.Leaf() {
		return fmt.Sprintf("%s{ %s %v }\n \n", result, t.ClassName(r.Class), r.Counts)
	}
	result = fmt.Sprintf("%s|\n", result)
	left, right := t.branchConditions(r)
	children := []struct {
		index     int
		condition string
	}{{r.Left, left.String()}, {r.Right, right.String()}}
	for ci, c := range children {
		for j, line := range strings.Split(t.subtreeString(c.index, c.condition), "\n") {
			if len(line) == 0 {
				continue
			}
			switch {
			case j == 0:
				result = fmt.Sprintf("%s|__%s\n", result, line)
			case ci == len(children)-1:
				result = fmt.Sprintf("%s   %s\n", result, line)
			default:
				result = fmt.Sprintf("%s|  %s\n", result, line)
			}
		}
	}
	return result
}

// BranchConditions takes the index of a decision record and returns the
// conditions satisfied by rows going to its left and right children.
func (t *Tree) BranchConditions(i int) (feature.Condition, feature.Condition) {
	return t.branchConditions(&t.Records[i])
}

// branchConditions returns the conditions satisfied by rows going to each
// child of a decision record.
func (t *Tree) branchConditions(r *Record) (feature.Condition, feature.Condition) {
	f := t.feature(r)
	if r.SplitKind == split.CategoricalSubset {
		cf := f.(*feature.CategoricalFeature)
		return feature.NewLevelCondition(cf, r.LeftLevels.Levels(), true),
			feature.NewLevelCondition(cf, r.RightLevels.Levels(), true)
	}
	nf := f.(*feature.NumericFeature)
	return feature.NewThresholdCondition(nf, r.Threshold, true),
		feature.NewThresholdCondition(nf, r.Threshold, false)
}

// feature returns the feature tested by a decision record. Trees without
// features get a stand-in named after the column, with level indexes as
// level names.
func (t *Tree) feature(r *Record) feature.Feature {
	if r.Column < len(t.Features) {
		return t.Features[r.Column]
	}
	name := fmt.Sprintf("x%d", r.Column)
	if r.SplitKind != split.CategoricalSubset {
		return feature.NewNumericFeature(name)
	}
	var levels []string
	all := append(r.LeftLevels.Levels(), r.RightLevels.Levels()...)
	for _, l := range all {
		for len(levels) <= l {
			levels = append(levels, strconv.Itoa(len(levels)))
		}
	}
	return feature.NewCategoricalFeature(name, levels)
}
