/*
Package feature defines the columns a tree can be grown on and asked about:
numeric features taking real values and categorical features taking one of a
fixed, ordered set of levels.
*/
package feature

import (
	"fmt"
	"math"
)

/*
Feature represents a property that can be observed
*/
type Feature interface {
	Name() string
	Valid(interface{}) (bool, error)
}

/*
CategoricalFeature represents a property that can be observed and that can only
take a value among a finite, ordered set of levels. The position of a level in
that set is its level index.
*/
type CategoricalFeature struct {
	name   string
	levels []string
	index  map[string]int
}

/*
NumericFeature represents a property that can be observed and that can take
a real value
*/
type NumericFeature struct {
	name string
}

// UnknownLevel is the level index given to values a categorical feature
// does not declare.
const UnknownLevel = -1

/*
NewCategoricalFeature takes a name string and a slice of level strings
and returns a categorical feature with the given name and levels.
Repeated levels keep the index of their first appearance.
*/
func NewCategoricalFeature(name string, levels []string) *CategoricalFeature {
	index := make(map[string]int, len(levels))
	uniq := make([]string, 0, len(levels))
	for _, l := range levels {
		if _, ok := index[l]; ok {
			continue
		}
		index[l] = len(uniq)
		uniq = append(uniq, l)
	}
	return &CategoricalFeature{name, uniq, index}
}

/*
NewNumericFeature takes a name string and returns a numeric feature with
the given name.
*/
func NewNumericFeature(name string) *NumericFeature {
	return &NumericFeature{name}
}

/*
Name returns a string with the name of the feature
*/
func (cf *CategoricalFeature) Name() string {
	return cf.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is one of the levels of the feature, the method returns true
and nil. Otherwise it returns false and an error describing the reason.
*/
func (cf *CategoricalFeature) Valid(value interface{}) (bool, error) {
	vs, ok := value.(string)
	if !ok {
		return false, fmt.Errorf("categorical feature %s expects string value, got %T value", cf.Name(), value)
	}
	if _, ok = cf.index[vs]; !ok {
		return false, fmt.Errorf("categorical feature %s got unknown level %s", cf.Name(), vs)
	}
	return true, nil
}

/*
Levels returns a string slice with the levels of the feature in index order
*/
func (cf *CategoricalFeature) Levels() []string {
	return cf.levels
}

// LevelIndex returns the index of the given level, or UnknownLevel and false
// when the feature does not declare it.
func (cf *CategoricalFeature) LevelIndex(level string) (int, bool) {
	i, ok := cf.index[level]
	if !ok {
		return UnknownLevel, false
	}
	return i, true
}

// Level returns the name of the level with the given index, or "?" for
// indexes out of range.
func (cf *CategoricalFeature) Level(i int) string {
	if i < 0 || i >= len(cf.levels) {
		return "?"
	}
	return cf.levels[i]
}

func (cf *CategoricalFeature) String() string {
	return cf.name
}

/*
Name returns a string with the name of the feature
*/
func (nf *NumericFeature) Name() string {
	return nf.name
}

/*
Valid receives an interface value and returns a boolean and an error. When the
value parameter is a finite float64 it returns true and nil, otherwise it returns
false and an error describing the reason.
*/
func (nf *NumericFeature) Valid(value interface{}) (bool, error) {
	v, ok := value.(float64)
	if !ok {
		return false, fmt.Errorf("numeric feature %s expects float64 value, got %T value", nf.Name(), value)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return false, fmt.Errorf("numeric feature %s got non-finite value %v", nf.Name(), v)
	}
	return true, nil
}

func (nf *NumericFeature) String() string {
	return nf.name
}

// IsCategorical reports whether f is a categorical feature.
func IsCategorical(f Feature) bool {
	_, ok := f.(*CategoricalFeature)
	return ok
}
