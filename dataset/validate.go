package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/pbanos/sapling/feature"
	"gonum.org/v1/gonum/floats"
)

/*
ValidationError lists every problem found on a frame that makes it unusable
to grow a tree.
*/
type ValidationError []string

func (ve ValidationError) Error() string {
	return fmt.Sprintf("invalid training data: %s", strings.Join(ve, "; "))
}

/*
Validate checks that the frame can be used to grow a binary classification
tree: no feature column holds NaN or infinite values or unknown levels, and
the response column is categorical with exactly two levels. On success it
computes the row labels returned by Labels. Otherwise it returns a
ValidationError with all the problems found.
*/
func (fr *Frame) Validate() error {
	var ve ValidationError
	for _, c := range fr.columns {
		ve = append(ve, c.problems()...)
	}
	ve = append(ve, fr.responseProblems()...)
	if len(ve) > 0 {
		return ve
	}
	fr.labels = fr.response.Levels
	return nil
}

func (c *Column) problems() []string {
	var problems []string
	name := c.Feature.Name()
	if c.Categorical() {
		cf := c.Feature.(*feature.CategoricalFeature)
		for i, l := range c.Levels {
			if l < 0 || l >= len(cf.Levels()) {
				problems = append(problems, fmt.Sprintf("feature %s has an unknown level at row %d", name, i))
				break
			}
		}
		return problems
	}
	if floats.HasNaN(c.Numeric) {
		problems = append(problems, fmt.Sprintf("feature %s contains NaN values: NaNs are not supported", name))
	}
	for _, v := range c.Numeric {
		if math.IsInf(v, 0) {
			problems = append(problems, fmt.Sprintf("feature %s contains infinite values: Infinities are not supported", name))
			break
		}
	}
	return problems
}

func (fr *Frame) responseProblems() []string {
	r := fr.response
	if r == nil {
		return []string{"no response column: categorical response required"}
	}
	name := r.Feature.Name()
	if !r.Categorical() {
		distinct := distinctValues(r.Numeric)
		problems := []string{fmt.Sprintf("response %s is numeric: categorical response required", name)}
		if distinct != 2 {
			problems = append(problems, fmt.Sprintf("response %s has %d distinct values: binary response required", name, distinct))
		}
		return problems
	}
	cf := r.Feature.(*feature.CategoricalFeature)
	if len(cf.Levels()) != 2 {
		return []string{fmt.Sprintf("response %s has %d levels: binary response required", name, len(cf.Levels()))}
	}
	return r.problems()
}

func distinctValues(values []float64) int {
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	var n int
	for i, v := range sorted {
		if i == 0 || v != sorted[i-1] {
			n++
		}
	}
	return n
}
