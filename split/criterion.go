package split

import (
	"fmt"
	"math"
)

/*
Criterion is an impurity measure for binary classification: it takes the
number of rows of each class in a set and returns how mixed the set is, 0
meaning pure.
*/
type Criterion interface {
	Name() string
	Impurity(neg, pos float64) float64
}

type gini struct{}

type entropy struct{}

var (
	// Gini is the Gini impurity, 1 - p0^2 - p1^2. It is the default criterion.
	Gini Criterion = gini{}
	// Entropy is the Shannon entropy in bits, -p0*log2(p0) - p1*log2(p1).
	Entropy Criterion = entropy{}
)

// CriterionNamed returns the criterion with the given name, "gini" or
// "entropy", or an error. The empty name selects Gini.
func CriterionNamed(name string) (Criterion, error) {
	switch name {
	case "", "gini":
		return Gini, nil
	case "entropy":
		return Entropy, nil
	}
	return nil, fmt.Errorf("unknown split criterion %s", name)
}

func (gini) Name() string {
	return "gini"
}

func (gini) Impurity(neg, pos float64) float64 {
	n := neg + pos
	if n == 0 {
		return 0
	}
	p0, p1 := neg/n, pos/n
	return 1 - p0*p0 - p1*p1
}

func (entropy) Name() string {
	return "entropy"
}

func (entropy) Impurity(neg, pos float64) float64 {
	n := neg + pos
	if n == 0 {
		return 0
	}
	var result float64
	for _, c := range []float64{neg, pos} {
		if c > 0 {
			p := c / n
			result -= p * math.Log2(p)
		}
	}
	return result
}

// gainTolerance is the relative difference under which two gains are tied.
const gainTolerance = 1e-9

/*
Gain returns the impurity reduction obtained by splitting a set with the
given class counts into left and right subsets.

Both criteria are strictly concave, so the reduction is zero exactly when the
left subset keeps the class ratio of the parent. That case is detected on the
counts and returns 0 instead of the rounding residue of the float formula.
*/
func Gain(c Criterion, parent, left, right [2]int) float64 {
	total := parent[0] + parent[1]
	if total == 0 {
		return 0
	}
	nLeft := left[0] + left[1]
	if nLeft == 0 || int64(left[1])*int64(total) == int64(parent[1])*int64(nLeft) {
		return 0
	}
	n := float64(total)
	nl := float64(left[0] + left[1])
	nr := float64(right[0] + right[1])
	weighted := nl/n*c.Impurity(float64(left[0]), float64(left[1])) +
		nr/n*c.Impurity(float64(right[0]), float64(right[1]))
	gain := c.Impurity(float64(parent[0]), float64(parent[1])) - weighted
	if gain <= 0 {
		return math.SmallestNonzeroFloat64
	}
	return gain
}

// better reports whether gain a exceeds gain b by more than rounding noise.
func better(a, b float64) bool {
	return a-b > gainTolerance*math.Max(math.Abs(a), math.Abs(b))
}

// tied reports whether gains a and b differ only by rounding noise.
func tied(a, b float64) bool {
	return !better(a, b) && !better(b, a)
}
