/*
Package split finds the best way of dividing the rows reaching a tree node in
two, and divides them.
*/
package split

import "fmt"

// Kind tells how a split tests a value.
type Kind uint8

const (
	// NumericThreshold splits send values below the threshold to the left.
	NumericThreshold Kind = iota
	// CategoricalSubset splits send the levels in LeftLevels to the left.
	CategoricalSubset
)

// Valid reports whether k is one of the known split kinds.
func (k Kind) Valid() bool {
	return k == NumericThreshold || k == CategoricalSubset
}

func (k Kind) String() string {
	switch k {
	case NumericThreshold:
		return "numeric"
	case CategoricalSubset:
		return "categorical"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

/*
Split describes how the rows of a node are divided: on which column, how,
the impurity gain obtained and the class counts of each side.

For categorical splits RightLevels holds the levels observed on the node that
are not in LeftLevels; a level in neither set was never seen on the node.
*/
type Split struct {
	Column      int
	Kind        Kind
	Threshold   float64
	LeftLevels  LevelSet
	RightLevels LevelSet
	Gain        float64
	LeftCounts  [2]int
	RightCounts [2]int
}

// Left reports whether a value known on the node goes to the left child.
func (s *Split) Left(v float64) bool {
	if s.Kind == CategoricalSubset {
		return s.LeftLevels.Contains(int(v))
	}
	return v < s.Threshold
}

// Known reports whether the value can be routed by the split on its own. It
// is false for categorical levels that were not observed on the node.
func (s *Split) Known(v float64) bool {
	if s.Kind == CategoricalSubset {
		l := int(v)
		return s.LeftLevels.Contains(l) || s.RightLevels.Contains(l)
	}
	return true
}

// LeftRows returns the number of training rows sent to the left child.
func (s *Split) LeftRows() int {
	return s.LeftCounts[0] + s.LeftCounts[1]
}

// RightRows returns the number of training rows sent to the right child.
func (s *Split) RightRows() int {
	return s.RightCounts[0] + s.RightCounts[1]
}

func (s *Split) String() string {
	if s.Kind == CategoricalSubset {
		return fmt.Sprintf("{column %d in %v | %v gain=%f}", s.Column, s.LeftLevels.Levels(), s.RightLevels.Levels(), s.Gain)
	}
	return fmt.Sprintf("{column %d < %g gain=%f}", s.Column, s.Threshold, s.Gain)
}
