/*
Package dataset provides the column oriented view of tabular data trees are
grown from and scored against.
*/
package dataset

import (
	"fmt"

	"github.com/pbanos/sapling/feature"
)

/*
Column holds the values of a feature for every row of a Frame. Numeric
columns keep their values in Numeric, categorical ones keep level indexes
in Levels.
*/
type Column struct {
	Feature feature.Feature
	Numeric []float64
	Levels  []int
}

/*
Row holds the values of a sample for the features of a Frame, in column
order. Categorical values are represented by their level index, with
feature.UnknownLevel for levels the feature does not declare.
*/
type Row []float64

/*
Frame is a read-only, column oriented collection of rows with an optional
response column.
*/
type Frame struct {
	columns  []*Column
	response *Column
	count    int
	labels   []int
}

// NumericColumn returns a column for the given numeric feature and values.
func NumericColumn(f *feature.NumericFeature, values []float64) *Column {
	return &Column{Feature: f, Numeric: values}
}

// CategoricalColumn returns a column for the given categorical feature and
// level indexes.
func CategoricalColumn(f *feature.CategoricalFeature, levels []int) *Column {
	return &Column{Feature: f, Levels: levels}
}

// Categorical reports whether the column holds level indexes.
func (c *Column) Categorical() bool {
	return feature.IsCategorical(c.Feature)
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	if c.Categorical() {
		return len(c.Levels)
	}
	return len(c.Numeric)
}

// Value returns the value at row i, level indexes converted to float64.
func (c *Column) Value(i int) float64 {
	if c.Categorical() {
		return float64(c.Levels[i])
	}
	return c.Numeric[i]
}

/*
New takes a slice of feature columns and a response column (nil for frames
that are only to be scored) and returns a Frame over them or an error if the
columns do not have the same length or a feature name is repeated.
*/
func New(columns []*Column, response *Column) (*Frame, error) {
	count := -1
	names := make(map[string]bool)
	all := columns
	if response != nil {
		all = append(append([]*Column{}, columns...), response)
	}
	for _, c := range all {
		if c == nil || c.Feature == nil {
			return nil, fmt.Errorf("column without feature")
		}
		if names[c.Feature.Name()] {
			return nil, fmt.Errorf("feature %s appears more than once", c.Feature.Name())
		}
		names[c.Feature.Name()] = true
		if count == -1 {
			count = c.Len()
		}
		if c.Len() != count {
			return nil, fmt.Errorf("column %s has %d values, expected %d", c.Feature.Name(), c.Len(), count)
		}
	}
	if count == -1 {
		count = 0
	}
	return &Frame{columns: columns, response: response, count: count}, nil
}

// Count returns the number of rows in the frame.
func (fr *Frame) Count() int {
	return fr.count
}

// NumColumns returns the number of feature columns.
func (fr *Frame) NumColumns() int {
	return len(fr.columns)
}

// Column returns the feature column at index i.
func (fr *Frame) Column(i int) *Column {
	return fr.columns[i]
}

// Features returns the features of the frame columns in column order.
func (fr *Frame) Features() []feature.Feature {
	features := make([]feature.Feature, 0, len(fr.columns))
	for _, c := range fr.columns {
		features = append(features, c.Feature)
	}
	return features
}

// Response returns the response column or nil if the frame has none.
func (fr *Frame) Response() *Column {
	return fr.response
}

// Row returns the feature values of row i.
func (fr *Frame) Row(i int) Row {
	r := make(Row, len(fr.columns))
	for j, c := range fr.columns {
		r[j] = c.Value(i)
	}
	return r
}

/*
Labels returns the class (0 or 1) of every row. It is only available once
Validate has succeeded, nil is returned otherwise.
*/
func (fr *Frame) Labels() []int {
	return fr.labels
}

// ClassCounts returns the number of rows of each class among the given rows.
// The frame must have been validated.
func (fr *Frame) ClassCounts(rows []int) [2]int {
	var counts [2]int
	for _, r := range rows {
		counts[fr.labels[r]]++
	}
	return counts
}

// Select returns the index of the feature column with the given name or -1.
func (fr *Frame) Select(name string) int {
	for i, c := range fr.columns {
		if c.Feature.Name() == name {
			return i
		}
	}
	return -1
}

// Subset returns a frame with the given rows of fr, in the given order.
func (fr *Frame) Subset(rows []int) *Frame {
	pick := func(c *Column) *Column {
		if c == nil {
			return nil
		}
		s := &Column{Feature: c.Feature}
		for _, r := range rows {
			if c.Categorical() {
				s.Levels = append(s.Levels, c.Levels[r])
			} else {
				s.Numeric = append(s.Numeric, c.Numeric[r])
			}
		}
		return s
	}
	columns := make([]*Column, len(fr.columns))
	for i, c := range fr.columns {
		columns[i] = pick(c)
	}
	return &Frame{columns: columns, response: pick(fr.response), count: len(rows)}
}
