/*
Package histogram computes, for the rows reaching a tree node and one feature
column, how many rows of each class take each of the values observed.
*/
package histogram

import (
	"github.com/pbanos/sapling/dataset"
	"gonum.org/v1/gonum/floats"
)

/*
Bin holds the class counts of the rows taking a value. For numeric columns
Value is the value itself, for categorical ones it is the level index.
*/
type Bin struct {
	Value  float64
	Counts [2]int
}

/*
Histogram holds the bins of a column for a set of rows, in ascending value
order. It is exact: there is one bin per distinct value observed.
*/
type Histogram struct {
	Column      int
	Categorical bool
	Bins        []Bin
	Total       [2]int
}

/*
Build takes a validated frame, the indexes of the rows reaching a node and a
column index and returns the histogram of the column over those rows.
*/
func Build(fr *dataset.Frame, rows []int, col int) *Histogram {
	c := fr.Column(col)
	labels := fr.Labels()
	h := &Histogram{Column: col, Categorical: c.Categorical()}
	if len(rows) == 0 {
		return h
	}
	if h.Categorical {
		h.buildCategorical(c.Levels, labels, rows)
	} else {
		h.buildNumeric(c.Numeric, labels, rows)
	}
	for _, b := range h.Bins {
		h.Total[0] += b.Counts[0]
		h.Total[1] += b.Counts[1]
	}
	return h
}

func (h *Histogram) buildNumeric(column []float64, labels []int, rows []int) {
	values := make([]float64, len(rows))
	positions := make([]int, len(rows))
	for i, r := range rows {
		values[i] = column[r]
	}
	floats.Argsort(values, positions)
	for i, v := range values {
		label := labels[rows[positions[i]]]
		if n := len(h.Bins); n > 0 && h.Bins[n-1].Value == v {
			h.Bins[n-1].Counts[label]++
			continue
		}
		b := Bin{Value: v}
		b.Counts[label]++
		h.Bins = append(h.Bins, b)
	}
}

func (h *Histogram) buildCategorical(column []int, labels []int, rows []int) {
	var counts [][2]int
	for _, r := range rows {
		l := column[r]
		for l >= len(counts) {
			counts = append(counts, [2]int{})
		}
		counts[l][labels[r]]++
	}
	for l, cs := range counts {
		if cs[0]+cs[1] > 0 {
			h.Bins = append(h.Bins, Bin{Value: float64(l), Counts: cs})
		}
	}
}

// Count returns the number of rows in the histogram.
func (h *Histogram) Count() int {
	return h.Total[0] + h.Total[1]
}

// Viable reports whether the histogram offers at least one candidate split,
// that is, whether it has at least two bins.
func (h *Histogram) Viable() bool {
	return len(h.Bins) > 1
}
