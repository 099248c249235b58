package split

import (
	"sort"

	"github.com/pbanos/sapling/histogram"
)

/*
Evaluate takes the histogram of a column over a node's rows, an impurity
criterion and the minimum number of rows each child must get, and returns
the candidate split of the column with the largest gain, or nil if the
column offers no candidate leaving at least minRows rows on each side.

Among candidates whose gains differ only by rounding the first one found is kept: the
smallest threshold for numeric columns, the shortest prefix of the level
ordering for categorical ones.
*/
func Evaluate(h *histogram.Histogram, c Criterion, minRows int) *Split {
	if !h.Viable() {
		return nil
	}
	if h.Categorical {
		return evaluateCategorical(h, c, minRows)
	}
	return evaluateNumeric(h, c, minRows)
}

/*
evaluateNumeric scans the boundaries between consecutive distinct values,
the threshold of each being their midpoint.
*/
func evaluateNumeric(h *histogram.Histogram, c Criterion, minRows int) *Split {
	var (
		best *Split
		left [2]int
	)
	for i, b := range h.Bins[:len(h.Bins)-1] {
		left[0] += b.Counts[0]
		left[1] += b.Counts[1]
		right := [2]int{h.Total[0] - left[0], h.Total[1] - left[1]}
		if left[0]+left[1] < minRows || right[0]+right[1] < minRows {
			continue
		}
		gain := Gain(c, h.Total, left, right)
		if best != nil && !better(gain, best.Gain) {
			continue
		}
		best = &Split{
			Column:      h.Column,
			Kind:        NumericThreshold,
			Threshold:   midpoint(b.Value, h.Bins[i+1].Value),
			Gain:        gain,
			LeftCounts:  left,
			RightCounts: right,
		}
	}
	return best
}

// midpoint returns a threshold t with a < t <= b. Halving before adding
// keeps t finite for any finite a and b.
func midpoint(a, b float64) float64 {
	t := a/2 + b/2
	if t <= a || t > b {
		return b
	}
	return t
}

/*
evaluateCategorical orders the observed levels by the rate of class 1 rows
they hold (ties broken by level index) and scans the splits between a prefix
of that ordering and the rest. For two classes the best subset split is
always one of these.
*/
func evaluateCategorical(h *histogram.Histogram, c Criterion, minRows int) *Split {
	bins := append([]histogram.Bin(nil), h.Bins...)
	sort.SliceStable(bins, func(i, j int) bool {
		ri, rj := positiveRate(bins[i]), positiveRate(bins[j])
		if ri != rj {
			return ri < rj
		}
		return bins[i].Value < bins[j].Value
	})
	var (
		best  *Split
		left  [2]int
		cut   int
		bestN = -1
	)
	for i, b := range bins[:len(bins)-1] {
		left[0] += b.Counts[0]
		left[1] += b.Counts[1]
		right := [2]int{h.Total[0] - left[0], h.Total[1] - left[1]}
		if left[0]+left[1] < minRows || right[0]+right[1] < minRows {
			continue
		}
		gain := Gain(c, h.Total, left, right)
		if best != nil && !better(gain, best.Gain) {
			continue
		}
		best = &Split{
			Column:      h.Column,
			Kind:        CategoricalSubset,
			Gain:        gain,
			LeftCounts:  left,
			RightCounts: right,
		}
		bestN = i
	}
	if best == nil {
		return nil
	}
	for cut = 0; cut <= bestN; cut++ {
		best.LeftLevels = best.LeftLevels.With(int(bins[cut].Value))
	}
	for ; cut < len(bins); cut++ {
		best.RightLevels = best.RightLevels.With(int(bins[cut].Value))
	}
	return best
}

func positiveRate(b histogram.Bin) float64 {
	return float64(b.Counts[1]) / float64(b.Counts[0]+b.Counts[1])
}
