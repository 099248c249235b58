package split

import (
	"math/rand"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/histogram"
)

// Reason tells why a Splitter turned a node into a leaf.
type Reason string

const (
	// Accepted is the Reason returned along with a split.
	Accepted = Reason("")
	// MaxDepthReached is returned for nodes at the maximum depth.
	MaxDepthReached = Reason("maximum depth reached")
	// TooFewRows is returned for nodes with fewer than twice the minimum rows.
	TooFewRows = Reason("too few rows")
	// PureNode is returned for nodes whose rows are all of the same class.
	PureNode = Reason("pure node")
	// NoGain is returned when no column improves impurity while leaving
	// enough rows on both children.
	NoGain = Reason("no split improves impurity")
)

/*
Splitter holds the configuration to decide whether and how a node is split.

MaxDepth is the depth at which nodes become leaves, MinRows the minimum number
of rows a child must get. With RandomTies on, columns tied on the best gain
are chosen among with a random source seeded from Seed and the node position,
otherwise the lowest column index wins.
*/
type Splitter struct {
	Criterion  Criterion
	MaxDepth   int
	MinRows    int
	RandomTies bool
	Seed       int64
}

/*
Split takes a validated frame, the rows reaching a node and the node depth
and returns the best split for the node, or nil and the reason the node must
become a leaf.
*/
func (sp *Splitter) Split(fr *dataset.Frame, rows []int, depth int) (*Split, Reason) {
	if depth >= sp.MaxDepth {
		return nil, MaxDepthReached
	}
	if len(rows) < 2*sp.MinRows {
		return nil, TooFewRows
	}
	counts := fr.ClassCounts(rows)
	if counts[0] == 0 || counts[1] == 0 {
		return nil, PureNode
	}
	c := sp.Criterion
	if c == nil {
		c = Gini
	}
	var best []*Split
	for col := 0; col < fr.NumColumns(); col++ {
		s := Evaluate(histogram.Build(fr, rows, col), c, sp.MinRows)
		if s == nil || s.Gain <= 0 {
			continue
		}
		switch {
		case len(best) == 0 || better(s.Gain, best[0].Gain):
			best = []*Split{s}
		case tied(s.Gain, best[0].Gain):
			best = append(best, s)
		}
	}
	if len(best) == 0 {
		return nil, NoGain
	}
	if !sp.RandomTies || len(best) == 1 {
		return best[0], Accepted
	}
	r := rand.New(rand.NewSource(sp.Seed ^ int64(depth)<<32 ^ int64(rows[0])))
	return best[r.Intn(len(best))], Accepted
}
