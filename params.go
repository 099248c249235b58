package sapling

import (
	"fmt"

	"github.com/pbanos/sapling/split"
	"github.com/pbanos/sapling/tree"
)

const (
	// DefaultMaxDepth is the MaxDepth of DefaultParams
	DefaultMaxDepth = 20
	// DefaultMinRows is the MinRows of DefaultParams
	DefaultMinRows = 10
)

// Params holds the configuration for growing
// a tree and deciding when nodes must not be
// split any further.
type Params struct {
	// MaxDepth is the depth at which nodes
	// become leaves. The root is at depth 0.
	MaxDepth int `json:"maxDepth" yaml:"max_depth"`
	// MinRows is the minimum number of training
	// rows a leaf must get, unless the root
	// itself has fewer.
	MinRows int `json:"minRows" yaml:"min_rows"`
	// Seed seeds the random choice among columns
	// tied on the best gain. It has no other use.
	Seed int64 `json:"seed" yaml:"seed"`
	// Criterion is the name of the impurity
	// criterion: gini (the default) or entropy.
	Criterion string `json:"criterion" yaml:"criterion"`
	// Workers is the number of goroutines
	// resolving nodes concurrently. Values
	// below 1 mean 1.
	Workers int `json:"-" yaml:"workers"`
	// RandomTies makes ties between columns be
	// broken at random instead of in favour of
	// the lowest column index.
	RandomTies bool `json:"randomTies" yaml:"random_ties"`
	// UnseenLevels is the name of the policy for
	// categorical levels a decision never saw in
	// training: right (the default), left or
	// majority.
	UnseenLevels string `json:"unseenLevels" yaml:"unseen_levels"`
}

// DefaultParams returns the default training parameters.
func DefaultParams() Params {
	return Params{
		MaxDepth:  DefaultMaxDepth,
		MinRows:   DefaultMinRows,
		Criterion: split.Gini.Name(),
		Workers:   1,
	}
}

// Validate returns an error if the parameters are out of bounds or name an
// unknown criterion or policy.
func (p *Params) Validate() error {
	if p.MaxDepth < 1 {
		return fmt.Errorf("max depth must be a positive integer, got %d", p.MaxDepth)
	}
	if p.MinRows < 1 {
		return fmt.Errorf("min rows must be a positive integer, got %d", p.MinRows)
	}
	if _, err := split.CriterionNamed(p.Criterion); err != nil {
		return err
	}
	if _, err := tree.UnseenLevelPolicyNamed(p.UnseenLevels); err != nil {
		return err
	}
	return nil
}

func (p *Params) workers() int {
	if p.Workers < 1 {
		return 1
	}
	return p.Workers
}

func (p *Params) splitter() (*split.Splitter, error) {
	c, err := split.CriterionNamed(p.Criterion)
	if err != nil {
		return nil, err
	}
	return &split.Splitter{
		Criterion:  c,
		MaxDepth:   p.MaxDepth,
		MinRows:    p.MinRows,
		RandomTies: p.RandomTies,
		Seed:       p.Seed,
	}, nil
}
