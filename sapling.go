/*
Package sapling grows binary classification trees from tabular data with
numeric and categorical features and uses them to score rows.

Trees are grown top-down: every pending node is split on the column and
threshold or level subset that most reduces class impurity, until a stopping
rule turns it into a leaf. Grown trees are compressed into a flat slice of
records that scoring walks from index 0.
*/
package sapling

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/tree"
)

type trainConfig struct {
	logger     Logger
	validation *dataset.Frame
}

// TrainOption configures optional aspects of Train.
type TrainOption func(*trainConfig)

// WithLogger makes Train report its progress through the given logger.
func WithLogger(l Logger) TrainOption {
	return func(tc *trainConfig) {
		tc.logger = l
	}
}

// WithValidation makes Train test the grown tree against the given frame
// and log its accuracy.
func WithValidation(fr *dataset.Frame) TrainOption {
	return func(tc *trainConfig) {
		tc.validation = fr
	}
}

/*
Train takes a context, a training frame, parameters and options, validates
the frame and parameters and grows a model from the frame.

A dataset.ValidationError is returned if the frame has NaN or infinite
values or its response is not a two-level categorical column, and
ErrEmptyTrainingSet if it has no rows. No model is returned if the growth
fails or the context is cancelled.
*/
func Train(ctx context.Context, train *dataset.Frame, p Params, opts ...TrainOption) (*Model, error) {
	tc := &trainConfig{logger: NopLogger{}}
	for _, opt := range opts {
		opt(tc)
	}
	if err := p.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parameters: %v", err)
	}
	if err := train.Validate(); err != nil {
		return nil, err
	}
	if train.Count() == 0 {
		return nil, ErrEmptyTrainingSet
	}
	label, ok := train.Response().Feature.(*feature.CategoricalFeature)
	if !ok {
		return nil, ErrNotCategoricalLabel
	}
	tc.logger.Logf("Growing tree from a frame with %d rows and %d features to predict %s...", train.Count(), train.NumColumns(), label.Name())
	records, err := Grow(ctx, train, p, tc.logger)
	if err != nil {
		return nil, err
	}
	t, err := tree.New(records, train.Features(), label)
	if err != nil {
		return nil, fmt.Errorf("building compressed tree: %v", err)
	}
	t.Unseen, _ = tree.UnseenLevelPolicyNamed(p.UnseenLevels)
	m := &Model{Tree: t, Params: p}
	tc.logger.Logf("Done: %d records, %d leaves, depth %d", len(t.Records), t.Leaves(), t.Depth())
	if tc.validation != nil {
		accuracy, err := m.Test(ctx, tc.validation)
		if err != nil {
			return nil, fmt.Errorf("testing against validation frame: %v", err)
		}
		tc.logger.Logf("Validation accuracy: %f", accuracy)
	}
	return m, nil
}
