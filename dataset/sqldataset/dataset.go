package sqldataset

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
Dataset is a set of samples stored on a database through an Adapter, for the
given features.
*/
type Dataset struct {
	db                    Adapter
	features              []feature.Feature
	featureNamesColumns   map[string]string
	discreteValues        map[int]string
	inverseDiscreteValues map[string]int
	dfColumns             []string
	cfColumns             []string
}

/*
Open takes a context, an Adapter to a db backend and a slice of features
and returns a Dataset backed by the given adapter or an error.

This function expects the adapter to have the samples and discrete value
tables already created.
*/
func Open(ctx context.Context, a Adapter, features []feature.Feature) (*Dataset, error) {
	ds := &Dataset{db: a, features: features}
	if err := ds.initFeatureColumns(); err != nil {
		return nil, err
	}
	if err := ds.loadDiscreteValues(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

/*
Create takes a context, an Adapter and a slice of features and returns a
Dataset backed by the given adapter or an error.

It ensures the samples and discrete value tables are created on the
database and that the discrete value table has all the levels of the
categorical features on the features slice.
*/
func Create(ctx context.Context, a Adapter, features []feature.Feature) (*Dataset, error) {
	ds := &Dataset{db: a, features: features}
	if err := ds.initFeatureColumns(); err != nil {
		return nil, err
	}
	if err := a.CreateDiscreteValuesTable(ctx); err != nil {
		return nil, err
	}
	if err := a.CreateSampleTable(ctx, ds.dfColumns, ds.cfColumns); err != nil {
		return nil, err
	}
	if err := ds.loadDiscreteValues(ctx); err != nil {
		return nil, err
	}
	var missing []string
	seen := make(map[string]bool)
	for _, f := range features {
		if cf, ok := f.(*feature.CategoricalFeature); ok {
			for _, l := range cf.Levels() {
				if _, ok := ds.inverseDiscreteValues[l]; !ok && !seen[l] {
					missing = append(missing, l)
					seen[l] = true
				}
			}
		}
	}
	if _, err := a.AddDiscreteValues(ctx, missing); err != nil {
		return nil, fmt.Errorf("adding discrete values: %v", err)
	}
	if err := ds.loadDiscreteValues(ctx); err != nil {
		return nil, err
	}
	return ds, nil
}

// Count returns the number of samples stored.
func (ds *Dataset) Count(ctx context.Context) (int, error) {
	return ds.db.CountSamples(ctx)
}

/*
Write takes a context and a slice of samples and stores them, returning the
number of samples stored or an error. Values for categorical levels the
features do not declare are stored as NULL.
*/
func (ds *Dataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	rawSamples := make([]map[string]interface{}, 0, len(samples))
	for _, s := range samples {
		rs, err := ds.newRawSample(s)
		if err != nil {
			return 0, err
		}
		rawSamples = append(rawSamples, rs)
	}
	return ds.db.AddSamples(ctx, rawSamples, ds.dfColumns, ds.cfColumns)
}

/*
Frame takes a context and the name of the response feature (empty for
frames without response) and returns a frame with all the stored samples
and a column per feature, or an error. NULL values are an error.
*/
func (ds *Dataset) Frame(ctx context.Context, response string) (*dataset.Frame, error) {
	var samples []dataset.Sample
	err := ds.db.IterateOnSamples(ctx, ds.dfColumns, ds.cfColumns, func(_ int, rs map[string]interface{}) (bool, error) {
		samples = append(samples, &sample{values: rs, discreteValues: ds.discreteValues, columns: ds.featureNamesColumns})
		return true, ctx.Err()
	})
	if err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	return dataset.FromSamples(ds.features, response, samples)
}

/*
WriteFrame takes a context, an Adapter and a frame and stores the frame's
rows, response included, on the database, creating the tables if needed.
*/
func WriteFrame(ctx context.Context, a Adapter, fr *dataset.Frame) (int, error) {
	var features []feature.Feature
	for _, c := range fr.AllColumns() {
		features = append(features, c.Feature)
	}
	ds, err := Create(ctx, a, features)
	if err != nil {
		return 0, err
	}
	return ds.Write(ctx, fr.Samples())
}

/*
ReadFrame takes a context, an Adapter, a slice of features and the name of
the response feature and returns the frame stored on the database.
*/
func ReadFrame(ctx context.Context, a Adapter, features []feature.Feature, response string) (*dataset.Frame, error) {
	ds, err := Open(ctx, a, features)
	if err != nil {
		return nil, err
	}
	return ds.Frame(ctx, response)
}

func (ds *Dataset) loadDiscreteValues(ctx context.Context) error {
	var err error
	ds.discreteValues, err = ds.db.ListDiscreteValues(ctx)
	if err != nil {
		return fmt.Errorf("listing discrete values: %v", err)
	}
	ds.inverseDiscreteValues = make(map[string]int)
	for k, v := range ds.discreteValues {
		ds.inverseDiscreteValues[v] = k
	}
	return nil
}

func (ds *Dataset) newRawSample(s dataset.Sample) (map[string]interface{}, error) {
	rs := make(map[string]interface{})
	for _, f := range ds.features {
		v, err := s.ValueFor(f)
		if err != nil {
			return nil, err
		}
		if v == nil {
			continue
		}
		if feature.IsCategorical(f) {
			vs, ok := v.(string)
			if !ok {
				return nil, fmt.Errorf("expected string value for categorical feature %s of sample, got %T", f.Name(), v)
			}
			id, ok := ds.inverseDiscreteValues[vs]
			if !ok {
				continue
			}
			v = id
		}
		rs[ds.featureNamesColumns[f.Name()]] = v
	}
	return rs, nil
}

func (ds *Dataset) initFeatureColumns() error {
	columnFeatures := make(map[string]feature.Feature)
	ds.featureNamesColumns = make(map[string]string)
	for _, f := range ds.features {
		column, err := ds.db.ColumnName(f.Name())
		if err != nil {
			return fmt.Errorf("invalid feature %s: %v", f.Name(), err)
		}
		if of, ok := columnFeatures[column]; ok {
			return fmt.Errorf("%s and %s feature names translate to the same column name %s", f.Name(), of.Name(), column)
		}
		columnFeatures[column] = f
		ds.featureNamesColumns[f.Name()] = column
		if feature.IsCategorical(f) {
			ds.dfColumns = append(ds.dfColumns, column)
		} else {
			ds.cfColumns = append(ds.cfColumns, column)
		}
	}
	return nil
}

// sample is a dataset.Sample over a row read from the samples table.
type sample struct {
	values         map[string]interface{}
	discreteValues map[int]string
	columns        map[string]string
}

/*
ValueFor takes a feature and returns the value for the feature according to
the sample or nil if is undefined. For categorical features the stored
value is used as key on the discrete values dictionary to obtain the level
name.
*/
func (s *sample) ValueFor(f feature.Feature) (interface{}, error) {
	c, ok := s.columns[f.Name()]
	if !ok {
		return nil, nil
	}
	v, ok := s.values[c]
	if !ok {
		return nil, nil
	}
	if feature.IsCategorical(f) {
		iv, ok := v.(int)
		if !ok {
			return nil, fmt.Errorf("expected sql representation for the value of %s to be an int, got %T", f.Name(), v)
		}
		level, ok := s.discreteValues[iv]
		if !ok {
			return nil, fmt.Errorf("unknown discrete value %d for %s", iv, f.Name())
		}
		v = level
	}
	return v, nil
}
