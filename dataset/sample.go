package dataset

import (
	"fmt"
	"strconv"

	"github.com/pbanos/sapling/feature"
)

/*
Sample represents a row as read from a data source, before it is placed in a
Frame.

Its ValueFor method returns the value of the sample corresponding to the feature
passed as parameter, or nil if the sample has none.
*/
type Sample interface {
	ValueFor(feature.Feature) (interface{}, error)
}

type sample struct {
	featureValues map[string]interface{}
}

/*
NewSample takes a map of feature string names to values and returns a sample.
*/
func NewSample(featureValues map[string]interface{}) Sample {
	return &sample{featureValues}
}

func (s *sample) ValueFor(f feature.Feature) (interface{}, error) {
	return s.featureValues[f.Name()], nil
}

func (s *sample) String() string {
	return fmt.Sprintf("[%v]", s.featureValues)
}

/*
FromSamples takes a slice of features, the name of the response feature
(which must be among the features, or empty for frames without response)
and a slice of samples and returns a Frame with one column per feature in
the given order.

Numeric values may be given as any Go numeric type or as strings parseable as
float64; categorical values as strings or anything printable with %v. Values
for levels a categorical feature does not declare are kept as
feature.UnknownLevel. Missing values are an error.
*/
func FromSamples(features []feature.Feature, response string, samples []Sample) (*Frame, error) {
	var (
		columns []*Column
		resp    *Column
	)
	for _, f := range features {
		c, err := columnFromSamples(f, samples)
		if err != nil {
			return nil, err
		}
		if f.Name() == response {
			resp = c
			continue
		}
		columns = append(columns, c)
	}
	if response != "" && resp == nil {
		return nil, fmt.Errorf("response feature %s is not defined", response)
	}
	return New(columns, resp)
}

func columnFromSamples(f feature.Feature, samples []Sample) (*Column, error) {
	switch f := f.(type) {
	case *feature.NumericFeature:
		values := make([]float64, len(samples))
		for i, s := range samples {
			v, err := s.ValueFor(f)
			if err != nil {
				return nil, err
			}
			values[i], err = toFloat(v)
			if err != nil {
				return nil, fmt.Errorf("sample %d: feature %s: %v", i, f.Name(), err)
			}
		}
		return NumericColumn(f, values), nil
	case *feature.CategoricalFeature:
		levels := make([]int, len(samples))
		for i, s := range samples {
			v, err := s.ValueFor(f)
			if err != nil {
				return nil, err
			}
			if v == nil {
				return nil, fmt.Errorf("sample %d: feature %s: missing values are not supported", i, f.Name())
			}
			vs, ok := v.(string)
			if !ok {
				vs = fmt.Sprintf("%v", v)
			}
			levels[i], _ = f.LevelIndex(vs)
		}
		return CategoricalColumn(f, levels), nil
	default:
		return nil, fmt.Errorf("unknown feature type %T for feature %v", f, f.Name())
	}
}

func toFloat(v interface{}) (float64, error) {
	switch v := v.(type) {
	case nil:
		return 0, fmt.Errorf("missing values are not supported")
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, fmt.Errorf("converting %s to float64: %v", v, err)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("cannot use value %v of type %T as a number", v, v)
	}
}

/*
Samples returns the rows of the frame as samples holding a float64 for every
numeric feature and the level name for every categorical one, the response
included. Unknown levels are given as nil.
*/
func (fr *Frame) Samples() []Sample {
	all := fr.AllColumns()
	samples := make([]Sample, fr.count)
	for i := range samples {
		values := make(map[string]interface{}, len(all))
		for _, c := range all {
			if !c.Categorical() {
				values[c.Feature.Name()] = c.Numeric[i]
				continue
			}
			cf := c.Feature.(*feature.CategoricalFeature)
			if l := c.Levels[i]; l >= 0 && l < len(cf.Levels()) {
				values[c.Feature.Name()] = cf.Level(l)
			}
		}
		samples[i] = NewSample(values)
	}
	return samples
}

// AllColumns returns the feature columns followed by the response column,
// if the frame has one.
func (fr *Frame) AllColumns() []*Column {
	if fr.response == nil {
		return fr.columns
	}
	return append(append([]*Column{}, fr.columns...), fr.response)
}
