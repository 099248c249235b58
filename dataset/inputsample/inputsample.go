/*
Package inputsample provides an implementation of dataset.Sample whose values
are read from an io.Reader as they are needed.
*/
package inputsample

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

/*
FeatureValueRequester represents a way to ask
for feature values and reject the given values.
*/
type FeatureValueRequester interface {
	RequestValueFor(feature.Feature) error
	RejectValueFor(feature.Feature, string) error
}

// readSample represents a sample whose feature values are retrieved from a
// reader. A feature value is requested using a FeatureValueRequester before
// reading it.
type readSample struct {
	obtainedValues        map[string]interface{}
	scanner               *bufio.Scanner
	featureValueRequester FeatureValueRequester
	features              map[string]feature.Feature
}

/*
New takes an io.Reader, a slice of features and a FeatureValueRequester and
returns a Sample.

The returned Sample ValueFor method reads feature values first requesting
them with the given FeatureValueRequester and then parsing the values from
the reader, a value per line.

For a feature.NumericFeature, lines will be read from the reader until a
line containing a finite float64 number is found. For a
feature.CategoricalFeature, lines will be read until one with a level of the
feature is found. Non accepted values are rejected with the
FeatureValueRequester's RejectValueFor method. Values are read once, asking
again for a feature returns the value read the first time.
*/
func New(r io.Reader, features []feature.Feature, featureValueRequester FeatureValueRequester) dataset.Sample {
	byName := make(map[string]feature.Feature)
	for _, f := range features {
		byName[f.Name()] = f
	}
	return &readSample{make(map[string]interface{}), bufio.NewScanner(r), featureValueRequester, byName}
}

func (rs *readSample) ValueFor(f feature.Feature) (interface{}, error) {
	if value, ok := rs.obtainedValues[f.Name()]; ok {
		return value, nil
	}
	featureWithInfo, ok := rs.features[f.Name()]
	if !ok {
		return nil, fmt.Errorf("have no information about feature %s, do not know how to read its value", f.Name())
	}
	if err := rs.featureValueRequester.RequestValueFor(featureWithInfo); err != nil {
		return nil, err
	}
	for rs.scanner.Scan() {
		line := strings.TrimSpace(rs.scanner.Text())
		value, ok := parse(featureWithInfo, line)
		if ok {
			rs.obtainedValues[f.Name()] = value
			return value, nil
		}
		if err := rs.featureValueRequester.RejectValueFor(featureWithInfo, line); err != nil {
			return nil, err
		}
	}
	if err := rs.scanner.Err(); err != nil {
		return nil, err
	}
	return nil, fmt.Errorf("EOF when requesting value for %s", f.Name())
}

func parse(f feature.Feature, line string) (interface{}, bool) {
	switch f := f.(type) {
	case *feature.NumericFeature:
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			return nil, false
		}
		ok, _ := f.Valid(v)
		return v, ok
	case *feature.CategoricalFeature:
		if _, ok := f.LevelIndex(line); ok {
			return line, true
		}
	}
	return nil, false
}

/*
Column returns a function usable with tree.Tree.Resolve that reads the value
of the feature at each column from the sample, categorical values converted
to their level index.
*/
func Column(s dataset.Sample, features []feature.Feature) func(int) (float64, error) {
	return func(col int) (float64, error) {
		if col < 0 || col >= len(features) {
			return 0, fmt.Errorf("no feature for column %d", col)
		}
		f := features[col]
		v, err := s.ValueFor(f)
		if err != nil {
			return 0, err
		}
		if cf, ok := f.(*feature.CategoricalFeature); ok {
			l, _ := cf.LevelIndex(fmt.Sprintf("%v", v))
			return float64(l), nil
		}
		fv, ok := v.(float64)
		if !ok {
			return 0, fmt.Errorf("expected a float64 value for %s, got %T", f.Name(), v)
		}
		return fv, nil
	}
}
