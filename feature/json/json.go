/*
Package json encodes features as JSON so that they can travel with a tree.
*/
package json

import (
	"encoding/json"
	"fmt"

	"github.com/pbanos/sapling/feature"
)

const (
	numericType     = "numeric"
	categoricalType = "categorical"
)

// Feature is the JSON representation of a feature.Feature.
type Feature struct {
	Name   string   `json:"name"`
	Type   string   `json:"type"`
	Levels []string `json:"levels,omitempty"`
}

// NewFeature takes a feature.Feature and returns its JSON representation
// or an error if the feature type is not known.
func NewFeature(f feature.Feature) (*Feature, error) {
	switch f := f.(type) {
	case *feature.NumericFeature:
		return &Feature{Name: f.Name(), Type: numericType}, nil
	case *feature.CategoricalFeature:
		return &Feature{Name: f.Name(), Type: categoricalType, Levels: f.Levels()}, nil
	default:
		return nil, fmt.Errorf("unknown feature type %T for feature %v", f, f.Name())
	}
}

// Feature returns the feature.Feature represented by jf or an error if its
// type is not known.
func (jf *Feature) Feature() (feature.Feature, error) {
	switch jf.Type {
	case numericType:
		return feature.NewNumericFeature(jf.Name), nil
	case categoricalType:
		return feature.NewCategoricalFeature(jf.Name, jf.Levels), nil
	default:
		return nil, fmt.Errorf("feature %s has unknown type %q", jf.Name, jf.Type)
	}
}

/*
EncodeFeatures takes a slice of features and returns them encoded as a JSON
array of objects with the following properties:
  * "name": the name of the feature
  * "type": either "numeric" or "categorical"
  * "levels": for categorical features, the array of its levels in index order
*/
func EncodeFeatures(features []feature.Feature) ([]byte, error) {
	jfs, err := NewFeatures(features)
	if err != nil {
		return nil, err
	}
	return json.Marshal(jfs)
}

/*
DecodeFeatures takes a slice of bytes with features encoded by EncodeFeatures
and returns them decoded or an error.
*/
func DecodeFeatures(data []byte) ([]feature.Feature, error) {
	var jfs []*Feature
	err := json.Unmarshal(data, &jfs)
	if err != nil {
		return nil, fmt.Errorf("decoding features: %v", err)
	}
	return Features(jfs)
}

// NewFeatures returns the JSON representations of the given features.
func NewFeatures(features []feature.Feature) ([]*Feature, error) {
	jfs := make([]*Feature, 0, len(features))
	for _, f := range features {
		jf, err := NewFeature(f)
		if err != nil {
			return nil, err
		}
		jfs = append(jfs, jf)
	}
	return jfs, nil
}

// Features returns the features represented by the given JSON features.
func Features(jfs []*Feature) ([]feature.Feature, error) {
	features := make([]feature.Feature, 0, len(jfs))
	for _, jf := range jfs {
		f, err := jf.Feature()
		if err != nil {
			return nil, err
		}
		features = append(features, f)
	}
	return features, nil
}
