/*
Package npy reads frames from and writes frames to NumPy .npy files holding
a 2-D float64 matrix with a row per sample and a column per feature.

Categorical features are stored as the index of their level.
*/
package npy

import (
	"fmt"
	"io"
	"math"
	"os"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	"github.com/sbinet/npyio"
	"gonum.org/v1/gonum/mat"
)

/*
ReadFrame takes an io.Reader for a .npy stream, a slice of features, one per
matrix column and in column order, and the name of the response feature
(empty for frames without response) and returns the frame held by the
matrix or an error.

Values of categorical columns must be integers. Those out of the range of
the feature levels are kept as feature.UnknownLevel.
*/
func ReadFrame(r io.Reader, features []feature.Feature, response string) (*dataset.Frame, error) {
	nr, err := npyio.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("reading npy header: %v", err)
	}
	m := &mat.Dense{}
	if err = nr.Read(m); err != nil {
		return nil, fmt.Errorf("reading npy matrix: %v", err)
	}
	rows, cols := m.Dims()
	if cols != len(features) {
		return nil, fmt.Errorf("matrix has %d columns for %d features", cols, len(features))
	}
	var (
		columns []*dataset.Column
		resp    *dataset.Column
	)
	for j, f := range features {
		values := mat.Col(nil, j, m)
		var c *dataset.Column
		switch f := f.(type) {
		case *feature.NumericFeature:
			c = dataset.NumericColumn(f, values)
		case *feature.CategoricalFeature:
			levels := make([]int, rows)
			for i, v := range values {
				if v != math.Trunc(v) {
					return nil, fmt.Errorf("row %d: feature %s: level index %v is not an integer", i, f.Name(), v)
				}
				levels[i] = int(v)
				if levels[i] < 0 || levels[i] >= len(f.Levels()) {
					levels[i] = feature.UnknownLevel
				}
			}
			c = dataset.CategoricalColumn(f, levels)
		default:
			return nil, fmt.Errorf("unknown feature type %T for feature %v", f, f.Name())
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
	return dataset.New(columns, resp)
}

/*
ReadFrameFromFilePath takes a filepath, a slice of features and the name of
the response feature, opens the file and uses ReadFrame to return the frame
read from it or an error.
*/
func ReadFrameFromFilePath(filepath string, features []feature.Feature, response string) (*dataset.Frame, error) {
	f, err := os.Open(filepath)
	if err != nil {
		return nil, fmt.Errorf("opening npy file: %v", err)
	}
	defer f.Close()
	fr, err := ReadFrame(f, features, response)
	if err != nil {
		err = fmt.Errorf("parsing npy file %s: %v", filepath, err)
	}
	return fr, err
}

/*
Matrix returns the frame as a matrix with a row per frame row and a column
per feature, the response being the last one if the frame has it.
*/
func Matrix(fr *dataset.Frame) *mat.Dense {
	all := fr.AllColumns()
	if fr.Count() == 0 || len(all) == 0 {
		return &mat.Dense{}
	}
	m := mat.NewDense(fr.Count(), len(all), nil)
	for j, c := range all {
		for i := 0; i < fr.Count(); i++ {
			m.Set(i, j, c.Value(i))
		}
	}
	return m
}

// WriteFrame takes an io.Writer and a frame and writes the frame's Matrix
// in .npy format.
func WriteFrame(w io.Writer, fr *dataset.Frame) error {
	if fr.Count() == 0 {
		return fmt.Errorf("cannot write an empty frame as npy")
	}
	return npyio.Write(w, Matrix(fr))
}

// WriteColumn takes an io.Writer and values and writes them in .npy format
// as a single column matrix.
func WriteColumn(w io.Writer, values []float64) error {
	if len(values) == 0 {
		return fmt.Errorf("cannot write an empty column as npy")
	}
	return npyio.Write(w, mat.NewDense(len(values), 1, values))
}
