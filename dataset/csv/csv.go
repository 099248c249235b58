/*
Package csv reads frames from and writes frames to CSV streams whose header
names the features of each column.
*/
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
)

// Undefined is the CSV value for a categorical level a feature does not
// declare when writing frames.
const Undefined = "?"

/*
Writer is an interface for a CSV stream to which frame rows
can be written to.
*/
type Writer interface {
	// Write will attempt to write the given samples and will
	// return the actually written number of samples and an
	// error (if not all samples could be written)
	Write(context.Context, []dataset.Sample) (int, error)
	// Count returns the total number of samples written
	// to the writer
	Count() int
	// Flush ensures any pending written operations finish
	// before returning. It returns an error if that cannot
	// be ensured.
	Flush() error
}

type csvWriter struct {
	count    int
	features []feature.Feature
	w        *csv.Writer
}

/*
ReadFrame takes a context, an io.Reader for a CSV stream, a slice of
features and the name of the response feature (empty for frames without
response) and returns a frame with a column per feature, in the order of the
given slice, parsed from the reader.

The header or first row of the CSV content is expected to consist of names
of the features in the given slice, in any order. Columns for other features
are ignored. Every feature must have a column.
*/
func ReadFrame(ctx context.Context, reader io.Reader, features []feature.Feature, response string) (*dataset.Frame, error) {
	samples := []dataset.Sample{}
	err := ReadBySample(ctx, reader, features, func(_ int, s dataset.Sample) (bool, error) {
		samples = append(samples, s)
		return true, nil
	})
	if err != nil {
		return nil, err
	}
	return dataset.FromSamples(features, response, samples)
}

/*
ReadBySample takes a context, an io.Reader for a CSV stream, a slice of
features and a lambda function on an integer and a dataset.Sample that
returns a boolean value. It parses the samples from the reader and for each
it calls the lambda function with the sample and its index as parameters. If
the lambda function returns true, it will continue processing the next
sample, otherwise it will stop. An error is returned if something goes wrong
when reading the stream or parsing a sample, or if the context is done.
*/
func ReadBySample(ctx context.Context, reader io.Reader, features []feature.Feature, lambda func(int, dataset.Sample) (bool, error)) error {
	r := csv.NewReader(reader)
	header, err := r.Read()
	if err != nil {
		return fmt.Errorf("reading header: %v", err)
	}
	columns, err := parseHeader(header, features)
	if err != nil {
		return err
	}
	for l := 2; ; l++ {
		if err = ctx.Err(); err != nil {
			return err
		}
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("reading body: %v", err)
		}
		sample, err := parseRow(row, columns)
		if err != nil {
			return fmt.Errorf("parsing line %d: %v", l, err)
		}
		ok, err := lambda(l-2, sample)
		if err != nil {
			return err
		}
		if !ok {
			break
		}
	}
	return nil
}

/*
ReadFrameFromFilePath takes a context, a filepath string, a slice of
features and the name of the response feature, opens the file to which the
filepath points to (os.Stdin if it is "") and uses ReadFrame to return the
frame read from it or an error.
*/
func ReadFrameFromFilePath(ctx context.Context, filepath string, features []feature.Feature, response string) (*dataset.Frame, error) {
	var f *os.File
	var err error
	if filepath == "" {
		f = os.Stdin
	} else {
		f, err = os.Open(filepath)
		if err != nil {
			return nil, fmt.Errorf("opening CSV file: %v", err)
		}
		defer f.Close()
	}
	fr, err := ReadFrame(ctx, f, features, response)
	if err != nil {
		err = fmt.Errorf("parsing CSV file %s: %v", filepath, err)
	}
	return fr, err
}

/*
NewWriter takes an io.Writer and a slice of feature.Features and
returns a Writer that will write any samples on the io.Writer,
after a header with the names of the features.
*/
func NewWriter(writer io.Writer, features []feature.Feature) (Writer, error) {
	w := csv.NewWriter(writer)
	record := make([]string, len(features))
	for i, f := range features {
		record[i] = f.Name()
	}
	err := w.Write(record)
	if err != nil {
		return nil, fmt.Errorf("writing CSV header: %v", err)
	}
	return &csvWriter{features: features, w: w}, nil
}

/*
WriteFrame takes a context, a writer and a frame and dumps the frame, its
response included, to the writer in CSV format. It returns an error if
something went wrong when writing to the writer.
*/
func WriteFrame(ctx context.Context, writer io.Writer, fr *dataset.Frame) error {
	var features []feature.Feature
	for _, c := range fr.AllColumns() {
		features = append(features, c.Feature)
	}
	cw, err := NewWriter(writer, features)
	if err != nil {
		return err
	}
	if _, err = cw.Write(ctx, fr.Samples()); err != nil {
		return err
	}
	return cw.Flush()
}

func parseHeader(header []string, features []feature.Feature) ([]feature.Feature, error) {
	byName := make(map[string]feature.Feature)
	for _, f := range features {
		byName[f.Name()] = f
	}
	columns := make([]feature.Feature, len(header))
	found := make(map[string]bool)
	for i, name := range header {
		if f, ok := byName[name]; ok {
			if found[name] {
				return nil, fmt.Errorf("parsing header: feature %s appears more than once", name)
			}
			columns[i] = f
			found[name] = true
		}
	}
	for _, f := range features {
		if !found[f.Name()] {
			return nil, fmt.Errorf("parsing header: no column for feature %s", f.Name())
		}
	}
	return columns, nil
}

// parseRow keeps raw strings: conversion to numbers and levels happens when
// the frame is built.
func parseRow(row []string, columns []feature.Feature) (dataset.Sample, error) {
	if len(row) != len(columns) {
		return nil, fmt.Errorf("expected %d values, got %d", len(columns), len(row))
	}
	values := make(map[string]interface{})
	for i, f := range columns {
		if f == nil {
			continue
		}
		if row[i] == Undefined && feature.IsCategorical(f) {
			return nil, fmt.Errorf("undefined value for feature %s: missing values are not supported", f.Name())
		}
		values[f.Name()] = row[i]
	}
	return dataset.NewSample(values), nil
}

func (cw *csvWriter) Count() int {
	return cw.count
}

func (cw *csvWriter) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	for n, s := range samples {
		if err := ctx.Err(); err != nil {
			return n, err
		}
		if err := cw.writeSample(s); err != nil {
			return n, err
		}
	}
	return len(samples), nil
}

func (cw *csvWriter) writeSample(sample dataset.Sample) error {
	record := make([]string, len(cw.features))
	for j, f := range cw.features {
		v, err := sample.ValueFor(f)
		if err != nil {
			return err
		}
		if v == nil {
			record[j] = Undefined
		} else {
			record[j] = fmt.Sprintf("%v", v)
		}
	}
	err := cw.w.Write(record)
	if err != nil {
		return fmt.Errorf("writing CSV row for sample %d: %v", cw.count+1, err)
	}
	cw.count++
	return nil
}

func (cw *csvWriter) Flush() error {
	cw.w.Flush()
	return cw.w.Error()
}
