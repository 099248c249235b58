/*
Package mongodataset stores frames in and reads frames from a MongoDB
database, with a document per row in its samples collection.
*/
package mongodataset

import (
	"context"
	"fmt"
	"strings"

	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/feature"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/mgo.v2/bson"
)

/*
Dataset is a set of samples on a MongoDB collection to which samples can be
added and from which samples can be sequentially read.
*/
type Dataset struct {
	session  *mgo.Session
	features []feature.Feature
}

const (
	samplesCollectionName = "samples"
)

/*
Open takes a context, a MongoDB database session and a slice of features
and returns a Dataset that works on the default database for that session
or an error if a feature name cannot be used as a document field.
*/
func Open(ctx context.Context, session *mgo.Session, features []feature.Feature) (*Dataset, error) {
	for _, f := range features {
		fName := f.Name()
		if fName == "_id" {
			return nil, fmt.Errorf("invalid feature name %q: reserved collection field", "_id")
		}
		if strings.ContainsAny(fName, ".$") {
			return nil, fmt.Errorf("invalid feature name %q: contains reserved characters %q or %q", fName, ".", "$")
		}
	}
	return &Dataset{session, features}, nil
}

// Count returns the number of samples on the collection.
func (mds *Dataset) Count(context.Context) (int, error) {
	return mds.samplesCollection().Count()
}

/*
Write takes a context and a slice of samples and inserts a document per
sample with a field per feature, returning the number of samples written or
an error.
*/
func (mds *Dataset) Write(ctx context.Context, samples []dataset.Sample) (int, error) {
	docs := make([]interface{}, 0, len(samples))
	for _, s := range samples {
		doc := make(bson.M)
		for _, f := range mds.features {
			value, err := s.ValueFor(f)
			if err != nil {
				return 0, err
			}
			if value != nil {
				doc[f.Name()] = value
			}
		}
		docs = append(docs, doc)
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	err := mds.samplesCollection().Insert(docs...)
	if err != nil {
		return 0, err
	}
	return len(samples), nil
}

/*
Read takes a context and returns a channel on which the samples of the
collection are sent in insertion order, and a channel on which an error is
sent if the iteration fails or the context is done. Both are closed once
every sample is sent.
*/
func (mds *Dataset) Read(ctx context.Context) (<-chan dataset.Sample, <-chan error) {
	samples := make(chan dataset.Sample)
	errs := make(chan error, 1)
	go func() {
		defer close(samples)
		defer close(errs)
		iter := mds.samplesCollection().Find(nil).Sort("_id").Iter()
		defer iter.Close()
		for {
			doc := bson.M{}
			if !iter.Next(&doc) {
				break
			}
			select {
			case <-ctx.Done():
				errs <- ctx.Err()
				return
			case samples <- dataset.NewSample(doc):
			}
		}
		if err := iter.Err(); err != nil {
			errs <- err
		}
	}()
	return samples, errs
}

/*
Frame takes a context and the name of the response feature (empty for
frames without response) and returns a frame with the samples of the
collection and a column per feature, or an error.
*/
func (mds *Dataset) Frame(ctx context.Context, response string) (*dataset.Frame, error) {
	var samples []dataset.Sample
	sampleChan, errs := mds.Read(ctx)
	for s := range sampleChan {
		samples = append(samples, s)
	}
	if err := <-errs; err != nil {
		return nil, fmt.Errorf("reading samples: %v", err)
	}
	return dataset.FromSamples(mds.features, response, samples)
}

/*
WriteFrame takes a context, a MongoDB session and a frame and inserts the
frame's rows, response included, on the samples collection.
*/
func WriteFrame(ctx context.Context, session *mgo.Session, fr *dataset.Frame) (int, error) {
	var features []feature.Feature
	for _, c := range fr.AllColumns() {
		features = append(features, c.Feature)
	}
	mds, err := Open(ctx, session, features)
	if err != nil {
		return 0, err
	}
	return mds.Write(ctx, fr.Samples())
}

func (mds *Dataset) samplesCollection() *mgo.Collection {
	return mds.session.DB("").C(samplesCollectionName)
}
