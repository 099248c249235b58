package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"

	"github.com/pbanos/sapling"
	"github.com/pbanos/sapling/dataset"
	"github.com/pbanos/sapling/dataset/csv"
	"github.com/pbanos/sapling/dataset/mongodataset"
	"github.com/pbanos/sapling/dataset/npy"
	"github.com/pbanos/sapling/dataset/sqldataset"
	"github.com/pbanos/sapling/dataset/sqldataset/pgadapter"
	"github.com/pbanos/sapling/dataset/sqldataset/sqlite3adapter"
	"github.com/pbanos/sapling/feature"
	"github.com/pbanos/sapling/store/redisstore"
	mgo "gopkg.in/mgo.v2"
	"gopkg.in/redis.v5"
)

const (
	dataLocationHelp  = "path to a CSV (.csv), NumPy (.npy) or SQLite3 (.db) file, or a PostgreSQL (postgresql://) or MongoDB (mongodb://) connection URL"
	modelLocationHelp = "path to a JSON file or a redis://HOST:PORT/KEY URL"
	redisKeyPrefix    = "sapling:models"
)

func isPostgreSQL(location string) bool {
	return strings.HasPrefix(location, "postgresql://") || strings.HasPrefix(location, "postgres://")
}

/*
readFrame takes a context, a logger, a data location as described by
dataLocationHelp (STDIN in CSV if empty), the features to read and the name
of the response feature and returns the frame read from the location.
*/
func readFrame(ctx context.Context, l sapling.Logger, location string, features []feature.Feature, response string) (*dataset.Frame, error) {
	switch {
	case location == "":
		l.Logf("Reading set from STDIN...")
		return csv.ReadFrame(ctx, os.Stdin, features, response)
	case isPostgreSQL(location):
		l.Logf("Creating PostgreSQL adapter for url %s to read set...", location)
		a, err := pgadapter.New(location)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.ReadFrame(ctx, a, features, response)
	case strings.HasPrefix(location, "mongodb://"):
		l.Logf("Connecting to MongoDB at %s to read set...", location)
		session, err := mgo.Dial(location)
		if err != nil {
			return nil, fmt.Errorf("connecting to MongoDB: %v", err)
		}
		defer session.Close()
		mds, err := mongodataset.Open(ctx, session, features)
		if err != nil {
			return nil, err
		}
		return mds.Frame(ctx, response)
	case strings.HasSuffix(location, ".db"):
		l.Logf("Creating SQLite3 adapter for file %s to read set...", location)
		a, err := sqlite3adapter.New(location)
		if err != nil {
			return nil, err
		}
		defer a.Close()
		return sqldataset.ReadFrame(ctx, a, features, response)
	case strings.HasSuffix(location, ".npy"):
		l.Logf("Opening %s to read set...", location)
		return npy.ReadFrameFromFilePath(location, features, response)
	default:
		l.Logf("Opening %s to read set...", location)
		return csv.ReadFrameFromFilePath(ctx, location, features, response)
	}
}

/*
writeFrame takes a context, a logger, a data location as described by
dataLocationHelp (STDOUT in CSV if empty) and a frame and writes the frame to
the location.
*/
func writeFrame(ctx context.Context, l sapling.Logger, location string, fr *dataset.Frame) error {
	switch {
	case isPostgreSQL(location):
		l.Logf("Creating PostgreSQL adapter for url %s to dump set...", location)
		a, err := pgadapter.New(location)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = sqldataset.WriteFrame(ctx, a, fr)
		return err
	case strings.HasPrefix(location, "mongodb://"):
		l.Logf("Connecting to MongoDB at %s to dump set...", location)
		session, err := mgo.Dial(location)
		if err != nil {
			return fmt.Errorf("connecting to MongoDB: %v", err)
		}
		defer session.Close()
		_, err = mongodataset.WriteFrame(ctx, session, fr)
		return err
	case strings.HasSuffix(location, ".db"):
		l.Logf("Creating SQLite3 adapter for file %s to dump set...", location)
		a, err := sqlite3adapter.New(location)
		if err != nil {
			return err
		}
		defer a.Close()
		_, err = sqldataset.WriteFrame(ctx, a, fr)
		return err
	}
	w, err := createOutput(location)
	if err != nil {
		return err
	}
	defer w.Close()
	if strings.HasSuffix(location, ".npy") {
		return npy.WriteFrame(w, fr)
	}
	return csv.WriteFrame(ctx, w, fr)
}

// createOutput creates the file at path for writing, or returns STDOUT if
// path is empty.
func createOutput(path string) (io.WriteCloser, error) {
	if path == "" {
		return nopCloser{os.Stdout}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %v", path, err)
	}
	return f, nil
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error {
	return nil
}

// redisLocation returns the redis client and key for a redis model URL.
func redisLocation(location string) (*redis.Client, string, error) {
	u, err := url.Parse(location)
	if err != nil {
		return nil, "", fmt.Errorf("parsing redis URL %s: %v", location, err)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return nil, "", fmt.Errorf("redis URL %s has no key", location)
	}
	opts := &redis.Options{Addr: u.Host}
	if u.User != nil {
		opts.Password, _ = u.User.Password()
	}
	return redis.NewClient(opts), key, nil
}

/*
loadModel takes a context, a logger and a model location as described by
modelLocationHelp and returns the model stored there.
*/
func loadModel(ctx context.Context, l sapling.Logger, location string) (*sapling.Model, error) {
	if strings.HasPrefix(location, "redis://") {
		rc, key, err := redisLocation(location)
		if err != nil {
			return nil, err
		}
		s := redisstore.New(rc, redisKeyPrefix)
		defer s.Close(ctx)
		l.Logf("Loading model %s from redis...", key)
		return sapling.Load(ctx, s, key)
	}
	l.Logf("Loading model from %s...", location)
	f, err := os.Open(location)
	if err != nil {
		return nil, fmt.Errorf("reading model in JSON from %s: %v", location, err)
	}
	defer f.Close()
	m := &sapling.Model{}
	if err = json.NewDecoder(f).Decode(m); err != nil {
		return nil, fmt.Errorf("parsing model in JSON from %s: %v", location, err)
	}
	return m, nil
}

/*
saveModel takes a context, a logger, a model location as described by
modelLocationHelp (STDOUT if empty) and a model and writes the model there.
*/
func saveModel(ctx context.Context, l sapling.Logger, location string, m *sapling.Model) error {
	if strings.HasPrefix(location, "redis://") {
		rc, key, err := redisLocation(location)
		if err != nil {
			return err
		}
		s := redisstore.New(rc, redisKeyPrefix)
		defer s.Close(ctx)
		l.Logf("Saving model as %s on redis...", key)
		return m.Save(ctx, s, key)
	}
	w, err := createOutput(location)
	if err != nil {
		return err
	}
	defer w.Close()
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding model: %v", err)
	}
	_, err = fmt.Fprintf(w, "%s\n", data)
	return err
}

// modelFeatures returns the features a model reads followed by its label.
func modelFeatures(m *sapling.Model) []feature.Feature {
	return append(append([]feature.Feature{}, m.Features()...), m.Label())
}
