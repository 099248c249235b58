/*
Package store defines the storage slot trained models are written to and
read from, and provides an in-memory implementation.
*/
package store

import (
	"context"
	"fmt"
	"sync"
)

/*
Store is an interface to manage a key-value store
where serialized models can be created, retrieved,
replaced and deleted.

All it methods take a context that may allow
cancelling the operation (thus forcing the return
of an error) if the implementation allows it.
*/
type Store interface {
	// Create takes data and stores it under a new
	// key, which it returns, or returns an error.
	Create(ctx context.Context, data []byte) (string, error)
	// Put takes a key and data and stores the data
	// under the key, replacing anything stored there.
	Put(ctx context.Context, key string, data []byte) error
	// Get takes a key and returns the data stored
	// under it, nil if there is none, or an error
	// if the store cannot be queried.
	Get(ctx context.Context, key string) ([]byte, error)
	// Delete takes a key and removes the data stored
	// under it, if any.
	Delete(ctx context.Context, key string) error
	// Close frees any resources in use by the store.
	Close(ctx context.Context) error
}

type memoryStore struct {
	data   map[string][]byte
	lock   sync.RWMutex
	nextID uint64
}

// NewMemoryStore returns an implementation of Store with the process memory
// space as underlying backend.
func NewMemoryStore() Store {
	return &memoryStore{data: make(map[string][]byte)}
}

func (ms *memoryStore) Create(ctx context.Context, data []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	ms.lock.Lock()
	defer ms.lock.Unlock()
	var key string
	for taken := true; taken; _, taken = ms.data[key] {
		ms.nextID++
		key = fmt.Sprintf("%d", ms.nextID)
	}
	ms.data[key] = append([]byte(nil), data...)
	return key, nil
}

func (ms *memoryStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.lock.Lock()
	defer ms.lock.Unlock()
	ms.data[key] = append([]byte(nil), data...)
	return nil
}

func (ms *memoryStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	ms.lock.RLock()
	defer ms.lock.RUnlock()
	data, ok := ms.data[key]
	if !ok {
		return nil, nil
	}
	return append([]byte(nil), data...), nil
}

func (ms *memoryStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	ms.lock.Lock()
	defer ms.lock.Unlock()
	delete(ms.data, key)
	return nil
}

func (ms *memoryStore) Close(ctx context.Context) error {
	return nil
}
