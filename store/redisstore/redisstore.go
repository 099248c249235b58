/*
Package redisstore provides an implementation of store.Store backed by a
redis DB.
*/
package redisstore

import (
	"context"
	"fmt"

	"github.com/pbanos/sapling/store"
	"gopkg.in/redis.v5"
)

// keyLength is the length of the random keys generated by Create.
const keyLength = 20

type redisStore struct {
	rc     *redis.Client
	prefix string
}

// New builds a store.Store backed by a redis DB that prefixes every key
// with the given prefix followed by a colon.
func New(rc *redis.Client, prefix string) store.Store {
	return &redisStore{rc, prefix}
}

func (rs *redisStore) Create(ctx context.Context, data []byte) (string, error) {
	var (
		key string
		ok  bool
	)
	for !ok {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		key = randString(keyLength)
		var err error
		ok, err = rs.rc.SetNX(rs.keyFor(key), data, 0).Result()
		if err != nil {
			return "", fmt.Errorf("creating key in redis: %v", err)
		}
	}
	return key, nil
}

func (rs *redisStore) Put(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := rs.rc.Set(rs.keyFor(key), data, 0).Result()
	if err != nil {
		return fmt.Errorf("storing %q in redis: %v", rs.keyFor(key), err)
	}
	return nil
}

func (rs *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := rs.rc.Get(rs.keyFor(key)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("retrieving %q from redis: %v", rs.keyFor(key), err)
	}
	return data, nil
}

func (rs *redisStore) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := rs.rc.Del(rs.keyFor(key)).Result()
	if err != nil {
		return fmt.Errorf("deleting %q from redis: %v", rs.keyFor(key), err)
	}
	return nil
}

func (rs *redisStore) Close(ctx context.Context) error {
	return rs.rc.Close()
}

func (rs *redisStore) keyFor(key string) string {
	return fmt.Sprintf("%s:%s", rs.prefix, key)
}
