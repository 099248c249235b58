package redisstore

import (
	"context"
	"os"
	"testing"

	"gopkg.in/redis.v5"
)

func TestRandString(t *testing.T) {
	a, b := randString(keyLength), randString(keyLength)
	if len(a) != keyLength || a == b {
		t.Errorf("expected two different keys of length %d, got %q and %q", keyLength, a, b)
	}
}

// TestRedisStore runs against the redis server at SAPLING_TEST_REDIS_ADDR.
func TestRedisStore(t *testing.T) {
	addr := os.Getenv("SAPLING_TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("SAPLING_TEST_REDIS_ADDR not set")
	}
	ctx := context.Background()
	s := New(redis.NewClient(&redis.Options{Addr: addr}), "sapling-test")
	defer s.Close(ctx)
	key, err := s.Create(ctx, []byte("model"))
	if err != nil {
		t.Fatalf("creating: %v", err)
	}
	defer s.Delete(ctx, key)
	data, err := s.Get(ctx, key)
	if err != nil || string(data) != "model" {
		t.Errorf("expected model, got %q %v", data, err)
	}
	if data, err = s.Get(ctx, key+"-missing"); data != nil || err != nil {
		t.Errorf("expected nothing for a missing key, got %q %v", data, err)
	}
}
