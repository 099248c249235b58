package store

import (
	"context"
	"testing"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close(ctx)
	key, err := s.Create(ctx, []byte("tree"))
	if err != nil {
		t.Fatalf("creating: %v", err)
	}
	other, _ := s.Create(ctx, []byte("other"))
	if other == key {
		t.Errorf("expected different keys, got %s twice", key)
	}
	data, err := s.Get(ctx, key)
	if err != nil || string(data) != "tree" {
		t.Errorf("expected tree, got %q %v", data, err)
	}
	data[0] = 'T'
	if again, _ := s.Get(ctx, key); string(again) != "tree" {
		t.Errorf("expected stored data not to be shared with callers")
	}
	if err = s.Put(ctx, key, []byte("model")); err != nil {
		t.Fatalf("putting: %v", err)
	}
	if data, _ = s.Get(ctx, key); string(data) != "model" {
		t.Errorf("expected model, got %q", data)
	}
	s.Delete(ctx, key)
	if data, err = s.Get(ctx, key); data != nil || err != nil {
		t.Errorf("expected nothing after deleting, got %q %v", data, err)
	}
	cctx, cancel := context.WithCancel(ctx)
	cancel()
	if _, err = s.Get(cctx, other); err == nil {
		t.Errorf("expected an error with a cancelled context")
	}
}
