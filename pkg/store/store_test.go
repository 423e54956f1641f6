package store

import (
	"context"
	"testing"
	"time"

	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/frame"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	defer s.Close()

	f := &frame.Frame{Key: "abc", Width: 400, Height: 300}
	if err := s.Save(ctx, f); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	// Saved copies are detached from the caller
	f.Width = 10
	got, err := s.Load(ctx, "abc")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got.Width != 400 {
		t.Errorf("Load().Width = %v, want 400", got.Width)
	}

	if err := s.Delete(ctx, "abc"); err != nil {
		t.Errorf("Delete() error: %v", err)
	}
	if _, err := s.Load(ctx, "abc"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("Load() after Delete error = %v, want NOT_FOUND", err)
	}
}

func TestMemoryStoreSaveInvalid(t *testing.T) {
	s := NewMemoryStore()
	tests := []struct {
		name string
		f    *frame.Frame
	}{
		{"nil", nil},
		{"no key", &frame.Frame{Width: 1, Height: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := s.Save(context.Background(), tt.f); !errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Save() error = %v, want INVALID_INPUT", err)
			}
		})
	}
}

func TestMemoryStoreRecent(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for i, k := range []string{"a", "b", "c"} {
		_ = s.Save(ctx, &frame.Frame{Key: k, CreatedAt: base.Add(time.Duration(i) * time.Minute)})
	}

	keys, err := s.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent() error: %v", err)
	}
	if len(keys) != 2 || keys[0] != "c" || keys[1] != "b" {
		t.Errorf("Recent(2) = %v, want [c b]", keys)
	}

	all, _ := s.Recent(ctx, 0)
	if len(all) != 3 {
		t.Errorf("Recent(0) returned %d keys, want 3", len(all))
	}
}

func TestNewMongoStoreErrors(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if _, err := NewMongoStore(ctx, "not-a-mongo-uri", ""); err == nil {
		t.Error("NewMongoStore() should reject an invalid uri")
	}
	uri := "mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200&connectTimeoutMS=200"
	if _, err := NewMongoStore(ctx, uri, ""); err == nil {
		t.Error("NewMongoStore() should fail for an unreachable server")
	}
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*MongoStore)(nil)
)
