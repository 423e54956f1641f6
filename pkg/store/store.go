// Package store archives measured frames.
//
// The pipeline writes every frame it measures under the content key of the
// chart description, so a render can be replayed or inspected later
// without re-measuring. [MongoStore] is the durable backend;
// [MemoryStore] serves tests and the animate command.
package store

import (
	"context"
	"sort"
	"sync"

	"github.com/matzehuels/stackchart/pkg/errors"
	"github.com/matzehuels/stackchart/pkg/frame"
)

// Store persists frames by key.
type Store interface {
	// Save upserts f under f.Key.
	Save(ctx context.Context, f *frame.Frame) error

	// Load returns the frame stored under key, or a NOT_FOUND error.
	Load(ctx context.Context, key string) (*frame.Frame, error)

	// Recent returns up to limit keys, newest first.
	Recent(ctx context.Context, limit int) ([]string, error)

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// MemoryStore keeps frames in process memory.
type MemoryStore struct {
	mu     sync.RWMutex
	frames map[string]*frame.Frame
}

// NewMemoryStore creates an empty store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{frames: make(map[string]*frame.Frame)}
}

func (s *MemoryStore) Save(_ context.Context, f *frame.Frame) error {
	if err := checkFrame(f); err != nil {
		return err
	}
	cp := *f
	s.mu.Lock()
	s.frames[f.Key] = &cp
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Load(_ context.Context, key string) (*frame.Frame, error) {
	s.mu.RLock()
	f, ok := s.frames[key]
	s.mu.RUnlock()
	if !ok {
		return nil, errors.New(errors.ErrCodeNotFound, "frame %q not found", key)
	}
	cp := *f
	return &cp, nil
}

func (s *MemoryStore) Recent(_ context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	all := make([]*frame.Frame, 0, len(s.frames))
	for _, f := range s.frames {
		all = append(all, f)
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if !all[i].CreatedAt.Equal(all[j].CreatedAt) {
			return all[i].CreatedAt.After(all[j].CreatedAt)
		}
		return all[i].Key < all[j].Key
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	keys := make([]string, len(all))
	for i, f := range all {
		keys[i] = f.Key
	}
	return keys, nil
}

func (s *MemoryStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.frames, key)
	s.mu.Unlock()
	return nil
}

func (s *MemoryStore) Close() error { return nil }

func checkFrame(f *frame.Frame) error {
	if f == nil {
		return errors.New(errors.ErrCodeInvalidInput, "frame is nil")
	}
	if f.Key == "" {
		return errors.New(errors.ErrCodeInvalidInput, "frame has no key")
	}
	return nil
}
