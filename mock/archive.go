package mock

import (
	"context"
	"io"

	"github.com/dukerupert/vigie"
)

// Compile-time interface check
var _ vigie.ArchiveStore = (*ArchiveStore)(nil)

// ArchiveStore is a mock implementation of vigie.ArchiveStore.
type ArchiveStore struct {
	PutFn    func(ctx context.Context, key string, reader io.Reader, contentType string) (string, error)
	DeleteFn func(ctx context.Context, key string) error
	URLFn    func(key string) string
	ExistsFn func(ctx context.Context, key string) (bool, error)
}

func (s *ArchiveStore) Put(ctx context.Context, key string, reader io.Reader, contentType string) (string, error) {
	if s.PutFn != nil {
		return s.PutFn(ctx, key, reader, contentType)
	}
	return "mock://" + key, nil
}

func (s *ArchiveStore) Delete(ctx context.Context, key string) error {
	if s.DeleteFn != nil {
		return s.DeleteFn(ctx, key)
	}
	return nil
}

func (s *ArchiveStore) URL(key string) string {
	if s.URLFn != nil {
		return s.URLFn(key)
	}
	return "mock://" + key
}

func (s *ArchiveStore) Exists(ctx context.Context, key string) (bool, error) {
	if s.ExistsFn != nil {
		return s.ExistsFn(ctx, key)
	}
	return false, nil
}
