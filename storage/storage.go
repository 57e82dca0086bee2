package storage

import (
	"context"
	"errors"
	"io"
)

var ErrObjectNotFound = errors.New("stored object not found")

type UploadResult struct {
	Key      string
	Location string
	ETag     string
}

// Object is a stored blob opened for reading. Callers own Body and must
// close it.
type Object struct {
	ContentType string
	Body        io.ReadCloser
}

// FileStorage is the blob store behind bot images.
type FileStorage interface {
	Upload(ctx context.Context, key string, contentType string, reader io.Reader) (*UploadResult, error)

	Fetch(ctx context.Context, key string) (*Object, error)

	Delete(ctx context.Context, key string) error

	GetPublicURL(key string) string
}
