package storage

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrObjectNotFound is returned when the key does not exist in the bucket.
	ErrObjectNotFound = errors.New("object not found")
	// ErrPreconditionFailed is returned when a conditional write loses against
	// the current state of the object.
	ErrPreconditionFailed = errors.New("object precondition failed")
)

type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	LastModified *time.Time
}

// Object is a fetched object body together with its entity tag.
type Object struct {
	Key  string
	Body []byte
	ETag string
}

// PutOptions makes a write conditional. IfNoneMatch only creates new keys;
// IfMatch only overwrites the version carrying that entity tag.
type PutOptions struct {
	ContentType string
	IfNoneMatch bool
	IfMatch     string
}

// Service stores small documents in remote object storage.
type Service interface {
	PutObject(ctx context.Context, bucket, key string, body []byte, opts PutOptions) (string, error)
	GetObject(ctx context.Context, bucket, key string) (*Object, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeleteObject(ctx context.Context, bucket, key string) error
}
