package storage

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"sort"
	"strings"
	"sync"
	"time"
)

type memoryObject struct {
	body     []byte
	etag     string
	modified time.Time
}

// MemoryService is an in-process Service with S3 conditional-write semantics.
// Buckets are created on first use.
type MemoryService struct {
	mu      sync.Mutex
	buckets map[string]map[string]memoryObject
}

func NewMemoryService() *MemoryService {
	return &MemoryService{buckets: make(map[string]map[string]memoryObject)}
}

func (m *MemoryService) PutObject(_ context.Context, bucket, key string, body []byte, opts PutOptions) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	objects, ok := m.buckets[bucket]
	if !ok {
		objects = make(map[string]memoryObject)
		m.buckets[bucket] = objects
	}

	current, exists := objects[key]
	if opts.IfNoneMatch && exists {
		return "", ErrPreconditionFailed
	}
	if opts.IfMatch != "" && (!exists || current.etag != opts.IfMatch) {
		return "", ErrPreconditionFailed
	}

	sum := md5.Sum(body)
	obj := memoryObject{
		body:     append([]byte(nil), body...),
		etag:     `"` + hex.EncodeToString(sum[:]) + `"`,
		modified: time.Now().UTC(),
	}
	objects[key] = obj
	return obj.etag, nil
}

func (m *MemoryService) GetObject(_ context.Context, bucket, key string) (*Object, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	obj, ok := m.buckets[bucket][key]
	if !ok {
		return nil, ErrObjectNotFound
	}
	return &Object{Key: key, Body: append([]byte(nil), obj.body...), ETag: obj.etag}, nil
}

func (m *MemoryService) ListObjects(_ context.Context, bucket, prefix string) ([]ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var objects []ObjectInfo
	for key, obj := range m.buckets[bucket] {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		modified := obj.modified
		objects = append(objects, ObjectInfo{
			Key:          key,
			Size:         int64(len(obj.body)),
			ETag:         obj.etag,
			LastModified: &modified,
		})
	}
	sort.Slice(objects, func(i, j int) bool { return objects[i].Key < objects[j].Key })
	return objects, nil
}

func (m *MemoryService) DeleteObject(_ context.Context, bucket, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.buckets[bucket][key]; !ok {
		return ErrObjectNotFound
	}
	delete(m.buckets[bucket], key)
	return nil
}

var _ Service = (*MemoryService)(nil)
