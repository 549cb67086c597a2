// Package objectstore keeps sample documents as JSON objects in a storage.Service.
package objectstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"research-samples/internal/domain"
	"research-samples/internal/repository"
	"research-samples/internal/storage"
)

const documentContentType = "application/json"

type SampleRepository struct {
	store  storage.Service
	bucket string
	prefix string
}

func NewSampleRepository(store storage.Service, bucket, keyPrefix string) repository.SampleRepository {
	prefix := strings.Trim(keyPrefix, "/")
	if prefix != "" {
		prefix += "/"
	}
	return &SampleRepository{
		store:  store,
		bucket: bucket,
		prefix: prefix,
	}
}

// Init checks that the bucket is reachable.
func (r *SampleRepository) Init(ctx context.Context) error {
	if r.bucket == "" {
		return fmt.Errorf("storage bucket is required")
	}
	if _, err := r.store.ListObjects(ctx, r.bucket, r.prefix); err != nil {
		return fmt.Errorf("probe sample bucket: %w", err)
	}
	return nil
}

func (r *SampleRepository) List(ctx context.Context, filter domain.SampleFilter) ([]domain.Sample, error) {
	objects, err := r.store.ListObjects(ctx, r.bucket, r.prefix)
	if err != nil {
		return nil, fmt.Errorf("list sample documents: %w", err)
	}

	samples := []domain.Sample{}
	for _, info := range objects {
		if !strings.HasSuffix(info.Key, ".json") {
			continue
		}
		sample, _, err := r.load(ctx, info.Key)
		if err != nil {
			// deleted between list and get
			if errors.Is(err, repository.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if filter.Matches(*sample) {
			samples = append(samples, *sample)
		}
	}

	sort.Slice(samples, func(i, j int) bool {
		if !samples[i].CollectionDate.Equal(samples[j].CollectionDate) {
			return samples[i].CollectionDate.Before(samples[j].CollectionDate)
		}
		return samples[i].SampleID < samples[j].SampleID
	})
	return samples, nil
}

func (r *SampleRepository) Get(ctx context.Context, sampleID string) (*domain.Sample, error) {
	sample, _, err := r.load(ctx, r.key(sampleID))
	return sample, err
}

func (r *SampleRepository) Create(ctx context.Context, sample *domain.Sample) error {
	body, err := json.Marshal(sample)
	if err != nil {
		return fmt.Errorf("encode sample: %w", err)
	}
	if _, err := r.store.PutObject(ctx, r.bucket, r.key(sample.SampleID), body, storage.PutOptions{
		ContentType: documentContentType,
		IfNoneMatch: true,
	}); err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) {
			return fmt.Errorf("sample %q: %w", sample.SampleID, repository.ErrConflict)
		}
		return fmt.Errorf("store sample: %w", err)
	}
	return nil
}

// Update writes with If-Match on the version it read, so a concurrent update
// surfaces as ErrConflict instead of being overwritten.
func (r *SampleRepository) Update(ctx context.Context, sampleID string, update domain.SampleUpdate) (*domain.Sample, error) {
	key := r.key(sampleID)
	current, etag, err := r.load(ctx, key)
	if err != nil {
		return nil, err
	}

	next := update.Apply(*current)
	body, err := json.Marshal(next)
	if err != nil {
		return nil, fmt.Errorf("encode sample: %w", err)
	}
	if _, err := r.store.PutObject(ctx, r.bucket, key, body, storage.PutOptions{
		ContentType: documentContentType,
		IfMatch:     etag,
	}); err != nil {
		if errors.Is(err, storage.ErrPreconditionFailed) {
			return nil, fmt.Errorf("sample %q changed concurrently: %w", sampleID, repository.ErrConflict)
		}
		return nil, fmt.Errorf("store sample: %w", err)
	}
	return &next, nil
}

func (r *SampleRepository) Delete(ctx context.Context, sampleID string) error {
	if err := r.store.DeleteObject(ctx, r.bucket, r.key(sampleID)); err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("delete sample: %w", err)
	}
	return nil
}

func (r *SampleRepository) load(ctx context.Context, key string) (*domain.Sample, string, error) {
	obj, err := r.store.GetObject(ctx, r.bucket, key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, "", repository.ErrNotFound
		}
		return nil, "", fmt.Errorf("fetch sample document: %w", err)
	}

	var sample domain.Sample
	if err := json.Unmarshal(obj.Body, &sample); err != nil {
		return nil, "", fmt.Errorf("decode sample document %s: %w", key, err)
	}
	sample.CollectionDate = sample.CollectionDate.UTC()
	return &sample, obj.ETag, nil
}

func (r *SampleRepository) key(sampleID string) string {
	return r.prefix + sampleID + ".json"
}
