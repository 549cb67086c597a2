package repository

import (
	"context"

	"research-samples/internal/domain"
)

// SampleRepository exposes the sample document collection.
type SampleRepository interface {
	Init(ctx context.Context) error
	List(ctx context.Context, filter domain.SampleFilter) ([]domain.Sample, error)
	Get(ctx context.Context, sampleID string) (*domain.Sample, error)
	// Create fails with ErrConflict when the sample id is already taken.
	Create(ctx context.Context, sample *domain.Sample) error
	// Update applies a partial update and returns the stored result.
	Update(ctx context.Context, sampleID string, update domain.SampleUpdate) (*domain.Sample, error)
	Delete(ctx context.Context, sampleID string) error
}
