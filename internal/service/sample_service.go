package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"research-samples/internal/domain"
	"research-samples/internal/repository"
)

// SampleService coordinates sample level operations backed by a repository.
type SampleService interface {
	ListSamples(ctx context.Context, filter domain.SampleFilter) ([]domain.Sample, error)
	GetSample(ctx context.Context, sampleID string) (*domain.Sample, error)
	CreateSample(ctx context.Context, sample domain.Sample) (*domain.Sample, error)
	UpdateSample(ctx context.Context, sampleID string, update domain.SampleUpdate) (*domain.Sample, error)
	DeleteSample(ctx context.Context, sampleID string) error
}

type sampleService struct {
	samples repository.SampleRepository
}

func NewSampleService(samples repository.SampleRepository) SampleService {
	return &sampleService{samples: samples}
}

func (s *sampleService) ListSamples(ctx context.Context, filter domain.SampleFilter) ([]domain.Sample, error) {
	samples, err := s.samples.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list samples: %w", err)
	}
	return samples, nil
}

func (s *sampleService) GetSample(ctx context.Context, sampleID string) (*domain.Sample, error) {
	sample, err := s.samples.Get(ctx, sampleID)
	if err != nil {
		return nil, translateSampleErr(err)
	}
	return sample, nil
}

// CreateSample assigns a random id when none is given.
func (s *sampleService) CreateSample(ctx context.Context, sample domain.Sample) (*domain.Sample, error) {
	sample.SampleID = strings.TrimSpace(sample.SampleID)
	if sample.SampleID == "" {
		sample.SampleID = uuid.NewString()
	}
	sample.CollectionDate = sample.CollectionDate.UTC()
	if err := validateSample(sample); err != nil {
		return nil, err
	}

	if err := s.samples.Create(ctx, &sample); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrSampleExists
		}
		return nil, translateSampleErr(err)
	}
	return &sample, nil
}

func (s *sampleService) UpdateSample(ctx context.Context, sampleID string, update domain.SampleUpdate) (*domain.Sample, error) {
	if update.SampleType != nil && !update.SampleType.Valid() {
		return nil, fmt.Errorf("%w: unknown sample_type %q", ErrValidation, *update.SampleType)
	}
	if update.Status != nil && !update.Status.Valid() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *update.Status)
	}

	sample, err := s.samples.Update(ctx, sampleID, update)
	if err != nil {
		return nil, translateSampleErr(err)
	}
	return sample, nil
}

func (s *sampleService) DeleteSample(ctx context.Context, sampleID string) error {
	if err := s.samples.Delete(ctx, sampleID); err != nil {
		return translateSampleErr(err)
	}
	return nil
}

func validateSample(sample domain.Sample) error {
	switch {
	case strings.ContainsAny(sample.SampleID, "/\\"):
		return fmt.Errorf("%w: sample_id must not contain path separators", ErrValidation)
	case !sample.SampleType.Valid():
		return fmt.Errorf("%w: unknown sample_type %q", ErrValidation, sample.SampleType)
	case !sample.Status.Valid():
		return fmt.Errorf("%w: unknown status %q", ErrValidation, sample.Status)
	case strings.TrimSpace(sample.SubjectID) == "":
		return fmt.Errorf("%w: subject_id is required", ErrValidation)
	case strings.TrimSpace(sample.StorageLocation) == "":
		return fmt.Errorf("%w: storage_location is required", ErrValidation)
	case sample.CollectionDate.IsZero():
		return fmt.Errorf("%w: collection_date is required", ErrValidation)
	}
	return nil
}

func translateSampleErr(err error) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return ErrSampleNotFound
	case errors.Is(err, repository.ErrConflict):
		return ErrSampleConflict
	default:
		return fmt.Errorf("sample store: %w", err)
	}
}
