package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-samples/internal/domain"
	"research-samples/internal/repository"
)

func validSample() domain.Sample {
	return domain.Sample{
		SampleType:      domain.SampleTypeBlood,
		SubjectID:       "001",
		CollectionDate:  time.Date(2021, 1, 1, 0, 0, 0, 0, time.UTC),
		Status:          domain.SampleStatusCollected,
		StorageLocation: "FRZ01",
	}
}

func TestCreateSample_DefaultsID(t *testing.T) {
	svc := NewSampleService(newStubSampleRepo())

	created, err := svc.CreateSample(context.Background(), validSample())
	require.NoError(t, err)
	_, err = uuid.Parse(created.SampleID)
	assert.NoError(t, err)

	got, err := svc.GetSample(context.Background(), created.SampleID)
	require.NoError(t, err)
	assert.Equal(t, *created, *got)
}

func TestCreateSample_KeepsProvidedIDAndRejectsDuplicates(t *testing.T) {
	svc := NewSampleService(newStubSampleRepo())
	sample := validSample()
	sample.SampleID = "S-1"

	created, err := svc.CreateSample(context.Background(), sample)
	require.NoError(t, err)
	assert.Equal(t, "S-1", created.SampleID)

	_, err = svc.CreateSample(context.Background(), sample)
	assert.ErrorIs(t, err, ErrSampleExists)
}

func TestCreateSample_Validation(t *testing.T) {
	svc := NewSampleService(newStubSampleRepo())

	tests := map[string]func(*domain.Sample){
		"unknown type":     func(s *domain.Sample) { s.SampleType = "urine" },
		"unknown status":   func(s *domain.Sample) { s.Status = "lost" },
		"missing subject":  func(s *domain.Sample) { s.SubjectID = " " },
		"missing location": func(s *domain.Sample) { s.StorageLocation = "" },
		"missing date":     func(s *domain.Sample) { s.CollectionDate = time.Time{} },
		"path in id":       func(s *domain.Sample) { s.SampleID = "../etc" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			sample := validSample()
			mutate(&sample)
			_, err := svc.CreateSample(context.Background(), sample)
			assert.ErrorIs(t, err, ErrValidation)
		})
	}
}

func TestUpdateSample(t *testing.T) {
	repo := newStubSampleRepo()
	svc := NewSampleService(repo)
	ctx := context.Background()

	created, err := svc.CreateSample(ctx, validSample())
	require.NoError(t, err)

	status := domain.SampleStatusProcessing
	updated, err := svc.UpdateSample(ctx, created.SampleID, domain.SampleUpdate{Status: &status})
	require.NoError(t, err)
	assert.Equal(t, domain.SampleStatusProcessing, updated.Status)
	assert.Equal(t, created.SubjectID, updated.SubjectID)

	bad := domain.SampleStatus("lost")
	_, err = svc.UpdateSample(ctx, created.SampleID, domain.SampleUpdate{Status: &bad})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.UpdateSample(ctx, "missing", domain.SampleUpdate{Status: &status})
	assert.ErrorIs(t, err, ErrSampleNotFound)

	repo.updateErr = repository.ErrConflict
	_, err = svc.UpdateSample(ctx, created.SampleID, domain.SampleUpdate{Status: &status})
	assert.ErrorIs(t, err, ErrSampleConflict)
}

func TestDeleteAndGetMissing(t *testing.T) {
	svc := NewSampleService(newStubSampleRepo())
	ctx := context.Background()

	created, err := svc.CreateSample(ctx, validSample())
	require.NoError(t, err)
	require.NoError(t, svc.DeleteSample(ctx, created.SampleID))

	assert.ErrorIs(t, svc.DeleteSample(ctx, created.SampleID), ErrSampleNotFound)
	_, err = svc.GetSample(ctx, created.SampleID)
	assert.ErrorIs(t, err, ErrSampleNotFound)
}

func TestListSamples(t *testing.T) {
	repo := newStubSampleRepo()
	svc := NewSampleService(repo)
	ctx := context.Background()

	blood := validSample()
	_, err := svc.CreateSample(ctx, blood)
	require.NoError(t, err)
	saliva := validSample()
	saliva.SampleType = domain.SampleTypeSaliva
	_, err = svc.CreateSample(ctx, saliva)
	require.NoError(t, err)

	list, err := svc.ListSamples(ctx, domain.SampleFilter{SampleType: domain.SampleTypeSaliva})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, domain.SampleTypeSaliva, list[0].SampleType)

	repo.listErr = errors.New("timeout")
	_, err = svc.ListSamples(ctx, domain.SampleFilter{})
	assert.ErrorContains(t, err, "timeout")
}
