package objectstore

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"research-samples/internal/domain"
	"research-samples/internal/repository"
	"research-samples/internal/storage"
)

func newSample(id string, typ domain.SampleType, status domain.SampleStatus, day int) *domain.Sample {
	return &domain.Sample{
		SampleID:        id,
		SampleType:      typ,
		SubjectID:       "001",
		CollectionDate:  time.Date(2021, 1, day, 0, 0, 0, 0, time.UTC),
		Status:          status,
		StorageLocation: "FRZ01",
	}
}

func newRepo(t *testing.T) (repository.SampleRepository, *storage.MemoryService) {
	t.Helper()
	store := storage.NewMemoryService()
	repo := NewSampleRepository(store, "lab", "/samples/")
	require.NoError(t, repo.Init(context.Background()))
	return repo, store
}

func TestSampleRepository_CRUD(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSample("s1", domain.SampleTypeBlood, domain.SampleStatusCollected, 1)))

	obj, err := store.GetObject(ctx, "lab", "samples/s1.json")
	require.NoError(t, err)
	assert.Contains(t, string(obj.Body), `"sample_type":"blood"`)

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, "001", got.SubjectID)

	subject := "002"
	updated, err := repo.Update(ctx, "s1", domain.SampleUpdate{SubjectID: &subject})
	require.NoError(t, err)
	assert.Equal(t, "002", updated.SubjectID)
	assert.Equal(t, domain.SampleStatusCollected, updated.Status)

	require.NoError(t, repo.Delete(ctx, "s1"))
	_, err = repo.Get(ctx, "s1")
	assert.ErrorIs(t, err, repository.ErrNotFound)
	assert.ErrorIs(t, repo.Delete(ctx, "s1"), repository.ErrNotFound)
}

func TestSampleRepository_CreateDuplicate(t *testing.T) {
	repo, _ := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSample("s1", domain.SampleTypeBlood, domain.SampleStatusCollected, 1)))
	err := repo.Create(ctx, newSample("s1", domain.SampleTypeSaliva, domain.SampleStatusArchived, 2))
	assert.ErrorIs(t, err, repository.ErrConflict)

	got, err := repo.Get(ctx, "s1")
	require.NoError(t, err)
	assert.Equal(t, domain.SampleTypeBlood, got.SampleType)
}

func TestSampleRepository_ListFiltersAndOrders(t *testing.T) {
	repo, store := newRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, newSample("late", domain.SampleTypeBlood, domain.SampleStatusCollected, 9)))
	require.NoError(t, repo.Create(ctx, newSample("early", domain.SampleTypeBlood, domain.SampleStatusArchived, 2)))
	require.NoError(t, repo.Create(ctx, newSample("spit", domain.SampleTypeSaliva, domain.SampleStatusCollected, 5)))
	// foreign objects under the prefix are ignored
	_, err := store.PutObject(ctx, "lab", "samples/README.txt", []byte("notes"), storage.PutOptions{})
	require.NoError(t, err)

	all, err := repo.List(ctx, domain.SampleFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "early", all[0].SampleID)
	assert.Equal(t, "spit", all[1].SampleID)
	assert.Equal(t, "late", all[2].SampleID)

	blood, err := repo.List(ctx, domain.SampleFilter{SampleType: domain.SampleTypeBlood, Status: domain.SampleStatusCollected})
	require.NoError(t, err)
	require.Len(t, blood, 1)
	assert.Equal(t, "late", blood[0].SampleID)
}

type racingStore struct {
	*storage.MemoryService
	beforePut func()
}

func (r *racingStore) PutObject(ctx context.Context, bucket, key string, body []byte, opts storage.PutOptions) (string, error) {
	if r.beforePut != nil {
		hook := r.beforePut
		r.beforePut = nil
		hook()
	}
	return r.MemoryService.PutObject(ctx, bucket, key, body, opts)
}

func TestSampleRepository_UpdateDetectsConcurrentWriter(t *testing.T) {
	ctx := context.Background()
	store := &racingStore{MemoryService: storage.NewMemoryService()}
	repo := NewSampleRepository(store, "lab", "samples")
	require.NoError(t, repo.Create(ctx, newSample("s1", domain.SampleTypeBlood, domain.SampleStatusCollected, 1)))

	store.beforePut = func() {
		_, err := store.MemoryService.PutObject(ctx, "lab", "samples/s1.json", []byte(`{"sample_id":"s1"}`), storage.PutOptions{})
		require.NoError(t, err)
	}

	status := domain.SampleStatusArchived
	_, err := repo.Update(ctx, "s1", domain.SampleUpdate{Status: &status})
	assert.ErrorIs(t, err, repository.ErrConflict)
}

type failingStore struct {
	storage.Service
}

func (failingStore) ListObjects(context.Context, string, string) ([]storage.ObjectInfo, error) {
	return nil, errors.New("connection refused")
}

func TestSampleRepository_InitSurfacesStoreErrors(t *testing.T) {
	repo := NewSampleRepository(failingStore{}, "lab", "samples")
	err := repo.Init(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "connection refused")

	err = NewSampleRepository(storage.NewMemoryService(), "", "samples").Init(context.Background())
	assert.EqualError(t, err, "storage bucket is required")
}
