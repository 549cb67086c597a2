package service

import (
	"context"
	"sync"

	"research-samples/internal/domain"
	"research-samples/internal/repository"
)

type memoryUserRepo struct {
	mu     sync.Mutex
	nextID int64
	users  map[string]domain.User
	getErr error
}

func newMemoryUserRepo() *memoryUserRepo {
	return &memoryUserRepo{users: make(map[string]domain.User)}
}

func (m *memoryUserRepo) Init(context.Context) error { return nil }

func (m *memoryUserRepo) Create(_ context.Context, user *domain.User) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Username]; ok {
		return 0, repository.ErrConflict
	}
	m.nextID++
	user.ID = m.nextID
	m.users[user.Username] = *user
	return user.ID, nil
}

func (m *memoryUserRepo) GetByUsername(_ context.Context, username string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	user, ok := m.users[username]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &user, nil
}

func (m *memoryUserRepo) GetByID(_ context.Context, id int64) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, user := range m.users {
		if user.ID == id {
			u := user
			return &u, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (m *memoryUserRepo) Count(context.Context) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return int64(len(m.users)), nil
}

func (m *memoryUserRepo) remove(username string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.users, username)
}

type stubSampleRepo struct {
	samples   map[string]domain.Sample
	createErr error
	updateErr error
	listErr   error
}

func newStubSampleRepo() *stubSampleRepo {
	return &stubSampleRepo{samples: make(map[string]domain.Sample)}
}

func (s *stubSampleRepo) Init(context.Context) error { return nil }

func (s *stubSampleRepo) List(_ context.Context, filter domain.SampleFilter) ([]domain.Sample, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	var out []domain.Sample
	for _, sample := range s.samples {
		if filter.Matches(sample) {
			out = append(out, sample)
		}
	}
	return out, nil
}

func (s *stubSampleRepo) Get(_ context.Context, id string) (*domain.Sample, error) {
	sample, ok := s.samples[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return &sample, nil
}

func (s *stubSampleRepo) Create(_ context.Context, sample *domain.Sample) error {
	if s.createErr != nil {
		return s.createErr
	}
	if _, ok := s.samples[sample.SampleID]; ok {
		return repository.ErrConflict
	}
	s.samples[sample.SampleID] = *sample
	return nil
}

func (s *stubSampleRepo) Update(_ context.Context, id string, update domain.SampleUpdate) (*domain.Sample, error) {
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	sample, ok := s.samples[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	next := update.Apply(sample)
	s.samples[id] = next
	return &next, nil
}

func (s *stubSampleRepo) Delete(_ context.Context, id string) error {
	if _, ok := s.samples[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.samples, id)
	return nil
}
