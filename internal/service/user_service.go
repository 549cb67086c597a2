package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"golang.org/x/crypto/bcrypt"

	"research-samples/internal/domain"
	"research-samples/internal/repository"
)

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(password, digest string) bool
}

// RegisterInput carries the fields accepted at registration.
type RegisterInput struct {
	Username    string
	Password    string
	IsTechnical bool
}

// UserService describes user lifecycle operations.
type UserService interface {
	Register(ctx context.Context, input RegisterInput) (*domain.User, error)
	Authenticate(ctx context.Context, username, password string) (*domain.User, error)
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
}

type userService struct {
	users  repository.UserRepository
	hasher PasswordHasher

	decoyOnce   sync.Once
	decoyDigest string
}

func NewUserService(users repository.UserRepository, hasher PasswordHasher) UserService {
	return &userService{
		users:  users,
		hasher: hasher,
	}
}

func (s *userService) Register(ctx context.Context, input RegisterInput) (*domain.User, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", ErrValidation)
	}
	if input.Password == "" {
		return nil, fmt.Errorf("%w: password is required", ErrValidation)
	}

	hash, err := s.hasher.Hash(input.Password)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return nil, fmt.Errorf("%w: password is longer than 72 bytes", ErrValidation)
		}
		return nil, err
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
		IsTechnical:  input.IsTechnical,
	}

	if _, err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return nil, ErrUserAlreadyExists
		}
		return nil, fmt.Errorf("create user: %w", err)
	}

	return sanitizeUser(user), nil
}

func (s *userService) Authenticate(ctx context.Context, username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			// spend the same hashing work as a real comparison
			s.hasher.Verify(password, s.decoy())
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("lookup user: %w", err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, ErrInvalidCredentials
	}

	return sanitizeUser(user), nil
}

func (s *userService) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	return sanitizeUser(user), nil
}

func (s *userService) decoy() string {
	s.decoyOnce.Do(func() {
		s.decoyDigest, _ = s.hasher.Hash("decoy-password")
	})
	return s.decoyDigest
}

func sanitizeUser(user *domain.User) *domain.User {
	if user == nil {
		return nil
	}
	return &domain.User{
		ID:          user.ID,
		Username:    user.Username,
		CreatedAt:   user.CreatedAt,
		IsTechnical: user.IsTechnical,
	}
}
