package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"research-samples/internal/auth"
	"research-samples/internal/domain"
	"research-samples/internal/repository"
)

// TokenTypeBearer is the token_type reported alongside issued access tokens.
const TokenTypeBearer = "bearer"

// TokenCodec issues and decodes signed access tokens.
type TokenCodec interface {
	Issue(claims auth.Claims, ttl time.Duration) (string, error)
	Decode(token string) (*auth.Claims, error)
}

// AccessToken is the result of a successful login.
type AccessToken struct {
	Token     string
	TokenType string
	User      *domain.User
}

// AuthService logs users in and guards protected requests.
type AuthService interface {
	Login(ctx context.Context, username, password string) (*AccessToken, error)
	// Authorize resolves the user behind an Authorization header value. Every
	// rejection is ErrUnauthenticated; store failures are returned wrapped.
	Authorize(ctx context.Context, authorization string) (*domain.User, error)
}

type authService struct {
	users    UserService
	codec    TokenCodec
	tokenTTL time.Duration
}

func NewAuthService(users UserService, codec TokenCodec, tokenTTL time.Duration) AuthService {
	return &authService{
		users:    users,
		codec:    codec,
		tokenTTL: tokenTTL,
	}
}

func (s *authService) Login(ctx context.Context, username, password string) (*AccessToken, error) {
	user, err := s.users.Authenticate(ctx, username, password)
	if err != nil {
		return nil, err
	}

	token, err := s.codec.Issue(auth.Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: user.Username},
	}, s.tokenTTL)
	if err != nil {
		return nil, fmt.Errorf("issue token: %w", err)
	}

	return &AccessToken{
		Token:     token,
		TokenType: TokenTypeBearer,
		User:      user,
	}, nil
}

func (s *authService) Authorize(ctx context.Context, authorization string) (*domain.User, error) {
	raw, ok := auth.BearerToken(authorization)
	if !ok {
		return nil, ErrUnauthenticated
	}

	claims, err := s.codec.Decode(raw)
	if err != nil {
		return nil, ErrUnauthenticated
	}

	user, err := s.users.GetByUsername(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUnauthenticated
		}
		return nil, fmt.Errorf("resolve token subject: %w", err)
	}
	return user, nil
}
