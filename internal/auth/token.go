package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var (
	// ErrInvalidToken covers every structural or cryptographic decode failure.
	ErrInvalidToken = errors.New("invalid token")
	// ErrExpiredToken is returned for correctly signed tokens past their expiry.
	ErrExpiredToken = errors.New("token expired")
)

// Claims is the payload carried by an access token. Subject is the username.
type Claims struct {
	jwt.RegisteredClaims
}

// TokenCodec signs and verifies HMAC JWT access tokens.
type TokenCodec struct {
	secret []byte
	method jwt.SigningMethod
	now    func() time.Time
}

type TokenOption func(*TokenCodec)

// WithClock overrides the time source used for issuing and verifying tokens.
func WithClock(now func() time.Time) TokenOption {
	return func(c *TokenCodec) {
		c.now = now
	}
}

// NewTokenCodec builds a codec for one HMAC algorithm (HS256, HS384 or HS512).
func NewTokenCodec(secret []byte, algorithm string, opts ...TokenOption) (*TokenCodec, error) {
	if len(secret) == 0 {
		return nil, errors.New("token secret is required")
	}
	method := jwt.GetSigningMethod(algorithm)
	if _, ok := method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unsupported token algorithm %q", algorithm)
	}

	codec := &TokenCodec{
		secret: append([]byte(nil), secret...),
		method: method,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(codec)
	}
	return codec, nil
}

// Algorithm returns the signing algorithm name.
func (c *TokenCodec) Algorithm() string {
	return c.method.Alg()
}

// Issue signs claims with an expiry of now+ttl. Expiry, issue time and token
// id set on claims are overwritten.
func (c *TokenCodec) Issue(claims Claims, ttl time.Duration) (string, error) {
	if claims.Subject == "" {
		return "", errors.New("token subject is required")
	}
	if ttl <= 0 {
		return "", errors.New("token ttl must be positive")
	}

	now := c.now()
	claims.IssuedAt = jwt.NewNumericDate(now)
	claims.ExpiresAt = jwt.NewNumericDate(now.Add(ttl))
	claims.ID = uuid.NewString()

	signed, err := jwt.NewWithClaims(c.method, claims).SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Decode verifies the signature, algorithm and expiry of token.
func (c *TokenCodec) Decode(token string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(token, &claims,
		func(*jwt.Token) (any, error) { return c.secret, nil },
		jwt.WithValidMethods([]string{c.method.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}
	if claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
