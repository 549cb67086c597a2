package service

import "errors"

var (
	// ErrInvalidCredentials indicates that provided login credentials are incorrect.
	// Unknown usernames and wrong passwords both produce it.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUserAlreadyExists is returned when attempting to register with an existing username.
	ErrUserAlreadyExists = errors.New("user already exists")
	// ErrUnauthenticated is returned by the request guard for any missing, bad,
	// expired or orphaned token.
	ErrUnauthenticated = errors.New("could not validate credentials")
	// ErrSampleNotFound is returned when a sample id does not exist.
	ErrSampleNotFound = errors.New("sample not found")
	// ErrSampleExists is returned when creating a sample with a taken id.
	ErrSampleExists = errors.New("sample already exists")
	// ErrSampleConflict is returned when a sample changed under a concurrent update.
	ErrSampleConflict = errors.New("sample was modified concurrently")
	// ErrValidation wraps input that fails domain validation.
	ErrValidation = errors.New("validation failed")
)
