package domain

import "time"

// User represents an account that can log in and call protected endpoints.
type User struct {
	ID           int64
	Username     string
	PasswordHash string
	CreatedAt    time.Time
	IsTechnical  bool
}
