package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"research-samples/internal/domain"
	"research-samples/internal/repository"
)

const createUsersTable = `
CREATE TABLE IF NOT EXISTS users (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	username TEXT NOT NULL UNIQUE,
	hashed_password TEXT NOT NULL,
	created_at DATETIME NOT NULL,
	is_technical BOOLEAN NOT NULL DEFAULT 0
);
`

type UserRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Init(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, createUsersTable); err != nil {
		return fmt.Errorf("create users table: %w", err)
	}
	return nil
}

// Create relies on the UNIQUE constraint on username; a taken name inserts
// nothing and reports repository.ErrConflict.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) (int64, error) {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}

	res, err := r.db.ExecContext(ctx, `
INSERT INTO users (username, hashed_password, created_at, is_technical)
VALUES (?, ?, ?, ?)
ON CONFLICT(username) DO NOTHING`,
		user.Username,
		user.PasswordHash,
		user.CreatedAt.UTC(),
		user.IsTechnical,
	)
	if err != nil {
		return 0, fmt.Errorf("insert user: %w", err)
	}

	aff, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("user insert rows affected: %w", err)
	}
	if aff == 0 {
		return 0, fmt.Errorf("username %q: %w", user.Username, repository.ErrConflict)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("user last insert id: %w", err)
	}
	user.ID = id
	return id, nil
}

func (r *UserRepository) GetByUsername(ctx context.Context, username string) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, hashed_password, created_at, is_technical
FROM users
WHERE username = ?`,
		username,
	)
	return scanUser(row)
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT id, username, hashed_password, created_at, is_technical
FROM users
WHERE id = ?`,
		id,
	)
	return scanUser(row)
}

func (r *UserRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM users`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count users: %w", err)
	}
	return n, nil
}

func scanUser(row rowScanner) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
		&user.IsTechnical,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repository.ErrNotFound
		}
		return nil, fmt.Errorf("scan user: %w", err)
	}
	user.CreatedAt = user.CreatedAt.UTC()
	return &user, nil
}
