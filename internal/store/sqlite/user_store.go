package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/techentum/mod-report/internal/domain"
	"github.com/techentum/mod-report/internal/store"
)

// CreateUser inserts user and fills in its ID. Emails are stored lowercase.
func (s *Store) CreateUser(ctx context.Context, user *domain.User) error {
	email := strings.ToLower(strings.TrimSpace(user.Email))
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (name, email, password_hash, timezone, job_title, is_admin)
		VALUES (?, ?, ?, ?, ?, ?)`,
		user.Name, email, user.PasswordHash, user.Timezone, user.JobTitle, boolToInt(user.Admin),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return store.ErrEmailTaken
		}
		return fmt.Errorf("inserting user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading user id: %w", err)
	}
	user.ID = id
	user.Email = email
	return nil
}

// UserByID returns the user with the given id, or store.ErrNotFound.
func (s *Store) UserByID(ctx context.Context, id int64) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, userSelect+" WHERE id = ?", id)
	return scanUser(row)
}

// UserByEmail returns the user with the given email, or store.ErrNotFound.
// Lookup is case-insensitive.
func (s *Store) UserByEmail(ctx context.Context, email string) (*domain.User, error) {
	row := s.db.QueryRowContext(ctx, userSelect+" WHERE email = ?", strings.ToLower(strings.TrimSpace(email)))
	return scanUser(row)
}

// ListUsers returns all users ordered by name.
func (s *Store) ListUsers(ctx context.Context) ([]domain.User, error) {
	rows, err := s.db.QueryContext(ctx, userSelect+" ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, *u)
	}
	return users, rows.Err()
}

const userSelect = `SELECT id, name, email, password_hash, timezone, job_title, is_admin FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*domain.User, error) {
	var u domain.User
	var admin int
	err := row.Scan(&u.ID, &u.Name, &u.Email, &u.PasswordHash, &u.Timezone, &u.JobTitle, &admin)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("scanning user: %w", err)
	}
	u.Admin = admin != 0
	return &u, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
