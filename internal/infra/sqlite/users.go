package sqlite

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/moodlift/moodlift/internal/domain"
)

// ─── User Repository ────────────────────────────────────────────────────────

// CreateUser inserts a new user profile.
func (d *DB) CreateUser(u domain.User) error {
	_, err := d.db.Exec(
		`INSERT INTO users (id, username, cohort, created_at) VALUES (?, ?, ?, ?)`,
		u.ID, u.Username, string(u.Cohort), u.CreatedAt.Unix(),
	)
	if err != nil && strings.Contains(err.Error(), "UNIQUE") {
		return domain.ErrUserExists
	}
	return err
}

// GetUser retrieves a user by id. Returns (nil, nil) when absent.
func (d *DB) GetUser(id string) (*domain.User, error) {
	row := d.db.QueryRow(
		`SELECT id, username, cohort, created_at FROM users WHERE id = ?`, id,
	)
	return scanUser(row)
}

// GetUserByName retrieves a user by username. Returns (nil, nil) when absent.
func (d *DB) GetUserByName(username string) (*domain.User, error) {
	row := d.db.QueryRow(
		`SELECT id, username, cohort, created_at FROM users WHERE username = ?`, username,
	)
	return scanUser(row)
}

// CountUsers returns the number of registered users. Used at sign-up to
// decide the cohort: registration rank below the cutoff goes to cohort A.
func (d *DB) CountUsers() (int, error) {
	var count int
	err := d.db.QueryRow(`SELECT COUNT(*) FROM users`).Scan(&count)
	return count, err
}

func scanUser(s scanner) (*domain.User, error) {
	var u domain.User
	var cohort string
	var createdAt int64

	err := s.Scan(&u.ID, &u.Username, &cohort, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil // Not found, no error
	}
	if err != nil {
		return nil, err
	}

	u.Cohort = domain.Cohort(cohort)
	u.CreatedAt = time.Unix(createdAt, 0)
	return &u, nil
}
