// Package sqlite provides SQLite-based persistent storage for Moodlift.
// Uses WAL mode for concurrent reads and crash-safe writes. One database
// file holds user profiles, per-mini-game result tables, mood check-ins,
// completion markers, the durable schedule cache, and cached statistics
// snapshots — so schedules and stats survive process restarts.
package sqlite

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite" // Pure-Go SQLite driver (no CGO required)

	"github.com/moodlift/moodlift/internal/domain"
)

// DB wraps a SQLite connection with WAL mode and migrations.
type DB struct {
	db *sql.DB
}

// Open creates or opens the SQLite database at dir/state.db.
// Enables WAL mode, foreign keys, and 5-second busy timeout.
func Open(dir string) (*DB, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}

	dbPath := filepath.Join(dir, "state.db")
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	// Connection pool settings for SQLite
	db.SetMaxOpenConns(1) // SQLite is single-writer
	db.SetMaxIdleConns(1)

	d := &DB{db: db}
	if err := d.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return d, nil
}

// Close cleanly shuts down the database.
func (d *DB) Close() error {
	return d.db.Close()
}

// Ping checks database connectivity.
func (d *DB) Ping() error {
	return d.db.Ping()
}

// migrate runs idempotent schema migrations.
func (d *DB) migrate() error {
	migrations := []string{
		// User profiles. Cohort and created_at are immutable after sign-up.
		`CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			username   TEXT NOT NULL UNIQUE,
			cohort     TEXT NOT NULL,
			created_at INTEGER NOT NULL
		)`,

		// Mood/emotion check-ins. Reasons stored as a JSON array.
		`CREATE TABLE IF NOT EXISTS mood_checkins (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    TEXT NOT NULL,
			emotion    TEXT NOT NULL,
			reasons    TEXT NOT NULL DEFAULT '[]',
			created_at INTEGER NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_mood_user ON mood_checkins(user_id)`,

		// Daily completion markers — the only mutable records.
		// Unconditional set, last writer wins.
		`CREATE TABLE IF NOT EXISTS completion_markers (
			user_id    TEXT NOT NULL,
			day        TEXT NOT NULL,
			completed  BOOLEAN NOT NULL,
			updated_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, day)
		)`,

		// Durable schedule cache: one immutable row per (user, day, version).
		// Inserted with INSERT OR IGNORE so the first writer wins and
		// concurrent devices observe the same schedule.
		`CREATE TABLE IF NOT EXISTS daily_schedules (
			user_id    TEXT NOT NULL,
			day        TEXT NOT NULL,
			version    TEXT NOT NULL,
			day_number INTEGER NOT NULL,
			steps      TEXT NOT NULL,
			created_at INTEGER NOT NULL,
			PRIMARY KEY (user_id, day, version)
		)`,

		// Cached statistics snapshot, one per user. Safe to discard.
		`CREATE TABLE IF NOT EXISTS stats_snapshots (
			user_id     TEXT PRIMARY KEY,
			snapshot    TEXT NOT NULL,
			computed_at INTEGER NOT NULL
		)`,
	}

	// One result table per mini-game variant. Identical shape; the
	// aggregator scans each independently so a broken table only costs
	// its own contribution.
	for _, taskType := range domain.AllTaskTypes() {
		migrations = append(migrations,
			fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s (
				id          INTEGER PRIMARY KEY AUTOINCREMENT,
				user_id     TEXT NOT NULL,
				username    TEXT NOT NULL DEFAULT '',
				reaction_ms INTEGER,
				outcome     BOOLEAN NOT NULL DEFAULT 0,
				created_at  INTEGER NOT NULL
			)`, resultTable(taskType)),
			fmt.Sprintf(`CREATE INDEX IF NOT EXISTS idx_%s_user ON %s(user_id)`,
				resultTable(taskType), resultTable(taskType)),
		)
	}

	for _, m := range migrations {
		if _, err := d.db.Exec(m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// resultTable maps a mini-game variant to its result table name.
// Only catalogued task types ever reach this, so the name is safe to
// splice into SQL.
func resultTable(t domain.TaskType) string {
	return string(t) + "_results"
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
