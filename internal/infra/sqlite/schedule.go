package sqlite

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/moodlift/moodlift/internal/domain"
)

// ─── Schedule Cache Repository ──────────────────────────────────────────────

// GetSchedule retrieves the persisted schedule for (user, day, version).
// Returns (nil, nil) when no schedule has been generated yet.
func (d *DB) GetSchedule(userID, day string, v domain.Version) (*domain.DailySchedule, error) {
	row := d.db.QueryRow(
		`SELECT day, version, day_number, steps FROM daily_schedules
		 WHERE user_id = ? AND day = ? AND version = ?`, userID, day, string(v),
	)

	var s domain.DailySchedule
	var version, steps string
	err := row.Scan(&s.Day, &version, &s.DayNumber, &steps)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	s.Version = domain.Version(version)
	if err := json.Unmarshal([]byte(steps), &s.Steps); err != nil {
		return nil, fmt.Errorf("decode schedule steps: %w", err)
	}
	return &s, nil
}

// PutSchedule persists a generated schedule. INSERT OR IGNORE: if another
// device already wrote a schedule for the same key, that row stands and
// this write is a no-op — the caller re-reads to observe the winner.
func (d *DB) PutSchedule(userID string, s domain.DailySchedule) error {
	steps, err := json.Marshal(s.Steps)
	if err != nil {
		return fmt.Errorf("encode schedule steps: %w", err)
	}

	_, err = d.db.Exec(
		`INSERT OR IGNORE INTO daily_schedules (user_id, day, version, day_number, steps, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		userID, s.Day, string(s.Version), s.DayNumber, string(steps), time.Now().Unix(),
	)
	return err
}

// ─── Statistics Snapshot Repository ─────────────────────────────────────────

// GetSnapshot retrieves the cached snapshot for a user.
// Returns (nil, nil) when none has been computed yet.
func (d *DB) GetSnapshot(userID string) (*domain.Snapshot, error) {
	var raw string
	err := d.db.QueryRow(
		`SELECT snapshot FROM stats_snapshots WHERE user_id = ?`, userID,
	).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var s domain.Snapshot
	if err := json.Unmarshal([]byte(raw), &s); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &s, nil
}

// PutSnapshot stores the latest computed snapshot, replacing any prior one.
func (d *DB) PutSnapshot(userID string, s domain.Snapshot) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	_, err = d.db.Exec(
		`INSERT INTO stats_snapshots (user_id, snapshot, computed_at) VALUES (?, ?, ?)
		 ON CONFLICT(user_id) DO UPDATE SET snapshot=excluded.snapshot, computed_at=excluded.computed_at`,
		userID, string(raw), s.ComputedAt.Unix(),
	)
	return err
}
