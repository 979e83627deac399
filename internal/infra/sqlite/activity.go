package sqlite

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/moodlift/moodlift/internal/domain"
)

// ─── Activity Result Repository ─────────────────────────────────────────────
// One table per mini-game variant. Records are immutable: inserted once on
// task completion, never updated or deleted.

// InsertActivity appends one attempt record to its mini-game's table.
func (d *DB) InsertActivity(r domain.ActivityResult) (int64, error) {
	if !domain.KnownTaskType(r.TaskType) {
		return 0, domain.ErrUnknownTaskType
	}

	var reaction sql.NullInt64
	if r.ReactionMS != nil {
		reaction = sql.NullInt64{Int64: int64(*r.ReactionMS), Valid: true}
	}

	result, err := d.db.Exec(
		fmt.Sprintf(`INSERT INTO %s (user_id, username, reaction_ms, outcome, created_at)
		 VALUES (?, ?, ?, ?, ?)`, resultTable(r.TaskType)),
		r.UserID, r.Username, reaction, r.Outcome, r.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListActivities returns one user's attempts for one mini-game variant.
func (d *DB) ListActivities(taskType domain.TaskType, userID string) ([]domain.ActivityResult, error) {
	if !domain.KnownTaskType(taskType) {
		return nil, domain.ErrUnknownTaskType
	}

	rows, err := d.db.Query(
		fmt.Sprintf(`SELECT id, user_id, username, reaction_ms, outcome, created_at
		 FROM %s WHERE user_id = ? ORDER BY created_at ASC`, resultTable(taskType)),
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.ActivityResult
	for rows.Next() {
		var r domain.ActivityResult
		var reaction sql.NullInt64
		var createdAt int64
		if err := rows.Scan(&r.ID, &r.UserID, &r.Username, &reaction, &r.Outcome, &createdAt); err != nil {
			return nil, err
		}
		r.TaskType = taskType
		if reaction.Valid {
			ms := int(reaction.Int64)
			r.ReactionMS = &ms
		}
		r.CreatedAt = time.Unix(createdAt, 0)
		results = append(results, r)
	}
	return results, rows.Err()
}

// ─── Mood Check-in Repository ───────────────────────────────────────────────

// InsertMood appends one mood check-in.
func (d *DB) InsertMood(m domain.MoodCheckin) (int64, error) {
	reasons, err := json.Marshal(m.Reasons)
	if err != nil {
		return 0, fmt.Errorf("encode reasons: %w", err)
	}

	result, err := d.db.Exec(
		`INSERT INTO mood_checkins (user_id, emotion, reasons, created_at) VALUES (?, ?, ?, ?)`,
		m.UserID, m.Emotion, string(reasons), m.CreatedAt.Unix(),
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// ListMoods returns one user's mood check-ins, oldest first.
func (d *DB) ListMoods(userID string) ([]domain.MoodCheckin, error) {
	rows, err := d.db.Query(
		`SELECT id, user_id, emotion, reasons, created_at
		 FROM mood_checkins WHERE user_id = ? ORDER BY created_at ASC`, userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var moods []domain.MoodCheckin
	for rows.Next() {
		var m domain.MoodCheckin
		var reasons string
		var createdAt int64
		if err := rows.Scan(&m.ID, &m.UserID, &m.Emotion, &reasons, &createdAt); err != nil {
			return nil, err
		}
		// Malformed reasons only lose the reasons, not the check-in.
		_ = json.Unmarshal([]byte(reasons), &m.Reasons)
		m.CreatedAt = time.Unix(createdAt, 0)
		moods = append(moods, m)
	}
	return moods, rows.Err()
}

// ─── Completion Marker Repository ───────────────────────────────────────────

// SetCompletion writes a completion marker unconditionally.
// Last writer wins: concurrent restarts of the same day from two devices
// race, and the model accepts eventual consistency here.
func (d *DB) SetCompletion(m domain.CompletionMarker) error {
	_, err := d.db.Exec(
		`INSERT INTO completion_markers (user_id, day, completed, updated_at) VALUES (?, ?, ?, ?)
		 ON CONFLICT(user_id, day) DO UPDATE SET completed=excluded.completed, updated_at=excluded.updated_at`,
		m.UserID, m.Day, m.Completed, m.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", domain.ErrCompletionWrite, err)
	}
	return nil
}

// ListCompletedDays returns the dates where completed = true, ascending.
// Lexicographic order on YYYY-MM-DD is date order.
func (d *DB) ListCompletedDays(userID string) ([]string, error) {
	rows, err := d.db.Query(
		`SELECT day FROM completion_markers WHERE user_id = ? AND completed = 1 ORDER BY day ASC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var days []string
	for rows.Next() {
		var day string
		if err := rows.Scan(&day); err != nil {
			return nil, err
		}
		days = append(days, day)
	}
	return days, rows.Err()
}
