package domain

import "time"

// ActivityResult is one immutable record per completed mini-game attempt.
// ReactionMS is nil for attempt types that do not record reaction time.
// Records are keyed by user id; Username is carried for display only.
type ActivityResult struct {
	ID         int64     `json:"id"`
	UserID     string    `json:"user_id"`
	Username   string    `json:"username"`
	TaskType   TaskType  `json:"task_type"`
	ReactionMS *int      `json:"reaction_ms,omitempty"`
	Outcome    bool      `json:"outcome"` // task-specific flag, e.g. positive choice made
	CreatedAt  time.Time `json:"created_at"`
}

// MoodCheckin is one mood/emotion check-in record.
type MoodCheckin struct {
	ID        int64     `json:"id"`
	UserID    string    `json:"user_id"`
	Emotion   string    `json:"emotion"`
	Reasons   []string  `json:"reasons,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// CompletionMarker records whether a user finished their training on one
// calendar day. The only mutable record in the model: restarting a
// completed day flips Completed back to false. Writes are last-writer-wins.
type CompletionMarker struct {
	UserID    string    `json:"user_id"`
	Day       string    `json:"day"` // YYYY-MM-DD
	Completed bool      `json:"completed"`
	UpdatedAt time.Time `json:"updated_at"`
}
