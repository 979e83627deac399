package domain

import "time"

// Snapshot is the derived aggregate of a user's activity and streak data.
// It is a cache: recomputable at any time from activity results, mood
// check-ins, and completion markers, and safe to discard and regenerate.
type Snapshot struct {
	TotalActivities  int             `json:"total_activities"`
	MeanReactionMS   int             `json:"mean_reaction_ms"` // 0 when no timed attempts exist
	EmotionCounts    map[string]int  `json:"emotion_counts"`
	CurrentStreak    int             `json:"current_streak"`
	LongestStreak    int             `json:"longest_streak"`
	WeeklyCompletion map[string]bool `json:"weekly_completion"` // 7 days ending today, YYYY-MM-DD keys
	ComputedAt       time.Time       `json:"computed_at"`
}

// EmptySnapshot returns the all-zero default snapshot with non-nil maps.
// Used when a user has no data, or when aggregation fails entirely.
func EmptySnapshot(at time.Time) Snapshot {
	return Snapshot{
		EmotionCounts:    map[string]int{},
		WeeklyCompletion: map[string]bool{},
		ComputedAt:       at,
	}
}
