package stats

import (
	"time"

	"github.com/moodlift/moodlift/internal/dateutil"
	"github.com/moodlift/moodlift/internal/domain"
	"github.com/moodlift/moodlift/internal/infra/metrics"
)

// Recorder is the write side of the statistics engine. Every accepted
// write is followed by a synchronous snapshot refresh, which realizes
// the change-triggered recomputation contract: the cached snapshot is
// stale by at most one aggregation pass after any write.
type Recorder struct {
	activities  domain.ActivityStore
	moods       domain.MoodStore
	completions domain.CompletionStore
	cache       *Cache
	now         func() time.Time
}

// NewRecorder creates a recorder that refreshes the given cache on write.
func NewRecorder(activities domain.ActivityStore, moods domain.MoodStore, completions domain.CompletionStore, cache *Cache) *Recorder {
	return &Recorder{
		activities:  activities,
		moods:       moods,
		completions: completions,
		cache:       cache,
		now:         time.Now,
	}
}

// SetNow overrides the clock. Tests only.
func (r *Recorder) SetNow(now func() time.Time) { r.now = now }

// RecordActivity appends one mini-game attempt and refreshes the snapshot.
func (r *Recorder) RecordActivity(result domain.ActivityResult) (int64, error) {
	if result.CreatedAt.IsZero() {
		result.CreatedAt = r.now()
	}
	id, err := r.activities.InsertActivity(result)
	if err != nil {
		return 0, err
	}
	metrics.ActivitiesRecorded.WithLabelValues(string(result.TaskType)).Inc()
	r.cache.Refresh(result.UserID)
	return id, nil
}

// RecordMood appends one mood check-in and refreshes the snapshot.
func (r *Recorder) RecordMood(m domain.MoodCheckin) (int64, error) {
	if m.CreatedAt.IsZero() {
		m.CreatedAt = r.now()
	}
	id, err := r.moods.InsertMood(m)
	if err != nil {
		return 0, err
	}
	r.cache.Refresh(m.UserID)
	return id, nil
}

// SetCompletion writes the day's completion marker and refreshes the
// snapshot. An empty day means today. This is the one write whose
// failure propagates to the caller.
func (r *Recorder) SetCompletion(userID, day string, completed bool) error {
	if day == "" {
		day = dateutil.FormatISO(r.now())
	} else if _, err := dateutil.ParseISO(day); err != nil {
		return domain.ErrBadDay
	}

	err := r.completions.SetCompletion(domain.CompletionMarker{
		UserID:    userID,
		Day:       day,
		Completed: completed,
		UpdatedAt: r.now(),
	})
	if err != nil {
		return err
	}
	r.cache.Refresh(userID)
	return nil
}
