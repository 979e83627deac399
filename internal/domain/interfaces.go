package domain

// ─── Store Interfaces ───────────────────────────────────────────────────────
// These interfaces define boundaries between layers.
// Infrastructure implements them; application layer depends on them.

// UserStore abstracts persistent user profile storage.
type UserStore interface {
	CreateUser(u User) error
	GetUser(id string) (*User, error)
	GetUserByName(username string) (*User, error)
	CountUsers() (int, error)
}

// ActivityStore abstracts the per-mini-game result tables.
// ListActivities reads one mini-game variant's records for one user;
// the aggregator calls it once per variant and tolerates individual
// failures.
type ActivityStore interface {
	InsertActivity(r ActivityResult) (int64, error)
	ListActivities(taskType TaskType, userID string) ([]ActivityResult, error)
}

// MoodStore abstracts mood check-in storage.
type MoodStore interface {
	InsertMood(m MoodCheckin) (int64, error)
	ListMoods(userID string) ([]MoodCheckin, error)
}

// CompletionStore abstracts daily completion markers.
// SetCompletion is an unconditional last-writer-wins set.
type CompletionStore interface {
	SetCompletion(m CompletionMarker) error
	ListCompletedDays(userID string) ([]string, error)
}

// ScheduleStore abstracts the durable schedule cache.
// PutSchedule must not overwrite an existing row for the same
// (user, day, version) key: the first write wins and later callers
// re-read the stored value.
type ScheduleStore interface {
	GetSchedule(userID, day string, v Version) (*DailySchedule, error)
	PutSchedule(userID string, s DailySchedule) error
}

// SnapshotStore abstracts the cached statistics snapshot per user.
type SnapshotStore interface {
	GetSnapshot(userID string) (*Snapshot, error)
	PutSnapshot(userID string, s Snapshot) error
}
