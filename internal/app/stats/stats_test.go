package stats_test

import (
	"errors"
	"testing"
	"time"

	"github.com/moodlift/moodlift/internal/app/stats"
	"github.com/moodlift/moodlift/internal/dateutil"
	"github.com/moodlift/moodlift/internal/domain"
	"github.com/moodlift/moodlift/internal/infra/sqlite"
)

func testDB(t *testing.T) *sqlite.DB {
	t.Helper()
	db, err := sqlite.Open(t.TempDir())
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func newAggregator(t *testing.T, db *sqlite.DB, now time.Time) *stats.Aggregator {
	t.Helper()
	a := stats.NewAggregator(db, db, db)
	a.SetNow(func() time.Time { return now })
	return a
}

func markCompleted(t *testing.T, db *sqlite.DB, userID string, days ...string) {
	t.Helper()
	for _, day := range days {
		err := db.SetCompletion(domain.CompletionMarker{
			UserID: userID, Day: day, Completed: true, UpdatedAt: time.Now(),
		})
		if err != nil {
			t.Fatalf("mark %s: %v", day, err)
		}
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Streak Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAggregate_StreakThreeConsecutive(t *testing.T) {
	db := testDB(t)
	markCompleted(t, db, "u1", "2024-01-01", "2024-01-02", "2024-01-03")

	now := time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC)
	s := newAggregator(t, db, now).Aggregate("u1")

	if s.CurrentStreak != 3 {
		t.Errorf("current streak = %d, want 3", s.CurrentStreak)
	}
	if s.LongestStreak != 3 {
		t.Errorf("longest streak = %d, want 3", s.LongestStreak)
	}
}

func TestAggregate_StreakBrokenByGap(t *testing.T) {
	db := testDB(t)
	markCompleted(t, db, "u1", "2024-01-01", "2024-01-03")

	now := time.Date(2024, 1, 3, 20, 0, 0, 0, time.UTC)
	s := newAggregator(t, db, now).Aggregate("u1")

	if s.CurrentStreak != 1 {
		t.Errorf("current streak = %d, want 1", s.CurrentStreak)
	}
	if s.LongestStreak != 1 {
		t.Errorf("longest streak = %d, want 1", s.LongestStreak)
	}
}

func TestAggregate_LongestStreakPreserved(t *testing.T) {
	db := testDB(t)
	markCompleted(t, db, "u1",
		"2024-01-01", "2024-01-02", "2024-01-03", "2024-01-04", "2024-01-05",
		"2024-01-10", "2024-01-11",
	)

	now := time.Date(2024, 1, 11, 20, 0, 0, 0, time.UTC)
	s := newAggregator(t, db, now).Aggregate("u1")

	if s.LongestStreak != 5 {
		t.Errorf("longest streak = %d, want 5", s.LongestStreak)
	}
	if s.CurrentStreak != 2 {
		t.Errorf("current streak = %d, want 2", s.CurrentStreak)
	}
}

func TestAggregate_StreakAcrossMonthBoundary(t *testing.T) {
	db := testDB(t)
	markCompleted(t, db, "u1", "2024-01-30", "2024-01-31", "2024-02-01")

	now := time.Date(2024, 2, 1, 20, 0, 0, 0, time.UTC)
	s := newAggregator(t, db, now).Aggregate("u1")

	if s.CurrentStreak != 3 {
		t.Errorf("streak across month boundary = %d, want 3", s.CurrentStreak)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Weekly Map Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAggregate_WeeklyMapShape(t *testing.T) {
	db := testDB(t)
	markCompleted(t, db, "u1", "2024-01-04", "2024-01-06")

	now := time.Date(2024, 1, 7, 10, 0, 0, 0, time.UTC)
	s := newAggregator(t, db, now).Aggregate("u1")

	if len(s.WeeklyCompletion) != 7 {
		t.Fatalf("weekly map has %d keys, want 7", len(s.WeeklyCompletion))
	}
	for day := range s.WeeklyCompletion {
		if _, err := dateutil.ParseISO(day); err != nil {
			t.Errorf("weekly key %q is not a valid date", day)
		}
	}
	if !s.WeeklyCompletion["2024-01-04"] || !s.WeeklyCompletion["2024-01-06"] {
		t.Errorf("completed days not marked: %v", s.WeeklyCompletion)
	}
	if s.WeeklyCompletion["2024-01-05"] {
		t.Error("2024-01-05 should be false")
	}
	if _, ok := s.WeeklyCompletion["2024-01-07"]; !ok {
		t.Error("most recent key should be today (2024-01-07)")
	}
	if _, ok := s.WeeklyCompletion["2024-01-01"]; !ok {
		t.Error("oldest key should be 6 days ago (2024-01-01)")
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Activity / Mood Aggregation Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestAggregate_MeanOverTimedAttemptsOnly(t *testing.T) {
	db := testDB(t)
	now := time.Date(2024, 1, 5, 12, 0, 0, 0, time.UTC)

	insert := func(taskType domain.TaskType, reactionMS *int) {
		t.Helper()
		if _, err := db.InsertActivity(domain.ActivityResult{
			UserID: "u1", TaskType: taskType, ReactionMS: reactionMS, Outcome: true, CreatedAt: now,
		}); err != nil {
			t.Fatalf("insert %s: %v", taskType, err)
		}
	}

	ms1, ms2, ms3 := 400, 500, 601
	insert(domain.TaskDotProbeA, &ms1)
	insert(domain.TaskSmileSearchA, &ms2)
	insert(domain.TaskDotProbeB, &ms3)
	insert(domain.TaskMemorySpanA, nil) // untimed — counts toward total, not mean
	insert(domain.TaskWordPairB, nil)

	s := newAggregator(t, db, now).Aggregate("u1")

	if s.TotalActivities != 5 {
		t.Errorf("total activities = %d, want 5", s.TotalActivities)
	}
	// (400+500+601)/3 = 500.33 → 500
	if s.MeanReactionMS != 500 {
		t.Errorf("mean reaction = %d, want 500", s.MeanReactionMS)
	}
}

func TestAggregate_NoTimedAttemptsMeansZeroMean(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	if _, err := db.InsertActivity(domain.ActivityResult{
		UserID: "u1", TaskType: domain.TaskMemorySpanA, CreatedAt: now,
	}); err != nil {
		t.Fatalf("insert: %v", err)
	}

	s := newAggregator(t, db, now).Aggregate("u1")
	if s.MeanReactionMS != 0 {
		t.Errorf("mean with no timed attempts = %d, want 0", s.MeanReactionMS)
	}
	if s.TotalActivities != 1 {
		t.Errorf("total = %d, want 1", s.TotalActivities)
	}
}

func TestAggregate_EmotionCounts(t *testing.T) {
	db := testDB(t)
	now := time.Now()
	for _, emotion := range []string{"calm", "anxious", "calm", "happy", "calm"} {
		if _, err := db.InsertMood(domain.MoodCheckin{UserID: "u1", Emotion: emotion, CreatedAt: now}); err != nil {
			t.Fatalf("insert mood: %v", err)
		}
	}

	s := newAggregator(t, db, now).Aggregate("u1")
	if s.EmotionCounts["calm"] != 3 || s.EmotionCounts["anxious"] != 1 || s.EmotionCounts["happy"] != 1 {
		t.Errorf("unexpected emotion counts: %v", s.EmotionCounts)
	}
}

func TestAggregate_EmptyUserGetsZeroSnapshot(t *testing.T) {
	db := testDB(t)
	s := newAggregator(t, db, time.Now()).Aggregate("nobody")

	if s.TotalActivities != 0 || s.CurrentStreak != 0 || s.LongestStreak != 0 || s.MeanReactionMS != 0 {
		t.Errorf("expected all-zero snapshot, got %+v", s)
	}
	if s.EmotionCounts == nil || s.WeeklyCompletion == nil {
		t.Error("maps must be non-nil even when empty")
	}
	if len(s.WeeklyCompletion) != 7 {
		t.Errorf("weekly map has %d keys, want 7", len(s.WeeklyCompletion))
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Resilience Tests
// ═══════════════════════════════════════════════════════════════════════════

// flakyActivities fails reads for one task type and delegates the rest.
type flakyActivities struct {
	domain.ActivityStore
	broken domain.TaskType
}

func (f flakyActivities) ListActivities(taskType domain.TaskType, userID string) ([]domain.ActivityResult, error) {
	if taskType == f.broken {
		return nil, errors.New("simulated table outage")
	}
	return f.ActivityStore.ListActivities(taskType, userID)
}

func TestAggregate_OneBrokenTableStillCounts(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	ms := 300
	for _, taskType := range []domain.TaskType{domain.TaskDotProbeA, domain.TaskSmileSearchA, domain.TaskWordPairA} {
		if _, err := db.InsertActivity(domain.ActivityResult{
			UserID: "u1", TaskType: taskType, ReactionMS: &ms, CreatedAt: now,
		}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	a := stats.NewAggregator(flakyActivities{ActivityStore: db, broken: domain.TaskSmileSearchA}, db, db)
	a.SetNow(func() time.Time { return now })
	s := a.Aggregate("u1")

	// The broken table contributes zero records; the other two still count.
	if s.TotalActivities != 2 {
		t.Errorf("total with one broken table = %d, want 2", s.TotalActivities)
	}
	if s.MeanReactionMS != 300 {
		t.Errorf("mean = %d, want 300", s.MeanReactionMS)
	}
}

// ═══════════════════════════════════════════════════════════════════════════
// Snapshot Cache Tests
// ═══════════════════════════════════════════════════════════════════════════

func TestCache_GetComputesOnMiss(t *testing.T) {
	db := testDB(t)
	now := time.Date(2024, 1, 4, 18, 0, 0, 0, time.UTC)
	markCompleted(t, db, "u1", "2024-01-03", "2024-01-04")

	cache := stats.NewCache(db, newAggregator(t, db, now))
	s := cache.Get("u1")
	if s.CurrentStreak != 2 {
		t.Errorf("streak = %d, want 2", s.CurrentStreak)
	}

	// The computed snapshot must now be stored.
	stored, err := db.GetSnapshot("u1")
	if err != nil || stored == nil {
		t.Fatalf("expected stored snapshot, got %v / %v", stored, err)
	}
	if stored.CurrentStreak != 2 {
		t.Errorf("stored streak = %d, want 2", stored.CurrentStreak)
	}
}

func TestCache_GetServesStored(t *testing.T) {
	db := testDB(t)
	now := time.Now()

	// Plant a stale snapshot; Get must return it without recomputing.
	stale := domain.EmptySnapshot(now)
	stale.TotalActivities = 99
	if err := db.PutSnapshot("u1", stale); err != nil {
		t.Fatalf("put: %v", err)
	}

	cache := stats.NewCache(db, newAggregator(t, db, now))
	if s := cache.Get("u1"); s.TotalActivities != 99 {
		t.Errorf("expected stored snapshot (99), got %d", s.TotalActivities)
	}
}

func TestCache_RefreshReplacesStored(t *testing.T) {
	db := testDB(t)
	now := time.Date(2024, 1, 4, 18, 0, 0, 0, time.UTC)

	stale := domain.EmptySnapshot(now)
	stale.TotalActivities = 99
	if err := db.PutSnapshot("u1", stale); err != nil {
		t.Fatalf("put: %v", err)
	}

	markCompleted(t, db, "u1", "2024-01-04")
	cache := stats.NewCache(db, newAggregator(t, db, now))

	s := cache.Refresh("u1")
	if s.TotalActivities != 0 || s.CurrentStreak != 1 {
		t.Errorf("refresh returned wrong snapshot: %+v", s)
	}
	if got := cache.Get("u1"); got.TotalActivities == 99 {
		t.Error("stale snapshot survived a refresh")
	}
}

func TestEndToEnd_CompletionMovesStreakAndWeekly(t *testing.T) {
	db := testDB(t)
	created := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC)
	now := time.Date(2024, 1, 4, 19, 0, 0, 0, time.UTC)
	if err := db.CreateUser(domain.User{ID: "u1", Username: "u1", Cohort: domain.CohortA, CreatedAt: created}); err != nil {
		t.Fatalf("create user: %v", err)
	}
	markCompleted(t, db, "u1", "2024-01-03")

	cache := stats.NewCache(db, newAggregator(t, db, now))
	before := cache.Get("u1")

	// User finishes all of day 4's training.
	markCompleted(t, db, "u1", "2024-01-04")
	after := cache.Refresh("u1")

	if after.CurrentStreak != before.CurrentStreak+1 {
		t.Errorf("streak did not increment: before %d, after %d", before.CurrentStreak, after.CurrentStreak)
	}
	if !after.WeeklyCompletion["2024-01-04"] {
		t.Error("weekly map missing today's completion")
	}
}
