// Package stats implements the engagement statistics engine: the
// cross-table aggregation that reduces scattered per-activity records
// into streaks, weekly completion, and performance metrics, plus the
// write-through snapshot cache in front of it.
package stats

import (
	"log"
	"math"
	"time"

	"github.com/moodlift/moodlift/internal/dateutil"
	"github.com/moodlift/moodlift/internal/domain"
	"github.com/moodlift/moodlift/internal/infra/metrics"
)

// Aggregator computes a user's statistics snapshot from activity results,
// mood check-ins, and completion markers.
//
// Failure policy: a read failure on any single table is logged and
// contributes zero records; the aggregate never fails outright because
// one table is unavailable. The result is always a usable snapshot.
type Aggregator struct {
	activities  domain.ActivityStore
	moods       domain.MoodStore
	completions domain.CompletionStore
	now         func() time.Time
}

// NewAggregator creates an aggregator over the three record stores.
func NewAggregator(activities domain.ActivityStore, moods domain.MoodStore, completions domain.CompletionStore) *Aggregator {
	return &Aggregator{activities: activities, moods: moods, completions: completions, now: time.Now}
}

// SetNow overrides the clock. Tests only.
func (a *Aggregator) SetNow(now func() time.Time) { a.now = now }

// Aggregate scans every record source for one user and reduces them into
// a snapshot. The per-table scans are independent round trips with no
// ordering dependency between them.
func (a *Aggregator) Aggregate(userID string) domain.Snapshot {
	start := a.now()
	snapshot := domain.EmptySnapshot(start)
	metrics.Aggregations.Inc()
	defer func() {
		metrics.AggregationDuration.Observe(a.now().Sub(start).Seconds())
	}()

	// Per-mini-game attempt counts and reaction times. Mean is taken over
	// attempts that actually recorded a reaction time — some attempt
	// types never do.
	var reactionSum, timedCount int
	for _, taskType := range domain.AllTaskTypes() {
		results, err := a.activities.ListActivities(taskType, userID)
		if err != nil {
			log.Printf("[aggregator] scan %s for %s failed: %v (skipping)", taskType, userID, err)
			metrics.TableScanFailures.WithLabelValues(string(taskType)).Inc()
			continue
		}
		snapshot.TotalActivities += len(results)
		for _, r := range results {
			if r.ReactionMS != nil {
				reactionSum += *r.ReactionMS
				timedCount++
			}
		}
	}
	if timedCount > 0 {
		snapshot.MeanReactionMS = int(math.Round(float64(reactionSum) / float64(timedCount)))
	}

	// Emotion tallies.
	moods, err := a.moods.ListMoods(userID)
	if err != nil {
		log.Printf("[aggregator] mood scan for %s failed: %v (skipping)", userID, err)
		metrics.TableScanFailures.WithLabelValues("mood_checkins").Inc()
	}
	for _, m := range moods {
		snapshot.EmotionCounts[m.Emotion]++
	}

	// Streaks and weekly completion.
	completed, err := a.completions.ListCompletedDays(userID)
	if err != nil {
		log.Printf("[aggregator] completion scan for %s failed: %v (skipping)", userID, err)
		metrics.TableScanFailures.WithLabelValues("completion_markers").Inc()
	}
	snapshot.CurrentStreak, snapshot.LongestStreak = streaks(completed)
	snapshot.WeeklyCompletion = weeklyMap(completed, a.now())

	return snapshot
}

// streaks walks the ascending completed-date list and returns the current
// and longest streak. "Current" means the most recent contiguous run in
// the list, whether or not it reaches today — completing a day after a
// long absence reports that single day as the current streak.
func streaks(completedAsc []string) (current, longest int) {
	temp := 0
	for i, day := range completedAsc {
		if i == 0 || dateutil.IsNextDay(completedAsc[i-1], day) {
			temp++
		} else {
			temp = 1
		}
		current = temp
		if temp > longest {
			longest = temp
		}
	}
	return current, longest
}

// weeklyMap marks each of the 7 calendar days ending today (inclusive)
// as completed or not. Always exactly 7 keys.
func weeklyMap(completedAsc []string, today time.Time) map[string]bool {
	completed := make(map[string]bool, len(completedAsc))
	for _, day := range completedAsc {
		completed[day] = true
	}

	week := make(map[string]bool, 7)
	for _, day := range dateutil.LastNDays(today, 7) {
		week[day] = completed[day]
	}
	return week
}
