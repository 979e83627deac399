// Package schedule implements the daily training scheduler: tenure
// resolution, schedule generation, and the durable read-through cache
// that keeps one day's schedule stable across requests and restarts.
package schedule

import (
	"log"
	"time"

	"github.com/moodlift/moodlift/internal/dateutil"
	"github.com/moodlift/moodlift/internal/domain"
)

// Resolver derives a user's tenure (cohort group + 1-based day number)
// from their profile. Fail-soft: a missing or unreadable profile resolves
// to day 1, cohort A — never an error.
type Resolver struct {
	users domain.UserStore
	now   func() time.Time
}

// NewResolver creates a tenure resolver.
func NewResolver(users domain.UserStore) *Resolver {
	return &Resolver{users: users, now: time.Now}
}

// SetNow overrides the clock. Tests only.
func (r *Resolver) SetNow(now func() time.Time) { r.now = now }

// Resolve returns the user's tenure for today.
// Both the creation timestamp and now are truncated to calendar days
// before subtracting, then 1 is added, so the creation day itself is
// day 1 and crossing midnight always advances exactly one day.
func (r *Resolver) Resolve(userID string) domain.Tenure {
	u, err := r.users.GetUser(userID)
	if err != nil {
		log.Printf("[schedule] tenure lookup for %s failed: %v (defaulting to day 1)", userID, err)
		return domain.DefaultTenure()
	}
	if u == nil {
		return domain.DefaultTenure()
	}

	created := u.CreatedAt
	if created.IsZero() {
		created = r.now()
	}

	dayNumber := dateutil.DaysBetween(created, r.now()) + 1
	if dayNumber < 1 {
		dayNumber = 1
	}

	return domain.Tenure{Group: u.Cohort, DayNumber: dayNumber}
}

// TodayVersion resolves tenure and today's schedule version in one call.
func (r *Resolver) TodayVersion(userID string) (domain.Tenure, domain.Version) {
	tenure := r.Resolve(userID)
	return tenure, domain.VersionFor(tenure.Group, tenure.DayNumber)
}
