package schedule

import (
	"log"
	"time"

	"github.com/moodlift/moodlift/internal/dateutil"
	"github.com/moodlift/moodlift/internal/domain"
	"github.com/moodlift/moodlift/internal/infra/metrics"
)

// Cache is the durable read-through schedule cache. It guarantees
// at-most-one schedule generation per (user, day, version) and that the
// persisted schedule is observed identically for the rest of the day,
// across process restarts and concurrent devices.
type Cache struct {
	store     domain.ScheduleStore
	resolver  *Resolver
	generator *Generator
	now       func() time.Time
}

// NewCache creates a schedule cache over a durable store.
func NewCache(store domain.ScheduleStore, resolver *Resolver, generator *Generator) *Cache {
	return &Cache{store: store, resolver: resolver, generator: generator, now: time.Now}
}

// SetNow overrides the clock. Tests only.
func (c *Cache) SetNow(now func() time.Time) { c.now = now }

// Today returns the user's schedule for the current calendar day,
// resolving tenure and version, then delegating to GetOrCreate.
func (c *Cache) Today(userID string) domain.DailySchedule {
	tenure, version := c.resolver.TodayVersion(userID)
	day := dateutil.FormatISO(c.now())
	return c.GetOrCreate(userID, day, version, tenure.DayNumber)
}

// GetOrCreate returns the persisted schedule for (user, day, version),
// generating and persisting it on first request. Read-check-then-write:
// if a concurrent writer lands first, its row stands and we return it.
//
// Storage failures degrade rather than propagate: the caller still gets
// a playable schedule, it just may not survive a restart.
func (c *Cache) GetOrCreate(userID, day string, version domain.Version, dayNumber int) domain.DailySchedule {
	if cached, err := c.store.GetSchedule(userID, day, version); err != nil {
		log.Printf("[schedule] cache read for %s/%s failed: %v (regenerating)", userID, day, err)
	} else if cached != nil {
		metrics.ScheduleCacheHits.Inc()
		return *cached
	}

	generated := domain.DailySchedule{
		Day:       day,
		Version:   version,
		DayNumber: dayNumber,
		Steps:     c.generator.Generate(dayNumber, version),
	}
	metrics.SchedulesGenerated.WithLabelValues(string(version)).Inc()

	if err := c.store.PutSchedule(userID, generated); err != nil {
		log.Printf("[schedule] cache write for %s/%s failed: %v (serving unpersisted)", userID, day, err)
		return generated
	}

	// Re-read: if another device won the insert race, serve its schedule
	// rather than the one we just generated.
	stored, err := c.store.GetSchedule(userID, day, version)
	if err != nil || stored == nil {
		return generated
	}
	return *stored
}
