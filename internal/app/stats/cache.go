package stats

import (
	"log"

	"github.com/moodlift/moodlift/internal/domain"
)

// Cache is the write-through snapshot cache. Reads return the stored
// snapshot when one exists; a miss or a failed read falls through to a
// synchronous recompute. Writers of activity, mood, and completion
// records call Refresh after every write, so the cache is eventually
// consistent within one aggregation pass of any write.
type Cache struct {
	snapshots  domain.SnapshotStore
	aggregator *Aggregator
}

// NewCache creates a snapshot cache in front of an aggregator.
func NewCache(snapshots domain.SnapshotStore, aggregator *Aggregator) *Cache {
	return &Cache{snapshots: snapshots, aggregator: aggregator}
}

// Get returns the user's statistics snapshot. Never returns an error:
// every failure mode degrades to a freshly computed (worst case all-zero)
// snapshot.
func (c *Cache) Get(userID string) domain.Snapshot {
	stored, err := c.snapshots.GetSnapshot(userID)
	if err != nil {
		log.Printf("[stats] snapshot read for %s failed: %v (recomputing)", userID, err)
	} else if stored != nil {
		return *stored
	}
	return c.Refresh(userID)
}

// Refresh recomputes the snapshot, stores it, and returns it. A failed
// store only costs the caching, not the response.
func (c *Cache) Refresh(userID string) domain.Snapshot {
	snapshot := c.aggregator.Aggregate(userID)
	if err := c.snapshots.PutSnapshot(userID, snapshot); err != nil {
		log.Printf("[stats] snapshot write for %s failed: %v (serving uncached)", userID, err)
	}
	return snapshot
}
