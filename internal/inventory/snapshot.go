package inventory

import (
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// Snapshot is the last availability list successfully read for a property.
type Snapshot struct {
	Rooms     []types.RoomInventoryRecord
	FetchedAt time.Time
}

// SnapshotCache keeps one snapshot per property.
type SnapshotCache struct {
	m *xsync.Map[string, Snapshot]
}

// NewSnapshotCache creates an empty cache.
func NewSnapshotCache() *SnapshotCache {
	return &SnapshotCache{m: xsync.NewMap[string, Snapshot]()}
}

// Store replaces the snapshot of a property with a copy of rooms.
func (c *SnapshotCache) Store(propertyID string, rooms []types.RoomInventoryRecord, at time.Time) {
	c.m.Store(propertyID, Snapshot{
		Rooms:     append([]types.RoomInventoryRecord(nil), rooms...),
		FetchedAt: at,
	})
}

// Load returns the snapshot of a property.
func (c *SnapshotCache) Load(propertyID string) (Snapshot, bool) {
	return c.m.Load(propertyID)
}

// Len returns the number of properties with a snapshot.
func (c *SnapshotCache) Len() int {
	return c.m.Size()
}
