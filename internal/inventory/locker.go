package inventory

import (
	"sync"

	"github.com/zeebo/xxh3"
)

// DefaultStripes is the stripe count used when NewLocker gets a non-positive value.
const DefaultStripes = 64

// Locker serializes work per property using a fixed set of striped mutexes.
//
// Two properties may share a stripe, which only costs some parallelism. The number of
// mutexes stays bounded no matter how many properties the engine sees.
type Locker struct {
	stripes []sync.Mutex
}

// NewLocker creates a locker with n stripes.
func NewLocker(n int) *Locker {
	if n <= 0 {
		n = DefaultStripes
	}

	return &Locker{stripes: make([]sync.Mutex, n)}
}

// Lock acquires the stripe of propertyID and returns the matching unlock function.
//
// Example:
//
//	unlock := locker.Lock(req.PropertyID)
//	defer unlock()
func (l *Locker) Lock(propertyID string) func() {
	mu := &l.stripes[l.stripe(propertyID)]
	mu.Lock()

	return mu.Unlock
}

func (l *Locker) stripe(propertyID string) int {
	return int(xxh3.HashString(propertyID) % uint64(len(l.stripes)))
}
