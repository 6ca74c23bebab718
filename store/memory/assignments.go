package memory

import (
	"context"
	"sync"
	"time"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// AssignmentStore keeps the current result per booking and the full history.
type AssignmentStore struct {
	mu         sync.RWMutex
	current    map[string]*types.RoomAssignmentResult
	history    map[string][]*types.RoomAssignmentResult
	byProperty map[string][]*types.RoomAssignmentResult
}

var _ types.AssignmentStore = (*AssignmentStore)(nil)

// NewAssignmentStore creates an empty store.
func NewAssignmentStore() *AssignmentStore {
	return &AssignmentStore{
		current:    make(map[string]*types.RoomAssignmentResult),
		history:    make(map[string][]*types.RoomAssignmentResult),
		byProperty: make(map[string][]*types.RoomAssignmentResult),
	}
}

// Current returns a copy of the active result of the booking.
func (s *AssignmentStore) Current(_ context.Context, bookingID string) (*types.RoomAssignmentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.current[bookingID]
	if !ok {
		return nil, types.ErrAssignmentNotFound
	}

	return r.Clone(), nil
}

// Save appends a copy of the result to the history and makes it current.
func (s *AssignmentStore) Save(_ context.Context, result *types.RoomAssignmentResult) error {
	r := result.Clone()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.current[r.BookingID] = r
	s.history[r.BookingID] = append(s.history[r.BookingID], r)
	s.byProperty[r.PropertyID] = append(s.byProperty[r.PropertyID], r)

	return nil
}

// History returns copies of every result of the booking, oldest first.
func (s *AssignmentStore) History(_ context.Context, bookingID string) ([]*types.RoomAssignmentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.history[bookingID], nil), nil
}

// List returns history entries of the property with AssignedAt in [start, end).
func (s *AssignmentStore) List(_ context.Context, propertyID string, start, end time.Time) ([]*types.RoomAssignmentResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return cloneAll(s.byProperty[propertyID], func(r *types.RoomAssignmentResult) bool {
		return !r.AssignedAt.Before(start) && r.AssignedAt.Before(end)
	}), nil
}

func cloneAll(in []*types.RoomAssignmentResult, keep func(*types.RoomAssignmentResult) bool) []*types.RoomAssignmentResult {
	out := make([]*types.RoomAssignmentResult, 0, len(in))
	for _, r := range in {
		if keep == nil || keep(r) {
			out = append(out, r.Clone())
		}
	}

	return out
}
