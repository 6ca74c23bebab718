package testing

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// ErrInjected is returned by fakes configured to fail.
var ErrInjected = errors.New("injected failure")

// SentNotification is a message captured by RecordingDispatcher.
type SentNotification struct {
	Channel string
	Payload types.NotificationPayload
}

// RecordingDispatcher records every notification. Channels listed in Fail are rejected.
type RecordingDispatcher struct {
	mu   sync.Mutex
	sent []SentNotification
	fail map[string]bool
}

var _ types.NotificationDispatcher = (*RecordingDispatcher)(nil)

// NewRecordingDispatcher creates a dispatcher that fails the named channels.
func NewRecordingDispatcher(failing ...string) *RecordingDispatcher {
	d := &RecordingDispatcher{fail: make(map[string]bool)}
	for _, ch := range failing {
		d.fail[ch] = true
	}

	return d
}

// Send records the payload.
func (d *RecordingDispatcher) Send(_ context.Context, channel string, payload types.NotificationPayload) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.fail[channel] {
		return false, ErrInjected
	}
	d.sent = append(d.sent, SentNotification{Channel: channel, Payload: payload})

	return true, nil
}

// SetFailing toggles failure for a channel.
func (d *RecordingDispatcher) SetFailing(channel string, failing bool) {
	d.mu.Lock()
	d.fail[channel] = failing
	d.mu.Unlock()
}

// Sent returns a copy of the captured notifications.
func (d *RecordingDispatcher) Sent() []SentNotification {
	d.mu.Lock()
	defer d.mu.Unlock()

	return append([]SentNotification(nil), d.sent...)
}

// FlakyInventory wraps an Inventory whose availability reads fail for the first N calls,
// or for every call while down. Reservations always reach the wrapped inventory.
type FlakyInventory struct {
	Inner types.Inventory

	failuresLeft atomic.Int64
	down         atomic.Bool
	calls        atomic.Int64
}

var _ types.Inventory = (*FlakyInventory)(nil)

// NewFlakyInventory wraps inner and fails the first failures reads.
func NewFlakyInventory(inner types.Inventory, failures int) *FlakyInventory {
	p := &FlakyInventory{Inner: inner}
	p.failuresLeft.Store(int64(failures))

	return p
}

// SetDown makes every read fail until cleared.
func (p *FlakyInventory) SetDown(down bool) {
	p.down.Store(down)
}

// Calls returns the number of availability reads made so far.
func (p *FlakyInventory) Calls() int {
	return int(p.calls.Load())
}

// GetAvailableRooms fails or delegates.
func (p *FlakyInventory) GetAvailableRooms(ctx context.Context, propertyID string, checkIn, checkOut time.Time) ([]types.RoomInventoryRecord, error) {
	p.calls.Add(1)
	if p.down.Load() {
		return nil, ErrInjected
	}
	if p.failuresLeft.Add(-1) >= 0 {
		return nil, ErrInjected
	}

	return p.Inner.GetAvailableRooms(ctx, propertyID, checkIn, checkOut)
}

// ReserveRoom delegates to the wrapped inventory.
func (p *FlakyInventory) ReserveRoom(ctx context.Context, propertyID, roomNumber string, window types.StayWindow, bookingID string) error {
	return p.Inner.ReserveRoom(ctx, propertyID, roomNumber, window, bookingID)
}

// ReleaseRoom delegates to the wrapped inventory.
func (p *FlakyInventory) ReleaseRoom(ctx context.Context, propertyID, roomNumber, bookingID string) error {
	return p.Inner.ReleaseRoom(ctx, propertyID, roomNumber, bookingID)
}
