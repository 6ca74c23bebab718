package notify

import (
	"context"
	"fmt"
	"sync"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// Multi routes each channel to its own dispatcher.
type Multi struct {
	mu       sync.RWMutex
	routes   map[string]types.NotificationDispatcher
	fallback types.NotificationDispatcher
}

var _ types.NotificationDispatcher = (*Multi)(nil)

// NewMulti creates a router. fallback handles channels without a route and may be nil.
//
// Example:
//
//	d := notify.NewMulti(webhookDispatcher)
//	d.Route("front-desk", natsPublisher)
func NewMulti(fallback types.NotificationDispatcher) *Multi {
	return &Multi{routes: make(map[string]types.NotificationDispatcher), fallback: fallback}
}

// Route sends the named channel to d.
func (m *Multi) Route(channel string, d types.NotificationDispatcher) *Multi {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.routes[channel] = d

	return m
}

// Send forwards to the channel's dispatcher.
func (m *Multi) Send(ctx context.Context, channel string, payload types.NotificationPayload) (bool, error) {
	m.mu.RLock()
	d, ok := m.routes[channel]
	if !ok {
		d = m.fallback
	}
	m.mu.RUnlock()

	if d == nil {
		return false, fmt.Errorf("%w: no dispatcher for channel %q", types.ErrNotificationFailed, channel)
	}

	return d.Send(ctx, channel, payload)
}
