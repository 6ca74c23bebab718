// Package natsnotify publishes assignment notifications to NATS JetStream.
//
// Messages go to "<prefix>.<audience>.<channel>" as JSON payloads, so staff consoles can
// subscribe to "roomassign.notify.staff.>" and guest messaging to the guest subtree.
package natsnotify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// DefaultPrefix is the subject prefix used when none is configured.
const DefaultPrefix = "roomassign.notify"

// Publisher is a types.NotificationDispatcher on JetStream.
//
// A stream must capture the published subjects; Publish fails with no responders
// otherwise.
type Publisher struct {
	js     jetstream.JetStream
	prefix string
}

var _ types.NotificationDispatcher = (*Publisher)(nil)

// New creates a publisher. An empty prefix means DefaultPrefix.
func New(js jetstream.JetStream, prefix string) *Publisher {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	return &Publisher{js: js, prefix: prefix}
}

// Subject returns the subject a payload for channel is published on.
func (p *Publisher) Subject(channel string, audience types.Audience) string {
	if audience == "" {
		audience = types.AudienceGuest
	}

	return fmt.Sprintf("%s.%s.%s", p.prefix, audience, sanitize(channel))
}

// Send publishes the payload and waits for the stream acknowledgement.
func (p *Publisher) Send(ctx context.Context, channel string, payload types.NotificationPayload) (bool, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return false, fmt.Errorf("encode notification: %w", err)
	}

	if _, err := p.js.Publish(ctx, p.Subject(channel, payload.Audience), data); err != nil {
		return false, fmt.Errorf("%w: publish %s: %w", types.ErrNotificationFailed, channel, err)
	}

	return true, nil
}

// sanitize turns a channel name into a single subject token.
func sanitize(channel string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', '*', '>', ' ', '\t':
			return '_'
		default:
			return r
		}
	}, channel)
}
