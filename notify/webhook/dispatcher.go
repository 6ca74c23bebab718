// Package webhook delivers assignment notifications as JSON POSTs.
package webhook

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// Config configures the HTTP client.
type Config struct {
	// Endpoints maps channel names to URLs.
	Endpoints map[string]string
	// Timeout bounds one request, including retries.
	Timeout time.Duration
	// RetryCount is the number of resty retries after a failed request.
	RetryCount int
	// Headers are added to every request, e.g. an API key.
	Headers map[string]string
}

// Dispatcher is a types.NotificationDispatcher posting to per-channel URLs.
type Dispatcher struct {
	client *resty.Client

	mu        sync.RWMutex
	endpoints map[string]string
}

var _ types.NotificationDispatcher = (*Dispatcher)(nil)

// New creates a dispatcher.
//
// Example:
//
//	d := webhook.New(webhook.Config{
//	    Endpoints: map[string]string{"guest": "https://sms.example.com/hook"},
//	    Timeout:   5 * time.Second,
//	})
func New(cfg Config) *Dispatcher {
	if cfg.Timeout <= 0 {
		cfg.Timeout = 5 * time.Second
	}

	client := resty.New().
		SetTimeout(cfg.Timeout).
		SetRetryCount(cfg.RetryCount).
		SetRetryWaitTime(100*time.Millisecond).
		SetRetryMaxWaitTime(time.Second).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json").
		SetHeaders(cfg.Headers)

	endpoints := make(map[string]string, len(cfg.Endpoints))
	for ch, url := range cfg.Endpoints {
		endpoints[ch] = url
	}

	return &Dispatcher{client: client, endpoints: endpoints}
}

// SetEndpoint adds or replaces the URL of a channel.
func (d *Dispatcher) SetEndpoint(channel, url string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.endpoints[channel] = url
}

// Send posts the payload to the channel's URL. Any 2xx response counts as delivered.
func (d *Dispatcher) Send(ctx context.Context, channel string, payload types.NotificationPayload) (bool, error) {
	d.mu.RLock()
	url, ok := d.endpoints[channel]
	d.mu.RUnlock()

	if !ok {
		return false, fmt.Errorf("%w: no endpoint for channel %q", types.ErrNotificationFailed, channel)
	}

	resp, err := d.client.R().
		SetContext(ctx).
		SetHeader("X-Notification-Channel", channel).
		SetBody(payload).
		Post(url)
	if err != nil {
		return false, fmt.Errorf("%w: post %s: %w", types.ErrNotificationFailed, channel, err)
	}
	if resp.IsError() {
		return false, fmt.Errorf("%w: %s returned %s", types.ErrNotificationFailed, channel, resp.Status())
	}

	return true, nil
}
