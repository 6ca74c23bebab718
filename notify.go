package roomassign

import (
	"context"
	"errors"
	"fmt"

	"github.com/himmu2625/baithkaGhar-sub009/internal/queue"
	"github.com/himmu2625/baithkaGhar-sub009/notify"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

// Notification severities.
const (
	severityInfo   = "info"
	severityNormal = "normal"
	severityHigh   = "high"
)

// notify sends the result to every configured channel. Failed channels are recorded
// on the outcome and queued for background retry; the caller never retries.
func (e *Engine) notify(ctx context.Context, res *RoomAssignmentResult, cfg *AssignmentConfig) []types.NotificationOutcome {
	if !cfg.Notifications.Enabled || len(cfg.Notifications.Channels) == 0 {
		return nil
	}

	outcomes := make([]types.NotificationOutcome, 0, len(cfg.Notifications.Channels))
	for _, ch := range cfg.Notifications.Channels {
		payload := e.payload(res, ch)

		err := e.send(ctx, ch.Name, payload)
		outcome := types.NotificationOutcome{Channel: ch.Name, Audience: ch.Audience, Delivered: err == nil}
		if err != nil {
			outcome.Error = err.Error()
			e.queue.EnqueueNotification(queue.NotificationJob{Channel: ch.Name, Payload: payload})
			e.logger.Warn("notification failed, queued for retry",
				"booking_id", res.BookingID, "channel", ch.Name, "error", err)
		}
		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// send delivers one payload under the notification timeout.
func (e *Engine) send(ctx context.Context, channel string, payload types.NotificationPayload) error {
	ctx, cancel := context.WithTimeout(ctx, e.cfg.Notification.Timeout)
	defer cancel()

	delivered, err := e.dispatcher.Send(ctx, channel, payload)
	e.metrics.RecordNotification(channel, err == nil && delivered)

	switch {
	case err != nil && errors.Is(err, ErrNotificationFailed):
		return err
	case err != nil:
		return fmt.Errorf("%w: channel %s: %w", ErrNotificationFailed, channel, err)
	case !delivered:
		return fmt.Errorf("%w: channel %s rejected the message", ErrNotificationFailed, channel)
	}

	return nil
}

func (e *Engine) payload(res *RoomAssignmentResult, ch types.NotificationChannel) types.NotificationPayload {
	p := types.NotificationPayload{
		BookingID:  res.BookingID,
		GuestID:    res.GuestID,
		PropertyID: res.PropertyID,
		RoomNumber: res.Room.RoomNumber,
		RoomType:   res.Room.RoomType,
		Floor:      res.Room.Floor,
		Method:     string(res.Method),
		Upgrades:   res.Upgrades,
		Audience:   ch.Audience,
		Severity:   severityInfo,
	}
	if ch.Audience == types.AudienceStaff {
		p.Severity = severityNormal
		if len(res.Conflicts) > 0 {
			p.Severity = severityHigh
		}
	}

	msg, err := notify.Render(ch.Template, p)
	if err != nil {
		e.logger.Warn("notification template failed, using default",
			"channel", ch.Name, "property_id", res.PropertyID, "error", err)
		msg, _ = notify.Render(notify.DefaultTemplate, p)
	}
	p.Message = msg

	return p
}

// queueHandler runs queued work against the engine without widening its public API.
type queueHandler Engine

var _ queue.Handler = (*queueHandler)(nil)

func (h *queueHandler) ProcessAssignment(ctx context.Context, req *types.RoomAssignmentRequest) error {
	_, err := (*Engine)(h).assign(ctx, req, true)
	if errors.Is(err, ErrManualAssignmentRequired) {
		// held for staff, nothing left to retry
		return nil
	}

	return err
}

func (h *queueHandler) RetryNotification(ctx context.Context, job queue.NotificationJob) error {
	e := (*Engine)(h)
	if err := e.send(ctx, job.Channel, job.Payload); err != nil {
		return err
	}
	e.logger.Info("queued notification delivered", "booking_id", job.Payload.BookingID, "channel", job.Channel)

	return nil
}
