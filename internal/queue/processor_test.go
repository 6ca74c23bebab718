package queue

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	roomtest "github.com/himmu2625/baithkaGhar-sub009/testing"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

type recordingHandler struct {
	mu        sync.Mutex
	bookings  []string
	channels  []string
	failFor   map[string]bool
	failNotif int
	delay     time.Duration
}

func (h *recordingHandler) ProcessAssignment(_ context.Context, req *types.RoomAssignmentRequest) error {
	if h.delay > 0 {
		time.Sleep(h.delay)
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	h.bookings = append(h.bookings, req.BookingID)
	if h.failFor[req.BookingID] {
		return errors.New("no rooms")
	}

	return nil
}

func (h *recordingHandler) RetryNotification(_ context.Context, job NotificationJob) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.channels = append(h.channels, job.Channel)
	if h.failNotif > 0 {
		h.failNotif--
		return errors.New("channel down")
	}

	return nil
}

func (h *recordingHandler) seen() []string {
	h.mu.Lock()
	defer h.mu.Unlock()

	return append([]string(nil), h.bookings...)
}

func newProcessor(t *testing.T, cfg Config, h Handler) *Processor {
	t.Helper()
	clock := roomtest.NewFakeClock(time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))

	return New(cfg, h, clock, roomtest.NewTestLogger(t), nil)
}

func TestDrain_FIFOAndBatchSize(t *testing.T) {
	h := &recordingHandler{}
	p := newProcessor(t, Config{BatchSize: 2}, h)

	for _, id := range []string{"b1", "b2", "b3"} {
		p.EnqueueAssignment(roomtest.NewRequest(id, types.RoomTypeStandard))
	}

	processed, failed := p.Drain(t.Context())
	require.Equal(t, 2, processed)
	require.Zero(t, failed)
	require.Equal(t, []string{"b1", "b2"}, h.seen())
	require.Equal(t, 1, p.Len())

	processed, _ = p.Drain(t.Context())
	require.Equal(t, 1, processed)
	require.Equal(t, []string{"b1", "b2", "b3"}, h.seen())
	require.Zero(t, p.Len())
}

func TestDrain_DropPolicies(t *testing.T) {
	t.Run("discard", func(t *testing.T) {
		h := &recordingHandler{failFor: map[string]bool{"b1": true}}
		p := newProcessor(t, Config{}, h)
		p.EnqueueAssignment(roomtest.NewRequest("b1", types.RoomTypeStandard))

		_, failed := p.Drain(t.Context())
		require.Equal(t, 1, failed)
		require.Zero(t, p.Len())
		require.Empty(t, p.DeadLetters())
	})

	t.Run("dead letter", func(t *testing.T) {
		h := &recordingHandler{failFor: map[string]bool{"b1": true}}
		p := newProcessor(t, Config{DropPolicy: DropDeadLetter}, h)
		p.EnqueueAssignment(roomtest.NewRequest("b1", types.RoomTypeStandard))
		p.EnqueueAssignment(roomtest.NewRequest("b2", types.RoomTypeStandard))

		processed, failed := p.Drain(t.Context())
		require.Equal(t, 1, processed)
		require.Equal(t, 1, failed)

		dead := p.DeadLetters()
		require.Len(t, dead, 1)
		require.Equal(t, "assignment/b1", dead[0].Key())
		require.Equal(t, 1, dead[0].Attempts)
		require.Equal(t, "no rooms", dead[0].LastError)
	})
}

func TestDrain_NotificationRetries(t *testing.T) {
	h := &recordingHandler{failNotif: 5}
	p := newProcessor(t, Config{NotificationAttempts: 2, DropPolicy: DropDeadLetter}, h)
	p.EnqueueNotification(NotificationJob{Channel: "guest", Payload: types.NotificationPayload{BookingID: "b1"}})

	_, failed := p.Drain(t.Context())
	require.Equal(t, 1, failed)
	require.Equal(t, 1, p.Len(), "first failure requeues")

	_, failed = p.Drain(t.Context())
	require.Equal(t, 1, failed)
	require.Zero(t, p.Len())
	require.Len(t, p.DeadLetters(), 1)
	require.Equal(t, "notification/b1/guest", p.DeadLetters()[0].Key())
}

func TestDrain_CancelledContextRequeues(t *testing.T) {
	h := &recordingHandler{}
	p := newProcessor(t, Config{}, h)
	p.EnqueueAssignment(roomtest.NewRequest("b1", types.RoomTypeStandard))
	p.EnqueueAssignment(roomtest.NewRequest("b2", types.RoomTypeStandard))

	ctx, cancel := context.WithCancel(t.Context())
	cancel()

	processed, failed := p.Drain(ctx)
	require.Zero(t, processed+failed)
	require.Equal(t, 2, p.Len())
	require.Equal(t, "assignment/b1", p.Pending()[0].Key())
}

func TestProcessor_StartStop(t *testing.T) {
	h := &recordingHandler{delay: 20 * time.Millisecond}
	p := newProcessor(t, Config{Interval: 5 * time.Millisecond}, h)

	require.ErrorIs(t, p.Stop(), types.ErrNotStarted)
	require.NoError(t, p.Start(t.Context()))
	require.ErrorIs(t, p.Start(t.Context()), types.ErrAlreadyStarted)
	require.True(t, p.IsStarted())

	p.EnqueueAssignment(roomtest.NewRequest("b1", types.RoomTypeStandard))
	require.Eventually(t, func() bool { return len(h.seen()) == 1 }, 2*time.Second, 5*time.Millisecond)

	require.NoError(t, p.Stop())
	require.False(t, p.IsStarted())

	// Restart works after a clean stop.
	require.NoError(t, p.Start(t.Context()))
	require.NoError(t, p.Stop())
}

func TestParseDropPolicy(t *testing.T) {
	for in, want := range map[string]DropPolicy{"": DropDiscard, "discard": DropDiscard, "dead-letter": DropDeadLetter, "DEAD_LETTER": DropDeadLetter} {
		got, err := ParseDropPolicy(in)
		require.NoError(t, err)
		require.Equal(t, want, got)
	}

	_, err := ParseDropPolicy("retry")
	require.Error(t, err)
}
