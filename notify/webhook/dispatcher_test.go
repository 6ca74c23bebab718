package webhook

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/himmu2625/baithkaGhar-sub009/types"
)

func TestDispatcher_Send(t *testing.T) {
	var got types.NotificationPayload
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "guest", r.Header.Get("X-Notification-Channel"))
		assert.Equal(t, "secret", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.WriteHeader(http.StatusAccepted)
	}))
	defer srv.Close()

	d := New(Config{
		Endpoints: map[string]string{"guest": srv.URL},
		Headers:   map[string]string{"X-Api-Key": "secret"},
	})

	ok, err := d.Send(t.Context(), "guest", types.NotificationPayload{BookingID: "b1", RoomNumber: "204"})
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "204", got.RoomNumber)
}

func TestDispatcher_Failures(t *testing.T) {
	var calls atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	d := New(Config{Timeout: time.Second})
	_, err := d.Send(t.Context(), "guest", types.NotificationPayload{})
	require.ErrorIs(t, err, types.ErrNotificationFailed)

	d.SetEndpoint("guest", srv.URL)
	ok, err := d.Send(t.Context(), "guest", types.NotificationPayload{})
	require.ErrorIs(t, err, types.ErrNotificationFailed)
	assert.False(t, ok)
	assert.EqualValues(t, 1, calls.Load())
}
