package natsnotify

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/require"

	roomtest "github.com/himmu2625/baithkaGhar-sub009/testing"
	"github.com/himmu2625/baithkaGhar-sub009/types"
)

func TestPublisher_Send(t *testing.T) {
	_, nc := roomtest.StartEmbeddedNATS(t)
	stream := roomtest.CreateStream(t, nc, "NOTIFY", DefaultPrefix+".>")
	p := New(roomtest.NewJetStream(t, nc), "")

	payload := types.NotificationPayload{BookingID: "b1", RoomNumber: "204", Audience: types.AudienceStaff, Severity: "high"}
	ok, err := p.Send(t.Context(), "front.desk", payload)
	require.NoError(t, err)
	require.True(t, ok)

	require.Equal(t, "roomassign.notify.staff.front_desk", p.Subject("front.desk", types.AudienceStaff))

	cons, err := stream.CreateOrUpdateConsumer(t.Context(), jetstream.ConsumerConfig{
		FilterSubject: "roomassign.notify.staff.>",
		AckPolicy:     jetstream.AckExplicitPolicy,
	})
	require.NoError(t, err)

	batch, err := cons.Fetch(1, jetstream.FetchMaxWait(2*time.Second))
	require.NoError(t, err)

	var got types.NotificationPayload
	for msg := range batch.Messages() {
		require.NoError(t, json.Unmarshal(msg.Data(), &got))
		require.NoError(t, msg.Ack())
	}
	require.NoError(t, batch.Error())
	require.Equal(t, payload, got)
}

func TestPublisher_NoStream(t *testing.T) {
	_, nc := roomtest.StartEmbeddedNATS(t)
	p := New(roomtest.NewJetStream(t, nc), "unrouted")

	ok, err := p.Send(t.Context(), "guest", types.NotificationPayload{BookingID: "b1"})
	require.ErrorIs(t, err, types.ErrNotificationFailed)
	require.False(t, ok)
}
