package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(hub *Hub, id, userID string) *Client {
	return &Client{
		ID:     id,
		UserID: userID,
		hub:    hub,
		send:   make(chan []byte, sendBufferSize),
	}
}

func receive(t *testing.T, c *Client) Message {
	t.Helper()

	select {
	case data, ok := <-c.send:
		require.True(t, ok, "client channel closed")

		var msg Message
		require.NoError(t, json.Unmarshal(data, &msg))
		return msg
	case <-time.After(time.Second):
		t.Fatal("no message received")
		return Message{}
	}
}

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Shutdown)

	return hub
}

func TestHub_RegisterSendsFeedState(t *testing.T) {
	hub := startHub(t)
	client := newTestClient(hub, "c1", "host-1")

	hub.Register <- client

	msg := receive(t, client)
	assert.Equal(t, TypeFeedState, msg.Type)

	var state FeedStatePayload
	require.NoError(t, json.Unmarshal(msg.Payload, &state))
	assert.Equal(t, 1, state.ConnectedHosts)
	assert.Equal(t, 1, hub.ClientCount())
}

func TestHub_PublishReachesEveryHost(t *testing.T) {
	hub := startHub(t)
	c1 := newTestClient(hub, "c1", "host-1")
	c2 := newTestClient(hub, "c2", "host-2")

	hub.Register <- c1
	hub.Register <- c2
	receive(t, c1)
	receive(t, c2)

	hub.Publish(TypeBookingCreated, BookingCreatedPayload{
		BookingID:    "b-1",
		CustomerName: "Aino Virtanen",
		Guests:       4,
	})

	for _, c := range []*Client{c1, c2} {
		msg := receive(t, c)
		assert.Equal(t, TypeBookingCreated, msg.Type)
		assert.Equal(t, uint64(1), msg.Sequence)

		var payload BookingCreatedPayload
		require.NoError(t, json.Unmarshal(msg.Payload, &payload))
		assert.Equal(t, "b-1", payload.BookingID)
		assert.Equal(t, 4, payload.Guests)
	}
}

func TestHub_SequenceIncreases(t *testing.T) {
	hub := startHub(t)
	client := newTestClient(hub, "c1", "host-1")
	hub.Register <- client
	receive(t, client)

	hub.Publish(TypeMemberApproved, MemberApprovedPayload{UserID: "u-1"})
	hub.Publish(TypeReceiptExtracted, ReceiptExtractedPayload{BookingID: "b-1"})

	first := receive(t, client)
	second := receive(t, client)

	assert.Equal(t, TypeMemberApproved, first.Type)
	assert.Equal(t, TypeReceiptExtracted, second.Type)
	assert.Less(t, first.Sequence, second.Sequence)
}

func TestHub_UnregisterClosesClient(t *testing.T) {
	hub := startHub(t)
	client := newTestClient(hub, "c1", "host-1")
	hub.Register <- client
	receive(t, client)

	hub.Unregister <- client

	assert.Eventually(t, func() bool { return hub.ClientCount() == 0 }, time.Second, 10*time.Millisecond)
	assert.True(t, client.IsClosed())
	assert.NoError(t, hub.CanAcceptConnection("host-1"))
}

func TestHub_ConnectionLimit(t *testing.T) {
	hub := startHub(t)

	for i := range maxConnectionsPerUser {
		c := newTestClient(hub, string(rune('a'+i)), "host-1")
		hub.Register <- c
		receive(t, c)
	}

	assert.ErrorIs(t, hub.CanAcceptConnection("host-1"), ErrTooManyConnections)
	assert.NoError(t, hub.CanAcceptConnection("host-2"))
}

func TestHub_PublishWithoutClients(t *testing.T) {
	hub := startHub(t)

	assert.NotPanics(t, func() {
		hub.Publish(TypeBookingCreated, BookingCreatedPayload{BookingID: "b-1"})
	})
}

func TestHub_ShutdownNotifiesAndCloses(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := newTestClient(hub, "c1", "host-1")
	hub.Register <- client
	receive(t, client)

	hub.Shutdown()
	hub.Shutdown()

	msg := receive(t, client)
	assert.Equal(t, TypeServerShutdown, msg.Type)
	assert.True(t, client.IsClosed())
	assert.Equal(t, 0, hub.ClientCount())
}
