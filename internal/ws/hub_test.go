package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)
	return logger
}

func testClient(buffer int) *Client {
	return &Client{send: make(chan []byte, buffer)}
}

func recvEvent(t *testing.T, c *Client) (string, json.RawMessage) {
	t.Helper()
	select {
	case data, ok := <-c.send:
		require.True(t, ok, "send channel closed unexpectedly")
		var out struct {
			Event   string          `json:"event"`
			Payload json.RawMessage `json:"payload"`
		}
		require.NoError(t, json.Unmarshal(data, &out))
		return out.Event, out.Payload
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return "", nil
	}
}

func assertNoEvent(t *testing.T, c *Client) {
	t.Helper()
	select {
	case data, ok := <-c.send:
		if ok {
			t.Fatalf("unexpected event delivered: %s", data)
		}
	case <-time.After(50 * time.Millisecond):
	}
}

func TestHub_RoomScopedDelivery(t *testing.T) {
	hub := NewHub(ScopeRoom, testLogger())
	go hub.Run()

	inRoom := testClient(8)
	otherRoom := testClient(8)
	unsubscribed := testClient(8)

	hub.register <- inRoom
	hub.register <- otherRoom
	hub.register <- unsubscribed
	hub.subscribe <- subscription{client: inRoom, roomID: "room-a"}
	hub.subscribe <- subscription{client: otherRoom, roomID: "room-b"}

	hub.Publish("room-a", EventChatMessageReceived, ChatMessagePayload{
		RoomID:         "room-a",
		SenderUsername: "ada",
		Content:        "hello",
	})

	name, payload := recvEvent(t, inRoom)
	assert.Equal(t, EventChatMessageReceived, name)

	var msg ChatMessagePayload
	require.NoError(t, json.Unmarshal(payload, &msg))
	assert.Equal(t, "ada", msg.SenderUsername)
	assert.Equal(t, "hello", msg.Content)

	assertNoEvent(t, otherRoom)
	assertNoEvent(t, unsubscribed)
}

func TestHub_GlobalScopeDeliversToEveryone(t *testing.T) {
	hub := NewHub(ScopeGlobal, testLogger())
	go hub.Run()

	subscribed := testClient(8)
	stranger := testClient(8)

	hub.register <- subscribed
	hub.register <- stranger
	hub.subscribe <- subscription{client: subscribed, roomID: "room-a"}

	hub.Publish("room-a", EventParticipantUpdated, ParticipantUpdatePayload{RoomID: "room-a", Action: ActionJoined})

	name, _ := recvEvent(t, subscribed)
	assert.Equal(t, EventParticipantUpdated, name)
	name, _ = recvEvent(t, stranger)
	assert.Equal(t, EventParticipantUpdated, name)
}

func TestHub_UnknownScopeFallsBackToRoom(t *testing.T) {
	hub := NewHub(Scope("banana"), testLogger())
	assert.Equal(t, ScopeRoom, hub.scope)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := NewHub(ScopeRoom, testLogger())
	go hub.Run()

	slow := testClient(1)
	hub.register <- slow
	hub.subscribe <- subscription{client: slow, roomID: "room-a"}

	// First event fills the buffer, second finds it full and drops the
	// client instead of blocking the hub.
	hub.Publish("room-a", EventChatMessageReceived, ChatMessagePayload{Content: "one"})
	require.Eventually(t, func() bool { return len(slow.send) == 1 }, time.Second, time.Millisecond)
	hub.Publish("room-a", EventChatMessageReceived, ChatMessagePayload{Content: "two"})

	name, _ := recvEvent(t, slow)
	assert.Equal(t, EventChatMessageReceived, name)

	select {
	case _, ok := <-slow.send:
		assert.False(t, ok, "send channel should be closed after drop")
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}

func TestHub_UnregisterStopsDelivery(t *testing.T) {
	hub := NewHub(ScopeRoom, testLogger())
	go hub.Run()

	c := testClient(8)
	hub.register <- c
	hub.subscribe <- subscription{client: c, roomID: "room-a"}
	hub.unregister <- c

	hub.Publish("room-a", EventChatMessageReceived, ChatMessagePayload{Content: "late"})

	select {
	case data, ok := <-c.send:
		assert.False(t, ok, "expected closed channel, got %s", data)
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for channel close")
	}
}
