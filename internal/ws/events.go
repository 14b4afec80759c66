package ws

import (
	"encoding/json"
	"time"

	"github.com/roomloop/roomloop-backend/internal/membership"
)

// Event names mirror the channel protocol the frontend speaks.
const (
	EventJoinRoom            = "join_room"
	EventChatMessage         = "chat:message"
	EventChatMessageReceived = "chat:message_received"
	EventParticipantUpdated  = "room:participant_updated"
)

const (
	ActionJoined = "joined"
	ActionLeft   = "left"
)

// clientEnvelope is what a connected client sends: an event name plus the
// fields that event uses.
type clientEnvelope struct {
	Event          string `json:"event"`
	RoomID         string `json:"roomId"`
	Content        string `json:"content"`
	SenderUsername string `json:"senderUsername"`
}

// Event is a server-to-client message routed through the hub (and, between
// instances, through the Redis bridge). RoomID scopes delivery.
type Event struct {
	RoomID  string          `json:"roomId"`
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

// ChatMessagePayload is broadcast for every chat message. The sender identity
// is taken from the client payload as-is; it is not re-verified against the
// connection's authenticated user.
type ChatMessagePayload struct {
	RoomID         string    `json:"roomId"`
	SenderUsername string    `json:"senderUsername"`
	Content        string    `json:"content"`
	Timestamp      time.Time `json:"timestamp"`
}

// ParticipantUpdatePayload is broadcast after every successful join or leave.
type ParticipantUpdatePayload struct {
	RoomID              string                   `json:"roomId"`
	UserID              string                   `json:"userId"`
	Username            string                   `json:"username"`
	Action              string                   `json:"action"`
	NewParticipantCount int                      `json:"newParticipantCount"`
	NewParticipantList  []membership.Participant `json:"newParticipantList"`
}

// Publisher delivers a room-scoped event to all interested subscribers.
// Publishing happens after the owning mutation has committed; a failed
// publish is logged and never rolls the mutation back.
type Publisher interface {
	Publish(roomID, event string, payload interface{})
}
