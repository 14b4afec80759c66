package ws

import (
	"encoding/json"

	"github.com/sirupsen/logrus"
)

// Scope selects how events are delivered.
type Scope string

const (
	// ScopeRoom delivers events only to clients subscribed to the room.
	ScopeRoom Scope = "room"
	// ScopeGlobal delivers every event to every connected client. This
	// reproduces a behavior one observed version shipped; room scoping is
	// the correct choice and the default.
	ScopeGlobal Scope = "global"
)

type subscription struct {
	client *Client
	roomID string
}

// Hub owns all websocket clients on this instance and routes events to them.
// All state is confined to the Run goroutine.
type Hub struct {
	scope Scope

	register   chan *Client
	unregister chan *Client
	subscribe  chan subscription
	events     chan Event

	clients map[*Client]struct{}
	rooms   map[string]map[*Client]struct{}

	log *logrus.Entry
}

func NewHub(scope Scope, logger *logrus.Logger) *Hub {
	if scope != ScopeGlobal {
		scope = ScopeRoom
	}
	return &Hub{
		scope:      scope,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		subscribe:  make(chan subscription),
		events:     make(chan Event, 256),
		clients:    make(map[*Client]struct{}),
		rooms:      make(map[string]map[*Client]struct{}),
		log:        logger.WithField("component", "ws_hub"),
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = struct{}{}
		case client := <-h.unregister:
			h.drop(client)
		case sub := <-h.subscribe:
			if _, ok := h.clients[sub.client]; !ok {
				continue
			}
			if h.rooms[sub.roomID] == nil {
				h.rooms[sub.roomID] = make(map[*Client]struct{})
			}
			h.rooms[sub.roomID][sub.client] = struct{}{}
		case ev := <-h.events:
			h.deliver(ev)
		}
	}
}

func (h *Hub) deliver(ev Event) {
	data, err := json.Marshal(struct {
		Event   string          `json:"event"`
		Payload json.RawMessage `json:"payload"`
	}{Event: ev.Name, Payload: ev.Payload})
	if err != nil {
		h.log.WithError(err).Error("failed to marshal outbound event")
		return
	}

	var targets map[*Client]struct{}
	if h.scope == ScopeGlobal {
		targets = h.clients
	} else {
		targets = h.rooms[ev.RoomID]
	}

	for client := range targets {
		select {
		case client.send <- data:
		default:
			// Slow consumer: drop the connection rather than block the hub.
			h.drop(client)
		}
	}
}

func (h *Hub) drop(client *Client) {
	if _, ok := h.clients[client]; !ok {
		return
	}
	delete(h.clients, client)
	close(client.send)
	if client.conn != nil {
		client.conn.Close()
	}
	for roomID, members := range h.rooms {
		delete(members, client)
		if len(members) == 0 {
			delete(h.rooms, roomID)
		}
	}
}

// Publish marshals payload and hands the event to the Run loop for local
// delivery. When a Redis bridge is configured it takes over this role so
// every instance sees the event.
func (h *Hub) Publish(roomID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.WithError(err).WithField("event", event).Error("failed to marshal event payload")
		return
	}
	h.Dispatch(Event{RoomID: roomID, Name: event, Payload: data})
}

// Dispatch feeds an already-encoded event into the delivery loop.
func (h *Hub) Dispatch(ev Event) {
	select {
	case h.events <- ev:
	default:
		h.log.WithField("event", ev.Name).Warn("event queue full, dropping event")
	}
}
