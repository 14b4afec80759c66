package realtime

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/roomloop/roomloop-backend/internal/ws"
)

// eventsChannel is the single Redis pub/sub channel all instances share.
// Room scoping happens in each instance's hub, not in the channel name.
const eventsChannel = "roomloop:events"

// Bridge fans room events out through Redis so that every running instance
// delivers them to its own websocket clients. It implements ws.Publisher.
type Bridge struct {
	rdb *redis.Client
	hub *ws.Hub
	log *logrus.Entry
}

func NewBridge(rdb *redis.Client, hub *ws.Hub, logger *logrus.Logger) *Bridge {
	return &Bridge{
		rdb: rdb,
		hub: hub,
		log: logger.WithField("component", "realtime_bridge"),
	}
}

// Publish sends the event through Redis. Delivery to local clients happens
// when Run receives it back, same as for events from other instances. The
// owning mutation has already committed, so a failed publish is only logged.
func (b *Bridge) Publish(roomID, event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		b.log.WithError(err).WithField("event", event).Error("failed to marshal event payload")
		return
	}
	ev := ws.Event{RoomID: roomID, Name: event, Payload: data}
	msg, err := json.Marshal(ev)
	if err != nil {
		b.log.WithError(err).WithField("event", event).Error("failed to marshal event")
		return
	}
	if err := b.rdb.Publish(context.Background(), eventsChannel, msg).Err(); err != nil {
		b.log.WithError(err).WithField("event", event).Error("failed to publish event")
	}
}

// Run subscribes to the shared channel and feeds received events into the
// local hub. It returns when ctx is cancelled.
func (b *Bridge) Run(ctx context.Context) {
	pubsub := b.rdb.Subscribe(ctx, eventsChannel)
	defer pubsub.Close()

	ch := pubsub.Channel()
	for {
		select {
		case <-ctx.Done():
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			var ev ws.Event
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				b.log.WithError(err).Error("failed to decode event from redis")
				continue
			}
			b.hub.Dispatch(ev)
		}
	}
}
