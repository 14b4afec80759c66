package ws

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	sendBufferSize = 256
)

// Client is one authenticated websocket connection.
type Client struct {
	hub  *Hub
	pub  Publisher
	conn *websocket.Conn
	send chan []byte

	userID   string
	username string

	log *logrus.Entry
}

func newClient(hub *Hub, pub Publisher, conn *websocket.Conn, userID, username string, logger *logrus.Logger) *Client {
	return &Client{
		hub:      hub,
		pub:      pub,
		conn:     conn,
		send:     make(chan []byte, sendBufferSize),
		userID:   userID,
		username: username,
		log:      logger.WithFields(logrus.Fields{"component": "ws_client", "user_id": userID}),
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
	}()
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})
	for {
		_, message, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.log.WithError(err).Debug("read error")
			}
			break
		}

		var env clientEnvelope
		if err := json.Unmarshal(message, &env); err != nil {
			c.log.WithError(err).Debug("dropping malformed client message")
			continue
		}
		c.handle(env)
	}
}

func (c *Client) handle(env clientEnvelope) {
	switch env.Event {
	case EventJoinRoom:
		if env.RoomID == "" {
			return
		}
		c.hub.subscribe <- subscription{client: c, roomID: env.RoomID}
	case EventChatMessage:
		if env.RoomID == "" || env.Content == "" {
			return
		}
		// Sender identity is client-asserted, matching the observed protocol.
		payload := ChatMessagePayload{
			RoomID:         env.RoomID,
			SenderUsername: env.SenderUsername,
			Content:        env.Content,
			Timestamp:      time.Now().UTC(),
		}
		c.pub.Publish(env.RoomID, EventChatMessageReceived, payload)
	default:
		c.log.WithField("event", env.Event).Debug("ignoring unknown event")
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			if _, err := w.Write(msg); err != nil {
				return
			}
			if err := w.Close(); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
