package chat

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second    // Time allowed to write a message to the peer.
	pongWait       = 60 * time.Second    // Time allowed to read the next pong message from the peer.
	pingPeriod     = (pongWait * 9) / 10 // Send pings to peer with this period. Must be less than pongWait.
	maxMessageSize = 4096                // Maximum event size allowed from peer.
)

// Client is the middleman between one websocket connection and the hub: the
// ephemeral session handle.
type Client struct {
	ID   string
	hub  *Hub
	conn *websocket.Conn
	send chan []byte

	// rooms this session belongs to; touched only by the hub goroutine.
	rooms map[string]bool
}

func newClient(id string, hub *Hub, conn *websocket.Conn) *Client {
	return &Client{
		ID:    id,
		hub:   hub,
		conn:  conn,
		send:  make(chan []byte, 256),
		rooms: make(map[string]bool),
	}
}

// enqueue marshals an event onto the send buffer, dropping it when the buffer
// is full. Must only be called from the hub goroutine.
func (c *Client) enqueue(event interface{}) {
	data, err := json.Marshal(event)
	if err != nil {
		return
	}
	select {
	case c.send <- data:
	default:
	}
}

// readPump pumps events from the websocket connection into the hub. One
// goroutine per connection, so events from a single session dispatch in order.
func (c *Client) readPump() {
	defer func() {
		c.hub.unregister <- c
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.log.Warn().Err(err).Str("client_id", c.ID).Msg("websocket read error")
			}
			break
		}
		c.dispatch(raw)
	}
}

func (c *Client) dispatch(raw []byte) {
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		c.hub.notify <- notification{c, newErrorEvent(ErrCodeBadPayload, "Invalid event format")}
		return
	}

	switch env.Event {
	case EventJoinUser:
		var p JoinPayload
		if err := json.Unmarshal(raw, &p); err != nil || p.RoomID == "" {
			c.hub.notify <- notification{c, newErrorEvent(ErrCodeBadPayload, "roomId is required")}
			return
		}
		c.hub.join <- joinRequest{client: c, roomID: p.RoomID}

	case EventSendMessage:
		var p SendPayload
		if err := json.Unmarshal(raw, &p); err != nil {
			c.hub.notify <- notification{c, newErrorEvent(ErrCodeBadPayload, "Invalid send_message payload")}
			return
		}
		if err := p.Validate(); err != nil {
			c.hub.notify <- notification{c, newErrorEvent(ErrCodeBadPayload, err.Error())}
			return
		}
		c.hub.ingress <- inbound{client: c, payload: &p}

	default:
		c.hub.notify <- notification{c, newErrorEvent(ErrCodeBadPayload, "Unknown event: "+env.Event)}
	}
}

// writePump pumps events from the hub to the websocket connection.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			// Flush any queued events in the same frame batch.
			n := len(c.send)
			for i := 0; i < n; i++ {
				w.Write([]byte{'\n'})
				w.Write(<-c.send)
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
