package chat

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"
)

// MessageStore persists chat messages. Satisfied by *Repository.
type MessageStore interface {
	Save(ctx context.Context, msg *Message) error
}

// Publisher fans a stamped room event out to every instance, including this
// one. Satisfied by *RedisBus.
type Publisher interface {
	Publish(ctx context.Context, payload []byte) error
}

// roomEvent is the cross-instance wire format on the pub/sub channel.
type roomEvent struct {
	RoomID string          `json:"roomId"`
	Data   json.RawMessage `json:"data"`
}

type joinRequest struct {
	client *Client
	roomID string
}

type inbound struct {
	client  *Client
	payload *SendPayload
}

// notification is a direct event for one session, routed through the hub
// goroutine so writes to a send channel never race its close.
type notification struct {
	client *Client
	event  interface{}
}

// Hub is the room registry and relay. All membership state is confined to the
// Run goroutine; rooms materialize on first join and disappear when their
// member set empties. Nothing here survives a restart.
type Hub struct {
	clients map[*Client]bool
	rooms   map[string]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	join       chan joinRequest
	ingress    chan inbound
	broadcast  chan roomEvent
	notify     chan notification

	store MessageStore
	pub   Publisher
	log   zerolog.Logger
}

func NewHub(store MessageStore, pub Publisher, log zerolog.Logger) *Hub {
	return &Hub{
		clients:    make(map[*Client]bool),
		rooms:      make(map[string]map[*Client]bool),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		join:       make(chan joinRequest),
		ingress:    make(chan inbound),
		broadcast:  make(chan roomEvent, 256),
		notify:     make(chan notification, 64),
		store:      store,
		pub:        pub,
		log:        log,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.clients[client] = true
			h.log.Debug().Str("client_id", client.ID).Msg("client connected")

		case client := <-h.unregister:
			h.removeClient(client)

		case req := <-h.join:
			h.handleJoin(req)

		case msg := <-h.ingress:
			h.handleSend(msg)

		case ev := <-h.broadcast:
			h.handleBroadcast(ev)

		case n := <-h.notify:
			if h.clients[n.client] {
				n.client.enqueue(n.event)
			}
		}
	}
}

// Deliver feeds a room event into the fan-out path. Called by the pub/sub
// subscriber.
func (h *Hub) Deliver(roomID string, data []byte) {
	h.broadcast <- roomEvent{RoomID: roomID, Data: data}
}

func (h *Hub) handleJoin(req joinRequest) {
	if !h.clients[req.client] {
		return
	}

	room, ok := h.rooms[req.roomID]
	if !ok {
		room = make(map[*Client]bool)
		h.rooms[req.roomID] = room
	}
	room[req.client] = true
	req.client.rooms[req.roomID] = true

	h.log.Info().Str("client_id", req.client.ID).Str("room_id", req.roomID).Msg("client joined room")

	// Ack goes to the joining session only, never the room.
	req.client.enqueue(&ConnectedEvent{Event: EventConnected, RoomID: req.roomID})
}

// handleSend persists the stamped message and only then hands it to the
// publisher. A failed insert is acknowledged back to the sender instead of
// being dropped on the floor.
func (h *Hub) handleSend(in inbound) {
	msg := in.payload.toMessage(time.Now().UTC())

	if err := h.store.Save(context.Background(), msg); err != nil {
		h.log.Error().Err(err).Str("room_id", msg.RoomID).Msg("failed to persist message")
		if h.clients[in.client] {
			in.client.enqueue(newErrorEvent(ErrCodeStore, "Message could not be saved"))
		}
		return
	}

	data, err := json.Marshal(&ReceiveEvent{Event: EventReceiveMessage, Message: msg})
	if err != nil {
		h.log.Error().Err(err).Msg("failed to encode message event")
		return
	}

	payload, _ := json.Marshal(roomEvent{RoomID: msg.RoomID, Data: data})
	if err := h.pub.Publish(context.Background(), payload); err != nil {
		h.log.Error().Err(err).Str("room_id", msg.RoomID).Msg("failed to publish message")
		if h.clients[in.client] {
			in.client.enqueue(newErrorEvent(ErrCodeStore, "Message saved but not delivered"))
		}
	}
}

func (h *Hub) handleBroadcast(ev roomEvent) {
	room, ok := h.rooms[ev.RoomID]
	if !ok {
		return
	}

	for client := range room {
		select {
		case client.send <- ev.Data:
		default:
			// Slow or dead consumer; best-effort delivery means it gets cut
			// loose rather than stalling the room.
			h.removeClient(client)
		}
	}
}

func (h *Hub) removeClient(client *Client) {
	if !h.clients[client] {
		return
	}

	for roomID := range client.rooms {
		if room, ok := h.rooms[roomID]; ok {
			delete(room, client)
			if len(room) == 0 {
				delete(h.rooms, roomID)
			}
		}
	}

	delete(h.clients, client)
	close(client.send)
	h.log.Debug().Str("client_id", client.ID).Msg("client disconnected")
}
