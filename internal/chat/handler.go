package chat

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"servicepro/internal/httpx"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type Handler struct {
	hub  *Hub
	repo *Repository
}

func NewHandler(hub *Hub, repo *Repository) *Handler {
	return &Handler{hub: hub, repo: repo}
}

// ServeWs upgrades the connection and hands a fresh session to the hub. Rooms
// are joined via joinUser events afterwards.
func (h *Handler) ServeWs(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.hub.log.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	client := newClient(uuid.New().String(), h.hub, conn)
	h.hub.register <- client

	go client.writePump()
	go client.readPump()
}

// GetRoomMessages serves GET /api/messages/{roomId}: the full room history,
// oldest first.
func (h *Handler) GetRoomMessages(w http.ResponseWriter, r *http.Request) {
	roomID := chi.URLParam(r, "roomId")

	messages, err := h.repo.ListForRoom(r.Context(), roomID)
	if err != nil {
		h.hub.log.Error().Err(err).Str("room_id", roomID).Msg("failed to fetch room messages")
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to fetch messages")
		return
	}

	httpx.OK(w, messages)
}

// GetMessageUsers serves GET /message-user: one latest message per distinct
// client sender, for the provider inbox.
func (h *Handler) GetMessageUsers(w http.ResponseWriter, r *http.Request) {
	messages, err := h.repo.LatestPerSender(r.Context(), "client")
	if err != nil {
		h.hub.log.Error().Err(err).Msg("failed to fetch latest messages")
		httpx.Error(w, http.StatusInternalServerError, httpx.CodeInternal, "Failed to fetch messages")
		return
	}

	httpx.OK(w, messages)
}
