package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/stasstaf/shopcart/internal/chat"
)

// ChatHandler upgrades requests to websockets and relays room chatter.
type ChatHandler struct {
	hub      *chat.Hub
	upgrader websocket.Upgrader
	logger   *slog.Logger
}

// NewChatHandler creates a new chat HTTP handler.
func NewChatHandler(hub *chat.Hub, logger *slog.Logger) *ChatHandler {
	return &ChatHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// No authentication in scope, so any origin may connect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		logger: logger,
	}
}

// Serve handles GET /chat/{roomName}. The connection joins the room, relays
// every received text message to the room, and leaves on disconnect.
func (h *ChatHandler) Serve(w http.ResponseWriter, r *http.Request) {
	roomName := chi.URLParam(r, "roomName")

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already written the error response.
		h.logger.Warn("websocket upgrade failed",
			slog.String("room", roomName),
			slog.String("error", err.Error()),
		)
		return
	}
	defer conn.Close()

	clientID := uuid.New().String()
	room := h.hub.Room(roomName)
	room.Join(conn, clientID)
	defer room.Leave(conn)

	for {
		msgType, message, err := conn.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		room.Say(clientID, string(message))
	}
}
