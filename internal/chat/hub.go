package chat

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/gorilla/websocket"
)

// Hub tracks chat rooms by name, creating them on demand. Rooms are never
// torn down; an empty room is a map entry holding no connections.
type Hub struct {
	mu     sync.Mutex
	rooms  map[string]*Room
	logger *slog.Logger
}

// NewHub creates an empty hub.
func NewHub(logger *slog.Logger) *Hub {
	return &Hub{
		rooms:  make(map[string]*Room),
		logger: logger,
	}
}

// Room returns the room with the given name, creating it if needed.
func (h *Hub) Room(name string) *Room {
	h.mu.Lock()
	defer h.mu.Unlock()

	room, ok := h.rooms[name]
	if !ok {
		room = &Room{
			name:    name,
			members: make(map[*websocket.Conn]string),
			logger:  h.logger.With(slog.String("room", name)),
		}
		h.rooms[name] = room
	}
	return room
}

// Room fans messages out to its current members. Delivery is best-effort:
// a member whose write fails is skipped, and there is no ordering guarantee
// across rooms.
type Room struct {
	name    string
	mu      sync.Mutex
	members map[*websocket.Conn]string
	logger  *slog.Logger
}

// Join registers the connection under the client id and announces it.
func (r *Room) Join(conn *websocket.Conn, clientID string) {
	r.mu.Lock()
	r.members[conn] = clientID
	r.mu.Unlock()

	r.Broadcast(fmt.Sprintf("Client %s has joined the room.", clientID))

	r.logger.Info("client joined", slog.String("client_id", clientID))
}

// Leave removes the connection and announces the departure to the remaining
// members.
func (r *Room) Leave(conn *websocket.Conn) {
	r.mu.Lock()
	clientID, ok := r.members[conn]
	delete(r.members, conn)
	r.mu.Unlock()

	if !ok {
		return
	}

	r.Broadcast(fmt.Sprintf("Client %s has left the room.", clientID))

	r.logger.Info("client left", slog.String("client_id", clientID))
}

// Say broadcasts a chat message from the given client.
func (r *Room) Say(clientID, message string) {
	r.Broadcast(fmt.Sprintf("Client %s: %s", clientID, message))
}

// Broadcast sends a text message to every currently connected member.
// Writes are serialized under the room lock; the websocket package allows a
// single concurrent writer per connection.
func (r *Room) Broadcast(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for conn, clientID := range r.members {
		if err := conn.WriteMessage(websocket.TextMessage, []byte(message)); err != nil {
			r.logger.Warn("broadcast write failed",
				slog.String("client_id", clientID),
				slog.String("error", err.Error()),
			)
		}
	}
}

// Size returns the number of currently connected members.
func (r *Room) Size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.members)
}
