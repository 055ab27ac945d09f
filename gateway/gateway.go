// Package gateway fans out domain events to connected clients over
// WebSocket. Rooms are plain ids: a user id, a channel id, or a
// conversation id. Delivery is best-effort, nothing is queued or retried;
// the notification documents are the only durable record.
package gateway

import (
	"encoding/json"
	"sync"

	"github.com/MrSirThe1st/collaboration-sub001/logging"
)

// Server-to-client event names.
const (
	EventNewMessage          = "new_message"
	EventMessageUpdate       = "message_update"
	EventMessageDeleted      = "message_deleted"
	EventNewNotification     = "new_notification"
	EventNewInvitation       = "new_invitation"
	EventNewAnnouncement     = "new_announcement"
	EventAnnouncementDeleted = "announcement_deleted"
	EventOnlineUsers         = "getOnlineUsers"
	EventConversationDeleted = "conversation_deleted"
	EventTyping              = "typing"
)

// Client-to-server event names.
const (
	EventJoinChannel  = "join_channel"
	EventLeaveChannel = "leave_channel"
	EventJoinDM       = "join_dm"
	EventLeaveDM      = "leave_dm"
)

// Event is the wire format in both directions.
type Event struct {
	Event string          `json:"event"`
	Room  string          `json:"room,omitempty"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Hub tracks connected clients, their room subscriptions, and which users
// are online. Everything here is process-local state, rebuilt from scratch
// as connections come and go.
type Hub struct {
	mu       sync.RWMutex
	clients  map[*Client]bool
	rooms    map[string]map[*Client]bool
	presence map[string]string // user id -> last socket id
}

func NewHub() *Hub {
	return &Hub{
		clients:  make(map[*Client]bool),
		rooms:    make(map[string]map[*Client]bool),
		presence: make(map[string]string),
	}
}

// Register adds a connected client, joins it to its own user room, and
// broadcasts the new presence list.
func (h *Hub) Register(c *Client) {
	h.mu.Lock()
	h.clients[c] = true
	h.presence[c.UserID] = c.SocketID
	h.joinLocked(c, c.UserID)
	h.mu.Unlock()

	logging.Logger.Infof("Event ID: WS_CONNECTED, Description: user %s connected with socket %s", c.UserID, c.SocketID)
	h.BroadcastOnlineUsers()
}

// Unregister drops a client from every room and prunes presence if this
// was the user's last known socket.
func (h *Hub) Unregister(c *Client) {
	h.mu.Lock()
	if _, ok := h.clients[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.clients, c)
	for room, members := range h.rooms {
		if members[c] {
			delete(members, c)
			if len(members) == 0 {
				delete(h.rooms, room)
			}
		}
	}
	if h.presence[c.UserID] == c.SocketID {
		delete(h.presence, c.UserID)
	}
	close(c.send)
	h.mu.Unlock()

	logging.Logger.Infof("Event ID: WS_DISCONNECTED, Description: user %s disconnected from socket %s", c.UserID, c.SocketID)
	h.BroadcastOnlineUsers()
}

// Join subscribes a client to a room.
func (h *Hub) Join(c *Client, room string) {
	if room == "" {
		return
	}
	h.mu.Lock()
	h.joinLocked(c, room)
	h.mu.Unlock()
}

func (h *Hub) joinLocked(c *Client, room string) {
	if h.rooms[room] == nil {
		h.rooms[room] = make(map[*Client]bool)
	}
	h.rooms[room][c] = true
}

// Leave unsubscribes a client from a room.
func (h *Hub) Leave(c *Client, room string) {
	h.mu.Lock()
	if members, ok := h.rooms[room]; ok {
		delete(members, c)
		if len(members) == 0 {
			delete(h.rooms, room)
		}
	}
	h.mu.Unlock()
}

// EmitToRoom sends an event to every subscriber of a room. Clients whose
// send buffer is full are skipped.
func (h *Hub) EmitToRoom(room, event string, data interface{}) {
	payload, err := marshalEvent(event, room, data)
	if err != nil {
		logging.Logger.Errorf("Event ID: WS_MARSHAL_FAILED, Description: failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		select {
		case c.send <- payload:
		default:
		}
	}
}

// EmitToRoomExcept works like EmitToRoom but skips one client, used to
// relay typing indicators without echoing them to the sender.
func (h *Hub) EmitToRoomExcept(room, event string, data interface{}, except *Client) {
	payload, err := marshalEvent(event, room, data)
	if err != nil {
		logging.Logger.Errorf("Event ID: WS_MARSHAL_FAILED, Description: failed to marshal %s event: %v", event, err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[room] {
		if c == except {
			continue
		}
		select {
		case c.send <- payload:
		default:
		}
	}
}

// EmitToUser sends an event to the user's own room.
func (h *Hub) EmitToUser(userID, event string, data interface{}) {
	h.EmitToRoom(userID, event, data)
}

// OnlineUsers returns the ids of users with a live connection.
func (h *Hub) OnlineUsers() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	users := make([]string, 0, len(h.presence))
	for id := range h.presence {
		users = append(users, id)
	}
	return users
}

// IsOnline reports whether the user currently has a socket registered.
func (h *Hub) IsOnline(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	_, ok := h.presence[userID]
	return ok
}

// BroadcastOnlineUsers pushes the current presence list to every client.
func (h *Hub) BroadcastOnlineUsers() {
	payload, err := marshalEvent(EventOnlineUsers, "", h.OnlineUsers())
	if err != nil {
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients {
		select {
		case c.send <- payload:
		default:
		}
	}
}

func marshalEvent(event, room string, data interface{}) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return json.Marshal(Event{Event: event, Room: room, Data: raw})
}
