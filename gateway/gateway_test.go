package gateway

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(userID, socketID string) *Client {
	return &Client{
		UserID:   userID,
		SocketID: socketID,
		send:     make(chan []byte, 16),
	}
}

func TestRegisterTracksPresence(t *testing.T) {
	hub := NewHub()
	client := newTestClient("user-1", "socket-1")

	hub.Register(client)

	assert.True(t, hub.IsOnline("user-1"))
	assert.Equal(t, []string{"user-1"}, hub.OnlineUsers())
}

func TestUnregisterDropsPresenceAndRooms(t *testing.T) {
	hub := NewHub()
	client := newTestClient("user-1", "socket-1")

	hub.Register(client)
	hub.Join(client, "channel-1")
	hub.Unregister(client)

	assert.False(t, hub.IsOnline("user-1"))
	assert.Empty(t, hub.rooms)
}

func TestUnregisterKeepsPresenceForNewerSocket(t *testing.T) {
	hub := NewHub()
	first := newTestClient("user-1", "socket-1")
	second := newTestClient("user-1", "socket-2")

	hub.Register(first)
	hub.Register(second)
	hub.Unregister(first)

	// The reconnect owns presence now, dropping the stale socket must
	// not mark the user offline.
	assert.True(t, hub.IsOnline("user-1"))
}

func TestEmitToRoomReachesSubscribersOnly(t *testing.T) {
	hub := NewHub()
	inRoom := newTestClient("user-1", "socket-1")
	outOfRoom := newTestClient("user-2", "socket-2")

	hub.Register(inRoom)
	hub.Register(outOfRoom)
	drain(inRoom)
	drain(outOfRoom)

	hub.Join(inRoom, "channel-1")
	hub.EmitToRoom("channel-1", EventNewMessage, map[string]string{"content": "zdravo"})

	payload := <-inRoom.send
	var event Event
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.Equal(t, EventNewMessage, event.Event)
	assert.Equal(t, "channel-1", event.Room)

	assert.Empty(t, outOfRoom.send)
}

func TestEmitToRoomExceptSkipsSender(t *testing.T) {
	hub := NewHub()
	sender := newTestClient("user-1", "socket-1")
	peer := newTestClient("user-2", "socket-2")

	hub.Register(sender)
	hub.Register(peer)
	hub.Join(sender, "dm-1")
	hub.Join(peer, "dm-1")
	drain(sender)
	drain(peer)

	hub.EmitToRoomExcept("dm-1", EventTyping, map[string]string{"username": "mika"}, sender)

	assert.Empty(t, sender.send)
	assert.Len(t, peer.send, 1)
}

func TestEmitToUserUsesUserRoom(t *testing.T) {
	hub := NewHub()
	client := newTestClient("user-1", "socket-1")

	hub.Register(client)
	drain(client)

	hub.EmitToUser("user-1", EventNewNotification, map[string]string{"message": "pozdrav"})

	require.Len(t, client.send, 1)
	var event Event
	require.NoError(t, json.Unmarshal(<-client.send, &event))
	assert.Equal(t, EventNewNotification, event.Event)
}

// drain empties queued presence broadcasts so tests can assert on the
// next event alone.
func drain(c *Client) {
	for {
		select {
		case <-c.send:
		default:
			return
		}
	}
}
