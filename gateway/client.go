package gateway

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/MrSirThe1st/collaboration-sub001/logging"
	"github.com/MrSirThe1st/collaboration-sub001/utils"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// Client is one WebSocket connection belonging to an authenticated user.
type Client struct {
	UserID   string
	Username string
	SocketID string

	hub  *Hub
	conn *websocket.Conn
	send chan []byte
}

// ServeWS upgrades the connection. The token travels as a query parameter
// because browsers cannot set headers on WebSocket handshakes.
func ServeWS(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := r.URL.Query().Get("token")
		claims, err := utils.ValidateToken(token)
		if err != nil {
			utils.WriteError(w, http.StatusUnauthorized, "Invalid token")
			return
		}

		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logging.Logger.Errorf("Event ID: WS_UPGRADE_FAILED, Description: %v", err)
			return
		}

		client := &Client{
			UserID:   claims.UserID,
			Username: claims.Username,
			SocketID: uuid.New().String(),
			hub:      hub,
			conn:     conn,
			send:     make(chan []byte, 256),
		}

		hub.Register(client)

		go client.writePump()
		go client.readPump()
	}
}

func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
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
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logging.Logger.Warnf("Event ID: WS_READ_ERROR, Description: %v", err)
			}
			return
		}

		var ev Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			continue
		}
		c.handleEvent(ev)
	}
}

func (c *Client) handleEvent(ev Event) {
	switch ev.Event {
	case EventJoinChannel, EventJoinDM:
		c.hub.Join(c, ev.Room)
	case EventLeaveChannel, EventLeaveDM:
		c.hub.Leave(c, ev.Room)
	case EventTyping:
		data := map[string]string{"userId": c.UserID, "username": c.Username}
		c.hub.EmitToRoomExcept(ev.Room, EventTyping, data, c)
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
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
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
