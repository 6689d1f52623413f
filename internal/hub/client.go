package hub

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"

	"github.com/omsherikar/rgipt-student-portal/internal/config"
	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

// Identity is the authenticated user attached to a session for its lifetime.
type Identity struct {
	UserID string
	Email  string
	Role   string
}

// Client is one live WebSocket connection from an authenticated user.
type Client struct {
	ID       string // session ID
	Identity Identity
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	config   config.WebSocketConfig
}

func NewClient(id string, identity Identity, hub *Hub, conn *websocket.Conn, cfg config.WebSocketConfig) *Client {
	return &Client{
		ID:       id,
		Identity: identity,
		Hub:      hub,
		Conn:     conn,
		Send:     make(chan []byte, 256),
		config:   cfg,
	}
}

// SessionID implements service.Session.
func (c *Client) SessionID() string { return c.ID }

// UserID implements service.Session.
func (c *Client) UserID() string { return c.Identity.UserID }

// Email implements service.Session.
func (c *Client) Email() string { return c.Identity.Email }

// Role implements service.Session.
func (c *Client) Role() string { return c.Identity.Role }

// ReadPump reads events from the connection and dispatches them to onEvent.
// onClose runs exactly once when the connection terminates for any reason.
func (c *Client) ReadPump(onEvent func(*Client, []byte), onClose func(*Client)) {
	defer func() {
		onClose(c)
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.config.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.config.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				l := log.Component("hub")
				l.Warn().Err(err).Str(log.FieldSessionID, c.ID).Msg("websocket read error")
			}
			break
		}

		onEvent(c, message)
	}
}

// WritePump flushes queued events to the connection and keeps it alive
// with periodic pings.
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.config.PingInterval)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			w, err := c.Conn.NextWriter(websocket.TextMessage)
			if err != nil {
				return
			}
			w.Write(message)

			if err := w.Close(); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.config.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// SendMessage queues an event for delivery on this session. A session whose
// send buffer is full drops the event; delivery is best-effort.
func (c *Client) SendMessage(v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}

	select {
	case c.Send <- data:
	default:
	}
	return nil
}
