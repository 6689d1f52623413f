package hub

import (
	"sync"

	"github.com/omsherikar/rgipt-student-portal/internal/registry"
	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

// Hub tracks live WebSocket sessions and routes user-addressed pushes
// through the connection registry.
type Hub struct {
	clients    map[string]*Client // session ID -> client
	register   chan *Client
	unregister chan *Client
	registry   registry.Registry
	mu         sync.RWMutex
}

func NewHub(reg registry.Registry) *Hub {
	return &Hub{
		clients:    make(map[string]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		registry:   reg,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client.ID] = client
			h.mu.Unlock()
			l := log.Component("hub")
			l.Debug().Str(log.FieldSessionID, client.ID).Str(log.FieldUserID, client.UserID()).Msg("client registered")

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client.ID]; ok {
				delete(h.clients, client.ID)
				close(client.Send)
			}
			h.mu.Unlock()
			l := log.Component("hub")
			l.Debug().Str(log.FieldSessionID, client.ID).Str(log.FieldUserID, client.UserID()).Msg("client unregistered")
		}
	}
}

func (h *Hub) Register(client *Client) {
	h.register <- client
}

func (h *Hub) Unregister(client *Client) {
	h.unregister <- client
}

// PushToUser delivers an event to the user's active session, if any.
// Returns false when the user is offline; the caller decides whether that
// matters (it never does for ephemeral signals).
func (h *Hub) PushToUser(userID string, v interface{}) bool {
	sessionID, ok := h.registry.Lookup(userID)
	if !ok {
		return false
	}

	h.mu.RLock()
	client, ok := h.clients[sessionID]
	h.mu.RUnlock()
	if !ok {
		return false
	}

	return client.SendMessage(v) == nil
}
