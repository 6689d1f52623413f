package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/omsherikar/rgipt-student-portal/internal/config"
	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/hub"
	"github.com/omsherikar/rgipt-student-portal/internal/service"
	"github.com/omsherikar/rgipt-student-portal/pkg/jwt"
	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

type WSHandler struct {
	hub    *hub.Hub
	chat   service.ChatService
	tokens *jwt.Manager
	wsCfg  config.WebSocketConfig
}

func NewWSHandler(h *hub.Hub, chat service.ChatService, tokens *jwt.Manager, wsCfg config.WebSocketConfig) *WSHandler {
	return &WSHandler{
		hub:    h,
		chat:   chat,
		tokens: tokens,
		wsCfg:  wsCfg,
	}
}

func (h *WSHandler) RegisterRoutes(r *gin.Engine) {
	r.GET("/ws", h.HandleWebSocket)
}

// HandleWebSocket admits a session. The credential is checked before the
// upgrade: a session that fails the gate never reaches the hub or registry.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := bearerToken(c.Request)
	if token == "" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authentication token"})
		return
	}

	claims, err := h.tokens.ValidateToken(token)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	if claims.Type != "access" {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not an access token"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		l := log.Ctx(c.Request.Context())
		l.Warn().Err(err).Msg("websocket upgrade failed")
		return
	}

	identity := hub.Identity{
		UserID: claims.UserID,
		Email:  claims.Email,
		Role:   claims.Role,
	}
	client := hub.NewClient(uuid.New().String(), identity, h.hub, conn, h.wsCfg)

	h.hub.Register(client)

	// The pumps outlive this handler and Gin recycles c, so capture the
	// request context now instead of touching c from the pump callbacks.
	ctx := log.WithSession(c.Request.Context(), client.ID)
	h.chat.HandleConnect(ctx, client)

	go client.WritePump()
	go client.ReadPump(func(from *hub.Client, raw []byte) {
		h.handleEvent(ctx, from, raw)
	}, func(closed *hub.Client) {
		h.chat.HandleDisconnect(ctx, closed)
	})
}

func (h *WSHandler) handleEvent(ctx context.Context, client *hub.Client, raw []byte) {
	var base domain.BaseEvent
	if err := json.Unmarshal(raw, &base); err != nil {
		client.SendMessage(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid event format"))
		return
	}

	switch base.Type {
	case domain.EventSendMessage:
		var ev domain.SendMessageEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.SendMessage(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid send_message event"))
			return
		}
		if err := h.chat.HandleSendMessage(ctx, client, &ev); err != nil {
			l := log.Ctx(ctx)
			l.Error().Err(err).Msg("send_message failed")
		}

	case domain.EventTyping:
		var ev domain.TypingEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.SendMessage(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid typing event"))
			return
		}
		h.chat.HandleTyping(ctx, client, &ev)

	case domain.EventStopTyping:
		var ev domain.TypingEvent
		if err := json.Unmarshal(raw, &ev); err != nil {
			client.SendMessage(domain.NewErrorEvent(domain.ErrCodeBadRequest, "invalid stop_typing event"))
			return
		}
		h.chat.HandleStopTyping(ctx, client, &ev)

	case domain.EventPing:
		client.SendMessage(map[string]string{"type": domain.EventPong})

	default:
		client.SendMessage(domain.NewErrorEvent(domain.ErrCodeBadRequest, "unknown event type"))
	}
}

// bearerToken extracts the credential from the Authorization header or the
// token query parameter (browser WebSocket clients cannot set headers).
func bearerToken(r *http.Request) string {
	if auth := r.Header.Get("Authorization"); auth != "" {
		if strings.HasPrefix(auth, "Bearer ") {
			return strings.TrimPrefix(auth, "Bearer ")
		}
	}
	return r.URL.Query().Get("token")
}
