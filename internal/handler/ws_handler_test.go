package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/omsherikar/rgipt-student-portal/internal/config"
	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/hub"
	"github.com/omsherikar/rgipt-student-portal/internal/registry"
	"github.com/omsherikar/rgipt-student-portal/internal/service"
	"github.com/omsherikar/rgipt-student-portal/pkg/jwt"
)

type fakeChatService struct {
	connected    chan service.Session
	disconnected chan service.Session
}

func newFakeChatService() *fakeChatService {
	return &fakeChatService{
		connected:    make(chan service.Session, 1),
		disconnected: make(chan service.Session, 1),
	}
}

func (s *fakeChatService) HandleConnect(ctx context.Context, sess service.Session) {
	s.connected <- sess
}

func (s *fakeChatService) HandleDisconnect(ctx context.Context, sess service.Session) {
	s.disconnected <- sess
}

func (s *fakeChatService) HandleSendMessage(ctx context.Context, sess service.Session, ev *domain.SendMessageEvent) error {
	return nil
}

func (s *fakeChatService) HandleTyping(ctx context.Context, sess service.Session, ev *domain.TypingEvent) {
}

func (s *fakeChatService) HandleStopTyping(ctx context.Context, sess service.Session, ev *domain.TypingEvent) {
}

func newWSServer(t *testing.T) (*httptest.Server, *fakeChatService, *jwt.Manager) {
	t.Helper()

	tokens, err := jwt.NewManager("test-secret", 15*time.Minute, time.Hour, "test")
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}

	wsHub := hub.NewHub(registry.NewMemoryRegistry())
	go wsHub.Run()

	chat := newFakeChatService()
	wsCfg := config.WebSocketConfig{
		PingInterval:   30 * time.Second,
		PongWait:       60 * time.Second,
		WriteWait:      10 * time.Second,
		MaxMessageSize: 4096,
	}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewWSHandler(wsHub, chat, tokens, wsCfg).RegisterRoutes(r)

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv, chat, tokens
}

func wsURL(srv *httptest.Server, token string) string {
	u := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
	if token != "" {
		u += "?token=" + token
	}
	return u
}

func TestWebSocketGate(t *testing.T) {
	srv, _, tokens := newWSServer(t)

	_, refresh, _, _, err := tokens.GenerateTokenPair("user-1", "user@rgipt.ac.in", "STUDENT")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	tests := []struct {
		name  string
		token string
	}{
		{"missing token", ""},
		{"garbage token", "not.a.jwt"},
		{"refresh token rejected", refresh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conn, resp, err := websocket.DefaultDialer.Dial(wsURL(srv, tt.token), nil)
			if err == nil {
				conn.Close()
				t.Fatal("dial succeeded, want rejection before upgrade")
			}
			if resp == nil || resp.StatusCode != http.StatusUnauthorized {
				t.Fatalf("handshake response = %+v, want 401", resp)
			}
		})
	}
}

func TestWebSocketSessionLifecycle(t *testing.T) {
	srv, chat, tokens := newWSServer(t)

	access, _, _, _, err := tokens.GenerateTokenPair("user-1", "user@rgipt.ac.in", "STUDENT")
	if err != nil {
		t.Fatalf("GenerateTokenPair: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(wsURL(srv, access), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}

	var sess service.Session
	select {
	case sess = <-chat.connected:
	case <-time.After(2 * time.Second):
		t.Fatal("connect callback never fired")
	}
	if sess.UserID() != "user-1" || sess.Email() != "user@rgipt.ac.in" {
		t.Errorf("session identity = %q/%q", sess.UserID(), sess.Email())
	}

	// The event loop answers pings long after the HTTP handler returned.
	if err := conn.WriteJSON(map[string]string{"type": domain.EventPing}); err != nil {
		t.Fatalf("WriteJSON: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, raw, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	var pong map[string]string
	if err := json.Unmarshal(raw, &pong); err != nil {
		t.Fatalf("pong payload: %v (%s)", err, raw)
	}
	if pong["type"] != domain.EventPong {
		t.Errorf("reply type = %q, want %q", pong["type"], domain.EventPong)
	}

	conn.Close()

	select {
	case closed := <-chat.disconnected:
		if closed.SessionID() != sess.SessionID() {
			t.Errorf("disconnected session %q, want %q", closed.SessionID(), sess.SessionID())
		}
	case <-time.After(2 * time.Second):
		t.Fatal("disconnect callback never fired")
	}
}
