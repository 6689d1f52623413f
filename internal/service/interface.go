package service

import (
	"context"

	"github.com/omsherikar/rgipt-student-portal/internal/domain"
)

// Session is one live authenticated transport connection. *hub.Client
// implements it; tests substitute fakes.
type Session interface {
	SessionID() string
	UserID() string
	Email() string
	Role() string
	SendMessage(v interface{}) error
}

// Pusher delivers an event to a user's active session, if any. Returns
// false when the user has no registered session.
type Pusher interface {
	PushToUser(userID string, v interface{}) bool
}

// ChatService handles the WebSocket event flow: session lifecycle, message
// fan-out and typing signals.
type ChatService interface {
	HandleConnect(ctx context.Context, s Session)
	HandleDisconnect(ctx context.Context, s Session)
	HandleSendMessage(ctx context.Context, s Session, ev *domain.SendMessageEvent) error
	HandleTyping(ctx context.Context, s Session, ev *domain.TypingEvent)
	HandleStopTyping(ctx context.Context, s Session, ev *domain.TypingEvent)
}

// MessageService serves the query side: history, conversation projections
// and read acknowledgments.
type MessageService interface {
	ListMessages(ctx context.Context, userID, otherID string) ([]*domain.Message, error)
	ListConversations(ctx context.Context, userID string) ([]*domain.Conversation, error)
	MarkRead(ctx context.Context, readerID, otherID string) error
}

// NotificationService serves the notification feed and lets collaborators
// raise notifications with best-effort push.
type NotificationService interface {
	List(ctx context.Context, userID string) ([]*domain.Notification, error)
	MarkRead(ctx context.Context, id, userID string) error
	MarkAllRead(ctx context.Context, userID string) error
	Notify(ctx context.Context, userID, title, message, notifType string) error
}

// AuthService issues and revokes credentials for portal accounts.
type AuthService interface {
	Login(ctx context.Context, req *domain.LoginRequest) (*domain.AuthResponse, error)
	Refresh(ctx context.Context, refreshToken string) (*domain.AuthResponse, error)
	Logout(ctx context.Context, userID string)
	GetProfile(ctx context.Context, userID string) (*domain.UserSummary, error)
}
