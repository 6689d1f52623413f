package domain

// WebSocket event types from client.
const (
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"
	EventPing        = "ping"
)

// WebSocket event types to client.
const (
	EventNewMessage      = "new_message"
	EventMessageSent     = "message_sent"
	EventNewNotification = "new_notification"
	EventUserTyping      = "user_typing"
	EventUserStopTyping  = "user_stop_typing"
	EventError           = "error"
	EventPong            = "pong"
)

// Error codes
const (
	ErrCodeBadRequest        = "BAD_REQUEST"
	ErrCodeRecipientNotFound = "RECIPIENT_NOT_FOUND"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// BaseEvent is the envelope every WebSocket event carries.
type BaseEvent struct {
	Type string `json:"type"`
}

// Client -> Server events

type SendMessageEvent struct {
	Type       string  `json:"type"`
	ReceiverID string  `json:"receiver_id"`
	Content    string  `json:"content"`
	Kind       string  `json:"kind,omitempty"` // TEXT (default) or FILE
	FileURL    *string `json:"file_url,omitempty"`
}

type TypingEvent struct {
	Type       string `json:"type"`
	ReceiverID string `json:"receiver_id"`
}

// Server -> Client events

type NewMessageEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message"`
}

type MessageSentEvent struct {
	Type    string   `json:"type"`
	Message *Message `json:"message"`
}

type NewNotificationEvent struct {
	Type    string `json:"type"`
	Title   string `json:"title"`
	Message string `json:"message"`
}

type UserTypingEvent struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
	Email  string `json:"email"`
}

type UserStopTypingEvent struct {
	Type   string `json:"type"`
	UserID string `json:"user_id"`
}

type ErrorEvent struct {
	Type    string `json:"type"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func NewErrorEvent(code, message string) *ErrorEvent {
	return &ErrorEvent{
		Type:    EventError,
		Code:    code,
		Message: message,
	}
}
