package repository

import (
	"context"
	"errors"
	"time"

	"github.com/omsherikar/rgipt-student-portal/internal/domain"
)

var (
	ErrUserNotFound         = errors.New("user not found")
	ErrDuplicateEmail       = errors.New("email already exists")
	ErrNotificationNotFound = errors.New("notification not found")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
}

type MessageRepository interface {
	// Create persists a new message row.
	Create(ctx context.Context, msg *domain.Message) error

	// ListBetween returns both directions of the exchange between two users,
	// oldest first.
	ListBetween(ctx context.Context, userID, otherID string) ([]*domain.Message, error)

	// ListForUser returns every message the user sent or received, newest
	// first. Conversation grouping is derived from this ordering.
	ListForUser(ctx context.Context, userID string) ([]*domain.Message, error)

	// MarkConversationRead flips the read flag on every unread message from
	// otherID addressed to readerID. Idempotent.
	MarkConversationRead(ctx context.Context, readerID, otherID string, readAt time.Time) error
}

type NotificationRepository interface {
	Create(ctx context.Context, n *domain.Notification) error
	ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error)

	// MarkRead flips the read flag on one notification owned by userID.
	// Returns ErrNotificationNotFound when it does not exist or is not theirs.
	MarkRead(ctx context.Context, id, userID string, readAt time.Time) error

	// MarkAllRead flips the read flag on every unread notification of userID.
	MarkAllRead(ctx context.Context, userID string, readAt time.Time) error
}
