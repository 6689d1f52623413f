package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/omsherikar/rgipt-student-portal/internal/audit"
	"github.com/omsherikar/rgipt-student-portal/internal/cache"
	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/registry"
	"github.com/omsherikar/rgipt-student-portal/internal/repository"
	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

const newMessageTitle = "New Message"

type chatService struct {
	registry      registry.Registry
	pusher        Pusher
	messages      repository.MessageRepository
	notifications repository.NotificationRepository
	users         repository.UserRepository
	convCache     cache.ConversationCache // nil disables invalidation
}

func NewChatService(
	reg registry.Registry,
	pusher Pusher,
	messages repository.MessageRepository,
	notifications repository.NotificationRepository,
	users repository.UserRepository,
	convCache cache.ConversationCache,
) ChatService {
	return &chatService{
		registry:      reg,
		pusher:        pusher,
		messages:      messages,
		notifications: notifications,
		users:         users,
		convCache:     convCache,
	}
}

func (s *chatService) HandleConnect(ctx context.Context, sess Session) {
	s.registry.Register(sess.UserID(), sess.SessionID())

	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldUserID, sess.UserID()).
		Str(log.FieldEmail, sess.Email()).
		Msg("user connected")
}

func (s *chatService) HandleDisconnect(ctx context.Context, sess Session) {
	s.registry.Unregister(sess.UserID(), sess.SessionID())

	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldUserID, sess.UserID()).
		Str(log.FieldEmail, sess.Email()).
		Msg("user disconnected")
}

func (s *chatService) HandleSendMessage(ctx context.Context, sess Session, ev *domain.SendMessageEvent) error {
	if ev.ReceiverID == "" || ev.Content == "" {
		sess.SendMessage(domain.NewErrorEvent(domain.ErrCodeBadRequest, "receiver_id and content are required"))
		return nil
	}
	if ev.ReceiverID == sess.UserID() {
		sess.SendMessage(domain.NewErrorEvent(domain.ErrCodeBadRequest, "cannot send a message to yourself"))
		return nil
	}

	kind := ev.Kind
	if kind == "" {
		kind = domain.MessageKindText
	}
	if kind != domain.MessageKindText && kind != domain.MessageKindFile {
		sess.SendMessage(domain.NewErrorEvent(domain.ErrCodeBadRequest, "kind must be TEXT or FILE"))
		return nil
	}

	l := log.Ctx(ctx)

	receiver, err := s.users.GetByID(ctx, ev.ReceiverID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			sess.SendMessage(domain.NewErrorEvent(domain.ErrCodeRecipientNotFound, "recipient does not exist"))
			return nil
		}
		l.Error().Err(err).Str(log.FieldReceiverID, ev.ReceiverID).Msg("recipient lookup failed")
		sess.SendMessage(domain.NewErrorEvent(domain.ErrCodeInternalError, "Failed to send message"))
		return err
	}

	sender, err := s.users.GetByID(ctx, sess.UserID())
	if err != nil {
		l.Error().Err(err).Msg("sender lookup failed")
		sess.SendMessage(domain.NewErrorEvent(domain.ErrCodeInternalError, "Failed to send message"))
		return err
	}

	msg := &domain.Message{
		SenderID:   sess.UserID(),
		ReceiverID: ev.ReceiverID,
		Content:    ev.Content,
		Kind:       kind,
		FileURL:    ev.FileURL,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.messages.Create(ctx, msg); err != nil {
		l.Error().Err(err).Msg("message persistence failed")
		sess.SendMessage(domain.NewErrorEvent(domain.ErrCodeInternalError, "Failed to send message"))
		return err
	}

	notification := &domain.Notification{
		UserID:    ev.ReceiverID,
		Title:     newMessageTitle,
		Message:   fmt.Sprintf("You have a new message from %s", sender.Email),
		Type:      domain.NotificationInfo,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notifications.Create(ctx, notification); err != nil {
		l.Error().Err(err).Msg("notification persistence failed")
		sess.SendMessage(domain.NewErrorEvent(domain.ErrCodeInternalError, "Failed to send message"))
		return err
	}

	msg.Sender = sender.Summary()
	msg.Receiver = receiver.Summary()

	s.invalidateConversations(ctx, msg.SenderID, msg.ReceiverID)

	// Best-effort delivery: the rows above are the durable record; an
	// offline receiver picks them up on the next fetch.
	s.pusher.PushToUser(ev.ReceiverID, &domain.NewMessageEvent{
		Type:    domain.EventNewMessage,
		Message: msg,
	})
	s.pusher.PushToUser(ev.ReceiverID, &domain.NewNotificationEvent{
		Type:    domain.EventNewNotification,
		Title:   notification.Title,
		Message: notification.Message,
	})

	sess.SendMessage(&domain.MessageSentEvent{
		Type:    domain.EventMessageSent,
		Message: msg,
	})

	audit.LogWithTarget(ctx, audit.ActionMessageSent, sess.UserID(), ev.ReceiverID, "message sent")
	return nil
}

func (s *chatService) HandleTyping(ctx context.Context, sess Session, ev *domain.TypingEvent) {
	if ev.ReceiverID == "" {
		return
	}
	s.pusher.PushToUser(ev.ReceiverID, &domain.UserTypingEvent{
		Type:   domain.EventUserTyping,
		UserID: sess.UserID(),
		Email:  sess.Email(),
	})
}

func (s *chatService) HandleStopTyping(ctx context.Context, sess Session, ev *domain.TypingEvent) {
	if ev.ReceiverID == "" {
		return
	}
	s.pusher.PushToUser(ev.ReceiverID, &domain.UserStopTypingEvent{
		Type:   domain.EventUserStopTyping,
		UserID: sess.UserID(),
	})
}

func (s *chatService) invalidateConversations(ctx context.Context, userIDs ...string) {
	if s.convCache == nil {
		return
	}
	keys := make([]string, 0, len(userIDs))
	for _, id := range userIDs {
		keys = append(keys, s.convCache.BuildKey(id))
	}
	if err := s.convCache.Delete(ctx, keys...); err != nil {
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("conversation cache invalidation failed")
	}
}
