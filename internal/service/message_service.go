package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/omsherikar/rgipt-student-portal/internal/cache"
	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/repository"
	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

type messageService struct {
	messages  repository.MessageRepository
	users     repository.UserRepository
	convCache cache.ConversationCache // nil disables caching
	cacheTTL  time.Duration
	sf        singleflight.Group
}

func NewMessageService(
	messages repository.MessageRepository,
	users repository.UserRepository,
	convCache cache.ConversationCache,
	cacheTTL time.Duration,
) MessageService {
	return &messageService{
		messages:  messages,
		users:     users,
		convCache: convCache,
		cacheTTL:  cacheTTL,
	}
}

func (s *messageService) ListMessages(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	msgs, err := s.messages.ListBetween(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	summaries, err := s.resolveSummaries(ctx, msgs)
	if err != nil {
		return nil, err
	}
	for _, m := range msgs {
		m.Sender = summaries[m.SenderID]
		m.Receiver = summaries[m.ReceiverID]
	}
	return msgs, nil
}

func (s *messageService) ListConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	if s.convCache == nil {
		return s.buildConversations(ctx, userID)
	}

	cacheKey := s.convCache.BuildKey(userID)

	// Collapse concurrent identical fetches onto one lookup.
	result, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		return s.fetchWithCache(ctx, userID, cacheKey)
	})
	if err != nil {
		return nil, err
	}

	cached, ok := result.(*cache.ConversationCacheResult)
	if !ok {
		return nil, fmt.Errorf("unexpected result type from singleflight")
	}
	return cached.Conversations, nil
}

func (s *messageService) MarkRead(ctx context.Context, readerID, otherID string) error {
	if err := s.messages.MarkConversationRead(ctx, readerID, otherID, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to mark messages read: %w", err)
	}

	if s.convCache != nil {
		if err := s.convCache.Delete(ctx, s.convCache.BuildKey(readerID)); err != nil {
			l := log.Ctx(ctx)
			l.Warn().Err(err).Msg("conversation cache invalidation failed")
		}
	}
	return nil
}

func (s *messageService) fetchWithCache(ctx context.Context, userID, cacheKey string) (*cache.ConversationCacheResult, error) {
	cached, err := s.convCache.Get(ctx, cacheKey)
	if err == nil {
		return cached, nil
	}

	if !errors.Is(err, cache.ErrCacheMiss) {
		// Log error but continue to fetch from the database.
		l := log.Ctx(ctx)
		l.Warn().Err(err).Msg("cache get error")
	}

	conversations, err := s.buildConversations(ctx, userID)
	if err != nil {
		return nil, err
	}

	result := &cache.ConversationCacheResult{Conversations: conversations}

	// Store in cache (async to avoid blocking the response).
	go func() {
		cacheCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := s.convCache.Set(cacheCtx, cacheKey, result, s.cacheTTL); err != nil {
			l := log.L()
			l.Warn().Err(err).Msg("cache set error")
		}
	}()

	return result, nil
}

// buildConversations derives the conversation projection: messages newest
// first, grouped by counterpart. The first message seen per counterpart is
// its most recent one; ties on created_at keep query order.
func (s *messageService) buildConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	msgs, err := s.messages.ListForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}

	summaries, err := s.resolveSummaries(ctx, msgs)
	if err != nil {
		return nil, err
	}

	byPartner := make(map[string]*domain.Conversation)
	var ordered []*domain.Conversation

	for _, msg := range msgs {
		partnerID := msg.ReceiverID
		if msg.SenderID != userID {
			partnerID = msg.SenderID
		}

		conv, ok := byPartner[partnerID]
		if !ok {
			msg.Sender = summaries[msg.SenderID]
			msg.Receiver = summaries[msg.ReceiverID]
			conv = &domain.Conversation{
				UserID:      partnerID,
				User:        summaries[partnerID],
				LastMessage: msg,
			}
			byPartner[partnerID] = conv
			ordered = append(ordered, conv)
		}

		if msg.ReceiverID == userID && !msg.IsRead {
			conv.UnreadCount++
		}
	}

	return ordered, nil
}

// resolveSummaries fetches the identity summary of every user referenced by
// the given messages, once each.
func (s *messageService) resolveSummaries(ctx context.Context, msgs []*domain.Message) (map[string]*domain.UserSummary, error) {
	summaries := make(map[string]*domain.UserSummary)
	for _, m := range msgs {
		for _, id := range []string{m.SenderID, m.ReceiverID} {
			if _, ok := summaries[id]; ok {
				continue
			}
			user, err := s.users.GetByID(ctx, id)
			if err != nil {
				if errors.Is(err, repository.ErrUserNotFound) {
					// Account removed out of band; keep the message visible.
					summaries[id] = &domain.UserSummary{ID: id}
					continue
				}
				return nil, fmt.Errorf("failed to resolve user %s: %w", id, err)
			}
			summaries[id] = user.Summary()
		}
	}
	return summaries, nil
}
