package cache

import (
	"context"
	"errors"
	"time"

	"github.com/omsherikar/rgipt-student-portal/internal/domain"
)

var ErrCacheMiss = errors.New("cache miss")

// ConversationCacheResult is the cached shape of a conversation listing.
type ConversationCacheResult struct {
	Conversations []*domain.Conversation `json:"conversations"`
}

// ConversationCache is a read-side cache for conversation listings. Entries
// are invalidated whenever a send or mark-read touches the listing.
type ConversationCache interface {
	Get(ctx context.Context, key string) (*ConversationCacheResult, error)
	Set(ctx context.Context, key string, result *ConversationCacheResult, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	BuildKey(userID string) string
	Close() error
}
