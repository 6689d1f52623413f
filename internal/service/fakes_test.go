package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/omsherikar/rgipt-student-portal/internal/cache"
	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/repository"
)

type fakeSession struct {
	id     string
	userID string
	email  string
	role   string

	mu   sync.Mutex
	sent []interface{}
}

func (s *fakeSession) SessionID() string { return s.id }
func (s *fakeSession) UserID() string    { return s.userID }
func (s *fakeSession) Email() string     { return s.email }
func (s *fakeSession) Role() string      { return s.role }

func (s *fakeSession) SendMessage(v interface{}) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sent = append(s.sent, v)
	return nil
}

func (s *fakeSession) events() []interface{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]interface{}(nil), s.sent...)
}

type pushed struct {
	userID string
	event  interface{}
}

type fakePusher struct {
	mu     sync.Mutex
	online map[string]bool
	pushes []pushed
}

func newFakePusher(onlineUsers ...string) *fakePusher {
	online := make(map[string]bool, len(onlineUsers))
	for _, id := range onlineUsers {
		online[id] = true
	}
	return &fakePusher{online: online}
}

func (p *fakePusher) PushToUser(userID string, v interface{}) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if !p.online[userID] {
		return false
	}
	p.pushes = append(p.pushes, pushed{userID: userID, event: v})
	return true
}

func (p *fakePusher) pushesFor(userID string) []interface{} {
	p.mu.Lock()
	defer p.mu.Unlock()
	var out []interface{}
	for _, ps := range p.pushes {
		if ps.userID == userID {
			out = append(out, ps.event)
		}
	}
	return out
}

type fakeUserRepo struct {
	users map[string]*domain.User
	err   error
}

func newFakeUserRepo(users ...*domain.User) *fakeUserRepo {
	r := &fakeUserRepo{users: make(map[string]*domain.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(ctx context.Context, user *domain.User) error {
	if r.err != nil {
		return r.err
	}
	r.users[user.ID] = user
	return nil
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	u, ok := r.users[id]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return u, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if r.err != nil {
		return nil, r.err
	}
	for _, u := range r.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, repository.ErrUserNotFound
}

type fakeMessageRepo struct {
	mu        sync.Mutex
	messages  []*domain.Message
	createErr error
	listErr   error
	nextID    int
}

func (r *fakeMessageRepo) Create(ctx context.Context, msg *domain.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if msg.ID == "" {
		r.nextID++
		msg.ID = fmt.Sprintf("msg-%d", r.nextID)
	}
	r.messages = append(r.messages, msg)
	return nil
}

func (r *fakeMessageRepo) ListBetween(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Message
	for _, m := range r.messages {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) ListForUser(ctx context.Context, userID string) ([]*domain.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.listErr != nil {
		return nil, r.listErr
	}
	var out []*domain.Message
	for _, m := range r.messages {
		if m.SenderID == userID || m.ReceiverID == userID {
			out = append(out, m)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (r *fakeMessageRepo) MarkConversationRead(ctx context.Context, readerID, otherID string, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, m := range r.messages {
		if m.SenderID == otherID && m.ReceiverID == readerID && !m.IsRead {
			m.IsRead = true
			at := readAt
			m.ReadAt = &at
		}
	}
	return nil
}

func (r *fakeMessageRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

type fakeNotificationRepo struct {
	mu            sync.Mutex
	notifications []*domain.Notification
	createErr     error
	nextID        int
}

func (r *fakeNotificationRepo) Create(ctx context.Context, n *domain.Notification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.createErr != nil {
		return r.createErr
	}
	if n.ID == "" {
		r.nextID++
		n.ID = fmt.Sprintf("notif-%d", r.nextID)
	}
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *fakeNotificationRepo) ListForUser(ctx context.Context, userID string, limit int) ([]*domain.Notification, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*domain.Notification
	for _, n := range r.notifications {
		if n.UserID == userID {
			out = append(out, n)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *fakeNotificationRepo) MarkRead(ctx context.Context, id, userID string, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.ID == id && n.UserID == userID {
			n.IsRead = true
			at := readAt
			n.ReadAt = &at
			return nil
		}
	}
	return repository.ErrNotificationNotFound
}

func (r *fakeNotificationRepo) MarkAllRead(ctx context.Context, userID string, readAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, n := range r.notifications {
		if n.UserID == userID && !n.IsRead {
			n.IsRead = true
			at := readAt
			n.ReadAt = &at
		}
	}
	return nil
}

func (r *fakeNotificationRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.notifications)
}

type fakeConversationCache struct {
	mu      sync.Mutex
	store   map[string]*cache.ConversationCacheResult
	getErr  error
	gets    int
	deleted []string
	setDone chan struct{}
}

func newFakeConversationCache() *fakeConversationCache {
	return &fakeConversationCache{
		store:   make(map[string]*cache.ConversationCacheResult),
		setDone: make(chan struct{}, 16),
	}
}

func (c *fakeConversationCache) Get(ctx context.Context, key string) (*cache.ConversationCacheResult, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, c.getErr
	}
	result, ok := c.store[key]
	if !ok {
		return nil, cache.ErrCacheMiss
	}
	return result, nil
}

func (c *fakeConversationCache) Set(ctx context.Context, key string, result *cache.ConversationCacheResult, ttl time.Duration) error {
	c.mu.Lock()
	c.store[key] = result
	c.mu.Unlock()
	select {
	case c.setDone <- struct{}{}:
	default:
	}
	return nil
}

func (c *fakeConversationCache) Delete(ctx context.Context, keys ...string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, key := range keys {
		delete(c.store, key)
		c.deleted = append(c.deleted, key)
	}
	return nil
}

func (c *fakeConversationCache) BuildKey(userID string) string {
	return "test:conversations:" + userID
}

func (c *fakeConversationCache) Close() error { return nil }
