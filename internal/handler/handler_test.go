package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/middleware"
	"github.com/omsherikar/rgipt-student-portal/internal/repository"
	"github.com/omsherikar/rgipt-student-portal/pkg/response"
)

const testUserID = "user-1"

type fakeMessageService struct {
	messages      []*domain.Message
	conversations []*domain.Conversation
	markReadErr   error

	markedOther string
}

func (s *fakeMessageService) ListMessages(ctx context.Context, userID, otherID string) ([]*domain.Message, error) {
	return s.messages, nil
}

func (s *fakeMessageService) ListConversations(ctx context.Context, userID string) ([]*domain.Conversation, error) {
	return s.conversations, nil
}

func (s *fakeMessageService) MarkRead(ctx context.Context, readerID, otherID string) error {
	s.markedOther = otherID
	return s.markReadErr
}

type fakeNotificationService struct {
	notifications []*domain.Notification
	markReadErr   error
}

func (s *fakeNotificationService) List(ctx context.Context, userID string) ([]*domain.Notification, error) {
	return s.notifications, nil
}

func (s *fakeNotificationService) MarkRead(ctx context.Context, id, userID string) error {
	return s.markReadErr
}

func (s *fakeNotificationService) MarkAllRead(ctx context.Context, userID string) error {
	return nil
}

func (s *fakeNotificationService) Notify(ctx context.Context, userID, title, message, notifType string) error {
	return nil
}

// identity stands in for the auth middleware.
func identity() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(middleware.UserIDKey, testUserID)
		c.Next()
	}
}

func newTestRouter(msgs *fakeMessageService, notifs *fakeNotificationService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	group := r.Group("/api/v1", identity())
	if msgs != nil {
		NewMessageHandler(msgs).RegisterRoutes(group)
	}
	if notifs != nil {
		NewNotificationHandler(notifs).RegisterRoutes(group)
	}
	return r
}

func doRequest(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, *response.Response) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var resp response.Response
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("response is not the standard envelope: %v (%s)", err, w.Body.String())
	}
	return w, &resp
}

func TestListMessagesRequiresOtherUser(t *testing.T) {
	r := newTestRouter(&fakeMessageService{}, nil)

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/messages", nil)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if resp.Success || resp.Error == nil || resp.Error.Code != "BAD_REQUEST" {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestListMessages(t *testing.T) {
	svc := &fakeMessageService{
		messages: []*domain.Message{
			{ID: "m1", SenderID: testUserID, ReceiverID: "user-2", Content: "hi"},
		},
	}
	r := newTestRouter(svc, nil)

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/messages?other_user_id=user-2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	if !resp.Success {
		t.Fatalf("envelope = %+v", resp)
	}
	data, ok := resp.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("data = %#v", resp.Data)
	}
	msgs, ok := data["messages"].([]interface{})
	if !ok || len(msgs) != 1 {
		t.Errorf("messages payload = %#v", data["messages"])
	}
}

func TestListConversations(t *testing.T) {
	svc := &fakeMessageService{
		conversations: []*domain.Conversation{
			{UserID: "user-2", UnreadCount: 3},
		},
	}
	r := newTestRouter(svc, nil)

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/messages/conversations", nil)
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, envelope = %+v", w.Code, resp)
	}
}

func TestMarkMessagesRead(t *testing.T) {
	svc := &fakeMessageService{}
	r := newTestRouter(svc, nil)

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/messages/read", gin.H{"other_user_id": "user-2"})
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, envelope = %+v", w.Code, resp)
	}
	if svc.markedOther != "user-2" {
		t.Errorf("marked other = %q, want user-2", svc.markedOther)
	}

	w, resp = doRequest(t, r, http.MethodPost, "/api/v1/messages/read", gin.H{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status without other_user_id = %d, want 400", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != "BAD_REQUEST" {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestListNotifications(t *testing.T) {
	svc := &fakeNotificationService{
		notifications: []*domain.Notification{
			{ID: "n1", UserID: testUserID, Title: "New Message"},
		},
	}
	r := newTestRouter(nil, svc)

	w, resp := doRequest(t, r, http.MethodGet, "/api/v1/notifications", nil)
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, envelope = %+v", w.Code, resp)
	}
}

func TestMarkNotificationReadNotFound(t *testing.T) {
	svc := &fakeNotificationService{markReadErr: repository.ErrNotificationNotFound}
	r := newTestRouter(nil, svc)

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/notifications/n-missing/read", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != "NOT_FOUND" {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestMarkNotificationReadFailure(t *testing.T) {
	svc := &fakeNotificationService{markReadErr: errors.New("db down")}
	r := newTestRouter(nil, svc)

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/notifications/n1/read", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if resp.Error == nil || resp.Error.Code != "INTERNAL_ERROR" {
		t.Errorf("envelope = %+v", resp)
	}
}

func TestMarkAllNotificationsRead(t *testing.T) {
	r := newTestRouter(nil, &fakeNotificationService{})

	w, resp := doRequest(t, r, http.MethodPost, "/api/v1/notifications/read-all", nil)
	if w.Code != http.StatusOK || !resp.Success {
		t.Fatalf("status = %d, envelope = %+v", w.Code, resp)
	}
}
