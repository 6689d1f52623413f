package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/omsherikar/rgipt-student-portal/internal/middleware"
	"github.com/omsherikar/rgipt-student-portal/internal/service"
	"github.com/omsherikar/rgipt-student-portal/pkg/response"
)

type MessageHandler struct {
	messages service.MessageService
}

func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/messages", h.ListMessages)
	r.GET("/messages/conversations", h.ListConversations)
	r.POST("/messages/read", h.MarkRead)
}

// ListMessages returns both directions of the exchange with one other user,
// oldest first.
func (h *MessageHandler) ListMessages(c *gin.Context) {
	otherUserID := c.Query("other_user_id")
	if otherUserID == "" {
		response.BadRequest(c, "other_user_id is required")
		return
	}

	msgs, err := h.messages.ListMessages(c.Request.Context(), middleware.UserID(c), otherUserID)
	if err != nil {
		response.InternalError(c, "failed to fetch messages")
		return
	}

	response.Success(c, gin.H{"messages": msgs})
}

func (h *MessageHandler) ListConversations(c *gin.Context) {
	conversations, err := h.messages.ListConversations(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "failed to fetch conversations")
		return
	}

	response.Success(c, gin.H{"conversations": conversations})
}

type markReadRequest struct {
	OtherUserID string `json:"other_user_id" binding:"required"`
}

func (h *MessageHandler) MarkRead(c *gin.Context) {
	var req markReadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "other_user_id is required")
		return
	}

	if err := h.messages.MarkRead(c.Request.Context(), middleware.UserID(c), req.OtherUserID); err != nil {
		response.InternalError(c, "failed to mark messages as read")
		return
	}

	response.Success(c, gin.H{"message": "messages marked as read"})
}
