package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/omsherikar/rgipt-student-portal/internal/middleware"
	"github.com/omsherikar/rgipt-student-portal/internal/repository"
	"github.com/omsherikar/rgipt-student-portal/internal/service"
	"github.com/omsherikar/rgipt-student-portal/pkg/response"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/notifications", h.List)
	r.POST("/notifications/:id/read", h.MarkRead)
	r.POST("/notifications/read-all", h.MarkAllRead)
}

func (h *NotificationHandler) List(c *gin.Context) {
	notifications, err := h.notifications.List(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "failed to fetch notifications")
		return
	}

	response.Success(c, gin.H{"notifications": notifications})
}

func (h *NotificationHandler) MarkRead(c *gin.Context) {
	err := h.notifications.MarkRead(c.Request.Context(), c.Param("id"), middleware.UserID(c))
	if err != nil {
		if errors.Is(err, repository.ErrNotificationNotFound) {
			response.NotFound(c, "notification not found")
			return
		}
		response.InternalError(c, "failed to mark notification as read")
		return
	}

	response.Success(c, gin.H{"message": "notification marked as read"})
}

func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	if err := h.notifications.MarkAllRead(c.Request.Context(), middleware.UserID(c)); err != nil {
		response.InternalError(c, "failed to mark notifications as read")
		return
	}

	response.Success(c, gin.H{"message": "all notifications marked as read"})
}
