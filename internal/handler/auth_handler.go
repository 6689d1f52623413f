package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/middleware"
	"github.com/omsherikar/rgipt-student-portal/internal/service"
	"github.com/omsherikar/rgipt-student-portal/pkg/jwt"
	"github.com/omsherikar/rgipt-student-portal/pkg/response"
)

type AuthHandler struct {
	auth service.AuthService
	mw   *middleware.AuthMiddleware
}

func NewAuthHandler(auth service.AuthService, mw *middleware.AuthMiddleware) *AuthHandler {
	return &AuthHandler{auth: auth, mw: mw}
}

func (h *AuthHandler) RegisterRoutes(r *gin.RouterGroup) {
	r.POST("/auth/login", h.Login)
	r.POST("/auth/refresh", h.Refresh)
	r.POST("/auth/logout", h.mw.RequireAuth(), h.Logout)
	r.GET("/auth/me", h.mw.RequireAuth(), h.Me)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req domain.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "email and password are required")
		return
	}

	resp, err := h.auth.Login(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			response.Unauthorized(c, "invalid email or password")
			return
		}
		response.InternalError(c, "login failed")
		return
	}

	response.Success(c, resp)
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req domain.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "refresh_token is required")
		return
	}

	resp, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, jwt.ErrInvalidToken) || errors.Is(err, jwt.ErrExpiredToken) || errors.Is(err, jwt.ErrRevokedToken) {
			response.Unauthorized(c, err.Error())
			return
		}
		response.InternalError(c, "token refresh failed")
		return
	}

	response.Success(c, resp)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	h.auth.Logout(c.Request.Context(), middleware.UserID(c))
	response.Success(c, gin.H{"message": "logged out"})
}

func (h *AuthHandler) Me(c *gin.Context) {
	profile, err := h.auth.GetProfile(c.Request.Context(), middleware.UserID(c))
	if err != nil {
		response.InternalError(c, "failed to fetch profile")
		return
	}

	response.Success(c, profile)
}
