package handler

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sandunsrimal/university-course-management/internal/dto"
	"github.com/sandunsrimal/university-course-management/internal/service"
	"github.com/sandunsrimal/university-course-management/pkg/response"
)

// AuthHandler serves /api/auth.
type AuthHandler struct {
	svc    *service.Service
	logger *zap.Logger
}

// NewAuthHandler creates the auth handler group.
func NewAuthHandler(svc *service.Service, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{svc: svc, logger: logger}
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	tokens, err := h.svc.Auth.Login(c.Request.Context(), &req)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, tokens)
}

// Refresh handles POST /api/auth/refresh.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	tokens, err := h.svc.Auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, tokens)
}

// Logout handles POST /api/auth/logout.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Auth.Logout(c.Request.Context(), currentClaims(c)); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}

// Me handles GET /api/auth/me.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.svc.Auth.GetCurrentUser(c.Request.Context(), currentUserID(c))
	if err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, user)
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	var req dto.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeBindError(c, err)
		return
	}

	if err := h.svc.Auth.ChangePassword(c.Request.Context(), currentUserID(c), &req); err != nil {
		writeServiceError(c, h.logger, err)
		return
	}
	response.OK(c, nil)
}
