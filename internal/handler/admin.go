package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studylog/internal/service"
)

// AdminHandler exposes the operational surface: disabling accounts and
// clearing login-throttle state (manual unblocking).
type AdminHandler interface {
	SetUserEnabled(c *gin.Context)
	ResetThrottle(c *gin.Context)
	ClearThrottle(c *gin.Context)
}

type adminHandler struct {
	userService service.UserService
	authService service.AuthService
	log         *zap.Logger
}

func NewAdminHandler(userService service.UserService, authService service.AuthService, log *zap.Logger) AdminHandler {
	return &adminHandler{userService: userService, authService: authService, log: log}
}

type SetEnabledRequest struct {
	Enabled *bool `json:"enabled" binding:"required"`
}

type ResetThrottleRequest struct {
	Key string `json:"key" binding:"required"`
}

func (h *adminHandler) SetUserEnabled(c *gin.Context) {
	var req SetEnabledRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.userService.SetEnabled(c.Param("id"), *req.Enabled); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		h.log.Error("Failed to update user enabled flag", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *adminHandler) ResetThrottle(c *gin.Context) {
	var req ResetThrottleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	h.authService.ResetThrottle(req.Key)
	c.Status(http.StatusNoContent)
}

func (h *adminHandler) ClearThrottle(c *gin.Context) {
	h.authService.ClearThrottle()
	c.Status(http.StatusNoContent)
}
