package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studylog/internal/middleware"
	"studylog/internal/service"
)

type UserHandler interface {
	Profile(c *gin.Context)
	UpdateProfile(c *gin.Context)
	Posts(c *gin.Context)
	Follow(c *gin.Context)
	Unfollow(c *gin.Context)
	Followers(c *gin.Context)
	Following(c *gin.Context)
}

type userHandler struct {
	userService service.UserService
	postService service.PostService
	log         *zap.Logger
}

func NewUserHandler(userService service.UserService, postService service.PostService, log *zap.Logger) UserHandler {
	return &userHandler{userService: userService, postService: postService, log: log}
}

type UpdateProfileRequest struct {
	DisplayName string `json:"display_name" binding:"required,max=64"`
	Bio         string `json:"bio" binding:"max=500"`
}

func (h *userHandler) mapUserErr(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrSelfFollow):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.log.Error("User operation failed", zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *userHandler) Profile(c *gin.Context) {
	profile, err := h.userService.Profile(c.Param("username"))
	if err != nil {
		h.mapUserErr(c, err, "profile")
		return
	}
	c.JSON(http.StatusOK, profile)
}

func (h *userHandler) UpdateProfile(c *gin.Context) {
	var req UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := middleware.PrincipalFromContext(c)
	if err := h.userService.UpdateProfile(p.UserID, req.DisplayName, req.Bio); err != nil {
		h.mapUserErr(c, err, "update profile")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *userHandler) Posts(c *gin.Context) {
	profile, err := h.userService.Profile(c.Param("username"))
	if err != nil {
		h.mapUserErr(c, err, "posts")
		return
	}
	limit, offset := pagination(c)
	posts, err := h.postService.ListByAuthor(profile.User.ID, limit, offset)
	if err != nil {
		h.mapUserErr(c, err, "posts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "limit": limit, "offset": offset})
}

func (h *userHandler) Follow(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.userService.Follow(p.UserID, c.Param("username")); err != nil {
		h.mapUserErr(c, err, "follow")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *userHandler) Unfollow(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.userService.Unfollow(p.UserID, c.Param("username")); err != nil {
		h.mapUserErr(c, err, "unfollow")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *userHandler) Followers(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.userService.Followers(c.Param("username"), limit, offset)
	if err != nil {
		h.mapUserErr(c, err, "followers")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "limit": limit, "offset": offset})
}

func (h *userHandler) Following(c *gin.Context) {
	limit, offset := pagination(c)
	users, err := h.userService.Following(c.Param("username"), limit, offset)
	if err != nil {
		h.mapUserErr(c, err, "following")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users, "limit": limit, "offset": offset})
}
