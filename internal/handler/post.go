package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"studylog/internal/middleware"
	"studylog/internal/service"
)

type PostHandler interface {
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	Feed(c *gin.Context)

	Like(c *gin.Context)
	Unlike(c *gin.Context)
	Bookmark(c *gin.Context)
	Unbookmark(c *gin.Context)
	Bookmarks(c *gin.Context)

	AddComment(c *gin.Context)
	ListComments(c *gin.Context)
	DeleteComment(c *gin.Context)
}

type postHandler struct {
	postService service.PostService
	log         *zap.Logger
}

func NewPostHandler(postService service.PostService, log *zap.Logger) PostHandler {
	return &postHandler{postService: postService, log: log}
}

type PostRequest struct {
	Body string `json:"body" binding:"required,max=4000"`
}

type CommentRequest struct {
	Body string `json:"body" binding:"required,max=1000"`
}

// mapPostErr translates service sentinels into HTTP statuses shared by
// every post endpoint.
func (h *postHandler) mapPostErr(c *gin.Context, err error, action string) {
	switch {
	case errors.Is(err, service.ErrPostNotFound), errors.Is(err, service.ErrCommentNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotOwner):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		h.log.Error("Post operation failed", zap.String("action", action), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}

func (h *postHandler) Create(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := middleware.PrincipalFromContext(c)
	post, err := h.postService.CreatePost(p.UserID, req.Body)
	if err != nil {
		h.mapPostErr(c, err, "create")
		return
	}
	c.JSON(http.StatusCreated, post)
}

func (h *postHandler) Get(c *gin.Context) {
	post, err := h.postService.GetPost(c.Param("id"))
	if err != nil {
		h.mapPostErr(c, err, "get")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) Update(c *gin.Context) {
	var req PostRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := middleware.PrincipalFromContext(c)
	post, err := h.postService.UpdatePost(p.UserID, c.Param("id"), req.Body)
	if err != nil {
		h.mapPostErr(c, err, "update")
		return
	}
	c.JSON(http.StatusOK, post)
}

func (h *postHandler) Delete(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.postService.DeletePost(p.UserID, c.Param("id")); err != nil {
		h.mapPostErr(c, err, "delete")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *postHandler) Feed(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	limit, offset := pagination(c)
	posts, err := h.postService.Feed(p.UserID, limit, offset)
	if err != nil {
		h.mapPostErr(c, err, "feed")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "limit": limit, "offset": offset})
}

func (h *postHandler) Like(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.postService.Like(p.UserID, c.Param("id")); err != nil {
		h.mapPostErr(c, err, "like")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *postHandler) Unlike(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.postService.Unlike(p.UserID, c.Param("id")); err != nil {
		h.mapPostErr(c, err, "unlike")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *postHandler) Bookmark(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.postService.Bookmark(p.UserID, c.Param("id")); err != nil {
		h.mapPostErr(c, err, "bookmark")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *postHandler) Unbookmark(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.postService.Unbookmark(p.UserID, c.Param("id")); err != nil {
		h.mapPostErr(c, err, "unbookmark")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *postHandler) Bookmarks(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	limit, offset := pagination(c)
	posts, err := h.postService.Bookmarks(p.UserID, limit, offset)
	if err != nil {
		h.mapPostErr(c, err, "bookmarks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"posts": posts, "limit": limit, "offset": offset})
}

func (h *postHandler) AddComment(c *gin.Context) {
	var req CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	p := middleware.PrincipalFromContext(c)
	comment, err := h.postService.AddComment(p.UserID, c.Param("id"), req.Body)
	if err != nil {
		h.mapPostErr(c, err, "comment")
		return
	}
	c.JSON(http.StatusCreated, comment)
}

func (h *postHandler) ListComments(c *gin.Context) {
	limit, offset := pagination(c)
	comments, err := h.postService.ListComments(c.Param("id"), limit, offset)
	if err != nil {
		h.mapPostErr(c, err, "list comments")
		return
	}
	c.JSON(http.StatusOK, gin.H{"comments": comments, "limit": limit, "offset": offset})
}

func (h *postHandler) DeleteComment(c *gin.Context) {
	p := middleware.PrincipalFromContext(c)
	if err := h.postService.DeleteComment(p.UserID, c.Param("commentId")); err != nil {
		h.mapPostErr(c, err, "delete comment")
		return
	}
	c.Status(http.StatusNoContent)
}
