package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"studylog/internal/handler"
	"studylog/internal/middleware"
	"studylog/internal/models"
	"studylog/internal/notifier"
	"studylog/internal/repository"
	"studylog/internal/service"
	"studylog/internal/throttle"
	"studylog/internal/token"
)

type Server struct {
	router *gin.Engine
	log    *zap.Logger
}

// NewServer wires repositories, services and handlers onto the router.
func NewServer(db *sqlx.DB, codec *token.Codec, loginThrottle *throttle.LoginThrottle, alerts notifier.Notifier, log *zap.Logger) *Server {
	s := &Server{
		router: gin.Default(),
		log:    log,
	}

	// Repositories
	userRepo := repository.NewUserRepository(db, log)
	postRepo := repository.NewPostRepository(db, log)
	commentRepo := repository.NewCommentRepository(db, log)
	likeRepo := repository.NewLikeRepository(db, log)
	bookmarkRepo := repository.NewBookmarkRepository(db, log)
	followRepo := repository.NewFollowRepository(db, log)

	// Services
	authService := service.NewAuthService(userRepo, codec, loginThrottle, alerts, log)
	postService := service.NewPostService(postRepo, commentRepo, likeRepo, bookmarkRepo, log)
	userService := service.NewUserService(userRepo, followRepo, log)

	// Handlers
	authHandler := handler.NewAuthHandler(authService, log)
	postHandler := handler.NewPostHandler(postService, log)
	userHandler := handler.NewUserHandler(userService, postService, log)
	adminHandler := handler.NewAdminHandler(userService, authService, log)

	s.setupRoutes(codec, userRepo, authHandler, postHandler, userHandler, adminHandler)
	return s
}

func (s *Server) setupRoutes(codec *token.Codec, users middleware.UserResolver,
	authHandler handler.AuthHandler, postHandler handler.PostHandler,
	userHandler handler.UserHandler, adminHandler handler.AdminHandler) {

	// Ping route for health check
	s.router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// The authenticator runs on every /api route and never rejects by
	// itself; the guards on the groups below do.
	api := s.router.Group("/api")
	api.Use(middleware.Authenticate(codec, users, s.log))

	// Public: registration and login (login carries its own throttle)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// Public reads
	api.GET("/users/:username", userHandler.Profile)
	api.GET("/users/:username/posts", userHandler.Posts)
	api.GET("/users/:username/followers", userHandler.Followers)
	api.GET("/users/:username/following", userHandler.Following)
	api.GET("/posts/:id", postHandler.Get)
	api.GET("/posts/:id/comments", postHandler.ListComments)

	// Authenticated perimeter
	authed := api.Group("")
	authed.Use(middleware.RequireAuth())
	{
		authed.GET("/auth/me", authHandler.Me)
		authed.PUT("/profile", userHandler.UpdateProfile)

		authed.GET("/feed", postHandler.Feed)
		authed.POST("/posts", postHandler.Create)
		authed.PUT("/posts/:id", postHandler.Update)
		authed.DELETE("/posts/:id", postHandler.Delete)

		authed.POST("/posts/:id/like", postHandler.Like)
		authed.DELETE("/posts/:id/like", postHandler.Unlike)
		authed.POST("/posts/:id/bookmark", postHandler.Bookmark)
		authed.DELETE("/posts/:id/bookmark", postHandler.Unbookmark)
		authed.GET("/bookmarks", postHandler.Bookmarks)

		authed.POST("/posts/:id/comments", postHandler.AddComment)
		authed.DELETE("/comments/:commentId", postHandler.DeleteComment)

		authed.POST("/users/:username/follow", userHandler.Follow)
		authed.DELETE("/users/:username/follow", userHandler.Unfollow)
	}

	// Admin surface
	admin := api.Group("/admin")
	admin.Use(middleware.RequireRole(models.RoleAdmin))
	{
		admin.PUT("/users/:id/enabled", adminHandler.SetUserEnabled)
		admin.POST("/throttle/reset", adminHandler.ResetThrottle)
		admin.DELETE("/throttle", adminHandler.ClearThrottle)
	}
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Run(addr string) {
	s.log.Info("Server starting", zap.String("addr", addr))
	if err := s.router.Run(addr); err != nil {
		s.log.Fatal("Server failed to start", zap.Error(err))
	}
}
