package server

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"classifieds-core/config"
	"classifieds-core/internal/handler"
	"classifieds-core/internal/middleware"
	"classifieds-core/internal/redis"
	"classifieds-core/internal/transport/httpdto"
	"classifieds-core/pkg/database"
	"classifieds-core/pkg/logger"

	"github.com/gin-gonic/gin"
)

type Server struct {
	httpServer  *http.Server
	engine      *gin.Engine
	config      *config.Config
	logger      *logger.Logger
	healthCheck func() error
}

var (
	ReleaseMode = "release"
	DebugMode   = "debug"
	TestMode    = "test"
)

type Handlers struct {
	Conversation *handler.ConversationHandler
	Message      *handler.MessageHandler
	Report       *handler.ReportHandler
	Notification *handler.NotificationHandler
}

func New(cfg *config.Config, l *logger.Logger) *Server {
	if cfg.AppMode == ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	} else if cfg.AppMode == TestMode {
		gin.SetMode(gin.TestMode)
	} else {
		gin.SetMode(gin.DebugMode)
	}

	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%s", cfg.AppPort),
			Handler:           engine,
			ReadHeaderTimeout: 10 * time.Second,
		},
		engine:      engine,
		config:      cfg,
		logger:      l,
		healthCheck: database.HealthCheck,
	}
}

// Engine exposes the router, mainly for tests.
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// SetHealthCheck replaces the database probe behind /health.
func (s *Server) SetHealthCheck(fn func() error) {
	s.healthCheck = fn
}

// SetupRoutes registers every route. A nil limiter disables rate limiting.
func (s *Server) SetupRoutes(handlers *Handlers, verifier *middleware.TokenVerifier, limiter *redis.RateLimiter) {
	s.engine.Use(middleware.RequestIDMiddleware())
	s.engine.Use(middleware.LoggingMiddleware(s.logger))
	s.engine.Use(middleware.ErrorHandler(s.logger))

	s.engine.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"message": "pong"}))
	})

	s.engine.GET("/health", func(c *gin.Context) {
		if err := s.healthCheck(); err != nil {
			c.JSON(http.StatusServiceUnavailable, httpdto.NewErrorResponse("database unavailable", "UNHEALTHY"))
			return
		}
		c.JSON(http.StatusOK, httpdto.NewSuccessResponse(gin.H{"status": "healthy"}))
	})

	v1 := s.engine.Group("/v1", middleware.AuthMiddleware(verifier))

	conversations := v1.Group("/conversations")
	{
		conversations.POST("", handlers.Conversation.Start)
		conversations.GET("", handlers.Conversation.List)
		conversations.GET("/:id", handlers.Conversation.Get)
		conversations.POST("/:id/messages", middleware.MessageRateLimitMiddleware(limiter), handlers.Message.Append)
		conversations.GET("/:id/messages", handlers.Message.List)
		conversations.POST("/:id/read", handlers.Message.MarkRead)
		conversations.POST("/:id/delivered", handlers.Message.MarkDelivered)
	}

	v1.POST("/messages", middleware.MessageRateLimitMiddleware(limiter), handlers.Message.Send)

	v1.POST("/reports", middleware.ReportRateLimitMiddleware(limiter), handlers.Report.Create)
	v1.GET("/me/reports", handlers.Report.ListMine)

	notifications := v1.Group("/notifications")
	{
		notifications.GET("", handlers.Notification.List)
		notifications.GET("/unread-count", handlers.Notification.UnreadCount)
		notifications.POST("/read-all", handlers.Notification.MarkAllRead)
		notifications.POST("/:id/read", handlers.Notification.MarkRead)
	}

	admin := v1.Group("/admin", middleware.AdminOnly(), middleware.AdminRateLimitMiddleware(limiter))
	{
		admin.GET("/reports", handlers.Report.List)
		admin.GET("/reports/:id", handlers.Report.Get)
		admin.PATCH("/reports/:id", handlers.Report.Resolve)
	}
}

func (s *Server) Start() error {
	go func() {
		if s.logger != nil {
			s.logger.Infof("Starting the server on port %s...", s.config.AppPort)
		}
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			if s.logger != nil {
				s.logger.Errorf("Error in starting the server: %s", err)
			}
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGTERM, syscall.SIGINT)

	<-quit

	if s.logger != nil {
		s.logger.Infof("Quitting signal received.. Shutting down after 5 seconds")
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		if s.logger != nil {
			s.logger.Infof("Error in the graceful shutdown of the server: %s", err)
		}
		return err
	}

	if s.logger != nil {
		s.logger.Infof("Server stopped gracefully")
	}

	return nil
}
