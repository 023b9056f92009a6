package main

import (
	"context"
	"log"
	"time"

	"classifieds-core/config"
	"classifieds-core/internal/events"
	"classifieds-core/internal/handler"
	"classifieds-core/internal/middleware"
	"classifieds-core/internal/outbox"
	"classifieds-core/internal/redis"
	"classifieds-core/internal/repository"
	"classifieds-core/internal/server"
	"classifieds-core/internal/services"
	"classifieds-core/pkg/database"
	"classifieds-core/pkg/logger"

	"github.com/getsentry/sentry-go"
)

func main() {
	cfg := config.LoadConfig()

	appLogger := logger.New(cfg.AppMode)
	logger.SetGlobalLogger(appLogger)
	defer appLogger.Sync()

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			EnableTracing:    true,
			TracesSampleRate: 0.2,
			Environment:      cfg.AppMode,
		}); err != nil {
			appLogger.Errorf("sentry init failed: %v", err)
		} else {
			defer sentry.Flush(2 * time.Second)
		}
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer database.Close()

	store := repository.NewStore(db)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var limiter *redis.RateLimiter
	redisClient, err := redis.NewClient(ctx, redis.Config{
		Host:     cfg.RedisHost,
		Port:     cfg.RedisPort,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		// rate limiting and the outbox relay stay off; events remain PENDING
		appLogger.Warnf("redis unavailable: %v", err)
	} else {
		defer redisClient.Close()

		limits := redis.DefaultRateLimitConfig()
		if cfg.ReportLimitPerHour > 0 {
			limits.ReportLimit = cfg.ReportLimitPerHour
		}
		if cfg.AdminActionLimit > 0 {
			limits.AdminLimit = cfg.AdminActionLimit
		}
		if cfg.MessageLimitPerMin > 0 {
			limits.MessageLimit = cfg.MessageLimitPerMin
		}
		limiter = redis.NewRateLimiter(redisClient, limits)

		processor := outbox.NewProcessor(
			store.Outbox(),
			redis.NewPublisher(redisClient),
			events.NewAudienceChannelResolver(),
			appLogger,
			cfg.OutboxBatchSize,
			cfg.OutboxInterval,
			cfg.OutboxMaxRetries,
		)
		outbox.NewRunner(processor).Start(ctx)
	}

	opts := []services.Option{services.WithLogger(appLogger)}
	notificationService := services.NewNotificationService(store, opts...)
	conversationService := services.NewConversationService(store, opts...)
	messageService := services.NewMessageService(store, conversationService, notificationService, opts...)
	moderationService := services.NewModerationService(store, notificationService,
		time.Duration(cfg.DuplicateReportHours)*time.Hour, opts...)

	srv := server.New(cfg, appLogger)
	srv.SetupRoutes(&server.Handlers{
		Conversation: handler.NewConversationHandler(conversationService),
		Message:      handler.NewMessageHandler(messageService),
		Report:       handler.NewReportHandler(moderationService),
		Notification: handler.NewNotificationHandler(notificationService),
	}, middleware.NewTokenVerifier(cfg.JWTSecret), limiter)

	if err := srv.Start(); err != nil {
		appLogger.Errorf("server stopped with error: %v", err)
	}
}
