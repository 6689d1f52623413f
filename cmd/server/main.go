package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/omsherikar/rgipt-student-portal/internal/cache"
	"github.com/omsherikar/rgipt-student-portal/internal/config"
	"github.com/omsherikar/rgipt-student-portal/internal/domain"
	"github.com/omsherikar/rgipt-student-portal/internal/handler"
	"github.com/omsherikar/rgipt-student-portal/internal/hub"
	"github.com/omsherikar/rgipt-student-portal/internal/middleware"
	"github.com/omsherikar/rgipt-student-portal/internal/registry"
	"github.com/omsherikar/rgipt-student-portal/internal/repository"
	"github.com/omsherikar/rgipt-student-portal/internal/service"
	"github.com/omsherikar/rgipt-student-portal/pkg/database"
	"github.com/omsherikar/rgipt-student-portal/pkg/jwt"
	"github.com/omsherikar/rgipt-student-portal/pkg/log"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log.Init(cfg.Log)
	l := log.L()

	if cfg.JWT.Secret == "" {
		l.Fatal().Msg("JWT_SECRET must be set")
	}

	db, err := database.New(&cfg.Database)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to connect to database")
	}
	if err := database.AutoMigrate(db, &domain.User{}, &domain.Message{}, &domain.Notification{}); err != nil {
		l.Fatal().Err(err).Msg("database migration failed")
	}
	l.Info().Str("driver", cfg.Database.Driver).Msg("connected to database")

	tokens, err := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.AccessDuration, cfg.JWT.RefreshDuration, cfg.JWT.Issuer)
	if err != nil {
		l.Fatal().Err(err).Msg("failed to initialize token manager")
	}

	var convCache cache.ConversationCache
	if cfg.Redis.Enabled {
		rc, err := cache.NewRedisConversationCache(cfg.Redis)
		if err != nil {
			l.Fatal().Err(err).Msg("failed to connect to redis")
		}
		defer rc.Close()
		convCache = rc
		l.Info().Str("address", cfg.Redis.Address).Msg("connected to redis")
	}

	userRepo := repository.NewGormUserRepository(db)
	messageRepo := repository.NewGormMessageRepository(db)
	notificationRepo := repository.NewGormNotificationRepository(db)

	reg := registry.NewMemoryRegistry()
	wsHub := hub.NewHub(reg)
	go wsHub.Run()

	chatSvc := service.NewChatService(reg, wsHub, messageRepo, notificationRepo, userRepo, convCache)
	messageSvc := service.NewMessageService(messageRepo, userRepo, convCache, cfg.Redis.ConversationTTL)
	notificationSvc := service.NewNotificationService(notificationRepo, wsHub)
	authSvc := service.NewAuthService(userRepo, tokens)

	authMW := middleware.NewAuthMiddleware(tokens)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(log.GinMiddleware(l))

	handler.NewWSHandler(wsHub, chatSvc, tokens, cfg.WebSocket).RegisterRoutes(r)

	api := r.Group("/api/v1")
	handler.NewAuthHandler(authSvc, authMW).RegisterRoutes(api)

	authed := api.Group("", authMW.RequireAuth())
	handler.NewMessageHandler(messageSvc).RegisterRoutes(authed)
	handler.NewNotificationHandler(notificationSvc).RegisterRoutes(authed)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	server := &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		l.Info().Str("addr", server.Addr).Msg("student portal messaging service listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			l.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	l.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		l.Error().Err(err).Msg("server forced to shutdown")
	}

	l.Info().Msg("stopped")
}
